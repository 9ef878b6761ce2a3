package compress

import (
	"io"

	"github.com/klauspost/compress/flate"
)

// deflateBackend uses klauspost/compress/flate, a faster drop-in
// replacement for the standard library's DEFLATE implementation.
type deflateBackend struct{}

func (deflateBackend) NewEncoder(dst io.Writer) (Encoder, error) {
	return flate.NewWriter(dst, flate.DefaultCompression)
}

func (deflateBackend) NewDecoder(src io.Reader) (Decoder, error) {
	return flate.NewReader(src), nil
}
