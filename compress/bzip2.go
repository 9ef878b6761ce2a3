package compress

import (
	"io"

	"github.com/dsnet/compress/bzip2"
)

// bzip2Backend uses dsnet/compress/bzip2, the only actively maintained
// pure-Go BZIP2 writer in the ecosystem (the standard library only ships
// a reader). Block size is fixed at its maximum (900k, "level 9").
type bzip2Backend struct{}

func (bzip2Backend) NewEncoder(dst io.Writer) (Encoder, error) {
	return bzip2.NewWriter(dst, &bzip2.WriterConfig{Level: 9})
}

func (bzip2Backend) NewDecoder(src io.Reader) (Decoder, error) {
	return bzip2.NewReader(src, nil)
}
