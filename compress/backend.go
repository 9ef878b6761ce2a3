// Package compress implements the compression stream façade: a
// staging buffer and a pluggable backend sitting between the container
// codec and the region loader/unloader.
//
// Two backends are supported, selected by the header's compression-type
// tag: DEFLATE (github.com/klauspost/compress/flate, a faster drop-in for
// the standard library's compress/flate) and BZIP2
// (github.com/dsnet/compress/bzip2, since the standard library only ships
// a bzip2 reader). Both expose a streaming Writer/Reader with explicit
// "finish this stream" semantics, which is what region transitions need.
package compress

import (
	"io"

	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
)

// Encoder is a streaming compressor. Close finishes the current
// compressed stream (flushing residual bytes and a stream-end marker)
// without closing the underlying writer.
type Encoder interface {
	io.Writer
	Close() error
}

// Decoder is a streaming decompressor.
type Decoder interface {
	io.Reader
}

// Backend constructs fresh encoders/decoders for one compression type.
// Implementations must support being constructed again immediately after
// a stream ends, so the façade can decode the concatenated per-region
// streams a region may be built from.
type Backend interface {
	NewEncoder(dst io.Writer) (Encoder, error)
	NewDecoder(src io.Reader) (Decoder, error)
}

// NewBackend returns the Backend for the given header compression type.
func NewBackend(t format.CompressionType) (Backend, error) {
	switch t {
	case format.CompressionDeflate:
		return deflateBackend{}, nil
	case format.CompressionBzip2:
		return bzip2Backend{}, nil
	default:
		return nil, errs.New(errs.KindInvalidArgument, "compress.NewBackend", errs.ErrUnsupportedCompression)
	}
}
