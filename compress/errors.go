package compress

import "errors"

var (
	errNotEncoding = errors.New("stream was not opened for encoding")
	errNotDecoding = errors.New("stream was not opened for decoding")
)
