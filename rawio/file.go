// Package rawio provides unbuffered, positional file access for the log
// container. It owns a single *os.File plus the current absolute offset,
// and does nothing beyond what the OS already buffers.
package rawio

import (
	"errors"
	"io"
	"os"

	"github.com/hpcio/tracelog/errs"
)

// File is a thin positional wrapper around an *os.File. It tracks the
// current offset so Seek can be a no-op when already positioned there.
type File struct {
	f    *os.File
	path string
	pos  int64
}

// Create opens path for read/write, failing if it already exists.
func Create(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, errs.New(errs.KindIO, "rawio.Create", errs.ErrExists)
		}

		return nil, errs.New(errs.KindIO, "rawio.Create", err)
	}

	return &File{f: f, path: path}, nil
}

// Open opens an existing file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindIO, "rawio.Open", err)
	}

	return &File{f: f, path: path}, nil
}

// Pos returns the current absolute offset.
func (f *File) Pos() int64 { return f.pos }

// Path returns the path the handle was opened with.
func (f *File) Path() string { return f.path }

// Seek moves to off if the handle isn't already positioned there.
func (f *File) Seek(off int64) error {
	if f.pos == off {
		return nil
	}

	n, err := f.f.Seek(off, io.SeekStart)
	if err != nil {
		return errs.New(errs.KindIO, "rawio.Seek", err)
	}

	f.pos = n

	return nil
}

// Read fills buf as far as possible, returning a short count on EOF
// rather than an error, and advances the cached offset by what was read.
func (f *File) Read(buf []byte) (int, error) {
	n, err := io.ReadFull(f.f, buf)
	f.pos += int64(n)

	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return n, nil
		}

		return n, errs.New(errs.KindIO, "rawio.Read", err)
	}

	return n, nil
}

// Write writes buf in full, advancing the cached offset by what was
// written.
func (f *File) Write(buf []byte) (int, error) {
	n, err := f.f.Write(buf)
	f.pos += int64(n)

	if err != nil {
		return n, errs.New(errs.KindIO, "rawio.Write", err)
	}

	return n, nil
}

// Close closes the underlying file descriptor.
func (f *File) Close() error {
	return f.f.Close()
}

// Unlink removes the file this handle was opened for. Used by a writer
// that hit an error and must not leave a partial log behind.
func (f *File) Unlink() error {
	return os.Remove(f.path)
}
