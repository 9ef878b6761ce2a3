package compress

import (
	"io"

	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/rawio"
	"github.com/hpcio/tracelog/region"
)

// DefaultBufSize is the default size of the façade's staging buffer.
const DefaultBufSize = 1 << 20 // 1 MiB

// Direction fixes whether a Stream encodes or decodes.
type Direction int

const (
	Decode Direction = iota
	Encode
)

// ExtentTable gives the façade a pointer to the mutable Extent for a
// region id, so the region loader/unloader (package region) can record
// where each region landed on disk as it's written, or look up where to
// read it back from.
type ExtentTable func(id region.ID) *format.Extent

// Stream is the compression façade. It owns a staging buffer of
// fixed size, the active backend, and the id of the region last
// operated on, so the container codec can write or read whole regions
// one field/entry at a time without knowing anything about compression.
type Stream struct {
	dir     Direction
	backend Backend
	f       *rawio.File
	extents ExtentTable

	started bool
	cur     region.ID

	// encode side: out accumulates compressed bytes up to cap(out),
	// flushing to disk via region.Unload whenever it fills.
	out []byte
	enc Encoder

	// decode side: inBuf is the fixed staging buffer; in is the unread
	// suffix of the most recent pull.
	inBuf      []byte
	in         []byte
	eor        bool
	zeroRegion bool
	dec        Decoder
}

// NewStream creates a façade bound to f, using bufSize bytes of staging
// buffer (DefaultBufSize if bufSize <= 0).
func NewStream(dir Direction, compType format.CompressionType, f *rawio.File, extents ExtentTable, bufSize int) (*Stream, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufSize
	}

	backend, err := NewBackend(compType)
	if err != nil {
		return nil, err
	}

	return &Stream{
		dir:     dir,
		backend: backend,
		f:       f,
		extents: extents,
		out:     make([]byte, 0, bufSize),
		inBuf:   make([]byte, bufSize),
	}, nil
}

// Write encodes p into region id, transitioning regions (and enforcing
// ascending order) as needed. A call with len(p) == 0 still performs the
// region transition, which is what lets an empty region (e.g. an empty
// record map) still get a correctly recorded, if minimal, extent.
func (s *Stream) Write(id region.ID, p []byte) (int, error) {
	if s.dir != Encode {
		return 0, errs.New(errs.KindInvalidArgument, "compress.Stream.Write", errNotEncoding)
	}

	if !s.started {
		if err := s.startRegion(id); err != nil {
			return 0, err
		}
	} else if id != s.cur {
		if id < s.cur {
			return 0, errs.New(errs.KindOrdering, "compress.Stream.Write", errs.ErrOutOfOrder)
		}

		if err := s.finishRegion(); err != nil {
			return 0, err
		}

		if err := s.startRegion(id); err != nil {
			return 0, err
		}
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := s.enc.Write(p)
	if err != nil {
		return n, errs.New(errs.KindCompression, "compress.Stream.Write", err)
	}

	return n, nil
}

// Finish finalizes whatever region is currently active, flushing its
// residual compressed bytes and stream-end marker to disk. It is a
// no-op if nothing has been written yet. The container codec calls this
// once, at close, for the last region touched.
func (s *Stream) Finish() error {
	if s.dir != Encode || !s.started {
		return nil
	}

	return s.finishRegion()
}

func (s *Stream) startRegion(id region.ID) error {
	enc, err := s.backend.NewEncoder((*diskSink)(s))
	if err != nil {
		return errs.New(errs.KindCompression, "compress.Stream.startRegion", err)
	}

	s.enc = enc
	s.cur = id
	s.started = true

	return nil
}

func (s *Stream) finishRegion() error {
	if err := s.enc.Close(); err != nil {
		return errs.New(errs.KindCompression, "compress.Stream.finishRegion", err)
	}

	if len(s.out) > 0 {
		if err := region.Unload(s.f, s.extents(s.cur), s.out); err != nil {
			return err
		}

		s.out = s.out[:0]
	}

	s.enc = nil

	return nil
}

// Read decodes up to len(p) bytes from region id. It transitions to id
// (resetting decode state) if a different region was last read. It
// returns fewer than len(p) bytes, with a nil error, once the region's
// compressed data is exhausted (end-of-region); the underlying decoder
// is transparently re-initialized across any stream-end markers found
// before that point, so a region built from several concatenated
// compressed streams decodes as one continuous byte stream.
func (s *Stream) Read(id region.ID, p []byte) (int, error) {
	if s.dir != Decode {
		return 0, errs.New(errs.KindInvalidArgument, "compress.Stream.Read", errNotDecoding)
	}

	if !s.started || id != s.cur {
		if err := s.resetRegion(id); err != nil {
			return 0, err
		}
	}

	if s.zeroRegion {
		return 0, nil
	}

	total := 0
	for total < len(p) {
		n, err := s.dec.Read(p[total:])
		total += n

		switch {
		case err == nil:
			if n == 0 {
				return total, errs.New(errs.KindCompression, "compress.Stream.Read", io.ErrNoProgress)
			}
		case err == io.EOF:
			if s.eor && len(s.in) == 0 {
				return total, nil
			}

			dec, derr := s.backend.NewDecoder((*diskSource)(s))
			if derr != nil {
				return total, errs.New(errs.KindCompression, "compress.Stream.Read", derr)
			}

			s.dec = dec
		default:
			return total, errs.New(errs.KindCompression, "compress.Stream.Read", err)
		}
	}

	return total, nil
}

// Restart forces region id to be (re-)initialized from its on-disk
// start, even if it was already the current region. Operations that
// read an entire region in a single call (the job region, the record
// map) need this so that calling them again — with no intervening
// region change — still restarts rather than continuing from wherever
// the last call left the decoder. Iterative readers (repeated GetRecord
// calls walking one module's records) must not call this between
// successive pulls, or they would never advance past the first record.
func (s *Stream) Restart(id region.ID) error {
	return s.resetRegion(id)
}

func (s *Stream) resetRegion(id region.ID) error {
	ext := s.extents(id)

	s.cur = id
	s.started = true
	s.in = nil
	s.eor = false

	if ext.Length == 0 {
		s.zeroRegion = true
		s.dec = nil

		return nil
	}

	s.zeroRegion = false

	dec, err := s.backend.NewDecoder((*diskSource)(s))
	if err != nil {
		return errs.New(errs.KindCompression, "compress.Stream.resetRegion", err)
	}

	s.dec = dec

	return nil
}

// diskSink is the io.Writer a backend encoder writes compressed bytes
// into; it accumulates them in the façade's staging buffer and flushes
// to disk via the region unloader whenever the buffer fills.
type diskSink Stream

func (d *diskSink) Write(p []byte) (int, error) {
	s := (*Stream)(d)
	written := 0

	for len(p) > 0 {
		n := copy(s.out[len(s.out):cap(s.out)], p)
		s.out = s.out[:len(s.out)+n]
		p = p[n:]
		written += n

		if len(s.out) == cap(s.out) {
			if err := region.Unload(s.f, s.extents(s.cur), s.out); err != nil {
				return written, err
			}

			s.out = s.out[:0]
		}
	}

	return written, nil
}

// diskSource is the io.Reader a backend decoder pulls compressed bytes
// from; it refills the façade's staging buffer via the region loader
// whenever it runs dry.
type diskSource Stream

func (d *diskSource) Read(p []byte) (int, error) {
	s := (*Stream)(d)

	if len(s.in) == 0 {
		if s.eor {
			return 0, io.EOF
		}

		n, eor, err := region.Load(s.f, s.extents(s.cur), s.inBuf)
		if err != nil {
			return 0, err
		}

		s.in = s.inBuf[:n]
		s.eor = eor

		if n == 0 {
			return 0, io.EOF
		}
	}

	n := copy(p, s.in)
	s.in = s.in[n:]

	return n, nil
}

// ReadByte lets the backend decoders read input a byte at a time.
// Without it, both flate and bzip2 wrap their source in a bufio.Reader
// and read ahead past the end of the current compressed stream,
// swallowing the start of the next concatenated stream in the same
// region.
func (d *diskSource) ReadByte() (byte, error) {
	var b [1]byte

	if _, err := d.Read(b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}
