package logfile

import (
	"bytes"
	"strings"

	"github.com/hpcio/tracelog/compress"
	"github.com/hpcio/tracelog/endian"
	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/module"
	"github.com/hpcio/tracelog/rawio"
	"github.com/hpcio/tracelog/region"
)

// Reader is the read-mode log handle. Its operations may be
// called in any order and repeated freely; each one drives the
// compression façade through the region it needs, restarting that
// region from the beginning whenever the façade was last pointed at a
// different one (see compress.Stream).
type Reader struct {
	f       *rawio.File
	header  format.Header
	swapped bool
	jobExt  format.Extent
	stream  *compress.Stream
}

// Open opens path for reading. It parses the header and detects the
// file's byte order from the magic number, failing with a FormatError
// (errs.ErrBadMagic) if neither the native nor the byte-swapped form of
// the constant is found.
func Open(path string) (*Reader, error) {
	f, err := rawio.Open(path)
	if err != nil {
		return nil, err
	}

	hdrBuf := make([]byte, format.HeaderSize)
	n, err := f.Read(hdrBuf)
	if err != nil {
		f.Close()

		return nil, err
	}

	if n < format.HeaderSize {
		f.Close()

		return nil, errs.New(errs.KindFormat, "logfile.Open", errs.ErrTruncated)
	}

	r := &Reader{f: f}

	swapped, err := r.header.Parse(hdrBuf)
	if err != nil {
		f.Close()

		return nil, err
	}

	r.swapped = swapped
	r.jobExt = format.Extent{
		Offset: int64(format.HeaderSize),
		Length: r.header.RecordMap.Offset - int64(format.HeaderSize),
	}

	extents := func(id region.ID) *format.Extent {
		switch {
		case id == region.Job:
			return &r.jobExt
		case id == region.RecMap:
			return &r.header.RecordMap
		default:
			return &r.header.Modules[id]
		}
	}

	stream, err := compress.NewStream(compress.Decode, r.header.Compression, f, extents, 0)
	if err != nil {
		f.Close()

		return nil, err
	}

	r.stream = stream

	return r, nil
}

// Close releases the underlying file descriptor. Reader never modifies
// the file it read from.
func (r *Reader) Close() error {
	return r.f.Close()
}

// Partial reports the header's partial flag: whether the instrumentation
// runtime that produced this log ran out of per-process memory and
// truncated its record set.
func (r *Reader) Partial() bool { return r.header.Partial }

// Compression reports the compression backend the log was written with.
func (r *Reader) Compression() format.CompressionType { return r.header.Compression }

// SwapBytes reports whether this log was written on a host of the
// opposite byte order, implementing module.Source.
func (r *Reader) SwapBytes() bool { return r.swapped }

// readJobRegion decodes the entire job region in one shot. It is used by
// GetJob/GetExe/GetMounts, each of which may be called independently and
// repeatedly in any order, so it always restarts the region from its
// on-disk beginning rather than continuing from wherever a previous
// call (to this or another of those three) left the decoder.
func (r *Reader) readJobRegion() (fixed, text []byte, err error) {
	if err := r.stream.Restart(region.Job); err != nil {
		return nil, nil, err
	}

	buf := make([]byte, format.JobRecordSize)

	n, err := r.stream.Read(region.Job, buf)
	if err != nil {
		return nil, nil, err
	}

	if n < format.JobFixedSize {
		return nil, nil, errs.New(errs.KindFormat, "logfile.Reader.readJobRegion", errs.ErrTruncated)
	}

	return buf[:format.JobFixedSize], buf[format.JobFixedSize:n], nil
}

// GetJob decodes and returns the job record's fixed fields.
func (r *Reader) GetJob() (format.Job, error) {
	fixed, _, err := r.readJobRegion()
	if err != nil {
		return format.Job{}, err
	}

	var job format.Job
	if err := job.Parse(fixed, r.swapped); err != nil {
		return format.Job{}, err
	}

	return job, nil
}

// GetExe returns the application command line: the text up to the
// first newline in the job region's trailing blob.
func (r *Reader) GetExe() (string, error) {
	_, text, err := r.readJobRegion()
	if err != nil {
		return "", err
	}

	if i := bytes.IndexByte(text, '\n'); i >= 0 {
		return string(text[:i]), nil
	}

	return string(text), nil
}

// GetMounts returns the mount table as two parallel slices (mount
// points and filesystem types) in the order the producer originally
// supplied them to PutMounts. PutMounts wrote the lines in reverse, so
// this reverses the on-disk order back.
func (r *Reader) GetMounts() (mounts, fsTypes []string, err error) {
	_, text, err := r.readJobRegion()
	if err != nil {
		return nil, nil, err
	}

	i := bytes.IndexByte(text, '\n')
	if i < 0 {
		return nil, nil, nil
	}

	lines := strings.Split(string(text[i+1:]), "\n")
	for k := len(lines) - 1; k >= 0; k-- {
		line := lines[k]
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 2)
		if len(parts) != 2 {
			return nil, nil, errs.New(errs.KindFormat, "logfile.Reader.GetMounts", errs.ErrTruncated)
		}

		fsTypes = append(fsTypes, parts[0])
		mounts = append(mounts, parts[1])
	}

	return mounts, fsTypes, nil
}

// GetHash decodes the record-id -> path map. It pulls decoded bytes in
// chunks, peeling off complete (id, path_len, path) triples from a
// rolling staging buffer and carrying any incomplete tail over to the
// next pull, so an entry split across a chunk boundary is never lost.
// Duplicate record ids keep the first occurrence encountered.
func (r *Reader) GetHash() (map[uint64]string, error) {
	if err := r.stream.Restart(region.RecMap); err != nil {
		return nil, err
	}

	buf := make([]byte, 2*compress.DefaultBufSize)
	filled := 0
	out := make(map[uint64]string)
	engine := endian.NativeEngine()

	for {
		want := len(buf) - filled
		n, err := r.stream.Read(region.RecMap, buf[filled:filled+want])
		if err != nil {
			return nil, err
		}

		filled += n

		pos := 0
		for {
			remaining := filled - pos
			if remaining < hashEntryHeaderSize {
				break
			}

			rawLen := engine.Uint32(buf[pos+8 : pos+12])
			if r.swapped {
				rawLen = endian.SwapU32(rawLen)
			}

			pathLen := int(rawLen)
			need := hashEntryHeaderSize + pathLen
			if remaining < need {
				break
			}

			rawID := engine.Uint64(buf[pos : pos+8])
			if r.swapped {
				rawID = endian.SwapU64(rawID)
			}

			path := string(buf[pos+hashEntryHeaderSize : pos+need])
			if _, dup := out[rawID]; !dup {
				out[rawID] = path
			}

			pos += need
		}

		tail := filled - pos
		copy(buf[:tail], buf[pos:filled])
		filled = tail

		if n < want {
			if filled != 0 {
				return nil, errs.New(errs.KindFormat, "logfile.Reader.GetHash", errs.ErrMalformedHash)
			}

			return out, nil
		}
	}
}

// ReadModule pulls up to len(buf) raw (decompressed) bytes from
// module id's region, implementing module.Source.
func (r *Reader) ReadModule(id format.ModuleID, buf []byte) (int, error) {
	if !id.Valid() {
		return 0, errs.New(errs.KindInvalidArgument, "logfile.Reader.ReadModule", errs.ErrInvalidModuleID)
	}

	return r.stream.Read(region.ID(id), buf)
}

// GetMod raw-reads module id's region without going through the
// dispatch registry; most callers want GetRecord instead.
func (r *Reader) GetMod(id format.ModuleID, buf []byte) (int, error) {
	return r.ReadModule(id, buf)
}

// GetRecord decodes the next record from module id's section via the
// dispatch registry, returning (rec, 1, nil) for a record produced,
// (nil, 0, nil) at end of section, or (nil, -1, err) on error.
func (r *Reader) GetRecord(id format.ModuleID) (*module.Record, int, error) {
	codec, err := module.Lookup(id)
	if err != nil {
		return nil, -1, err
	}

	return codec.GetRecord(r)
}

// PrintRecord renders rec as module id's text-dump lines via the
// dispatch registry.
func (r *Reader) PrintRecord(id format.ModuleID, rec *module.Record, path, mount, fsType string) (string, error) {
	codec, err := module.Lookup(id)
	if err != nil {
		return "", err
	}

	return codec.PrintRecord(rec, path, mount, fsType), nil
}
