package logfile

import (
	"sort"
	"strings"

	"github.com/hpcio/tracelog/compress"
	"github.com/hpcio/tracelog/endian"
	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/module"
	"github.com/hpcio/tracelog/rawio"
	"github.com/hpcio/tracelog/region"
)

// hashEntryHeaderSize is the size of a record-map entry's fixed prefix:
// a 64-bit record id followed by a 32-bit path length.
const hashEntryHeaderSize = 12

// writeState tracks how far through the prescribed PutJob -> PutExe ->
// PutMounts -> PutHash -> PutMod* sequence a Writer has progressed.
// PutExe and PutMounts share the job region with PutJob, so the
// compression façade's own ascending-region check can't tell them apart
// on its own; the Writer enforces this finer-grained order itself.
type writeState int

const (
	stateInit writeState = iota
	stateJobDone
	stateExeDone
	stateMountsDone
	stateHashDone
	stateModDone
)

// Writer is the write-mode log handle. It is single-pass:
// callers must invoke PutJob, PutExe, PutMounts, PutHash and then
// PutMod for each module id they have data for, in strictly ascending
// module-id order. Any violation sets a sticky error flag; Close then
// unlinks the output file instead of finalizing it.
type Writer struct {
	f         *rawio.File
	stream    *compress.Stream
	header    format.Header
	partial   bool
	jobExt    format.Extent
	state     writeState
	exeMountN int
	err       error
	closed    bool
}

// Create opens path for writing, failing if it already exists. compType
// selects the compression backend recorded in the header; partial
// signals that the instrumentation runtime truncated its record set.
func Create(path string, compType format.CompressionType, partial bool) (*Writer, error) {
	if !compType.Valid() {
		return nil, errs.New(errs.KindInvalidArgument, "logfile.Create", errs.ErrUnsupportedCompression)
	}

	f, err := rawio.Create(path)
	if err != nil {
		return nil, err
	}

	if err := f.Seek(int64(format.HeaderSize)); err != nil {
		f.Close()
		f.Unlink()

		return nil, err
	}

	w := &Writer{
		f:       f,
		partial: partial,
	}
	w.header.Compression = compType

	extents := func(id region.ID) *format.Extent {
		switch {
		case id == region.Job:
			return &w.jobExt
		case id == region.RecMap:
			return &w.header.RecordMap
		default:
			return &w.header.Modules[id]
		}
	}

	stream, err := compress.NewStream(compress.Encode, compType, f, extents, 0)
	if err != nil {
		f.Close()
		f.Unlink()

		return nil, err
	}

	w.stream = stream

	return w, nil
}

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}

	return err
}

// PutJob writes the fixed portion of the job record. It must be the
// first call made on a fresh Writer.
func (w *Writer) PutJob(job format.Job) error {
	if w.err != nil {
		return w.err
	}

	if w.state != stateInit {
		return w.fail(errs.New(errs.KindOrdering, "logfile.Writer.PutJob", errs.ErrOutOfOrder))
	}

	if job.Metadata != "" && !strings.HasSuffix(job.Metadata, "\n") {
		job.Metadata += "\n"
	}

	if len(job.Metadata) > format.MetadataLen {
		return w.fail(errs.New(errs.KindInvalidArgument, "logfile.Writer.PutJob", errs.ErrInvalidExtent))
	}

	if _, err := w.stream.Write(region.Job, job.Bytes()); err != nil {
		return w.fail(err)
	}

	w.state = stateJobDone

	return nil
}

// PutExe writes the application command line into the job region's
// trailing text blob. It must follow PutJob.
func (w *Writer) PutExe(exe string) error {
	if w.err != nil {
		return w.err
	}

	if w.state != stateJobDone {
		return w.fail(errs.New(errs.KindOrdering, "logfile.Writer.PutExe", errs.ErrOutOfOrder))
	}

	if err := w.appendText(exe); err != nil {
		return err
	}

	w.state = stateExeDone

	return nil
}

// PutMounts writes the mount table into the job region's trailing text
// blob, one "\n<fs_type>\t<mount_point>" line per entry, emitted from
// the last entry to the first so that a reader parsing the on-disk
// lines in order and reversing them recovers the caller's original
// order. It must follow PutExe.
func (w *Writer) PutMounts(mounts, fsTypes []string) error {
	if w.err != nil {
		return w.err
	}

	if w.state != stateExeDone {
		return w.fail(errs.New(errs.KindOrdering, "logfile.Writer.PutMounts", errs.ErrOutOfOrder))
	}

	if len(mounts) != len(fsTypes) {
		return w.fail(errs.New(errs.KindInvalidArgument, "logfile.Writer.PutMounts", errs.ErrInvalidExtent))
	}

	for i := len(mounts) - 1; i >= 0; i-- {
		line := "\n" + fsTypes[i] + "\t" + mounts[i]
		if err := w.appendText(line); err != nil {
			return err
		}
	}

	w.state = stateMountsDone

	return nil
}

func (w *Writer) appendText(s string) error {
	w.exeMountN += len(s)
	if w.exeMountN > format.ExeMountLen {
		return w.fail(errs.New(errs.KindInvalidArgument, "logfile.Writer", errs.ErrInvalidExtent))
	}

	if _, err := w.stream.Write(region.Job, []byte(s)); err != nil {
		return w.fail(err)
	}

	return nil
}

// PutHash writes the record-id -> path map. It must follow PutMounts.
// Entries are serialized in ascending record-id order for determinism;
// the on-disk order carries no meaning to a reader.
func (w *Writer) PutHash(paths map[uint64]string) error {
	if w.err != nil {
		return w.err
	}

	if w.state != stateMountsDone {
		return w.fail(errs.New(errs.KindOrdering, "logfile.Writer.PutHash", errs.ErrOutOfOrder))
	}

	// Touch the record-map region even when paths is empty: the
	// transition into it must happen here so its extent is recorded
	// correctly (see region.Unload), rather than being skipped
	// entirely and leaving the job region's implicit extent
	// miscomputed on read.
	if _, err := w.stream.Write(region.RecMap, nil); err != nil {
		return w.fail(err)
	}

	ids := make([]uint64, 0, len(paths))
	for id := range paths {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	engine := endian.NativeEngine()
	for _, id := range ids {
		path := paths[id]
		buf := make([]byte, 0, hashEntryHeaderSize+len(path))
		buf = engine.AppendUint64(buf, id)
		buf = engine.AppendUint32(buf, uint32(len(path)))
		buf = append(buf, path...)

		if _, err := w.stream.Write(region.RecMap, buf); err != nil {
			return w.fail(err)
		}
	}

	w.state = stateHashDone

	return nil
}

// WriteModule pushes raw, already-serialized module bytes into id's
// region, implementing module.Sink. The compression façade rejects a
// call naming an id smaller than the last one used.
func (w *Writer) WriteModule(id format.ModuleID, buf []byte) (int, error) {
	if !id.Valid() {
		return 0, w.fail(errs.New(errs.KindInvalidArgument, "logfile.Writer.WriteModule", errs.ErrInvalidModuleID))
	}

	n, err := w.stream.Write(region.ID(id), buf)
	if err != nil {
		return n, w.fail(err)
	}

	return n, nil
}

// PutMod encodes one module record via the dispatch registry. It must
// follow PutHash, and successive calls (for the same or different
// module ids) must never name a smaller module id than a previous call.
func (w *Writer) PutMod(id format.ModuleID, rec *module.Record) error {
	if w.err != nil {
		return w.err
	}

	if w.state < stateHashDone {
		return w.fail(errs.New(errs.KindOrdering, "logfile.Writer.PutMod", errs.ErrOutOfOrder))
	}

	codec, err := module.Lookup(id)
	if err != nil {
		return w.fail(err)
	}

	if err := codec.PutRecord(w, rec); err != nil {
		return w.fail(err)
	}

	w.state = stateModDone

	return nil
}

// Close finalizes the log. If no error was recorded on the handle, it
// flushes the last active region's compressed stream and writes the
// header (now that every region's extent is known) to offset 0. If an
// error was recorded, it unlinks the output file instead and returns
// that error.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}

	w.closed = true

	if w.err != nil {
		w.f.Close()
		w.f.Unlink()

		return w.err
	}

	if err := w.stream.Finish(); err != nil {
		w.f.Close()
		w.f.Unlink()

		return err
	}

	w.header.Version = format.Version
	w.header.Magic = format.MagicNumber
	w.header.Partial = w.partial

	if err := w.f.Seek(0); err != nil {
		w.f.Close()
		w.f.Unlink()

		return err
	}

	if _, err := w.f.Write(w.header.Bytes()); err != nil {
		w.f.Close()
		w.f.Unlink()

		return err
	}

	return w.f.Close()
}
