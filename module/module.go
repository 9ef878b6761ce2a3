// Package module implements the module dispatch table: a
// small, static registry indexed by module id, each entry providing
// GetRecord/PutRecord/PrintRecord plus a name string. The container
// codec never knows a module's counter layout; it only hands the
// registry a byte source/sink for that module's region.
package module

import (
	"math"

	"github.com/hpcio/tracelog/endian"
	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
)

// recordHeaderSize is the size of the record id + rank prefix shared by
// every module's fixed record shape.
const recordHeaderSize = 16

// Record is one module's fixed-shape per-file counter record.
type Record struct {
	RecordID  uint64
	Rank      int64 // -1 marks a shared-file record aggregated across all ranks
	Counters  []int64
	FCounters []float64
}

// Source is what a module codec needs from the container to decode one
// module's records: a way to pull raw (already decompressed) bytes for
// that module's region, and whether fields need byte-swapping.
type Source interface {
	ReadModule(id format.ModuleID, buf []byte) (int, error)
	SwapBytes() bool
}

// Sink is what a module codec needs from the container to encode a
// record: a way to push raw bytes into that module's region, in
// strictly ascending module-id order (enforced by the container, not
// here).
type Sink interface {
	WriteModule(id format.ModuleID, buf []byte) (int, error)
}

// Codec is a module's fixed-shape record (de)serializer and text dumper.
type Codec interface {
	// Name returns the module's human-readable name.
	Name() string
	// NumCounters returns the length of a record's integer counter array.
	NumCounters() int
	// NumFCounters returns the length of a record's float counter array.
	NumFCounters() int
	// GetRecord reads exactly one record from src. It returns (rec, 1,
	// nil) for a record produced, (nil, 0, nil) at end of section, and
	// (nil, -1, err) on error.
	GetRecord(src Source) (*Record, int, error)
	// PutRecord appends one record to sink.
	PutRecord(sink Sink, rec *Record) error
	// PrintRecord renders rec as the module's text-dump lines.
	PrintRecord(rec *Record, path, mount, fsType string) string
}

// recordSize is the fixed on-disk size of one record for a codec with
// the given counter/float-counter counts.
func recordSize(numCounters, numFCounters int) int {
	return recordHeaderSize + numCounters*8 + numFCounters*8
}

// decodeRecord reads one fixed-size record from src into a Record,
// applying byte swaps to every integer and float field when swap is
// set. It returns (nil, 0, nil) once src reports end of section.
func decodeRecord(src Source, id format.ModuleID, numCounters, numFCounters int) (*Record, int, error) {
	size := recordSize(numCounters, numFCounters)
	buf := make([]byte, size)

	n, err := src.ReadModule(id, buf)
	if err != nil {
		// err is already a classified *errs.Error from the container's
		// Source implementation (ordering, compression, or I/O); don't
		// re-kind it here, or a caller checking errs.Is against the
		// original kind (e.g. an ordering violation) would miss it.
		return nil, -1, err
	}

	if n == 0 {
		return nil, 0, nil
	}

	if n < size {
		return nil, -1, errs.New(errs.KindFormat, "module.decodeRecord", errs.ErrTruncated)
	}

	engine := endian.NativeEngine()
	swap := src.SwapBytes()

	rec := &Record{
		RecordID:  engine.Uint64(buf[0:8]),
		Rank:      int64(engine.Uint64(buf[8:16])),
		Counters:  make([]int64, numCounters),
		FCounters: make([]float64, numFCounters),
	}

	off := recordHeaderSize
	for i := 0; i < numCounters; i++ {
		rec.Counters[i] = int64(engine.Uint64(buf[off : off+8]))
		off += 8
	}

	for i := 0; i < numFCounters; i++ {
		bits := engine.Uint64(buf[off : off+8])
		rec.FCounters[i] = math.Float64frombits(bits)
		off += 8
	}

	if swap {
		rec.RecordID = endian.SwapU64(rec.RecordID)
		rec.Rank = endian.SwapI64(rec.Rank)
		for i := range rec.Counters {
			rec.Counters[i] = endian.SwapI64(rec.Counters[i])
		}
		for i := range rec.FCounters {
			rec.FCounters[i] = endian.SwapF64(rec.FCounters[i])
		}
	}

	return rec, 1, nil
}

// encodeRecord serializes rec into its fixed-size on-disk form.
func encodeRecord(sink Sink, id format.ModuleID, rec *Record, numCounters, numFCounters int) error {
	if len(rec.Counters) != numCounters || len(rec.FCounters) != numFCounters {
		return errs.New(errs.KindInvalidArgument, "module.encodeRecord", errs.ErrInvalidExtent)
	}

	engine := endian.NativeEngine()
	buf := make([]byte, 0, recordSize(numCounters, numFCounters))
	buf = engine.AppendUint64(buf, rec.RecordID)
	buf = engine.AppendUint64(buf, uint64(rec.Rank))

	for _, c := range rec.Counters {
		buf = engine.AppendUint64(buf, uint64(c))
	}

	for _, f := range rec.FCounters {
		buf = engine.AppendUint64(buf, math.Float64bits(f))
	}

	_, err := sink.WriteModule(id, buf)
	if err != nil {
		// As in decodeRecord, propagate the Sink's own classified error
		// (e.g. OrderingError) rather than masking it with a new Kind.
		return err
	}

	return nil
}
