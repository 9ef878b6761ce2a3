package format

import "github.com/hpcio/tracelog/endian"

const (
	// MetadataLen bounds the inline job metadata key/value string.
	MetadataLen = 1024
	// ExeMountLen bounds the trailing exe command line + mount table
	// text blob that follows the fixed job fields.
	ExeMountLen = 4096

	jobFixedFields = 5 * 8 // uid, start_time, end_time, nprocs, jobid
)

// JobFixedSize is the size of the fixed portion of a job record, not
// including the trailing exe/mount text blob.
const JobFixedSize = jobFixedFields + MetadataLen

// JobRecordSize bounds the job region: the fixed fields plus the largest
// trailing exe/mount blob. A reader decodes the job region into a buffer
// of this size in one call; a writer emits the fixed fields and the
// unpadded text separately, so the region may be shorter.
const JobRecordSize = JobFixedSize + ExeMountLen

// Job is the job-level metadata record: identifying fields, a bounded
// metadata string, and (handled separately, see JobFixedSize) a trailing
// blob holding the command line and mount table.
type Job struct {
	UID       int64
	StartTime int64
	EndTime   int64
	NProcs    int64
	JobID     int64
	Metadata  string
}

// Bytes serializes the fixed portion of j to exactly JobFixedSize bytes,
// NUL-padding the metadata field.
func (j *Job) Bytes() []byte {
	engine := endian.NativeEngine()

	buf := make([]byte, 0, JobFixedSize)
	buf = engine.AppendUint64(buf, uint64(j.UID))
	buf = engine.AppendUint64(buf, uint64(j.StartTime))
	buf = engine.AppendUint64(buf, uint64(j.EndTime))
	buf = engine.AppendUint64(buf, uint64(j.NProcs))
	buf = engine.AppendUint64(buf, uint64(j.JobID))

	var metaBuf [MetadataLen]byte
	copy(metaBuf[:], j.Metadata)
	buf = append(buf, metaBuf[:]...)

	return buf
}

// Parse decodes the fixed portion of a job record from data (exactly
// JobFixedSize bytes), byte-swapping the integer fields if swapped is
// set.
func (j *Job) Parse(data []byte, swapped bool) error {
	engine := endian.NativeEngine()

	j.UID = int64(engine.Uint64(data[0:8]))
	j.StartTime = int64(engine.Uint64(data[8:16]))
	j.EndTime = int64(engine.Uint64(data[16:24]))
	j.NProcs = int64(engine.Uint64(data[24:32]))
	j.JobID = int64(engine.Uint64(data[32:40]))

	if swapped {
		j.UID = endian.SwapI64(j.UID)
		j.StartTime = endian.SwapI64(j.StartTime)
		j.EndTime = endian.SwapI64(j.EndTime)
		j.NProcs = endian.SwapI64(j.NProcs)
		j.JobID = endian.SwapI64(j.JobID)
	}

	meta := data[jobFixedFields:JobFixedSize]
	if i := indexZero(meta); i >= 0 {
		meta = meta[:i]
	}
	j.Metadata = string(meta)

	return nil
}

func indexZero(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}

	return -1
}
