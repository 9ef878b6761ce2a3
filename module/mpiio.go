package module

import "github.com/hpcio/tracelog/format"

// mpiioCounterNames/mpiioFCounterNames name MPIIO_* counters: collective
// and independent read/write call counts, nonblocking and split
// collective usage, byte totals, and view/hint usage.
var mpiioCounterNames = []string{
	"MPIIO_INDEP_OPENS",
	"MPIIO_COLL_OPENS",
	"MPIIO_INDEP_READS",
	"MPIIO_INDEP_WRITES",
	"MPIIO_COLL_READS",
	"MPIIO_COLL_WRITES",
	"MPIIO_SPLIT_READS",
	"MPIIO_SPLIT_WRITES",
	"MPIIO_NB_READS",
	"MPIIO_NB_WRITES",
	"MPIIO_BYTES_READ",
	"MPIIO_BYTES_WRITTEN",
	"MPIIO_VIEWS",
	"MPIIO_HINTS",
}

var mpiioFCounterNames = []string{
	"MPIIO_F_OPEN_START_TIMESTAMP",
	"MPIIO_F_CLOSE_END_TIMESTAMP",
	"MPIIO_F_READ_TIME",
	"MPIIO_F_WRITE_TIME",
}

type mpiioCodec struct{}

func (mpiioCodec) Name() string      { return "MPI-IO" }
func (mpiioCodec) NumCounters() int  { return len(mpiioCounterNames) }
func (mpiioCodec) NumFCounters() int { return len(mpiioFCounterNames) }

func (c mpiioCodec) GetRecord(src Source) (*Record, int, error) {
	return decodeRecord(src, format.ModuleMPIIO, c.NumCounters(), c.NumFCounters())
}

func (c mpiioCodec) PutRecord(sink Sink, rec *Record) error {
	return encodeRecord(sink, format.ModuleMPIIO, rec, c.NumCounters(), c.NumFCounters())
}

func (c mpiioCodec) PrintRecord(rec *Record, path, mount, fsType string) string {
	return printRecord("MPI-IO", rec, path, mount, fsType, mpiioCounterNames, mpiioFCounterNames)
}
