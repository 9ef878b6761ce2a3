package module

import "github.com/hpcio/tracelog/format"

// hdf5CounterNames/hdf5FCounterNames name HDF5_* counters: dataset and
// file-handle open/read/write tallies, recorded at the file-handle
// granularity rather than POSIX's per-descriptor granularity.
var hdf5CounterNames = []string{
	"HDF5_OPENS",
	"HDF5_FLUSHES",
	"HDF5_DATASET_OPENS",
	"HDF5_DATASET_READS",
	"HDF5_DATASET_WRITES",
	"HDF5_BYTES_READ",
	"HDF5_BYTES_WRITTEN",
}

var hdf5FCounterNames = []string{
	"HDF5_F_OPEN_START_TIMESTAMP",
	"HDF5_F_CLOSE_END_TIMESTAMP",
	"HDF5_F_READ_TIME",
	"HDF5_F_WRITE_TIME",
}

type hdf5Codec struct{}

func (hdf5Codec) Name() string      { return "HDF5" }
func (hdf5Codec) NumCounters() int  { return len(hdf5CounterNames) }
func (hdf5Codec) NumFCounters() int { return len(hdf5FCounterNames) }

func (c hdf5Codec) GetRecord(src Source) (*Record, int, error) {
	return decodeRecord(src, format.ModuleHDF5, c.NumCounters(), c.NumFCounters())
}

func (c hdf5Codec) PutRecord(sink Sink, rec *Record) error {
	return encodeRecord(sink, format.ModuleHDF5, rec, c.NumCounters(), c.NumFCounters())
}

func (c hdf5Codec) PrintRecord(rec *Record, path, mount, fsType string) string {
	return printRecord("HDF5", rec, path, mount, fsType, hdf5CounterNames, hdf5FCounterNames)
}
