package module

import "github.com/hpcio/tracelog/format"

// pnetcdfCounterNames/pnetcdfFCounterNames name PNETCDF_* counters:
// file open/sync counts and independent/collective variable-access
// tallies.
var pnetcdfCounterNames = []string{
	"PNETCDF_FILE_OPENS",
	"PNETCDF_FILE_SYNCS",
	"PNETCDF_INDEP_OPENS",
	"PNETCDF_COLL_OPENS",
	"PNETCDF_INDEP_READS",
	"PNETCDF_INDEP_WRITES",
	"PNETCDF_COLL_READS",
	"PNETCDF_COLL_WRITES",
	"PNETCDF_BYTES_READ",
	"PNETCDF_BYTES_WRITTEN",
}

var pnetcdfFCounterNames = []string{
	"PNETCDF_F_OPEN_START_TIMESTAMP",
	"PNETCDF_F_CLOSE_END_TIMESTAMP",
	"PNETCDF_F_READ_TIME",
	"PNETCDF_F_WRITE_TIME",
}

type pnetcdfCodec struct{}

func (pnetcdfCodec) Name() string      { return "PNetCDF" }
func (pnetcdfCodec) NumCounters() int  { return len(pnetcdfCounterNames) }
func (pnetcdfCodec) NumFCounters() int { return len(pnetcdfFCounterNames) }

func (c pnetcdfCodec) GetRecord(src Source) (*Record, int, error) {
	return decodeRecord(src, format.ModulePNetCDF, c.NumCounters(), c.NumFCounters())
}

func (c pnetcdfCodec) PutRecord(sink Sink, rec *Record) error {
	return encodeRecord(sink, format.ModulePNetCDF, rec, c.NumCounters(), c.NumFCounters())
}

func (c pnetcdfCodec) PrintRecord(rec *Record, path, mount, fsType string) string {
	return printRecord("PNetCDF", rec, path, mount, fsType, pnetcdfCounterNames, pnetcdfFCounterNames)
}
