package module

import (
	"fmt"
	"strings"

	"github.com/hpcio/tracelog/format"
)

// posixCounterNames and posixFCounterNames name POSIX_* and
// POSIX_F_* integer and float counters in on-disk field order: open
// and read/write call counts, byte totals, sequential/consecutive
// access tallies, and the timing floats.
var posixCounterNames = []string{
	"POSIX_OPENS",
	"POSIX_READS",
	"POSIX_WRITES",
	"POSIX_SEEKS",
	"POSIX_STATS",
	"POSIX_MMAPS",
	"POSIX_FSYNCS",
	"POSIX_BYTES_READ",
	"POSIX_BYTES_WRITTEN",
	"POSIX_MAX_BYTE_READ",
	"POSIX_MAX_BYTE_WRITTEN",
	"POSIX_CONSEC_READS",
	"POSIX_CONSEC_WRITES",
	"POSIX_SEQ_READS",
	"POSIX_SEQ_WRITES",
}

var posixFCounterNames = []string{
	"POSIX_F_OPEN_START_TIMESTAMP",
	"POSIX_F_CLOSE_END_TIMESTAMP",
	"POSIX_F_READ_TIME",
	"POSIX_F_WRITE_TIME",
	"POSIX_F_META_TIME",
}

type posixCodec struct{}

func (posixCodec) Name() string      { return "POSIX" }
func (posixCodec) NumCounters() int  { return len(posixCounterNames) }
func (posixCodec) NumFCounters() int { return len(posixFCounterNames) }

func (c posixCodec) GetRecord(src Source) (*Record, int, error) {
	return decodeRecord(src, format.ModulePOSIX, c.NumCounters(), c.NumFCounters())
}

func (c posixCodec) PutRecord(sink Sink, rec *Record) error {
	return encodeRecord(sink, format.ModulePOSIX, rec, c.NumCounters(), c.NumFCounters())
}

func (c posixCodec) PrintRecord(rec *Record, path, mount, fsType string) string {
	return printRecord("POSIX", rec, path, mount, fsType, posixCounterNames, posixFCounterNames)
}

// printRecord renders one record as tab-separated lines, one per
// counter: module, rank, record id, counter name, value, path, mount
// point, filesystem type.
func printRecord(modName string, rec *Record, path, mount, fsType string, counterNames, fCounterNames []string) string {
	var b strings.Builder

	for i, name := range counterNames {
		var v int64
		if i < len(rec.Counters) {
			v = rec.Counters[i]
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\t%d\t%s\t%s\t%s\n",
			modName, rec.Rank, rec.RecordID, name, v, path, mount, fsType)
	}

	for i, name := range fCounterNames {
		var v float64
		if i < len(rec.FCounters) {
			v = rec.FCounters[i]
		}
		fmt.Fprintf(&b, "%s\t%d\t%d\t%s\t%f\t%s\t%s\t%s\n",
			modName, rec.Rank, rec.RecordID, name, v, path, mount, fsType)
	}

	return b.String()
}
