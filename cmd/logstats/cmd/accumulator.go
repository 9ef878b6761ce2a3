package cmd

import (
	"fmt"
	"io"
	"math"

	"github.com/hpcio/tracelog"
)

// accumulator aggregates statistics across a directory walk: one
// value, threaded through the walk by addFile, instead of global
// mutable state.
type accumulator struct {
	totalLogs int

	usingMPIIO   int
	usingPNetCDF int
	usingHDF5    int

	sharedFileLogs int
	fppLogs        int

	// ioRatioBuckets bins each log's I/O ratio into five 20%-wide bins
	// covering [0,1]: bucket i covers (i*0.2, (i+1)*0.2], with a
	// ratio of zero landing in the first bucket and anything above
	// 1.0 in the last.
	ioRatioBuckets [5]int
}

func newAccumulator() *accumulator {
	return &accumulator{}
}

// addFile opens path as a tracelog file and folds its statistics into
// a. Any failure to open or decode the log is returned unmodified, to
// be logged and skipped by the caller; the accumulator itself is left
// untouched by a failed attempt.
func (a *accumulator) addFile(path string) error {
	r, err := tracelog.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	job, err := r.GetJob()
	if err != nil {
		return err
	}

	shared, fpp, ioTime, err := a.scanPOSIX(r)
	if err != nil {
		return err
	}

	if hasRecords(r, tracelog.ModuleMPIIO) {
		a.usingMPIIO++
	}

	if hasRecords(r, tracelog.ModuleHDF5) {
		a.usingHDF5++
	}

	if hasRecords(r, tracelog.ModulePNetCDF) {
		a.usingPNetCDF++
	}

	a.totalLogs++

	if shared {
		a.sharedFileLogs++
	}

	if fpp {
		a.fppLogs++
	}

	wallTime := job.EndTime - job.StartTime
	if wallTime < 1 {
		wallTime = 1
	}

	ratio := ioTime / float64(wallTime)
	a.ioRatioBuckets[ratioBucket(ratio)]++

	return nil
}

// scanPOSIX walks every POSIX record in the log, reporting whether any
// record was shared (rank == -1) or file-per-process (rank >= 0), and
// the summed read+write+meta time across all records.
func (a *accumulator) scanPOSIX(r *tracelog.Reader) (shared, fpp bool, ioTime float64, err error) {
	for {
		rec, status, err := r.GetRecord(tracelog.ModulePOSIX)
		if status == 0 {
			break
		}

		if status < 0 {
			return false, false, 0, err
		}

		if rec.Rank == -1 {
			shared = true
		} else {
			fpp = true
		}

		// By convention (see module.posixFCounterNames), indices 2, 3
		// and 4 are read time, write time and meta time; every float
		// counter from index 2 on is summed.
		for i, v := range rec.FCounters {
			if i == 0 || i == 1 {
				continue // open/close timestamps, not durations
			}

			ioTime += v
		}
	}

	return shared, fpp, ioTime, nil
}

// hasRecords reports whether module id has at least one record in r.
func hasRecords(r *tracelog.Reader, id tracelog.ModuleID) bool {
	_, status, _ := r.GetRecord(id)
	return status == 1
}

// ratioBucket maps an I/O ratio to one of five 20%-wide bins with
// inclusive upper bounds: a ratio of exactly 0.20 belongs to the
// first bin, 0.80 to the fourth.
func ratioBucket(ratio float64) int {
	bucket := int(math.Ceil(ratio/0.2)) - 1
	if bucket < 0 {
		bucket = 0
	}

	if bucket > 4 {
		bucket = 4
	}

	return bucket
}

func (a *accumulator) report(w io.Writer) {
	fmt.Fprintf(w, "total logs:       %d\n", a.totalLogs)
	fmt.Fprintf(w, "using MPI-IO:     %d\n", a.usingMPIIO)
	fmt.Fprintf(w, "using PNetCDF:    %d\n", a.usingPNetCDF)
	fmt.Fprintf(w, "using HDF5:       %d\n", a.usingHDF5)
	fmt.Fprintf(w, "shared-file logs: %d\n", a.sharedFileLogs)
	fmt.Fprintf(w, "file-per-process: %d\n", a.fppLogs)
	fmt.Fprintln(w, "I/O ratio histogram (5 x 20% bins):")

	for i, count := range a.ioRatioBuckets {
		fmt.Fprintf(w, "  %.2f-%.2f: %d\n", float64(i)*0.2, float64(i+1)*0.2, count)
	}
}
