// Package tracelog provides a self-describing binary log format for
// HPC I/O telemetry: per-job metadata, an application command line and
// mount table, a record-id -> path name table, and one or more
// per-module sections of fixed-shape per-file counter records (POSIX,
// MPI-IO, HDF5, PNetCDF, ...), all stored as a region-structured,
// streamingly compressed container.
//
// # Core Features
//
//   - Region-structured container with an uncompressed fixed header
//     followed by independently addressable, compressed regions
//   - Pluggable compression backends (DEFLATE, BZIP2) selected per log
//   - Byte-order agnostic reads, detected from the header's magic number
//   - A static per-module dispatch table decoupling the container from
//     each module's record shape and byte-swap rules
//   - Single-pass, ordered writes with sticky-error-then-unlink cleanup
//
// # Basic Usage
//
// Writing a log:
//
//	import "github.com/hpcio/tracelog"
//	import "github.com/hpcio/tracelog/format"
//
//	w, err := tracelog.Create("run.trc", format.CompressionDeflate, false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = w.PutJob(format.Job{UID: 1000, StartTime: 100, EndTime: 400, NProcs: 4, JobID: 42})
//	_ = w.PutExe("/bin/app")
//	_ = w.PutMounts([]string{"/", "/home"}, []string{"ext4", "nfs"})
//	_ = w.PutHash(map[uint64]string{0xDEADBEEF: "/scratch/a"})
//	_ = w.Close()
//
// Reading it back:
//
//	r, err := tracelog.Open("run.trc")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//	job, _ := r.GetJob()
//	exe, _ := r.GetExe()
//	mounts, fsTypes, _ := r.GetMounts()
//	paths, _ := r.GetHash()
package tracelog

import (
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/logfile"
)

// Reader is the read-mode log handle: open an existing file, then pull
// the job record, exe/mount text, record map, and per-module records on
// demand, in any order.
type Reader = logfile.Reader

// Writer is the write-mode log handle: reserves header space on
// Create, accepts writes in the prescribed PutJob/PutExe/PutMounts/
// PutHash/PutMod order, and finalizes the header on Close.
type Writer = logfile.Writer

// Job is the job-level metadata record: uid, start/end time,
// nprocs, jobid, and a bounded metadata string.
type Job = format.Job

// ModuleID identifies a recognized instrumentation module (POSIX,
// MPI-IO, HDF5, PNetCDF).
type ModuleID = format.ModuleID

// CompressionType selects the streaming compression backend a log is
// written with.
type CompressionType = format.CompressionType

// Recognized module ids, re-exported for convenience.
const (
	ModulePOSIX   = format.ModulePOSIX
	ModuleMPIIO   = format.ModuleMPIIO
	ModuleHDF5    = format.ModuleHDF5
	ModulePNetCDF = format.ModulePNetCDF
)

// Recognized compression backends, re-exported for convenience.
const (
	CompressionDeflate = format.CompressionDeflate
	CompressionBzip2   = format.CompressionBzip2
)

// Open opens an existing log for reading, parsing its header and
// detecting its byte order from the magic number.
func Open(path string) (*Reader, error) {
	return logfile.Open(path)
}

// Create creates a new log for writing. It fails if path already
// exists. compType selects the compression backend recorded in the
// header; partial signals that the producer truncated its record set.
func Create(path string, compType CompressionType, partial bool) (*Writer, error) {
	return logfile.Create(path, compType, partial)
}
