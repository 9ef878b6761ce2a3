// Package logfile implements the log container codec: the reader
// and writer that sit on top of the compression façade (package
// compress) and hand out the job record, the trailing exe/mount text,
// the record-id→path map, and per-module record streams.
//
// A Writer enforces the write-side ordering invariant (PutJob, PutExe,
// PutMounts, PutHash, then PutMod in strictly ascending module-id
// order) and unlinks its output file on Close if anything failed along
// the way. A Reader imposes no ordering: any of GetJob/GetExe/
// GetMounts/GetHash/GetMod(m) can be called in any order, any number of
// times, each one driving the compression façade through the region it
// needs (see compress.Stream for what "driving" costs when the region
// doesn't change between two consecutive calls).
package logfile
