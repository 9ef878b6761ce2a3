// Package region implements the region loader/unloader of the log
// container: pulling compressed bytes for the region currently being
// decoded into a staging buffer, and flushing a staging buffer's
// contents back out while updating the region's recorded extent.
//
// A region is identified by an ID and located in the file by a
// format.Extent (offset, length). Module regions use non-negative ids;
// job and the record map use small negative sentinels so the same
// ordering check that applies to module ids ("ascending, no going
// back") also orders the fixed regions relative to each other.
package region

import (
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/rawio"
)

// ID identifies a region within the log file.
type ID int32

const (
	// Header names the header region. It is never passed to
	// Load/Unload (the header is the one uncompressed region), and the
	// compression façade tracks "no region touched yet" with its own
	// flag rather than with this id.
	Header ID = -3
	Job    ID = -2
	RecMap ID = -1
)

// Load pulls up to len(buf) compressed bytes belonging to ext into buf,
// seeking first if the file isn't already positioned inside the
// region. It reports end-of-region once the read reaches the extent's
// end or the underlying file is exhausted.
func Load(f *rawio.File, ext *format.Extent, buf []byte) (n int, eor bool, err error) {
	if f.Pos() < ext.Offset || f.Pos() >= ext.Offset+ext.Length {
		if err := f.Seek(ext.Offset); err != nil {
			return 0, false, err
		}
	}

	remaining := ext.Offset + ext.Length - f.Pos()
	want := int64(len(buf))
	if want > remaining {
		want = remaining
	}

	if want <= 0 {
		return 0, true, nil
	}

	n, err = f.Read(buf[:want])
	if err != nil {
		return n, false, err
	}

	if int64(n) >= remaining || n == 0 {
		eor = true
	}

	return n, eor, nil
}

// Unload appends buf to the file at the current position, extending
// ext's recorded length. ext.Offset is set lazily: a region's true
// on-disk start is only known the first time something is actually
// written to it. An offset of 0 marks a region as not yet written, so
// Unload pins the offset whenever it still finds 0; a region that really
// starts at file offset 0 (where a log keeps its header) would have its
// offset moved by a second Unload.
func Unload(f *rawio.File, ext *format.Extent, buf []byte) error {
	if len(buf) == 0 {
		return nil
	}

	if ext.Offset == 0 {
		ext.Offset = f.Pos()
	}

	n, err := f.Write(buf)
	ext.Length += int64(n)

	return err
}
