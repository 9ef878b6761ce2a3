package region

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/rawio"
)

// TestUnloadRecordsExtentLazily checks that the first Unload pins the
// region's offset at the current file position and that later Unloads
// extend only the length.
func TestUnloadRecordsExtentLazily(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unload.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("reserved"))
	require.NoError(t, err)

	var ext format.Extent
	require.NoError(t, Unload(f, &ext, []byte("abcd")))
	require.Equal(t, int64(8), ext.Offset)
	require.Equal(t, int64(4), ext.Length)

	require.NoError(t, Unload(f, &ext, []byte("efgh")))
	require.Equal(t, int64(8), ext.Offset)
	require.Equal(t, int64(8), ext.Length)
}

// TestUnloadEmptyBufferIsNoop checks that flushing an empty staging
// buffer records nothing, so an extent's offset is only pinned once
// real bytes land.
func TestUnloadEmptyBufferIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noop.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("xx"))
	require.NoError(t, err)

	var ext format.Extent
	require.NoError(t, Unload(f, &ext, nil))
	require.Zero(t, ext.Offset)
	require.Zero(t, ext.Length)
}

// TestLoadSeeksAndBoundsReads checks that Load seeks into the extent
// when positioned elsewhere, never reads past the extent's end, and
// flags end-of-region on the final pull. A further Load, positioned at
// the extent's end and so outside it, seeks back to the region's start.
func TestLoadSeeksAndBoundsReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)

	_, err = f.Write([]byte("prefix--region body--suffix"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rf, err := rawio.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	ext := format.Extent{Offset: 8, Length: 13} // "region body--"
	buf := make([]byte, 6)

	n, eor, err := Load(rf, &ext, buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.False(t, eor)
	require.Equal(t, "region", string(buf[:n]))

	n, eor, err = Load(rf, &ext, buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.False(t, eor)
	require.Equal(t, " body-", string(buf[:n]))

	n, eor, err = Load(rf, &ext, buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.True(t, eor)
	require.Equal(t, "-", string(buf[:n]))

	n, eor, err = Load(rf, &ext, buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.False(t, eor)
	require.Equal(t, "region", string(buf[:n]))
}

// TestLoadZeroLengthRegion checks that an unwritten region reports
// end-of-region immediately.
func TestLoadZeroLengthRegion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rf, err := rawio.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	var ext format.Extent
	n, eor, err := Load(rf, &ext, make([]byte, 8))
	require.NoError(t, err)
	require.Zero(t, n)
	require.True(t, eor)
}
