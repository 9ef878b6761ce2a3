package compress

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcio/tracelog/errs"
	"github.com/hpcio/tracelog/format"
	"github.com/hpcio/tracelog/rawio"
	"github.com/hpcio/tracelog/region"
)

func newExtentTable() (ExtentTable, map[region.ID]*format.Extent) {
	m := make(map[region.ID]*format.Extent)

	return func(id region.ID) *format.Extent {
		e, ok := m[id]
		if !ok {
			e = &format.Extent{}
			m[id] = e
		}

		return e
	}, m
}

// TestRegionWriteReadChunks checks that a region built by several Write
// calls, each large enough to force staging-buffer flushes, decodes
// into exactly the concatenation of the inputs, for both backends.
func TestRegionWriteReadChunks(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionDeflate, format.CompressionBzip2} {
		t.Run(ct.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "region.bin")

			f, err := rawio.Create(path)
			require.NoError(t, err)

			// Start the region past a header-sized gap, as in a real log:
			// region.Unload reads an extent offset of 0 as "not yet
			// written", so a region cannot start at file offset 0.
			require.NoError(t, f.Seek(int64(format.HeaderSize)))

			table, _ := newExtentTable()

			// A tiny staging buffer so every chunk of incompressible
			// input triggers multiple unloads.
			s, err := NewStream(Encode, ct, f, table, 4096)
			require.NoError(t, err)

			rng := rand.New(rand.NewSource(7))
			var want bytes.Buffer
			for i := 0; i < 3; i++ {
				chunk := make([]byte, 200_000)
				rng.Read(chunk)
				want.Write(chunk)

				_, err = s.Write(region.ID(0), chunk)
				require.NoError(t, err)
			}

			require.NoError(t, s.Finish())
			require.NoError(t, f.Close())

			rf, err := rawio.Open(path)
			require.NoError(t, err)
			defer rf.Close()

			d, err := NewStream(Decode, ct, rf, table, 4096)
			require.NoError(t, err)

			got := make([]byte, want.Len()+64)
			n, err := d.Read(region.ID(0), got)
			require.NoError(t, err)
			require.Equal(t, want.Len(), n)
			require.Equal(t, want.Bytes(), got[:n])
		})
	}
}

// TestConcatenatedStreamsOneRegion checks that a region whose on-disk
// body is several independently finished compressed streams decodes as
// one continuous byte sequence: the decoder must reinitialize at each
// stream-end marker and keep going until the extent is exhausted,
// without reading ahead past a stream's end.
func TestConcatenatedStreamsOneRegion(t *testing.T) {
	parts := [][]byte{
		[]byte("first stream payload"),
		[]byte("second stream payload, a bit longer than the first"),
		[]byte("third"),
	}

	for _, ct := range []format.CompressionType{format.CompressionDeflate, format.CompressionBzip2} {
		t.Run(ct.String(), func(t *testing.T) {
			backend, err := NewBackend(ct)
			require.NoError(t, err)

			var disk bytes.Buffer
			var want []byte
			for _, part := range parts {
				enc, err := backend.NewEncoder(&disk)
				require.NoError(t, err)

				_, err = enc.Write(part)
				require.NoError(t, err)
				require.NoError(t, enc.Close())

				want = append(want, part...)
			}

			path := filepath.Join(t.TempDir(), "concat.bin")
			require.NoError(t, os.WriteFile(path, disk.Bytes(), 0o644))

			f, err := rawio.Open(path)
			require.NoError(t, err)
			defer f.Close()

			ext := &format.Extent{Offset: 0, Length: int64(disk.Len())}
			table := func(region.ID) *format.Extent { return ext }

			// A small staging buffer so stream boundaries land mid-pull.
			s, err := NewStream(Decode, ct, f, table, 64)
			require.NoError(t, err)

			got := make([]byte, len(want)+64)
			n, err := s.Read(region.ID(0), got)
			require.NoError(t, err)
			require.Equal(t, want, got[:n])
		})
	}
}

// TestWriteOrderingEnforced checks that writing to a region with a
// smaller id than the last one fails with an ordering error.
func TestWriteOrderingEnforced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "order.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)
	defer f.Close()

	table, _ := newExtentTable()

	s, err := NewStream(Encode, format.CompressionDeflate, f, table, 0)
	require.NoError(t, err)

	_, err = s.Write(region.ID(1), []byte("later region"))
	require.NoError(t, err)

	_, err = s.Write(region.ID(0), []byte("earlier region"))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindOrdering))
}

// TestRestartAndRegionTransitions checks that Restart replays a region
// from its beginning and that switching regions back and forth resets
// decode state each time.
func TestRestartAndRegionTransitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)

	table, _ := newExtentTable()

	s, err := NewStream(Encode, format.CompressionDeflate, f, table, 0)
	require.NoError(t, err)

	_, err = s.Write(region.ID(0), []byte("region zero body"))
	require.NoError(t, err)
	_, err = s.Write(region.ID(1), []byte("region one body"))
	require.NoError(t, err)
	require.NoError(t, s.Finish())
	require.NoError(t, f.Close())

	rf, err := rawio.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	d, err := NewStream(Decode, format.CompressionDeflate, rf, table, 0)
	require.NoError(t, err)

	readRegion := func(id region.ID) string {
		buf := make([]byte, 64)
		n, err := d.Read(id, buf)
		require.NoError(t, err)

		return string(buf[:n])
	}

	require.Equal(t, "region zero body", readRegion(region.ID(0)))
	require.Equal(t, "region one body", readRegion(region.ID(1)))
	require.Equal(t, "region zero body", readRegion(region.ID(0)))

	require.NoError(t, d.Restart(region.ID(0)))
	require.Equal(t, "region zero body", readRegion(region.ID(0)))
}

// TestZeroLengthRegionReadsEmpty checks that a region nothing was ever
// written to reads back as an immediate end-of-region.
func TestZeroLengthRegionReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.bin")

	f, err := rawio.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	rf, err := rawio.Open(path)
	require.NoError(t, err)
	defer rf.Close()

	table, _ := newExtentTable()

	d, err := NewStream(Decode, format.CompressionDeflate, rf, table, 0)
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := d.Read(region.ID(2), buf)
	require.NoError(t, err)
	require.Zero(t, n)
}
