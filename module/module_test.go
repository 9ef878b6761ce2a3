package module

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcio/tracelog/format"
)

// fakeRegion is an in-memory Source+Sink pair for one module's region,
// used to round-trip records through a Codec without a real container.
type fakeRegion struct {
	id   format.ModuleID
	buf  []byte
	pos  int
	swap bool
}

func (f *fakeRegion) ReadModule(id format.ModuleID, buf []byte) (int, error) {
	if id != f.id {
		return 0, nil
	}

	n := copy(buf, f.buf[f.pos:])
	if n < len(buf) {
		return n, nil
	}

	f.pos += n

	return n, nil
}

func (f *fakeRegion) SwapBytes() bool { return f.swap }

func (f *fakeRegion) WriteModule(id format.ModuleID, buf []byte) (int, error) {
	f.buf = append(f.buf, buf...)
	return len(buf), nil
}

func TestLookupAllModules(t *testing.T) {
	for _, id := range All() {
		codec, err := Lookup(id)
		require.NoError(t, err)
		require.NotEmpty(t, codec.Name())
	}
}

func TestLookupInvalidModule(t *testing.T) {
	_, err := Lookup(format.ModuleID(99))
	require.Error(t, err)
}

func TestPosixRoundTrip(t *testing.T) {
	codec, err := Lookup(format.ModulePOSIX)
	require.NoError(t, err)

	region := &fakeRegion{id: format.ModulePOSIX}

	rec := &Record{
		RecordID:  0xabc123,
		Rank:      -1,
		Counters:  make([]int64, codec.NumCounters()),
		FCounters: make([]float64, codec.NumFCounters()),
	}
	rec.Counters[0] = 42
	rec.FCounters[0] = 3.5

	require.NoError(t, codec.PutRecord(region, rec))

	got, status, err := codec.GetRecord(region)
	require.NoError(t, err)
	require.Equal(t, 1, status)
	require.Equal(t, rec.RecordID, got.RecordID)
	require.Equal(t, rec.Rank, got.Rank)
	require.Equal(t, rec.Counters, got.Counters)
	require.InDeltaSlice(t, rec.FCounters, got.FCounters, 1e-12)

	_, status, err = codec.GetRecord(region)
	require.NoError(t, err)
	require.Equal(t, 0, status)
}

func TestHDF5PrintRecord(t *testing.T) {
	codec, err := Lookup(format.ModuleHDF5)
	require.NoError(t, err)

	rec := &Record{
		RecordID:  1,
		Rank:      0,
		Counters:  make([]int64, codec.NumCounters()),
		FCounters: make([]float64, codec.NumFCounters()),
	}

	out := codec.PrintRecord(rec, "/data/f.h5", "/data", "lustre")
	require.Contains(t, out, "HDF5")
	require.Contains(t, out, "/data/f.h5")
}
