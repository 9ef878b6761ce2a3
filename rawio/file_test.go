package rawio

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpcio/tracelog/errs"
)

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")

	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = Create(path)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindIO))
	require.True(t, errors.Is(err, errs.ErrExists))
}

func TestWriteSeekRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")

	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	n, err := f.Write([]byte("hello world"))
	require.NoError(t, err)
	require.Equal(t, 11, n)
	require.Equal(t, int64(11), f.Pos())

	require.NoError(t, f.Seek(6))
	require.Equal(t, int64(6), f.Pos())

	buf := make([]byte, 5)
	n, err = f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))
	require.Equal(t, int64(11), f.Pos())
}

// TestShortReadAtEOF checks that running off the end of the file
// yields a short count, not an error.
func TestShortReadAtEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")

	f, err := Create(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, f.Seek(0))

	buf := make([]byte, 8)
	n, err := f.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, int64(3), f.Pos())

	n, err = f.Read(buf)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestUnlinkRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.bin")

	f, err := Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Unlink())

	_, err = Open(path)
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.KindIO))
}
