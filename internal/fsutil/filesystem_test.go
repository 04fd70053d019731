package fsutil

import (
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFileSystem_ReadWrite(t *testing.T) {
	m := NewMemoryFileSystem()
	m.WriteFile("logs/car1.csv", []byte("lat,lon\n1,2\n"))

	data, err := m.ReadFile("logs/car1.csv")
	require.NoError(t, err)
	assert.Equal(t, "lat,lon\n1,2\n", string(data))

	rc, err := m.Open("logs/./car1.csv")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	info, err := m.Stat("logs/car1.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), info.Size())
	assert.False(t, info.IsDir())
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	m := NewMemoryFileSystem()

	_, err := m.Open("nope.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = m.Stat("nope.csv")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	m := NewMemoryFileSystem()
	require.NoError(t, m.MkdirAll("out/report", 0755))

	w, err := m.Create("out/report/speed.html")
	require.NoError(t, err)
	_, err = w.Write([]byte("<html></html>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := m.ReadFile("out/report/speed.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	info, err := m.Stat("out")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, m.Files(), filepath.Clean("out/report/speed.html"))
}

func TestOSFileSystem_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	var osfs OSFileSystem

	path := filepath.Join(dir, "nested", "track.json")
	require.NoError(t, osfs.MkdirAll(filepath.Dir(path), 0755))

	w, err := osfs.Create(path)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"meta":{}}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := osfs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"meta":{}}`, string(data))
}
