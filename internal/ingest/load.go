package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/telemetry"
)

// SessionName derives a display name from a file path: the base name
// without its extension.
func SessionName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadFile reads one telemetry file. .gpx files go through ReadGPX, every
// other extension is treated as a delimited table. Failures are returned as
// *ParseError.
func LoadFile(fsys fsutil.FileSystem, path string, opts Options) (*telemetry.RawSession, error) {
	name := SessionName(path)

	f, err := fsys.Open(path)
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}
	defer f.Close()

	var raw *telemetry.RawSession
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gpx":
		raw, err = ReadGPX(name, f, opts)
	case ".csv", ".txt", ".log", "":
		var t *Table
		t, err = ReadTable(f, opts)
		if err == nil {
			raw = Build(name, t, opts)
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, &ParseError{Source: path, Err: err}
	}

	raw.Source = path
	logf("%s: %d points, %.1fs", name, len(raw.Points), telemetry.Duration(raw.Points))
	return raw, nil
}
