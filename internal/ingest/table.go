package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/banshee-data/trackreplay/internal/config"
	"github.com/banshee-data/trackreplay/internal/monitoring"
)

var logf = monitoring.Tagged("ingest")

var lineBreak = regexp.MustCompile(`\r\n|\n`)

// Options controls header detection and the fallback timebase.
type Options struct {
	HeaderScanLines int           // Leading lines searched for the header row
	SampleInterval  time.Duration // Cadence assumed for rows without a usable timestamp
	SpeedUnits      string        // Unit of logged speed; derived speeds are produced in it too
}

// DefaultOptions returns the standard ingest settings.
func DefaultOptions() Options {
	return OptionsFromConfig(config.EmptyReplayConfig())
}

// OptionsFromConfig builds Options from a loaded ReplayConfig.
func OptionsFromConfig(cfg *config.ReplayConfig) Options {
	return Options{
		HeaderScanLines: cfg.GetHeaderScanLines(),
		SampleInterval:  cfg.GetFallbackSampleInterval(),
		SpeedUnits:      cfg.GetSourceSpeedUnits(),
	}
}

// Table is a tokenized log: the detected header, the matched channel
// columns and every data row below the header.
type Table struct {
	HeaderLine int
	Delimiter  rune
	Header     []string
	Columns    ColumnMap
	Rows       [][]string
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// ReadTable locates the header row within the first opts.HeaderScanLines
// lines and tokenizes everything from the header down. Lines above the
// header are discarded. The delimiter is taken from the header line.
func ReadTable(r io.Reader, opts Options) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read telemetry: %w", err)
	}
	lines := lineBreak.Split(string(data), -1)

	headerIdx := -1
	scan := min(len(lines), opts.HeaderScanLines)
	for i := 0; i < scan; i++ {
		if _, ok := MatchColumns(splitHeaderLine(lines[i])); ok {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoHeader
	}

	delim := ','
	if headerLine := lines[headerIdx]; strings.Contains(headerLine, ";") && !strings.Contains(headerLine, ",") {
		delim = ';'
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(lines[headerIdx:], "\n")))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		header[i] = unquote(strings.TrimSpace(h))
	}
	cols, ok := MatchColumns(header)
	if !ok {
		return nil, ErrNoHeader
	}

	t := &Table{
		HeaderLine: headerIdx,
		Delimiter:  delim,
		Header:     header,
		Columns:    cols,
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(t.Rows)+1, err)
		}
		t.Rows = append(t.Rows, rec)
	}

	logf("header at line %d (delimiter %q), %d data rows", headerIdx, delim, len(t.Rows))
	return t, nil
}
