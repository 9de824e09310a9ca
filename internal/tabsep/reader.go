package tabsep

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v2"

	"legoio/internal/casestudy"
)

// Sentinel errors callers can test with errors.Is.
var (
	ErrUnknownColumn = errors.New("column not in file header")
	ErrBadInterval   = errors.New("aggregation interval must be at least 1")
)

// DataSettings mirrors the DataSettings.yaml layout used by the
// tab-separated data folders.
type DataSettings struct {
	VRESProfiles ProfileSource       `yaml:"VRES_profiles"`
	Aggregation  AggregationSettings `yaml:"aggregation"`
}

// ProfileSource names the file and column one profile is read from.
type ProfileSource struct {
	Filename string `yaml:"filename"`
	Column   string `yaml:"column"`
}

// AggregationSettings sums each run of Interval consecutive values into one
// coarser timestep when enabled. The yaml key keeps the spelling the
// settings files use.
type AggregationSettings struct {
	Enabled  bool `yaml:"enabled"`
	Interval int  `yaml:"intervall"`
}

// ReadDataSettings loads and parses the YAML settings file.
func ReadDataSettings(path string) (DataSettings, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return DataSettings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var settings DataSettings
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return DataSettings{}, fmt.Errorf("failed to parse settings %s: %w", filepath.Base(path), err)
	}
	if settings.Aggregation.Enabled && settings.Aggregation.Interval < 1 {
		return DataSettings{}, fmt.Errorf("%w: %d", ErrBadInterval, settings.Aggregation.Interval)
	}
	return settings, nil
}

// Frame holds one parsed tab-separated file: column names in file order and
// row-major cells, padded or truncated to the header width.
type Frame struct {
	Columns []string
	Rows    [][]string
}

// ReadFile parses a tab-separated data file. The first line names the
// columns, the second carries units and is skipped, and a trailing column
// with an empty name (from lines ending in a tab) is dropped. Content that
// is not valid UTF-8 is decoded as Latin-1.
func ReadFile(path string) (*Frame, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	text := string(content)
	if !utf8.ValidString(text) {
		text = decodeLatin1(content)
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header line", filepath.Base(path))
	}

	columns := records[0]
	if n := len(columns); n > 0 && strings.TrimSpace(columns[n-1]) == "" {
		columns = columns[:n-1]
	}

	// Line two is the unit row.
	data := records[1:]
	if len(data) > 0 {
		data = data[1:]
	}

	frame := &Frame{Columns: columns}
	for _, rec := range data {
		row := make([]string, len(columns))
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
			}
		}
		frame.Rows = append(frame.Rows, row)
	}

	slog.Debug("Parsed tab-separated file",
		slog.String("file", filepath.Base(path)),
		slog.Int("column_count", len(frame.Columns)),
		slog.Int("row_count", len(frame.Rows)))
	return frame, nil
}

// Column returns the named column parsed as floats, in row order. Blank
// cells become NaN.
func (f *Frame) Column(name string) ([]float64, error) {
	idx := -1
	for i, col := range f.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownColumn, name, strings.Join(f.Columns, ", "))
	}

	values := make([]float64, len(f.Rows))
	for i, row := range f.Rows {
		cell := strings.TrimSpace(row[idx])
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		values[i] = v
	}
	return values, nil
}

// VRESProfile reads the configured profile column from the data folder and
// applies the optional interval aggregation.
func VRESProfile(dataDir string, settings DataSettings) ([]float64, error) {
	frame, err := ReadFile(filepath.Join(dataDir, settings.VRESProfiles.Filename))
	if err != nil {
		return nil, err
	}

	values, err := frame.Column(settings.VRESProfiles.Column)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", settings.VRESProfiles.Filename, err)
	}

	if settings.Aggregation.Enabled {
		return AggregateIntervals(values, settings.Aggregation.Interval)
	}
	return values, nil
}

// AggregateIntervals sums each run of interval consecutive values into one.
// A trailing partial run sums what is left.
func AggregateIntervals(values []float64, interval int) ([]float64, error) {
	if interval < 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadInterval, interval)
	}

	var out []float64
	for i, v := range values {
		if i%interval == 0 {
			out = append(out, 0)
		}
		out[len(out)-1] += v
	}
	return out, nil
}

// ProfileRows converts profile values into hourly capacity-factor rows for
// one scenario, bus and technology under the single representative period
// rp01, labeling timesteps k0001.. in value order.
func ProfileRows(scenario, bus, tec string, values []float64) []casestudy.VRESProfileRow {
	rows := make([]casestudy.VRESProfileRow, len(values))
	for i, v := range values {
		rows[i] = casestudy.VRESProfileRow{
			Scenario: scenario,
			RP:       "rp01",
			K:        fmt.Sprintf("k%04d", i+1),
			Bus:      bus,
			Tec:      tec,
			Value:    v,
		}
	}
	return rows
}

// decodeLatin1 maps every byte onto the code point with the same value.
func decodeLatin1(content []byte) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, c := range content {
		b.WriteRune(rune(c))
	}
	return b.String()
}
