package nrel118

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMissingColumn marks a source file whose header lacks a required column.
var ErrMissingColumn = errors.New("column not in file header")

// readValueSeries reads the Value (or Values) column of one hourly CSV file
// in row order.
func readValueSeries(path string) ([]float64, error) {
	records, err := readCSVFile(path, ',')
	if err != nil {
		return nil, err
	}

	idx := columnIndex(records[0], "Value", "Values")
	if idx < 0 {
		return nil, fmt.Errorf("%w: Value in %s", ErrMissingColumn, filepath.Base(path))
	}

	values := make([]float64, 0, len(records)-1)
	for i, rec := range records[1:] {
		v, err := strconv.ParseFloat(rec[idx], 64)
		if err != nil {
			return nil, fmt.Errorf("file %s row %d: %w", filepath.Base(path), i+1, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// readCSVFile parses a delimited file and returns its records, header
// included. The byte-order mark of the header, if any, is stripped.
func readCSVFile(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file %s has no header line", filepath.Base(path))
	}
	records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	return records, nil
}

// columnIndex returns the index of the first header cell matching any of
// the names, or -1.
func columnIndex(header []string, names ...string) int {
	for i, h := range header {
		for _, name := range names {
			if h == name {
				return i
			}
		}
	}
	return -1
}

// listCSVFiles returns the .csv entries of dir in name order.
func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
