package nrel118

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"legoio/internal/casestudy"
)

// InflowOptions names the three inflow sources and the optional horizon
// truncation.
type InflowOptions struct {
	// HourlyDir holds one CSV file per generator with one value per hour.
	HourlyDir string
	// HydroFile lists non-dispatchable hydro as (Generator, Timeslice,
	// Value) rows, one value per month.
	HydroFile string
	// PlexosFile is the Plexos export workbook carrying the monthly
	// maximum-energy budgets on its Properties sheet.
	PlexosFile string
	// MaximumK keeps only timesteps up to this label when set, e.g. "k0240".
	MaximumK string
}

// ReadInflows merges the hourly, monthly fixed and budget inflow sources
// into core inflow rows under the single scenario and representative
// period.
func ReadInflows(opts InflowOptions) ([]casestudy.InflowRow, error) {
	months := monthTimesliceToK()

	slog.Info("Reading hourly inflows",
		slog.String("dir", opts.HourlyDir),
		slog.String("data_package", DataPackage))
	hourly, err := readHourlyInflows(opts.HourlyDir)
	if err != nil {
		return nil, fmt.Errorf("hourly inflows: %w", err)
	}

	slog.Info("Reading monthly fixed hydro inflows", slog.String("file", opts.HydroFile))
	fixed, err := readHydroFixed(opts.HydroFile, months)
	if err != nil {
		return nil, fmt.Errorf("fixed hydro inflows: %w", err)
	}

	slog.Info("Reading monthly maximum energy budgets", slog.String("file", opts.PlexosFile))
	budgets, err := readPlexosBudgets(opts.PlexosFile, months)
	if err != nil {
		return nil, fmt.Errorf("plexos budgets: %w", err)
	}

	rows := make([]casestudy.InflowRow, 0, len(hourly)+len(fixed)+len(budgets))
	rows = append(rows, hourly...)
	rows = append(rows, fixed...)
	rows = append(rows, budgets...)

	if opts.MaximumK != "" {
		// Labels share a fixed width, so the string comparison is the
		// numeric one.
		kept := rows[:0]
		for _, r := range rows {
			if r.K <= opts.MaximumK {
				kept = append(kept, r)
			}
		}
		rows = kept
		slog.Info("Truncated inflows", slog.String("maximum_k", opts.MaximumK))
	}

	slog.Info("Inflows read",
		slog.Int("hourly_rows", len(hourly)),
		slog.Int("fixed_rows", len(fixed)),
		slog.Int("budget_rows", len(budgets)),
		slog.Int("total_rows", len(rows)))
	return rows, nil
}

// readHourlyInflows reads every per-generator CSV file of the folder. The
// file name minus the .csv extension is the generator name; timestep labels
// follow the row order.
func readHourlyInflows(dir string) ([]casestudy.InflowRow, error) {
	names, err := listCSVFiles(dir)
	if err != nil {
		return nil, err
	}

	var rows []casestudy.InflowRow
	for _, name := range names {
		values, err := readValueSeries(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		g := strings.TrimSuffix(name, ".csv")
		for i, v := range values {
			rows = append(rows, casestudy.InflowRow{
				Scenario: Scenario, RP: RP, K: kLabel(i + 1), G: g, Value: v,
			})
		}
	}
	return rows, nil
}

// readHydroFixed expands each (generator, month, value) row into a constant
// hourly series over the month. Rows with an unknown timeslice are skipped
// with a warning.
func readHydroFixed(path string, months map[string][]string) ([]casestudy.InflowRow, error) {
	records, err := readCSVFile(path, ',')
	if err != nil {
		return nil, err
	}

	header := records[0]
	gIdx := columnIndex(header, "Generator")
	tsIdx := columnIndex(header, "Timeslice")
	vIdx := columnIndex(header, "Value")
	if gIdx < 0 || tsIdx < 0 || vIdx < 0 {
		return nil, fmt.Errorf("%w: need Generator, Timeslice, Value in %s",
			ErrMissingColumn, filepath.Base(path))
	}

	var rows []casestudy.InflowRow
	for i, rec := range records[1:] {
		ks, ok := months[rec[tsIdx]]
		if !ok {
			slog.Warn("Skipping hydro row with unknown timeslice",
				slog.String("timeslice", rec[tsIdx]),
				slog.String("generator", rec[gIdx]))
			continue
		}
		v, err := strconv.ParseFloat(rec[vIdx], 64)
		if err != nil {
			return nil, fmt.Errorf("file %s row %d: %w", filepath.Base(path), i+1, err)
		}
		for _, k := range ks {
			rows = append(rows, casestudy.InflowRow{
				Scenario: Scenario, RP: RP, K: k, G: rec[gIdx], Value: v,
			})
		}
	}
	return rows, nil
}

// readPlexosBudgets keeps the "Max Energy Month" properties of the export
// workbook and spreads each monthly budget uniformly over the hours of its
// month.
func readPlexosBudgets(path string, months map[string][]string) ([]casestudy.InflowRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	records, err := f.GetRows("Properties")
	if err != nil {
		return nil, fmt.Errorf("failed to read Properties sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet Properties in %s has no header", filepath.Base(path))
	}

	header := records[0]
	propIdx := columnIndex(header, "property")
	childIdx := columnIndex(header, "child_object")
	patIdx := columnIndex(header, "pattern")
	valIdx := columnIndex(header, "value")
	if propIdx < 0 || childIdx < 0 || patIdx < 0 || valIdx < 0 {
		return nil, fmt.Errorf("%w: need property, child_object, pattern, value in %s",
			ErrMissingColumn, filepath.Base(path))
	}

	// GetRows drops trailing empty cells.
	cell := func(rec []string, idx int) string {
		if idx < len(rec) {
			return rec[idx]
		}
		return ""
	}

	var rows []casestudy.InflowRow
	for i, rec := range records[1:] {
		if cell(rec, propIdx) != "Max Energy Month" {
			continue
		}
		ks, ok := months[cell(rec, patIdx)]
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(cell(rec, valIdx), 64)
		if err != nil {
			return nil, fmt.Errorf("sheet Properties row %d: %w", i+2, err)
		}
		perHour := v / float64(len(ks))
		for _, k := range ks {
			rows = append(rows, casestudy.InflowRow{
				Scenario: Scenario, RP: RP, K: k, G: cell(rec, childIdx), Value: perHour,
			})
		}
	}
	return rows, nil
}
