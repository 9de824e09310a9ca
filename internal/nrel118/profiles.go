package nrel118

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"legoio/internal/casestudy"
)

// ErrUnknownGenerator marks a profile file with no matching entry in the
// generator information.
var ErrUnknownGenerator = errors.New("generator not in generator information")

// ProfileOptions names the VRES profile sources and transforms.
type ProfileOptions struct {
	// SolarDir and WindDir hold one CSV file per unit, named like
	// Solar39RT.csv and Wind4RT.csv, with one production value per hour.
	SolarDir string
	WindDir  string
	// GeneratorFile is the semicolon-separated unit list carrying the
	// installed capacity per unit, with a decimal comma.
	GeneratorFile string
	// ClipMax1 and ClipMin0 clamp capacity factors into [0, 1].
	ClipMax1 bool
	ClipMin0 bool
	// MaximumK keeps only timesteps up to this label when set.
	MaximumK string
}

// ReadVRESProfiles converts the hourly solar and wind production series
// into per-unit capacity factors using the installed capacity of each unit.
func ReadVRESProfiles(opts ProfileOptions) ([]casestudy.VRESProfileRow, error) {
	slog.Info("Reading generator information", slog.String("file", opts.GeneratorFile))
	capacities, err := readGeneratorCapacities(opts.GeneratorFile)
	if err != nil {
		return nil, fmt.Errorf("generator information: %w", err)
	}

	var rows []casestudy.VRESProfileRow
	for _, src := range []struct {
		dir string
		tec string
	}{
		{opts.SolarDir, "Solar"},
		{opts.WindDir, "Wind"},
	} {
		slog.Info("Reading VRES profiles",
			slog.String("dir", src.dir),
			slog.String("tec", src.tec))
		names, err := listCSVFiles(src.dir)
		if err != nil {
			return nil, fmt.Errorf("%s profiles: %w", strings.ToLower(src.tec), err)
		}
		for _, name := range names {
			g := unitName(name, src.tec)
			capacity, ok := capacities[g]
			if !ok {
				return nil, fmt.Errorf("%w: %q (from %s)", ErrUnknownGenerator, g, name)
			}
			if capacity == 0 {
				return nil, fmt.Errorf("generator %q has zero capacity", g)
			}

			values, err := readValueSeries(filepath.Join(src.dir, name))
			if err != nil {
				return nil, err
			}
			for i, v := range values {
				rows = append(rows, casestudy.VRESProfileRow{
					Scenario: Scenario, RP: RP, K: kLabel(i + 1),
					Tec: src.tec, G: g, Value: v / capacity,
				})
			}
		}
	}

	if worst, count := worstValue(rows, func(v float64) bool { return v > 1 }, func(a, b float64) bool { return a > b }); count > 0 {
		slog.Warn("VRES capacity factors above 1",
			slog.Int("count", count),
			slog.String("g", worst.G),
			slog.String("k", worst.K),
			slog.Float64("value", worst.Value))
	}
	if opts.ClipMax1 {
		slog.Info("Clipping VRES capacity factors to a maximum of 1")
		for i := range rows {
			if rows[i].Value > 1 {
				rows[i].Value = 1
			}
		}
	}

	if worst, count := worstValue(rows, func(v float64) bool { return v < 0 }, func(a, b float64) bool { return a < b }); count > 0 {
		slog.Warn("VRES capacity factors below 0",
			slog.Int("count", count),
			slog.String("g", worst.G),
			slog.String("k", worst.K),
			slog.Float64("value", worst.Value))
	}
	if opts.ClipMin0 {
		slog.Info("Clipping VRES capacity factors to a minimum of 0")
		for i := range rows {
			if rows[i].Value < 0 {
				rows[i].Value = 0
			}
		}
	}

	if opts.MaximumK != "" {
		kept := rows[:0]
		for _, r := range rows {
			if r.K <= opts.MaximumK {
				kept = append(kept, r)
			}
		}
		rows = kept
		slog.Info("Truncated VRES profiles", slog.String("maximum_k", opts.MaximumK))
	}

	slog.Info("VRES profiles read", slog.Int("row_count", len(rows)))
	return rows, nil
}

// unitName maps a profile file name onto the unit name of the generator
// information: the numeric part loses the RT.csv suffix, is padded to two
// digits and joined to the technology with a space, so Solar39RT.csv becomes
// "Solar 39" and Wind4RT.csv becomes "Wind 04".
func unitName(file, tec string) string {
	num := strings.TrimSuffix(file[len(tec):], "RT.csv")
	if len(num) < 2 {
		num = "0" + num
	}
	return tec + " " + num
}

// readGeneratorCapacities parses the semicolon-separated generator list
// into installed capacity per unit name.
func readGeneratorCapacities(path string) (map[string]float64, error) {
	records, err := readCSVFile(path, ';')
	if err != nil {
		return nil, err
	}

	header := records[0]
	nameIdx := columnIndex(header, "Generator Name")
	capIdx := columnIndex(header, "Max Capacity (MW)")
	if nameIdx < 0 || capIdx < 0 {
		return nil, fmt.Errorf("%w: need Generator Name, Max Capacity (MW) in %s",
			ErrMissingColumn, filepath.Base(path))
	}

	capacities := make(map[string]float64, len(records)-1)
	for i, rec := range records[1:] {
		v, err := strconv.ParseFloat(strings.ReplaceAll(rec[capIdx], ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("file %s row %d: %w", filepath.Base(path), i+1, err)
		}
		capacities[rec[nameIdx]] = v
	}
	return capacities, nil
}

// worstValue returns the most extreme row among those outside the allowed
// range, and how many there are.
func worstValue(rows []casestudy.VRESProfileRow, outside func(float64) bool, worse func(a, b float64) bool) (casestudy.VRESProfileRow, int) {
	var worst casestudy.VRESProfileRow
	count := 0
	for _, r := range rows {
		if !outside(r.Value) {
			continue
		}
		if count == 0 || worse(r.Value, worst.Value) {
			worst = r
		}
		count++
	}
	return worst, count
}
