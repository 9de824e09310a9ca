package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"legoio/internal/casestudy"
	"legoio/internal/config"
	"legoio/internal/excelio"
	"legoio/internal/exporter"
	"legoio/internal/infrastructure"
	"legoio/internal/nrel118"
)

func main() {
	hourlyDir := flag.String("hourly-dir", "", "folder with one hourly inflow CSV per hydro generator")
	hydroFile := flag.String("hydro", "", "non-dispatchable hydro file with monthly (Generator, Timeslice, Value) rows")
	plexosFile := flag.String("plexos", "", "Plexos export workbook with monthly maximum-energy budgets")
	solarDir := flag.String("solar-dir", "", "folder with one hourly production CSV per solar unit")
	windDir := flag.String("wind-dir", "", "folder with one hourly production CSV per wind unit")
	generatorFile := flag.String("generators", "", "semicolon-separated unit list with installed capacities")
	maxK := flag.String("maxk", "", "keep only timesteps up to this label, e.g. k0240")
	outDir := flag.String("out", "", "output folder (defaults to paths.output_dir/nrel118)")
	formatsFlag := flag.String("formats", "excel", "comma-separated output formats: excel, csv")
	clipMax := flag.Bool("clip-max", true, "clamp capacity factors above 1 down to 1")
	clipMin := flag.Bool("clip-min", true, "clamp capacity factors below 0 up to 0")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	logger = logger.With(slog.String("run_id", infrastructure.NewRunID()))

	if *outDir == "" {
		*outDir = filepath.Join(cfg.Paths.OutputDir, "nrel118")
	}
	formats, err := parseOutputFormats(*formatsFlag)
	if err != nil {
		logger.Error("Invalid output formats", slog.String("error", err.Error()))
		os.Exit(1)
	}

	wantInflows := *hourlyDir != "" || *hydroFile != "" || *plexosFile != ""
	if wantInflows && (*hourlyDir == "" || *hydroFile == "" || *plexosFile == "") {
		logger.Error("Inflow conversion needs -hourly-dir, -hydro and -plexos together")
		os.Exit(1)
	}
	wantProfiles := *solarDir != "" || *windDir != "" || *generatorFile != ""
	if wantProfiles && (*solarDir == "" || *windDir == "" || *generatorFile == "") {
		logger.Error("Profile conversion needs -solar-dir, -wind-dir and -generators together")
		os.Exit(1)
	}
	if !wantInflows && !wantProfiles {
		logger.Error("No input sources given, nothing to convert")
		os.Exit(1)
	}

	logger.Info("Starting NREL-118 conversion",
		slog.String("output_dir", *outDir),
		slog.String("formats", strings.Join(formats, ",")),
		slog.Bool("inflows", wantInflows),
		slog.Bool("profiles", wantProfiles))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Cannot create output directory",
			slog.String("path", *outDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	csv := exporter.NewCSVWriter(*outDir)

	if wantInflows {
		rows, err := nrel118.ReadInflows(nrel118.InflowOptions{
			HourlyDir:  *hourlyDir,
			HydroFile:  *hydroFile,
			PlexosFile: *plexosFile,
			MaximumK:   *maxK,
		})
		if err != nil {
			logger.Error("Failed to read inflows", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Read %d inflow rows\n", len(rows))
		for _, format := range formats {
			switch format {
			case "excel":
				err = excelio.WriteInflows(rows, filepath.Join(*outDir, excelio.DefInflows.FileName()))
			case "csv":
				err = csv.WriteSimpleCSV(casestudy.TableInflows+".csv",
					[]string{"scenario", "rp", "k", "g", "value"}, inflowRecords(rows))
			}
			if err != nil {
				logger.Error("Failed to write inflows",
					slog.String("format", format),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		logger.Info("Inflows converted", slog.Int("row_count", len(rows)))
	}

	if wantProfiles {
		rows, err := nrel118.ReadVRESProfiles(nrel118.ProfileOptions{
			SolarDir:      *solarDir,
			WindDir:       *windDir,
			GeneratorFile: *generatorFile,
			ClipMax1:      *clipMax,
			ClipMin0:      *clipMin,
			MaximumK:      *maxK,
		})
		if err != nil {
			logger.Error("Failed to read VRES profiles", slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Read %d VRES profile rows\n", len(rows))
		for _, format := range formats {
			switch format {
			case "excel":
				err = excelio.WriteVRESProfiles(rows, filepath.Join(*outDir, excelio.DefVRESProfiles.FileName()))
			case "csv":
				err = csv.WriteSimpleCSV(casestudy.TableVRESProfiles+".csv",
					[]string{"scenario", "rp", "k", "i", "tec", "g", "value"}, profileRecords(rows))
			}
			if err != nil {
				logger.Error("Failed to write VRES profiles",
					slog.String("format", format),
					slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		logger.Info("VRES profiles converted", slog.Int("row_count", len(rows)))
	}

	logger.Info("NREL-118 conversion completed", slog.String("output_dir", *outDir))
	fmt.Printf("NREL-118 conversion complete: %s\n", *outDir)
}

// parseOutputFormats splits the format flag and rejects unknown names. The
// converter has no case study to hand to the SQLite exporter, so only the
// plain table formats are offered.
func parseOutputFormats(flagValue string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(flagValue, ",") {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" {
			continue
		}
		switch f {
		case "excel", "csv":
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown format %q (want excel or csv)", f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output formats selected")
	}
	return out, nil
}

func inflowRecords(rows []casestudy.InflowRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Scenario, r.RP, r.K, r.G, num(r.Value)})
	}
	return records
}

func profileRecords(rows []casestudy.VRESProfileRow) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.Scenario, r.RP, r.K, r.Bus, r.Tec, r.G, num(r.Value)})
	}
	return records
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
