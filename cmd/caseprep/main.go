package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"legoio/internal/aggregation"
	"legoio/internal/casestudy"
	"legoio/internal/config"
	"legoio/internal/excelio"
	"legoio/internal/exporter"
	"legoio/internal/infrastructure"
	"legoio/internal/sqlitewriter"
)

func main() {
	dataDir := flag.String("data", "", "input folder with LEGOExcel workbooks (defaults to paths.data_dir)")
	outDir := flag.String("out", "", "output folder (defaults to paths.output_dir)")
	formatsFlag := flag.String("formats", "", "comma-separated export formats: excel, csv, sqlite (defaults to export.formats)")
	scenario := flag.String("scenario", "", "keep only the named scenario")
	rp := flag.String("rp", "", "keep only the named representative period")
	kStart := flag.String("kstart", "", "first timestep to keep (inclusive, used with -kend)")
	kEnd := flag.String("kend", "", "last timestep to keep (inclusive, used with -kstart)")
	shift := flag.Int("shift", 0, "cyclic timestep shift applied after filtering")
	hourly := flag.Bool("hourly", false, "expand representative periods to the full hourly model")
	clusters := flag.Int("clusters", 0, "aggregate to this many representative periods (0 uses the config)")
	perScenario := flag.Bool("per-scenario", false, "export each scenario into its own subfolder")
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

	ctx := infrastructure.ContextWithRunID(context.Background())
	logger = logger.With(slog.String("run_id", infrastructure.RunID(ctx)))

	if *dataDir == "" {
		*dataDir = cfg.Paths.DataDir
	}
	if *outDir == "" {
		*outDir = cfg.Paths.OutputDir
	}
	formats, err := parseFormats(*formatsFlag, cfg.Export.Formats)
	if err != nil {
		logger.Error("Invalid export formats", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if (*kStart == "") != (*kEnd == "") {
		logger.Error("Timestep range needs both bounds",
			slog.String("kstart", *kStart),
			slog.String("kend", *kEnd))
		os.Exit(1)
	}

	logger.Info("Starting case preparation",
		slog.String("data_dir", *dataDir),
		slog.String("output_dir", *outDir),
		slog.String("formats", strings.Join(formats, ",")),
		slog.Bool("merge_single_node_buses", cfg.Prepare.MergeSingleNodeBuses),
		slog.Bool("scale_units", cfg.Prepare.ScaleUnits))

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Cannot create output directory",
			slog.String("path", *outDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	in, err := excelio.ReadTables(*dataDir)
	if err != nil {
		logger.Error("Failed to load data folder",
			slog.String("dir", *dataDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	cs, err := casestudy.New(in, casestudy.Options{
		MergeSingleNodeBuses: cfg.Prepare.MergeSingleNodeBuses,
		ScaleUnits:           cfg.Prepare.ScaleUnits,
	})
	if err != nil {
		logger.Error("Failed to build case study", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Case study loaded",
		slog.Int("buses", cs.BusInfo.Len()),
		slog.Int("lines", cs.Network.Len()),
		slog.Int("demand_rows", cs.Demand.Len()),
		slog.Int("scenarios", len(cs.ScenarioIDs())))
	fmt.Printf("Loaded case study from %s\n", *dataDir)

	if *scenario != "" {
		if _, err := cs.FilterScenario(*scenario, true); err != nil {
			logger.Error("Scenario filter failed",
				slog.String("scenario", *scenario),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Filtered to scenario", slog.String("scenario", *scenario))
	}
	if *rp != "" {
		cs.FilterRepresentativePeriods(*rp, true)
		logger.Info("Filtered to representative period", slog.String("rp", *rp))
	}
	if *kStart != "" {
		cs.FilterTimesteps(*kStart, *kEnd, true)
		logger.Info("Filtered timestep range",
			slog.String("start", *kStart),
			slog.String("end", *kEnd))
	}
	if *shift != 0 {
		cs.ShiftKs(*shift, true)
		logger.Info("Shifted timesteps", slog.Int("shift", *shift))
	}
	if *hourly {
		if _, err := cs.ToFullHourlyModel(true); err != nil {
			logger.Error("Hourly expansion failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Expanded to full hourly model", slog.Int("timesteps", cs.WeightsK.Len()))
	}

	clusterCount := *clusters
	if clusterCount == 0 && cfg.Aggregation.Enabled {
		clusterCount = cfg.Aggregation.Clusters
	}
	if clusterCount > 0 {
		opts := aggregation.Options{
			Clusters:      clusterCount,
			PeriodLength:  cfg.Aggregation.PeriodLength,
			Strategy:      aggregation.Strategy(cfg.Aggregation.Strategy),
			Normalization: aggregation.CapacityNormalization(cfg.Aggregation.Normalization),
			SumProduction: cfg.Aggregation.SumProduction,
		}
		cs, err = aggregation.Apply(cs, opts)
		if err != nil {
			logger.Error("Aggregation failed",
				slog.Int("clusters", clusterCount),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Aggregated representative periods",
			slog.Int("clusters", clusterCount),
			slog.Int("period_length", opts.PeriodLength))
		fmt.Printf("Aggregated to %d representative periods\n", clusterCount)
	}

	params := runParams(cfg, formats, *dataDir, *scenario, *rp, *kStart, *kEnd, *shift, *hourly, clusterCount)

	if *perScenario {
		if err := exportPerScenario(ctx, cs, *outDir, formats, cfg.Export.Workers, params, logger); err != nil {
			logger.Error("Export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	} else {
		if err := exportFormats(ctx, cs, *outDir, formats, params); err != nil {
			logger.Error("Export failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("Case preparation completed",
		slog.String("output_dir", *outDir),
		slog.String("formats", strings.Join(formats, ",")))
	fmt.Printf("Case preparation complete: %s\n", *outDir)
}

// parseFormats resolves the format list from the flag or the config and
// rejects unknown names.
func parseFormats(flagValue string, configured []string) ([]string, error) {
	formats := configured
	if flagValue != "" {
		formats = strings.Split(flagValue, ",")
	}
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" {
			continue
		}
		switch f {
		case "excel", "csv", "sqlite":
			out = append(out, f)
		default:
			return nil, fmt.Errorf("unknown format %q (want excel, csv or sqlite)", f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no export formats selected")
	}
	return out, nil
}

// exportPerScenario exports an independent deep copy of every scenario into
// its own subfolder, bounded by the configured worker count.
func exportPerScenario(ctx context.Context, cs *casestudy.CaseStudy, dir string, formats []string, workers int, params map[string]string, logger *slog.Logger) error {
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, id := range cs.ScenarioIDs() {
		g.Go(func() error {
			view, err := cs.FilterScenario(id, false)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", id, err)
			}
			logger.Info("Exporting scenario", slog.String("scenario", id))
			fmt.Printf("Exporting scenario %s\n", id)
			if err := exportFormats(ctx, view, filepath.Join(dir, id), formats, params); err != nil {
				return fmt.Errorf("scenario %s: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// exportFormats writes the case study in every selected format under dir.
func exportFormats(ctx context.Context, cs *casestudy.CaseStudy, dir string, formats []string, params map[string]string) error {
	for _, format := range formats {
		switch format {
		case "excel":
			if err := excelio.WriteTables(cs, filepath.Join(dir, "excel")); err != nil {
				return err
			}
		case "csv":
			if err := exporter.Export(cs, exporter.NewCSVWriter(filepath.Join(dir, "csv"))); err != nil {
				return err
			}
		case "sqlite":
			path := filepath.Join(dir, "lego.db")
			if err := sqlitewriter.Export(ctx, cs, path, infrastructure.RunID(ctx), params); err != nil {
				return err
			}
		}
	}
	return nil
}

// runParams collects the invocation settings written into the SQLite
// run_parameters table.
func runParams(cfg *config.Config, formats []string, dataDir, scenario, rp, kStart, kEnd string, shift int, hourly bool, clusters int) map[string]string {
	params := map[string]string{
		"data_dir":                dataDir,
		"formats":                 strings.Join(formats, ","),
		"merge_single_node_buses": strconv.FormatBool(cfg.Prepare.MergeSingleNodeBuses),
		"scale_units":             strconv.FormatBool(cfg.Prepare.ScaleUnits),
	}
	if scenario != "" {
		params["scenario"] = scenario
	}
	if rp != "" {
		params["rp"] = rp
	}
	if kStart != "" {
		params["k_start"] = kStart
		params["k_end"] = kEnd
	}
	if shift != 0 {
		params["shift"] = strconv.Itoa(shift)
	}
	if hourly {
		params["hourly"] = "true"
	}
	if clusters > 0 {
		params["clusters"] = strconv.Itoa(clusters)
	}
	return params
}
