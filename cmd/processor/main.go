package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"dashgen/internal/config"
	"dashgen/internal/dataprocessing"
	"dashgen/internal/exporter"
	"dashgen/internal/infrastructure"
	"dashgen/internal/services"
	"dashgen/internal/validation"
	"dashgen/pkg/contracts/domain"
)

// stderrSink prints pipeline progress to the terminal.
type stderrSink struct{}

func (stderrSink) PublishProgress(ev dataprocessing.ProgressEvent) {
	if ev.Filename != "" {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", ev.Level, ev.Filename, ev.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", ev.Level, ev.Stage, ev.Message)
}

func main() {
	in := flag.String("in", "", "directory of sales files to process (csv, xlsx, json)")
	out := flag.String("out", "", "output directory for CSV reports (defaults to data/reports)")
	category := flag.String("category", "sales", "category for all input files: sales | customers | products | other")
	dateCol := flag.String("date-column", "", "column to use as the date when auto-detection fails")
	amountCol := flag.String("amount-column", "", "column to use as the amount when auto-detection fails")
	year := flag.Int("year", 0, "restrict the summary to one year (0 means all)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <dir> [-out <dir>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{Level: "info", Output: "console"},
			Paths:   config.PathsConfig{ReportsDir: "data/reports"},
		}
	}
	if *out != "" {
		cfg.Paths.ReportsDir = *out
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	if err := cfg.Paths.EnsureDirectories(); err != nil {
		logger.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	if !domain.ValidCategory(domain.Category(*category)) {
		logger.Error("Unknown category", "category", *category)
		os.Exit(2)
	}

	fv := validation.NewFileValidator(logger)
	if _, err := fv.ValidateInputDirectory(*in); err != nil {
		logger.Error("Input directory invalid", "error", err)
		os.Exit(1)
	}
	if err := fv.ValidateOutputDirectory(cfg.Paths.ReportsDir); err != nil {
		logger.Error("Output directory invalid", "error", err)
		os.Exit(1)
	}

	files, err := collectFiles(*in, domain.Category(*category))
	if err != nil {
		logger.Error("Failed to read input directory", "dir", *in, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Error("No loadable files found", "dir", *in)
		os.Exit(1)
	}
	defer closeFiles(files)

	csv := exporter.NewCSVWriter(cfg.Paths)
	svc := services.NewDashboardService(logger, stderrSink{}, csv)
	ctx := context.Background()

	view, err := svc.CreateBatch(ctx, files)
	if err != nil {
		logger.Error("Batch processing failed", "error", err)
		os.Exit(1)
	}

	overrides := make(map[domain.Role]string)
	if *dateCol != "" {
		overrides[domain.RoleDate] = *dateCol
	}
	if *amountCol != "" {
		overrides[domain.RoleAmount] = *amountCol
	}
	if len(overrides) > 0 {
		if view, err = svc.SetRoles(ctx, view.ID, overrides); err != nil {
			logger.Error("Role override failed", "error", err)
			os.Exit(1)
		}
	}

	for _, warning := range view.Report.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warning)
	}
	if !view.Ready {
		logger.Error("No fact table; resolve date and amount columns with -date-column / -amount-column")
		os.Exit(1)
	}

	if *year != 0 {
		if _, err := svc.SetFilters(ctx, view.ID, domain.FilterState{Year: *year}); err != nil {
			logger.Error("Filter failed", "error", err)
			os.Exit(1)
		}
	}

	summary, err := svc.Summary(ctx, view.ID)
	if err != nil {
		logger.Error("Summary failed", "error", err)
		os.Exit(1)
	}

	written, err := svc.Export(ctx, view.ID)
	if err != nil {
		logger.Error("Export failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("rows: %d\n", summary.RowCount)
	fmt.Printf("total revenue: %.2f\n", summary.TotalRevenue)
	for _, p := range summary.MonthlySeries {
		fmt.Printf("  %s  %.2f\n", p.Month.Format("2006-01"), p.Total)
	}
	for _, rel := range written {
		fmt.Printf("wrote %s\n", filepath.Join(cfg.Paths.ReportsDir, rel))
	}
}

// collectFiles gathers the loadable files of a directory in name order.
func collectFiles(dir string, category domain.Category) ([]dataprocessing.BatchFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if validation.IsLoadable(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var files []dataprocessing.BatchFile
	for _, name := range names {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			closeFiles(files)
			return nil, err
		}
		files = append(files, dataprocessing.BatchFile{
			Name:     name,
			Category: category,
			Reader:   f,
		})
	}
	return files, nil
}

func closeFiles(files []dataprocessing.BatchFile) {
	for _, f := range files {
		if closer, ok := f.Reader.(*os.File); ok {
			closer.Close()
		}
	}
}
