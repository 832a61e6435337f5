package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"optiqc/internal/config"
	"optiqc/internal/dataprocessing"
	"optiqc/internal/exporter"
	"optiqc/internal/files"
	"optiqc/internal/infrastructure"
	"optiqc/internal/report"
	"optiqc/internal/services"
	"optiqc/internal/validation"
)

func main() {
	dir := flag.String("dir", "", "directory to scan for .xlsx workbooks (used when no paths are given)")
	out := flag.String("out", "", "output path for the deck (defaults to "+report.ReportFileName+" in the current directory)")
	csvPath := flag.String("csv", "", "also write the reshaped long-format table as CSV to this path")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [workbook.xlsx ...]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Generates a Factory_JMP_Report.pptx deck from Boresight measurement workbooks.")
		fmt.Fprintln(flag.CommandLine.Output(), "Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	paths, err := collectWorkbooks(flag.Args(), *dir, logger)
	if err != nil {
		logger.Error("Failed to collect workbooks", "error", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		logger.Error("No .xlsx workbooks found",
			"hint", "pass workbook paths as arguments or use -dir")
		flag.Usage()
		os.Exit(1)
	}
	logger.Info("Collected workbooks", "count", len(paths))

	assembler := dataprocessing.NewAssembler(cfg.Report.HeaderScanDepth, logger)
	style := report.DefaultStyle()
	style.SpecLimit = cfg.Report.SpecLimit
	style.BoxFixed = report.Range{Min: cfg.Report.BoxFixedMin, Max: cfg.Report.BoxFixedMax}
	style.ControlFixed = report.Range{Min: cfg.Report.ControlFixedMin, Max: cfg.Report.ControlFixedMax}
	renderer := report.NewRenderer(style, logger)
	service := services.NewReportService(assembler, renderer, logger)

	ctx := infrastructure.EnsureTraceID(context.Background())
	res := assembler.AssembleFiles(ctx, paths)

	if *csvPath != "" && !res.Dataset.Empty() {
		if err := exporter.NewCSVWriter(logger).WriteDatasetFile(*csvPath, res.Dataset); err != nil {
			logger.Error("Failed to write CSV export", "path", *csvPath, "error", err)
			os.Exit(1)
		}
		logger.Info("CSV export written", "path", *csvPath, "records", res.Dataset.Len())
	}

	deck, summary, err := service.GenerateFromResult(ctx, res)
	if err != nil {
		logger.Error("Report generation failed", "error", err)
		os.Exit(1)
	}

	for _, fe := range summary.FileErrors {
		logger.Warn("Workbook skipped", "detail", fe)
	}
	if summary.Warning != "" {
		logger.Warn(summary.Warning)
	}

	outPath := *out
	if outPath == "" {
		outPath = report.ReportFileName
	}
	if err := files.NewWriter(logger).WriteAtomic(outPath, deck); err != nil {
		logger.Error("Failed to write deck", "path", outPath, "error", err)
		os.Exit(1)
	}

	logger.Info("Report written",
		"path", outPath,
		"rows", summary.Rows,
		"files_read", summary.FilesRead,
		"sheets_read", summary.SheetsRead,
		"latest_date", summary.LatestDate)
}

// collectWorkbooks resolves the workbook list from positional arguments,
// falling back to a directory scan when none are given.
func collectWorkbooks(args []string, dir string, logger *slog.Logger) ([]string, error) {
	if len(args) > 0 {
		v := validation.NewWorkbookValidator(logger)
		for _, p := range args {
			if err := v.ValidateName(filepath.Base(p)); err != nil {
				return nil, err
			}
			if _, err := os.Stat(p); err != nil {
				return nil, fmt.Errorf("workbook not accessible: %w", err)
			}
		}
		return args, nil
	}

	if dir == "" {
		dir = "."
	}
	found, err := files.FindWorkbooks(dir)
	if err != nil {
		return nil, err
	}
	return files.Paths(found), nil
}
