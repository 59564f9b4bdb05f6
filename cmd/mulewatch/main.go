package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"mulewatch/internal/config"
	"mulewatch/internal/infrastructure"
	"mulewatch/internal/pipeline"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (defaults to mulewatch.yaml if present)")
	dataDir := flag.String("data-dir", "", "directory containing the three source CSV files")
	outDir := flag.String("out-dir", "", "directory for report artifacts")
	logLevel := flag.String("log-level", "", "debug | info | warn | error")
	noCharts := flag.Bool("no-charts", false, "skip rendering the HTML bar charts")
	noExport := flag.Bool("no-export", false, "skip the combined CSV and analysis workbook exports")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Flags override config and environment
	if *dataDir != "" {
		cfg.Sources.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithRunID(context.Background())

	logger.InfoContext(ctx, "starting mule account analysis",
		slog.String("data_dir", cfg.Sources.DataDir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("charts", !*noCharts),
		slog.Bool("exports", !*noExport))

	p := pipeline.New(cfg, logger, pipeline.Options{
		Console:      os.Stdout,
		RenderCharts: !*noCharts,
		WriteExports: !*noExport,
	})

	result, err := p.Run(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Analysis complete: %d combined records, %d ranked segments\n",
		result.Combined.RowCount(), len(result.TopRanked.Rows))
}
