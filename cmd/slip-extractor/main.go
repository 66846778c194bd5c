package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/a3tai/slip-extractor/internal/config"
	"github.com/a3tai/slip-extractor/internal/extract"
	"github.com/a3tai/slip-extractor/internal/mcp"
	"github.com/a3tai/slip-extractor/internal/metrics"
	"github.com/a3tai/slip-extractor/internal/pdf"
	"github.com/a3tai/slip-extractor/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// newLogger builds the process logger. Output always goes to stderr; in stdio
// mode the logger is silent unless debug is enabled so nothing can interfere
// with the MCP protocol stream.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsStdioMode() && !cfg.IsDebug() {
		return zap.NewNop(), nil
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	if !cfg.IsDebug() {
		zc.Development = false
		zc.DisableStacktrace = true
	}

	return zc.Build()
}

// newExtractor wires the configured strategy and options to the PDF service
func newExtractor(cfg *config.Config, service *pdf.Service, logger *zap.Logger) (*extract.Extractor, error) {
	strategy, err := extract.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	opts := []extract.Option{
		extract.WithStrategy(strategy),
		extract.WithLegacyProducts(cfg.LegacyProducts),
		extract.WithLogger(logger),
	}
	if cfg.ValidatePDFs {
		opts = append(opts, extract.WithChecker(service))
	}
	return extract.NewExtractor(service, opts...), nil
}

// runBatch extracts every input document and writes the report
func runBatch(cfg *config.Config, logger *zap.Logger) (*report.Table, error) {
	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF service: %w", err)
	}

	extractor, err := newExtractor(cfg, service, logger)
	if err != nil {
		return nil, err
	}

	layout, err := report.ParseLayout(cfg.Layout)
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	var docs []pdf.Document
	if len(cfg.Files) > 0 {
		docs = pdf.LoadDocuments(cfg.Files, cfg.MaxFileSize)
	} else {
		docs, err = service.LoadDirectory("", "")
		if err != nil {
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
	}

	recorder := metrics.NewRecorder()
	aggregator := report.NewAggregator(extractor,
		report.WithLayout(layout),
		report.WithObserver(recorder),
		report.WithLogger(logger),
	)
	table := aggregator.Aggregate(report.NewBatch(docs))

	output := cfg.OutputPath()
	if err := report.WriteFile(output, table, format); err != nil {
		return nil, err
	}
	logger.Info("report written",
		zap.String("path", output),
		zap.Stringer("format", format),
		zap.Int("rows", len(table.Results)),
	)

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			return nil, err
		}
	}

	return table, nil
}

// runStdio serves the MCP tools until stdin closes or a signal arrives
func runStdio(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
	if err != nil {
		return fmt.Errorf("failed to create PDF service: %w", err)
	}

	server, err := mcp.NewServer(cfg, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return server.Run(ctx)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting", zap.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsStdioMode() {
		err = runStdio(ctx, cfg, logger)
	} else {
		_, err = runBatch(cfg, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("run failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Slip Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
