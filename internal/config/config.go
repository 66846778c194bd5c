package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/slip-extractor/internal/extract"
	"github.com/a3tai/slip-extractor/internal/report"
)

const (
	// Mode constants
	ModeBatch = "batch"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
	DefaultFormat      = "csv"
	DefaultLayout      = "full"
	DefaultStrategy    = extract.StrategyLineScan

	envPrefix = "SLIP"
)

// Config holds all configuration for the slip extractor
type Config struct {
	// Run configuration
	Mode string // "batch" or "stdio"

	// Input configuration
	PDFDirectory string
	Files        []string // explicit inputs; override directory discovery

	// Output configuration
	Output      string
	Format      string
	Layout      string
	MetricsFile string

	// Extraction configuration
	Strategy       string
	LegacyProducts bool
	ValidatePDFs   bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeBatch,
		PDFDirectory: currentDir,
		Format:       DefaultFormat,
		Layout:       DefaultLayout,
		Strategy:     DefaultStrategy,
		Version:      "1.0.0",
		ServerName:   "slip-extractor",
		LogLevel:     DefaultLogLevel,
		MaxFileSize:  DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Files = pflag.Args()

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("output", cfg.Output)
	viper.SetDefault("format", cfg.Format)
	viper.SetDefault("layout", cfg.Layout)
	viper.SetDefault("strategy", cfg.Strategy)
	viper.SetDefault("legacy-products", cfg.LegacyProducts)
	viper.SetDefault("validate", cfg.ValidatePDFs)
	viper.SetDefault("metrics-file", cfg.MetricsFile)
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("max-file-size", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' writes a report, 'stdio' serves MCP over standard I/O")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing delivery slip PDFs")
	pflag.String("output", cfg.Output, "Report path (default: invoice_list_full.<format> or invoice_list.<format>)")
	pflag.String("format", cfg.Format, "Report format (csv, xlsx)")
	pflag.String("layout", cfg.Layout, "Report layout: 'full' or 'legacy' (without delivery address)")
	pflag.String("strategy", cfg.Strategy, "Name and address strategy (line-scan, fixed-block, fallback)")
	pflag.Bool("legacy-products", cfg.LegacyProducts, "Read the product from the historical single-cell table layout")
	pflag.Bool("validate", cfg.ValidatePDFs, "Validate each PDF structurally before extraction")
	pflag.String("metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile after the run")
	pflag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "dir", "output", "format", "layout", "strategy",
		"legacy-products", "validate", "metrics-file", "log-level", "max-file-size",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nSlip Extractor - pulls order fields out of delivery slip PDFs into a report\n\n")
		fmt.Fprintf(os.Stderr, "  %s [options] [FILE.pdf ...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/slips                  # invoice_list_full.csv from a directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --layout=legacy a.pdf b.pdf           # invoice_list.csv from two files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --format=xlsx --output=june.xlsx      # Excel workbook\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/slips     # MCP server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  SLIP_MODE            Run mode\n")
		fmt.Fprintf(os.Stderr, "  SLIP_DIR             PDF directory\n")
		fmt.Fprintf(os.Stderr, "  SLIP_OUTPUT          Report path\n")
		fmt.Fprintf(os.Stderr, "  SLIP_FORMAT          Report format\n")
		fmt.Fprintf(os.Stderr, "  SLIP_LAYOUT          Report layout\n")
		fmt.Fprintf(os.Stderr, "  SLIP_STRATEGY        Extraction strategy\n")
		fmt.Fprintf(os.Stderr, "  SLIP_LOG_LEVEL       Log level\n")
		fmt.Fprintf(os.Stderr, "  SLIP_MAX_FILE_SIZE   Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.Output = viper.GetString("output")
	cfg.Format = viper.GetString("format")
	cfg.Layout = viper.GetString("layout")
	cfg.Strategy = viper.GetString("strategy")
	cfg.LegacyProducts = viper.GetBool("legacy-products")
	cfg.ValidatePDFs = viper.GetBool("validate")
	cfg.MetricsFile = viper.GetString("metrics-file")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.MaxFileSize = viper.GetInt64("max-file-size")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeBatch && c.Mode != ModeStdio {
		return errors.New("mode must be either 'batch' or 'stdio'")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}

	// Explicit files make the directory optional in batch mode
	if c.Mode == ModeStdio || len(c.Files) == 0 {
		info, err := os.Stat(c.PDFDirectory)
		if err != nil {
			return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
		}
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if _, err := report.ParseLayout(c.Layout); err != nil {
		return err
	}
	if _, err := extract.ParseStrategy(c.Strategy); err != nil {
		return err
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// OutputPath returns the report path, deriving the file name from layout and
// format when none was configured
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	layout, _ := report.ParseLayout(c.Layout)
	format, _ := report.ParseFormat(c.Format)
	return layout.DefaultFilename(format)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, Files: %d, Format: %s, Layout: %s, Strategy: %s, "+
		"LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, len(c.Files), c.Format, c.Layout, c.Strategy, c.LogLevel, c.MaxFileSize)
}

// IsBatchMode returns true if the run writes a report and exits
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsStdioMode returns true if the server is running in stdio mode
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
