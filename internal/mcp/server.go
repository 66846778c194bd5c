package mcp

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/a3tai/slip-extractor/internal/config"
	"github.com/a3tai/slip-extractor/internal/descriptions"
	"github.com/a3tai/slip-extractor/internal/extract"
	"github.com/a3tai/slip-extractor/internal/pdf"
	"github.com/a3tai/slip-extractor/internal/report"
)

// Tool names
const (
	ToolExtractFile      = "slip_extract_file"
	ToolExtractDirectory = "slip_extract_directory"
	ToolValidateFile     = "slip_validate_file"
	ToolServerInfo       = "slip_server_info"
)

// Output formats of slip_extract_directory
const (
	outputTable = "table"
	outputCSV   = "csv"
)

// maxListedFiles caps the directory listing in slip_server_info
const maxListedFiles = 10

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	logger     *zap.Logger
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		logger:     logger,
		mcpServer:  mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	strategyOption := mcp.WithString("strategy",
		mcp.Description("Name and address strategy (uses the configured one if empty)"),
		mcp.Enum(extract.StrategyNames()...),
	)

	extractFileTool := mcp.NewTool(
		ToolExtractFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the slip PDF, absolute or relative to the configured directory"),
		),
		strategyOption,
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	extractDirectoryTool := mcp.NewTool(
		ToolExtractDirectory,
		mcp.WithDescription(descriptions.GetToolDescription(ToolExtractDirectory)),
		mcp.WithString("directory",
			mcp.Description("Directory to extract (uses the configured directory if empty)"),
		),
		mcp.WithString("pattern",
			mcp.Description("Optional file name pattern, e.g. amazon-*.pdf"),
		),
		mcp.WithString("format",
			mcp.Description("Result format: 'table' for readable rows or 'csv' for CSV text"),
			mcp.Enum(outputTable, outputCSV),
		),
		mcp.WithString("layout",
			mcp.Description("Column layout: 'full' or 'legacy' (uses the configured one if empty)"),
			mcp.Enum("full", "legacy"),
		),
		strategyOption,
	)
	s.mcpServer.AddTool(extractDirectoryTool, s.handleExtractDirectory)

	validateFileTool := mcp.NewTool(
		ToolValidateFile,
		mcp.WithDescription(descriptions.GetToolDescription(ToolValidateFile)),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the slip PDF, absolute or relative to the configured directory"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	serverInfoTool := mcp.NewTool(
		ToolServerInfo,
		mcp.WithDescription(descriptions.GetToolDescription(ToolServerInfo)),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handleExtractFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	extractor, err := s.newExtractor(stringArg(request, "strategy"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.pdfService.LoadFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	layout, _ := report.ParseLayout(s.config.Layout)
	table := report.NewTable(uuid.New(), layout, []extract.Result{extractor.Extract(doc)})

	return mcp.NewToolResultText(s.formatTable(table)), nil
}

func (s *Server) handleExtractDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	format := stringArg(request, "format")
	if format == "" {
		format = outputTable
	}
	if format != outputTable && format != outputCSV {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (expected table or csv)", format)), nil
	}

	layoutName := stringArg(request, "layout")
	if layoutName == "" {
		layoutName = s.config.Layout
	}
	layout, err := report.ParseLayout(layoutName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	extractor, err := s.newExtractor(stringArg(request, "strategy"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	docs, err := s.pdfService.LoadDirectory(stringArg(request, "directory"), stringArg(request, "pattern"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("No PDF files found"), nil
	}

	aggregator := report.NewAggregator(extractor,
		report.WithLayout(layout),
		report.WithLogger(s.logger),
	)
	table := aggregator.Aggregate(report.NewBatch(docs))

	if format == outputCSV {
		var buf bytes.Buffer
		if err := report.WriteCSV(&buf, table); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(strings.TrimPrefix(buf.String(), "\ufeff")), nil
	}

	return mcp.NewToolResultText(s.formatTable(table) + "\n" + s.formatSummary(table.Summary())), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.pdfService.LoadFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := s.pdfService.ValidateDocument(doc)

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid (%d page(s))", result.Name, result.Pages)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Name, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Directory: %s\n", s.pdfService.Root())
	text += fmt.Sprintf("Max File Size: %d MB\n", s.pdfService.GetMaxFileSize()/(1024*1024))
	text += fmt.Sprintf("Strategy: %s\n", s.config.Strategy)
	text += fmt.Sprintf("Layout: %s\n", s.config.Layout)
	text += fmt.Sprintf("Legacy products: %t\n", s.config.LegacyProducts)
	text += fmt.Sprintf("Validation: %t\n\n", s.config.ValidatePDFs)

	result, err := s.pdfService.SearchDirectory("", "")
	switch {
	case err != nil:
		text += fmt.Sprintf("Directory Contents: unavailable (%v)\n\n", err)
	case result.TotalCount == 0:
		text += "Directory Contents: No PDF files found\n\n"
	default:
		text += fmt.Sprintf("Directory Contents (%d PDF files found):\n", result.TotalCount)
		for i, file := range result.Files {
			if i >= maxListedFiles {
				text += fmt.Sprintf("   ... and %d more files\n", result.TotalCount-maxListedFiles)
				break
			}
			text += fmt.Sprintf("   %d. %s (%d bytes)\n", i+1, file.Name, file.Size)
		}
		text += "\n"
	}

	text += "Available Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		summary, _, _ := strings.Cut(descriptions.GetToolDescription(name), "\n")
		text += fmt.Sprintf("• %s: %s\n", name, summary)
	}

	return mcp.NewToolResultText(text), nil
}

// newExtractor builds an extractor from the configuration, with the strategy
// overridden when name is set
func (s *Server) newExtractor(name string) (*extract.Extractor, error) {
	if name == "" {
		name = s.config.Strategy
	}
	strategy, err := extract.ParseStrategy(name)
	if err != nil {
		return nil, err
	}

	opts := []extract.Option{
		extract.WithStrategy(strategy),
		extract.WithLegacyProducts(s.config.LegacyProducts),
		extract.WithLogger(s.logger),
	}
	if s.config.ValidatePDFs {
		opts = append(opts, extract.WithChecker(s.pdfService))
	}
	return extract.NewExtractor(s.pdfService, opts...), nil
}

// Formatting methods
func (s *Server) formatTable(table *report.Table) string {
	var b strings.Builder

	for i, result := range table.Results {
		fmt.Fprintf(&b, "%d. %s [%s]\n", i+1, result.Record.SourceFilename, result.Status)
		if result.Cause != nil {
			fmt.Fprintf(&b, "   Cause: %v\n", result.Cause)
		}
		for _, col := range table.Columns {
			if col == extract.FieldSourceFilename {
				continue
			}
			value := result.Record.Value(col)
			fmt.Fprintf(&b, "   %s: %s\n", col.Label(), strings.ReplaceAll(value, "\n", "\n      "))
		}
		if i < len(table.Results)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (s *Server) formatSummary(summary report.Summary) string {
	text := fmt.Sprintf("Batch %s: %d document(s), %d ok, %d partial\n",
		summary.BatchID, summary.Documents, summary.OK, summary.Partial)

	text += "Filled:"
	for _, f := range extract.Fields {
		if n, ok := summary.Filled[f.Key()]; ok {
			text += fmt.Sprintf(" %s=%d", f.Key(), n)
		}
	}
	text += "\n"

	for _, f := range summary.Failures {
		text += fmt.Sprintf("Partial: %s [%s] %s\n", f.File, f.Category, f.Message)
	}

	return text
}

func stringArg(request mcp.CallToolRequest, name string) string {
	if v, ok := request.GetArguments()[name].(string); ok {
		return v
	}
	return ""
}

// Run starts the MCP server over standard I/O
func (s *Server) Run(ctx context.Context) error {
	if !s.config.IsStdioMode() {
		return fmt.Errorf("MCP server requires stdio mode, got %q", s.config.Mode)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	s.logger.Debug("starting MCP server in stdio mode",
		zap.String("directory", s.pdfService.Root()),
		zap.String("strategy", s.config.Strategy),
	)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
