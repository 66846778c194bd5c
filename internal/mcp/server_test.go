package mcp

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/a3tai/slip-extractor/internal/config"
	"github.com/a3tai/slip-extractor/internal/pdf"
	"github.com/a3tai/slip-extractor/internal/report"
)

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	service, err := pdf.NewService(cfg.MaxFileSize, dir)
	if err != nil {
		t.Fatalf("pdf.NewService() error = %v", err)
	}

	tests := []struct {
		name    string
		cfg     *config.Config
		service *pdf.Service
		wantErr bool
	}{
		{name: "valid", cfg: cfg, service: service},
		{name: "nil config", cfg: nil, service: service, wantErr: true},
		{name: "nil service", cfg: cfg, service: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewServer(tt.cfg, tt.service, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewServer() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (s == nil || s.mcpServer == nil) {
				t.Error("NewServer() returned an incomplete server")
			}
		})
	}
}

func TestServer_HandleExtractFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "slip.pdf", generateTestPDF("Order 1"))
	writeTestFile(t, dir, "broken.pdf", []byte("not a pdf"))
	s := newTestServer(t, testConfig(dir))
	ctx := context.Background()

	t.Run("readable slip", func(t *testing.T) {
		result, err := s.handleExtractFile(ctx, callRequest(map[string]interface{}{"path": "slip.pdf"}))
		if err != nil {
			t.Fatalf("handleExtractFile() error = %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
		}
		text := extractTextFromResult(result)
		if !strings.Contains(text, "slip.pdf [ok]") {
			t.Errorf("result should report slip.pdf as ok, got:\n%s", text)
		}
		if !strings.Contains(text, "注文ID:") {
			t.Errorf("result should list the order ID column, got:\n%s", text)
		}
	})

	t.Run("unparsable slip still yields a row", func(t *testing.T) {
		result, err := s.handleExtractFile(ctx, callRequest(map[string]interface{}{"path": "broken.pdf"}))
		if err != nil {
			t.Fatalf("handleExtractFile() error = %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", extractTextFromResult(result))
		}
		text := extractTextFromResult(result)
		if !strings.Contains(text, "broken.pdf [partial]") {
			t.Errorf("result should report broken.pdf as partial, got:\n%s", text)
		}
		if !strings.Contains(text, "Cause:") {
			t.Errorf("result should carry the cause, got:\n%s", text)
		}
	})

	errorCases := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "missing path", args: map[string]interface{}{}},
		{name: "outside directory", args: map[string]interface{}{"path": "../escape.pdf"}},
		{name: "missing file", args: map[string]interface{}{"path": "nope.pdf"}},
		{name: "unknown strategy", args: map[string]interface{}{"path": "slip.pdf", "strategy": "guess"}},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := s.handleExtractFile(ctx, callRequest(tc.args))
			if err != nil {
				t.Fatalf("handleExtractFile() error = %v", err)
			}
			if !result.IsError {
				t.Errorf("expected a tool error, got:\n%s", extractTextFromResult(result))
			}
		})
	}
}

func TestServer_HandleExtractDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "a.pdf", generateTestPDF("First"))
	writeTestFile(t, dir, "b.pdf", []byte("garbage"))
	writeTestFile(t, dir, "june/c.pdf", generateTestPDF("Third"))
	s := newTestServer(t, testConfig(dir))
	ctx := context.Background()

	t.Run("table", func(t *testing.T) {
		result, err := s.handleExtractDirectory(ctx, callRequest(map[string]interface{}{}))
		if err != nil {
			t.Fatalf("handleExtractDirectory() error = %v", err)
		}
		text := extractTextFromResult(result)
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", text)
		}

		a := strings.Index(text, "1. a.pdf [ok]")
		b := strings.Index(text, "2. b.pdf [partial]")
		c := strings.Index(text, "3. c.pdf [ok]")
		if a < 0 || b < 0 || c < 0 || a > b || b > c {
			t.Errorf("rows missing or out of order:\n%s", text)
		}
		if !strings.Contains(text, "3 document(s), 2 ok, 1 partial") {
			t.Errorf("summary missing, got:\n%s", text)
		}
	})

	t.Run("csv", func(t *testing.T) {
		result, err := s.handleExtractDirectory(ctx, callRequest(map[string]interface{}{
			"format":  "csv",
			"pattern": "a*",
		}))
		if err != nil {
			t.Fatalf("handleExtractDirectory() error = %v", err)
		}
		text := extractTextFromResult(result)
		if result.IsError {
			t.Fatalf("unexpected tool error: %s", text)
		}

		columns, records, err := report.ReadCSV(strings.NewReader(text))
		if err != nil {
			t.Fatalf("ReadCSV() error = %v", err)
		}
		if len(columns) != 7 {
			t.Errorf("got %d columns, want 7", len(columns))
		}
		if len(records) != 1 || records[0].SourceFilename != "a.pdf" {
			t.Errorf("records = %+v, want only a.pdf", records)
		}
		if strings.HasPrefix(text, "\ufeff") {
			t.Error("csv text result should not carry a byte order mark")
		}
	})

	t.Run("legacy layout drops the address column", func(t *testing.T) {
		result, err := s.handleExtractDirectory(ctx, callRequest(map[string]interface{}{
			"format": "csv",
			"layout": "legacy",
		}))
		if err != nil {
			t.Fatalf("handleExtractDirectory() error = %v", err)
		}
		header, _, _ := strings.Cut(extractTextFromResult(result), "\n")
		if strings.Contains(header, "お届け先住所") {
			t.Errorf("legacy header should not contain the address column: %s", header)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		result, err := s.handleExtractDirectory(ctx, callRequest(map[string]interface{}{"pattern": "zzz*"}))
		if err != nil {
			t.Fatalf("handleExtractDirectory() error = %v", err)
		}
		if text := extractTextFromResult(result); text != "No PDF files found" {
			t.Errorf("got %q", text)
		}
	})

	errorCases := []struct {
		name string
		args map[string]interface{}
	}{
		{name: "unknown format", args: map[string]interface{}{"format": "json"}},
		{name: "unknown layout", args: map[string]interface{}{"layout": "wide"}},
		{name: "unknown strategy", args: map[string]interface{}{"strategy": "guess"}},
		{name: "outside directory", args: map[string]interface{}{"directory": filepath.Dir(dir)}},
		{name: "invalid pattern", args: map[string]interface{}{"pattern": "["}},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := s.handleExtractDirectory(ctx, callRequest(tc.args))
			if err != nil {
				t.Fatalf("handleExtractDirectory() error = %v", err)
			}
			if !result.IsError {
				t.Errorf("expected a tool error, got:\n%s", extractTextFromResult(result))
			}
		})
	}
}

func TestServer_HandleValidateFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "valid.pdf", generateTestPDF("Hello"))
	writeTestFile(t, dir, "invalid.pdf", []byte("GIF89a"))
	s := newTestServer(t, testConfig(dir))
	ctx := context.Background()

	tests := []struct {
		name     string
		path     string
		want     string
		toolFail bool
	}{
		{name: "valid", path: "valid.pdf", want: "is valid"},
		{name: "invalid", path: "invalid.pdf", want: "PDF validation failed for invalid.pdf"},
		{name: "missing", path: "missing.pdf", toolFail: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleValidateFile(ctx, callRequest(map[string]interface{}{"path": tt.path}))
			if err != nil {
				t.Fatalf("handleValidateFile() error = %v", err)
			}
			if result.IsError != tt.toolFail {
				t.Fatalf("IsError = %v, want %v", result.IsError, tt.toolFail)
			}
			if text := extractTextFromResult(result); !strings.Contains(text, tt.want) {
				t.Errorf("got %q, want it to contain %q", text, tt.want)
			}
		})
	}
}

func TestServer_HandleServerInfo(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "slip.pdf", generateTestPDF("Hello"))
	s := newTestServer(t, testConfig(dir))

	result, err := s.handleServerInfo(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handleServerInfo() error = %v", err)
	}
	text := extractTextFromResult(result)

	for _, want := range []string{
		"test-server v1.0.0",
		"Strategy: line-scan",
		"Directory Contents (1 PDF files found)",
		"slip.pdf",
		ToolExtractFile,
		ToolExtractDirectory,
		ToolValidateFile,
		ToolServerInfo,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("server info missing %q:\n%s", want, text)
		}
	}
}

func TestServer_Run_RequiresStdioMode(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Mode = config.ModeBatch
	s := newTestServer(t, cfg)

	err := s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "stdio") {
		t.Errorf("Run() error = %v, want stdio mode error", err)
	}
}
