package mcp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/a3tai/slip-extractor/internal/config"
	"github.com/a3tai/slip-extractor/internal/pdf"
)

// generateTestPDF builds a one-page Helvetica PDF with accurate xref offsets
func generateTestPDF(lines ...string) []byte {
	doc := "%PDF-1.4\n"
	offsets := make([]int, 0, 4)

	offsets = append(offsets, len(doc))
	doc += "1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n"

	offsets = append(offsets, len(doc))
	doc += "2 0 obj\n<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>\nendobj\n"

	offsets = append(offsets, len(doc))
	doc += "3 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n" +
		"/Resources <<\n/Font <<\n/F1 <<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>\n>>\n>>\n>>\nendobj\n"

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm\n(%s) Tj\n", 720-20*i, line)
	}
	content.WriteString("ET\n")

	offsets = append(offsets, len(doc))
	doc += fmt.Sprintf("4 0 obj\n<<\n/Length %d\n>>\nstream\n%sendstream\nendobj\n", content.Len(), content.String())

	xrefStart := len(doc)
	doc += "xref\n0 5\n0000000000 65535 f \n"
	for _, off := range offsets {
		doc += fmt.Sprintf("%010d 00000 n \n", off)
	}
	doc += fmt.Sprintf("trailer\n<<\n/Size 5\n/Root 1 0 R\n>>\nstartxref\n%d\n%%%%EOF", xrefStart)

	return []byte(doc)
}

func writeTestFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func testConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mode = config.ModeStdio
	cfg.PDFDirectory = dir
	cfg.ServerName = "test-server"
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	service, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory)
	if err != nil {
		t.Fatalf("pdf.NewService() error = %v", err)
	}
	s, err := NewServer(cfg, service, nil)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// extractTextFromResult returns the first text content of a tool result
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}

	return ""
}
