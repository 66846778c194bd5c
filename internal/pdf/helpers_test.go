package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// generateTestPDF builds a one-page PDF with accurate xref offsets. Each line
// is drawn with Helvetica, 20 points below the previous one.
func generateTestPDF(lines ...string) string {
	pdf := "%PDF-1.4\n"

	obj1Start := len(pdf)
	pdf += "1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n"

	obj2Start := len(pdf)
	pdf += "2 0 obj\n<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>\nendobj\n"

	obj3Start := len(pdf)
	pdf += "3 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Contents 4 0 R\n" +
		"/Resources <<\n/Font <<\n/F1 <<\n/Type /Font\n/Subtype /Type1\n/BaseFont /Helvetica\n>>\n>>\n>>\n>>\nendobj\n"

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n")
	for i, line := range lines {
		fmt.Fprintf(&content, "1 0 0 1 72 %d Tm\n(%s) Tj\n", 720-20*i, line)
	}
	content.WriteString("ET\n")

	obj4Start := len(pdf)
	pdf += fmt.Sprintf("4 0 obj\n<<\n/Length %d\n>>\nstream\n%sendstream\nendobj\n", content.Len(), content.String())

	xrefStart := len(pdf)
	pdf += "xref\n0 5\n0000000000 65535 f \n"
	pdf += fmt.Sprintf("%010d 00000 n \n", obj1Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj2Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj3Start)
	pdf += fmt.Sprintf("%010d 00000 n \n", obj4Start)

	pdf += "trailer\n<<\n/Size 5\n/Root 1 0 R\n>>\nstartxref\n"
	pdf += fmt.Sprintf("%d\n", xrefStart)
	pdf += "%%EOF"

	return pdf
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
