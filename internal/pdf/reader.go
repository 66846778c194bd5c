package pdf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

// firstPage is the only page a slip is read from
const firstPage = 1

// Reader turns PDF documents into pages using ledongthuc/pdf
type Reader struct {
	maxFileSize int64
}

// NewReader creates a new PDF reader with the specified size limit
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
	}
}

// ReadFirstPage parses doc and renders its first page. Every failure, including
// a panic inside the backend, comes back as a *errors.PDFError.
func (r *Reader) ReadFirstPage(doc Document) (page *Page, err error) {
	if doc.Err != nil {
		return nil, doc.Err
	}
	if len(doc.Data) == 0 {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeOpenFailed, "document is empty").WithFile(doc.Name)
	}
	if r.maxFileSize > 0 && int64(len(doc.Data)) > r.maxFileSize {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeFileTooLarge,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(doc.Data), r.maxFileSize)).WithFile(doc.Name)
	}

	// The backend panics on some malformed streams
	defer func() {
		if rec := recover(); rec != nil {
			page = nil
			err = pdferrors.NewPDFError(pdferrors.ErrorTypeBackendPanic, fmt.Sprintf("%v", rec)).
				WithFile(doc.Name).
				WithPage(firstPage)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return nil, pdferrors.WrapError(pdferrors.ErrorTypeOpenFailed, err).WithFile(doc.Name)
	}

	if pdfReader.NumPage() < firstPage {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingPage, "document has no pages").WithFile(doc.Name)
	}

	p := pdfReader.Page(firstPage)
	if p.V.IsNull() {
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingPage, "first page is null").
			WithFile(doc.Name).
			WithPage(firstPage)
	}

	content := p.Content()

	glyphs := make([]glyph, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, glyph{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}

	rulings := make([]ruling, 0, len(content.Rect))
	for _, rect := range content.Rect {
		rulings = append(rulings, ruling{MinY: rect.Min.Y, MaxY: rect.Max.Y})
	}

	return buildPage(glyphs, rulings), nil
}

// LoadDocument reads a PDF file from disk into a Document named after its base
// name. Failures are *errors.PDFError: FILE_TOO_LARGE for oversize files and
// OPEN_FAILED otherwise.
func LoadDocument(path string, maxFileSize int64) (Document, error) {
	if path == "" {
		return Document{}, pdferrors.NewPDFError(pdferrors.ErrorTypeOpenFailed, "path cannot be empty")
	}
	name := filepath.Base(path)

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Document{}, pdferrors.NewPDFError(pdferrors.ErrorTypeOpenFailed, "file does not exist").WithFile(name)
	}
	if err != nil {
		return Document{}, pdferrors.WrapError(pdferrors.ErrorTypeOpenFailed, err).
			WithContext("cannot access file").
			WithFile(name)
	}

	if fileInfo.IsDir() {
		return Document{}, pdferrors.NewPDFError(pdferrors.ErrorTypeOpenFailed, "path is a directory, not a file").
			WithFile(name)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return Document{}, pdferrors.NewPDFError(pdferrors.ErrorTypeOpenFailed, "file is not a PDF").WithFile(name)
	}
	if maxFileSize > 0 && fileInfo.Size() > maxFileSize {
		return Document{}, pdferrors.NewPDFError(pdferrors.ErrorTypeFileTooLarge,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), maxFileSize)).WithFile(name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, pdferrors.WrapError(pdferrors.ErrorTypeOpenFailed, err).
			WithContext("failed to read file").
			WithFile(name)
	}

	return Document{Name: name, Data: data}, nil
}
