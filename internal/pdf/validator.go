package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

// pdfHeader is the magic every PDF file starts with
var pdfHeader = []byte("%PDF-")

// Validator checks documents structurally with pdfcpu before extraction
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateDocument performs validation on a document and reports the outcome.
// A failed validation is a result, not an error.
func (v *Validator) ValidateDocument(doc Document) *PDFValidateFileResult {
	result := &PDFValidateFileResult{
		Name:  doc.Name,
		Valid: false,
	}

	pages, err := v.validate(doc)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	result.Valid = true
	result.Pages = pages
	return result
}

// Check returns nil when doc passes validation, or the typed reason it did not
func (v *Validator) Check(doc Document) error {
	_, err := v.validate(doc)
	return err
}

func (v *Validator) validate(doc Document) (pages int, err error) {
	if doc.Err != nil {
		return 0, doc.Err
	}
	if len(doc.Data) == 0 {
		return 0, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidHeader, "file is empty").WithFile(doc.Name)
	}

	if v.maxFileSize > 0 && int64(len(doc.Data)) > v.maxFileSize {
		return 0, pdferrors.NewPDFError(pdferrors.ErrorTypeFileTooLarge,
			fmt.Sprintf("file too large: %d bytes (max: %d bytes)", len(doc.Data), v.maxFileSize)).WithFile(doc.Name)
	}

	if !bytes.HasPrefix(doc.Data, pdfHeader) {
		return 0, pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidHeader, "missing %PDF- header").WithFile(doc.Name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			pages = 0
			err = pdferrors.NewPDFError(pdferrors.ErrorTypeBackendPanic, fmt.Sprintf("%v", rec)).WithFile(doc.Name)
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(doc.Data), conf)
	if err != nil {
		return 0, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).
			WithContext("read context").
			WithFile(doc.Name)
	}

	if err := ctx.EnsurePageCount(); err != nil {
		return 0, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).
			WithContext("page count").
			WithFile(doc.Name)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return 0, pdferrors.WrapError(pdferrors.ErrorTypeInvalidStructure, err).WithFile(doc.Name)
	}

	if ctx.PageCount < firstPage {
		return 0, pdferrors.NewPDFError(pdferrors.ErrorTypeMissingPage, "document has no pages").WithFile(doc.Name)
	}

	return ctx.PageCount, nil
}
