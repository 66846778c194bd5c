package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// PDFError describes why a document could not be read into a page, with enough
// context for the operator log.
type PDFError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Context    string    `json:"context,omitempty"`
	FilePath   string    `json:"file_path,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	Cause      error     `json:"-"`
}

// ErrorType represents the categories of failures met while turning a document
// into a page
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeFileTooLarge
	ErrorTypeInvalidHeader
	ErrorTypeInvalidStructure
	ErrorTypeOpenFailed
	ErrorTypeMissingPage
	ErrorTypeMalformedPage
	ErrorTypeBackendPanic
	ErrorTypeLegacyTableShape
)

// ErrorSeverity indicates how much of a record an error costs
type ErrorSeverity int

const (
	SeverityInfo ErrorSeverity = iota
	SeverityWarning
	SeverityError
)

// Error implements the error interface
func (e *PDFError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Type.String(), e.Message)
	if e.Context != "" {
		msg += ": " + e.Context
	}
	if e.FilePath != "" {
		msg += " (" + e.FilePath + ")"
	}
	return msg
}

// Unwrap returns the underlying cause, if any
func (e *PDFError) Unwrap() error {
	return e.Cause
}

// String returns a string representation of the ErrorType
func (et ErrorType) String() string {
	switch et {
	case ErrorTypeFileTooLarge:
		return "FILE_TOO_LARGE"
	case ErrorTypeInvalidHeader:
		return "INVALID_HEADER"
	case ErrorTypeInvalidStructure:
		return "INVALID_STRUCTURE"
	case ErrorTypeOpenFailed:
		return "OPEN_FAILED"
	case ErrorTypeMissingPage:
		return "MISSING_PAGE"
	case ErrorTypeMalformedPage:
		return "MALFORMED_PAGE"
	case ErrorTypeBackendPanic:
		return "BACKEND_PANIC"
	case ErrorTypeLegacyTableShape:
		return "LEGACY_TABLE_SHAPE"
	default:
		return "UNKNOWN"
	}
}

// GetSeverity returns the severity level for a given error type. Errors stop the
// whole page from being read; warnings cost a single field.
func (et ErrorType) GetSeverity() ErrorSeverity {
	switch et {
	case ErrorTypeLegacyTableShape:
		return SeverityWarning
	default:
		return SeverityError
	}
}

// NewPDFError creates a new PDFError
func NewPDFError(errorType ErrorType, message string) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WrapError wraps a standard error as a PDFError
func WrapError(errorType ErrorType, err error) *PDFError {
	return &PDFError{
		Type:      errorType,
		Message:   err.Error(),
		Timestamp: time.Now(),
		Cause:     err,
	}
}

// WithContext adds context to an existing PDFError
func (e *PDFError) WithContext(context string) *PDFError {
	e.Context = context
	return e
}

// WithFile adds file name information to an existing PDFError
func (e *PDFError) WithFile(filePath string) *PDFError {
	e.FilePath = filePath
	return e
}

// WithPage adds page number information to an existing PDFError
func (e *PDFError) WithPage(pageNumber int) *PDFError {
	e.PageNumber = pageNumber
	return e
}

// GetSeverity returns the severity of this specific error
func (e *PDFError) GetSeverity() ErrorSeverity {
	return e.Type.GetSeverity()
}

// TypeOf reports the category of err, looking through wrapping. Errors that are
// not PDFErrors are ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var pdfErr *PDFError
	if stderrors.As(err, &pdfErr) {
		return pdfErr.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is a PDFError of the given category
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}
