package pdf

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/a3tai/slip-extractor/internal/pdf/security"
)

// Service handles PDF file operations by orchestrating the reader, validator
// and directory search behind a single configured root
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// ReadFirstPage renders the first page of doc
func (s *Service) ReadFirstPage(doc Document) (*Page, error) {
	return s.reader.ReadFirstPage(doc)
}

// ValidateDocument reports whether doc is a structurally sound PDF
func (s *Service) ValidateDocument(doc Document) *PDFValidateFileResult {
	return s.validator.ValidateDocument(doc)
}

// Check returns the typed validation failure for doc, or nil
func (s *Service) Check(doc Document) error {
	return s.validator.Check(doc)
}

// LoadFile reads a single PDF confined to the configured root
func (s *Service) LoadFile(path string) (Document, error) {
	normalized, err := s.pathValidator.NormalizePath(path)
	if err != nil {
		return Document{}, fmt.Errorf("security validation failed: %w", err)
	}
	return LoadDocument(normalized, s.maxFileSize)
}

// SearchDirectory lists the PDFs under directory, or under the configured
// root when directory is empty
func (s *Service) SearchDirectory(directory, pattern string) (*PDFSearchDirectoryResult, error) {
	normalized, err := s.pathValidator.NormalizeDirectory(directory)
	if err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.search.SearchByPattern(normalized, pattern)
}

// LoadDirectory loads every PDF under directory in path order. Files that
// were skipped by the search or cannot be read still produce a Document
// carrying only their name, so the batch keeps one row per file.
func (s *Service) LoadDirectory(directory, pattern string) ([]Document, error) {
	result, err := s.SearchDirectory(directory, pattern)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(result.Files)+len(result.Skipped))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	paths = append(paths, result.Skipped...)
	sort.Strings(paths)

	return LoadDocuments(paths, s.maxFileSize), nil
}

// Root returns the directory all paths are confined to
func (s *Service) Root() string {
	return s.pathValidator.Root()
}

// GetMaxFileSize returns the maximum file size limit
func (s *Service) GetMaxFileSize() int64 {
	return s.maxFileSize
}

// LoadDocuments reads paths in order. A path that cannot be loaded yields a
// Document with its base name, no data and the load error.
func LoadDocuments(paths []string, maxFileSize int64) []Document {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		doc, err := LoadDocument(p, maxFileSize)
		if err != nil {
			doc = Document{Name: filepath.Base(p), Err: err}
		}
		docs = append(docs, doc)
	}
	return docs
}
