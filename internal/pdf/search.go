package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Search discovers the PDF files making up a batch
type Search struct {
	maxFileSize int64
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		maxFileSize: maxFileSize,
	}
}

// SearchDirectory lists the PDF files under directory, sorted by path so a
// batch is processed in a stable order. Hidden files and directories are
// skipped; empty or oversized files are reported in Skipped.
func (s *Search) SearchDirectory(directory string) (*PDFSearchDirectoryResult, error) {
	return s.SearchByPattern(directory, "")
}

// SearchByPattern is SearchDirectory restricted to base names matching a
// filepath.Match pattern. An empty pattern matches every PDF.
func (s *Search) SearchByPattern(directory, pattern string) (*PDFSearchDirectoryResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	result := &PDFSearchDirectoryResult{
		Files:     []FileInfo{},
		Directory: absDirectory,
	}

	err = filepath.WalkDir(absDirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Continue walking even if we encounter an error with a specific file
			return nil //nolint:nilerr // Intentionally continue on file errors
		}

		if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() || !isPDFFile(d.Name()) {
			return nil
		}

		if pattern != "" {
			if matched, _ := filepath.Match(pattern, d.Name()); !matched {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return nil //nolint:nilerr // File vanished mid-walk
		}

		if info.Size() == 0 || (s.maxFileSize > 0 && info.Size() > s.maxFileSize) {
			result.Skipped = append(result.Skipped, path)
			return nil
		}

		result.Files = append(result.Files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	result.TotalCount = len(result.Files)

	return result, nil
}

// isPDFFile checks if a file has a PDF extension
func isPDFFile(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".pdf")
}
