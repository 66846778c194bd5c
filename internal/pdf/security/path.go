package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator confines the paths handed to the tool server to the directory
// the operator configured
type PathValidator struct {
	root string
}

// NewPathValidator creates a new path validator for the given directory
func NewPathValidator(root string) (*PathValidator, error) {
	if root == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	return &PathValidator{root: filepath.Clean(absRoot)}, nil
}

// Root returns the configured directory
func (v *PathValidator) Root() string {
	return v.root
}

// NormalizePath resolves path against the configured directory and checks
// that the result, with symlinks followed, stays inside it
func (v *PathValidator) NormalizePath(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.root, path)
	}
	path = filepath.Clean(path)

	within, err := v.isWithinRoot(path)
	if err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return "", fmt.Errorf("path is outside configured directory: %s", path)
	}

	return path, nil
}

// NormalizeDirectory is NormalizePath for directories; an empty argument means
// the configured directory itself
func (v *PathValidator) NormalizeDirectory(dir string) (string, error) {
	if dir == "" {
		return v.root, nil
	}

	normalized, err := v.NormalizePath(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(normalized)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}

	return normalized, nil
}

func (v *PathValidator) isWithinRoot(path string) (bool, error) {
	realRoot := v.root
	if resolved, err := filepath.EvalSymlinks(v.root); err == nil {
		realRoot = resolved
	}

	realPath := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		realPath = resolved
	} else if !os.IsNotExist(err) {
		return false, err
	}

	lexicalOK := hasPathPrefix(path, v.root) || hasPathPrefix(path, realRoot)
	realOK := hasPathPrefix(realPath, realRoot) || hasPathPrefix(realPath, v.root)

	return lexicalOK && realOK, nil
}

func hasPathPrefix(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
