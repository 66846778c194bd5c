package pdf

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pdferrors "github.com/a3tai/slip-extractor/internal/pdf/errors"
)

func TestNewService(t *testing.T) {
	tempDir := t.TempDir()

	service, err := NewService(1024, tempDir)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), service.GetMaxFileSize())
	assert.True(t, filepath.IsAbs(service.Root()))

	_, err = NewService(1024, "")
	assert.Error(t, err)
}

func TestService_LoadFile(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()

	writeTestFile(t, root, "slip.pdf", []byte(generateTestPDF("x")))
	outsidePath := writeTestFile(t, outside, "other.pdf", []byte(generateTestPDF("x")))

	service, err := NewService(1024*1024, root)
	require.NoError(t, err)

	doc, err := service.LoadFile("slip.pdf")
	require.NoError(t, err)
	assert.Equal(t, "slip.pdf", doc.Name)
	assert.NotEmpty(t, doc.Data)

	_, err = service.LoadFile(outsidePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "security validation failed")
}

func TestService_LoadDirectory(t *testing.T) {
	root := t.TempDir()
	slip := []byte(generateTestPDF("x"))

	writeTestFile(t, root, "b.pdf", slip)
	writeTestFile(t, root, "a.pdf", slip)
	writeTestFile(t, root, "c.pdf", nil)

	service, err := NewService(1024*1024, root)
	require.NoError(t, err)

	docs, err := service.LoadDirectory("", "")
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.Equal(t, "a.pdf", docs[0].Name)
	assert.Equal(t, "b.pdf", docs[1].Name)
	assert.Equal(t, "c.pdf", docs[2].Name)
	assert.NotEmpty(t, docs[0].Data)
	assert.Empty(t, docs[2].Data)

	_, err = service.LoadDirectory("../", "")
	assert.Error(t, err)
}

func TestLoadDocuments_KeepsUnreadableNames(t *testing.T) {
	root := t.TempDir()
	good := writeTestFile(t, root, "good.pdf", []byte(generateTestPDF("x")))

	docs := LoadDocuments([]string{filepath.Join(root, "missing.pdf"), good}, 1024*1024)

	require.Len(t, docs, 2)
	assert.Equal(t, "missing.pdf", docs[0].Name)
	assert.Nil(t, docs[0].Data)
	assert.True(t, pdferrors.IsType(docs[0].Err, pdferrors.ErrorTypeOpenFailed), "got %v", docs[0].Err)
	assert.Equal(t, "good.pdf", docs[1].Name)
	assert.NotEmpty(t, docs[1].Data)
	assert.NoError(t, docs[1].Err)
}

func TestLoadDocuments_OversizeKeepsCategory(t *testing.T) {
	root := t.TempDir()
	big := writeTestFile(t, root, "big.pdf", make([]byte, 4096))

	docs := LoadDocuments([]string{big}, 1024)

	require.Len(t, docs, 1)
	assert.Equal(t, "big.pdf", docs[0].Name)
	assert.True(t, pdferrors.IsType(docs[0].Err, pdferrors.ErrorTypeFileTooLarge), "got %v", docs[0].Err)

	_, err := NewValidator(1024).validate(docs[0])
	assert.True(t, pdferrors.IsType(err, pdferrors.ErrorTypeFileTooLarge), "got %v", err)
}
