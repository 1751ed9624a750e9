package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/vopet/internal/ledger"
)

// FileHandle is the CSV file a connected ledger is mirrored to.
type FileHandle struct {
	Path string
}

// NewFileHandle returns a handle for path.
func NewFileHandle(path string) *FileHandle {
	return &FileHandle{Path: path}
}

// Name returns the base name of the file.
func (h *FileHandle) Name() string {
	return filepath.Base(h.Path)
}

// Read returns the file content decoded to UTF-8. A missing file reads as
// an empty ledger.
func (h *FileHandle) Read() (string, error) {
	raw, err := os.ReadFile(h.Path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read ledger file: %w", err)
	}
	return DecodeCSV(raw)
}

// Write replaces the file with a BOM followed by the trimmed content, so
// spreadsheet tools detect UTF-8. The file is written to a temporary file
// first and renamed into place.
func (h *FileHandle) Write(content string) error {
	data := ledger.BOM + strings.TrimSpace(content)

	dir := filepath.Dir(h.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(h.Path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), h.Path); err != nil {
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
