package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/vopet/internal/ledger"
)

// ArchiveLedger writes a timestamped copy of a ledger into archiveDir and
// returns the path of the copy. The copy starts with a BOM like the ledger
// file itself.
func ArchiveLedger(archiveDir, fileName, content string) (string, error) {
	if strings.TrimSpace(fileName) == "" {
		return "", fmt.Errorf("ledger file name is empty")
	}

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	base := strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	ext := filepath.Ext(fileName)
	if ext == "" {
		ext = ".csv"
	}

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", base, timestamp, ext))
	}

	data := ledger.BOM + strings.TrimSpace(content)
	if err := os.WriteFile(archivePath, []byte(data), 0644); err != nil {
		return "", fmt.Errorf("failed to archive ledger: %w", err)
	}

	return archivePath, nil
}
