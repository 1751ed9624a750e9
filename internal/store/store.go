package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Storage keys, shared with the key-value table.
const (
	KeyFileName     = "syncedFileName"
	KeyFileContent  = "syncedFileContent"
	KeyLastModified = "syncedFileLastModified"
	KeyHandlePath   = "syncedFileHandle"
	KeyRevision     = "syncedFileRevision"
)

var (
	// ErrNoLedgerConfigured is returned when no ledger file is connected.
	ErrNoLedgerConfigured = errors.New("no ledger file connected")

	// ErrUnsupportedLedgerFormat is returned for files that are not CSV.
	ErrUnsupportedLedgerFormat = errors.New("unsupported ledger format, only .csv files are supported")

	// ErrEmptyLedgerContent is returned when a ledger is connected but its
	// content could not be read. An empty string is a valid new ledger and
	// does not trigger this error.
	ErrEmptyLedgerContent = errors.New("ledger content is not available, reconnect the file")

	// ErrConflict is returned by Commit when the ledger changed since the
	// given revision was read.
	ErrConflict = errors.New("ledger changed concurrently")
)

// Snapshot is the stored ledger state.
type Snapshot struct {
	FileName     string
	Content      *string // nil when the content is not readable
	HandlePath   string  // path of the CSV file on disk, empty if none
	LastModified time.Time
	Revision     int64
}

// Connected reports whether a ledger file is configured.
func (s Snapshot) Connected() bool {
	return s.FileName != ""
}

// Text returns the ledger text ready for appending or the error explaining
// why there is none.
func (s Snapshot) Text() (string, error) {
	if err := CheckFileName(s.FileName); err != nil {
		return "", err
	}
	if s.Content == nil {
		return "", ErrEmptyLedgerContent
	}
	return *s.Content, nil
}

// Store persists the connected ledger.
type Store interface {
	// Snapshot returns the current state.
	Snapshot(ctx context.Context) (Snapshot, error)

	// Connect replaces the connected ledger. A nil content is stored as
	// unreadable.
	Connect(ctx context.Context, fileName string, content *string, handlePath string) (Snapshot, error)

	// Commit stores new content if the stored revision still equals
	// revision, otherwise it returns ErrConflict.
	Commit(ctx context.Context, content string, revision int64) (Snapshot, error)

	// Disconnect forgets the connected ledger.
	Disconnect(ctx context.Context) error

	Close() error
}

// CheckFileName validates the name of a ledger file.
func CheckFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNoLedgerConfigured
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return nil
	case ".numbers":
		return fmt.Errorf("%w: export %q from Numbers as CSV (File > Export To > CSV) and connect the CSV file", ErrUnsupportedLedgerFormat, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedLedgerFormat, name)
	}
}
