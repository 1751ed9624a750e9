package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"codeberg.org/snonux/vopet/internal/archive"
	"codeberg.org/snonux/vopet/internal/ledger"
	"codeberg.org/snonux/vopet/internal/store"
	"codeberg.org/snonux/vopet/internal/wordapi"
)

// KeyUserID is the settings key of the user id sent to the word service.
const KeyUserID = "tempUserId"

// SaveResult describes a saved word.
type SaveResult struct {
	Record      ledger.Record     `json:"record"`
	FileName    string            `json:"fileName"`
	HeaderAdded bool              `json:"headerAdded"`
	Issues      []ledger.RowIssue `json:"issues,omitempty"`
	Attempts    int               `json:"attempts"`

	// FileError is set when the word was stored but the ledger file on
	// disk could not be rewritten.
	FileError error `json:"-"`
}

// SaveWord appends rec to the connected ledger. The read-modify-write is
// retried when another writer committed in between, so concurrent saves
// never drop a row. The ledger file on disk is rewritten afterwards and a
// failure to do so is reported in SaveResult.FileError, since the word itself
// is already stored. Finally the word is sent to the word service when one is
// configured; failures there are only logged.
func (s *Session) SaveWord(ctx context.Context, rec ledger.Record, example string) (SaveResult, error) {
	if err := rec.Validate(); err != nil {
		return SaveResult{}, err
	}

	var (
		res  ledger.Result
		snap store.Snapshot
		err  error
	)
	attempt := 0
	for {
		attempt++
		snap, err = s.store.Snapshot(ctx)
		if err != nil {
			return SaveResult{}, err
		}
		text, textErr := snap.Text()
		if textErr != nil {
			return SaveResult{}, textErr
		}

		res = s.writer.Append(text, rec)
		snap, err = s.store.Commit(ctx, res.Text, snap.Revision)
		if err == nil {
			break
		}
		if !errors.Is(err, store.ErrConflict) || attempt >= s.cfg.SaveRetries {
			return SaveResult{}, fmt.Errorf("failed to save word: %w", err)
		}
		s.logger.Debug("ledger changed during save, retrying", "attempt", attempt)
	}

	for _, issue := range res.Issues {
		s.logger.Warn("malformed ledger row", "line", issue.Line, "fields", issue.Fields)
	}

	fileErr := s.writeLedgerFile(snap, res.Text)
	if fileErr != nil {
		s.logger.Warn("failed to update ledger file", "path", snap.HandlePath, "error", fileErr)
	}

	s.syncWord(ctx, res.Record, example)

	return SaveResult{
		Record:      res.Record,
		FileName:    snap.FileName,
		HeaderAdded: res.HeaderAdded,
		Issues:      res.Issues,
		Attempts:    attempt,
		FileError:   fileErr,
	}, nil
}

// writeLedgerFile mirrors the committed content to the ledger file. Saves
// finish in any order, so a commit older than the last one written is
// skipped and the file never goes back to an earlier revision.
func (s *Session) writeLedgerFile(snap store.Snapshot, content string) error {
	if snap.HandlePath == "" {
		return nil
	}

	s.fileMu.Lock()
	defer s.fileMu.Unlock()

	if snap.Revision <= s.fileRevision {
		s.logger.Debug("ledger file already newer", "revision", snap.Revision, "written", s.fileRevision)
		return nil
	}
	if err := store.NewFileHandle(snap.HandlePath).Write(content); err != nil {
		return fmt.Errorf("failed to update ledger file %s: %w", snap.HandlePath, err)
	}
	s.fileRevision = snap.Revision
	return nil
}

func (s *Session) syncWord(ctx context.Context, rec ledger.Record, example string) {
	if s.syncer == nil {
		return
	}
	w := wordapi.Word{
		UserID:        s.userID(ctx),
		Word:          rec.Term,
		Translation:   rec.Meaning,
		Pronunciation: rec.Pronunciation,
		Example:       example,
	}
	if _, err := s.syncer.Save(ctx, w); err != nil {
		s.logger.Warn("failed to send word to word service", "word", rec.Term, "error", err)
	}
}

// userID returns the stored user id, creating a temporary one on first use.
func (s *Session) userID(ctx context.Context) string {
	settings, ok := s.store.(Settings)
	if !ok {
		return "temp_user"
	}
	if id, err := settings.Value(ctx, KeyUserID); err == nil && id != "" {
		return id
	}
	id := "temp_user_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := settings.SetValue(ctx, KeyUserID, id); err != nil {
		s.logger.Warn("failed to store user id", "error", err)
	}
	return id
}

// ListRecords returns the records of the connected ledger.
func (s *Session) ListRecords(ctx context.Context) ([]ledger.Record, []ledger.RowIssue, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	text, err := snap.Text()
	if err != nil {
		return nil, nil, err
	}
	return ledger.ParseRecords(text)
}

// Status returns the stored ledger state.
func (s *Session) Status(ctx context.Context) (store.Snapshot, error) {
	return s.store.Snapshot(ctx)
}

// Connect makes the CSV file at path the ledger. A missing file starts an
// empty ledger that is created on the first save.
func (s *Session) Connect(ctx context.Context, path string) (store.Snapshot, error) {
	h := store.NewFileHandle(path)
	if err := store.CheckFileName(h.Name()); err != nil {
		return store.Snapshot{}, err
	}

	content, err := h.Read()
	if err != nil {
		return store.Snapshot{}, err
	}

	snap, err := s.store.Connect(ctx, h.Name(), &content, path)
	if err != nil {
		return store.Snapshot{}, err
	}
	s.logger.Info("ledger connected", "file", h.Name(), "path", path)
	return snap, nil
}

// Disconnect forgets the connected ledger. When an archive directory is
// configured the ledger content is archived first and its path returned.
func (s *Session) Disconnect(ctx context.Context) (string, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	if !snap.Connected() {
		return "", store.ErrNoLedgerConfigured
	}

	archived := ""
	if s.cfg.ArchiveDir != "" && snap.Content != nil && *snap.Content != "" {
		archived, err = archive.ArchiveLedger(s.cfg.ArchiveDir, snap.FileName, *snap.Content)
		if err != nil {
			return "", err
		}
	}

	if err := s.store.Disconnect(ctx); err != nil {
		return "", err
	}
	return archived, nil
}
