package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is a Store backed by a SQLite key-value table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the store at path. Write transactions take
// the database lock up front so two processes cannot interleave a
// read-modify-write.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func initSchema(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func get(ctx context.Context, q querier, key string) (sql.NullString, error) {
	var v sql.NullString
	err := q.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.NullString{}, nil
	}
	return v, err
}

func set(ctx context.Context, q querier, key string, value *string) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func revision(ctx context.Context, q querier) (int64, error) {
	v, err := get(ctx, q, KeyRevision)
	if err != nil || !v.Valid {
		return 0, err
	}
	return strconv.ParseInt(v.String, 10, 64)
}

func ptr(s string) *string { return &s }

// snapshotKeys are read together by readSnapshot.
var snapshotKeys = []any{KeyFileName, KeyFileContent, KeyHandlePath, KeyLastModified, KeyRevision}

// readSnapshot reads all ledger keys with a single statement, so content
// and revision always belong to the same commit.
func readSnapshot(ctx context.Context, q querier) (Snapshot, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key IN (?, ?, ?, ?, ?)`, snapshotKeys...)
	if err != nil {
		return Snapshot{}, err
	}
	defer rows.Close()

	values := make(map[string]sql.NullString, len(snapshotKeys))
	for rows.Next() {
		var (
			key   string
			value sql.NullString
		)
		if err := rows.Scan(&key, &value); err != nil {
			return Snapshot{}, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		FileName:   values[KeyFileName].String,
		HandlePath: values[KeyHandlePath].String,
	}
	if content := values[KeyFileContent]; content.Valid {
		snap.Content = ptr(content.String)
	}
	if ms, err := strconv.ParseInt(values[KeyLastModified].String, 10, 64); err == nil {
		snap.LastModified = time.UnixMilli(ms)
	}
	if rev := values[KeyRevision]; rev.Valid {
		if snap.Revision, err = strconv.ParseInt(rev.String, 10, 64); err != nil {
			return Snapshot{}, fmt.Errorf("invalid revision %q: %w", rev.String, err)
		}
	}
	return snap, nil
}

// Snapshot returns the current state.
func (s *SQLiteStore) Snapshot(ctx context.Context) (Snapshot, error) {
	snap, err := readSnapshot(ctx, s.db)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read store: %w", err)
	}
	return snap, nil
}

// update runs fn in a write transaction and returns the resulting snapshot.
func (s *SQLiteStore) update(ctx context.Context, fn func(tx *sql.Tx, rev int64) error) (Snapshot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rev, err := revision(ctx, tx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read revision: %w", err)
	}
	if err := fn(tx, rev); err != nil {
		return Snapshot{}, err
	}
	if err := set(ctx, tx, KeyRevision, ptr(strconv.FormatInt(rev+1, 10))); err != nil {
		return Snapshot{}, fmt.Errorf("failed to write revision: %w", err)
	}

	snap, err := readSnapshot(ctx, tx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read store: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Snapshot{}, fmt.Errorf("failed to commit: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) touch(ctx context.Context, tx *sql.Tx) error {
	return set(ctx, tx, KeyLastModified, ptr(strconv.FormatInt(s.now().UnixMilli(), 10)))
}

// Connect replaces the connected ledger and bumps the revision, so saves
// that read the previous ledger fail with ErrConflict.
func (s *SQLiteStore) Connect(ctx context.Context, fileName string, content *string, handlePath string) (Snapshot, error) {
	return s.update(ctx, func(tx *sql.Tx, _ int64) error {
		if err := set(ctx, tx, KeyFileName, ptr(fileName)); err != nil {
			return fmt.Errorf("failed to write file name: %w", err)
		}
		if err := set(ctx, tx, KeyFileContent, content); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
		if err := set(ctx, tx, KeyHandlePath, ptr(handlePath)); err != nil {
			return fmt.Errorf("failed to write file path: %w", err)
		}
		return s.touch(ctx, tx)
	})
}

// Commit stores content if revision is still current.
func (s *SQLiteStore) Commit(ctx context.Context, content string, revision int64) (Snapshot, error) {
	return s.update(ctx, func(tx *sql.Tx, current int64) error {
		if current != revision {
			return fmt.Errorf("%w: read revision %d, store has %d", ErrConflict, revision, current)
		}
		name, err := get(ctx, tx, KeyFileName)
		if err != nil {
			return fmt.Errorf("failed to read file name: %w", err)
		}
		if name.String == "" {
			return ErrNoLedgerConfigured
		}
		if err := set(ctx, tx, KeyFileContent, ptr(content)); err != nil {
			return fmt.Errorf("failed to write content: %w", err)
		}
		return s.touch(ctx, tx)
	})
}

// Disconnect forgets the connected ledger.
func (s *SQLiteStore) Disconnect(ctx context.Context) error {
	_, err := s.update(ctx, func(tx *sql.Tx, _ int64) error {
		for _, key := range []string{KeyFileName, KeyFileContent, KeyHandlePath, KeyLastModified} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		return nil
	})
	return err
}

// Value returns a free-form setting, or "" when unset.
func (s *SQLiteStore) Value(ctx context.Context, key string) (string, error) {
	v, err := get(ctx, s.db, key)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v.String, nil
}

// SetValue stores a free-form setting.
func (s *SQLiteStore) SetValue(ctx context.Context, key, value string) error {
	if err := set(ctx, s.db, key, ptr(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
