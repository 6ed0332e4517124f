package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"notegraph/internal/modules/note/domain"
	noteout "notegraph/internal/modules/note/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteNoteIndex struct {
	db *sql.DB
}

var _ noteout.NoteIndexProjector = (*SQLiteNoteIndex)(nil)

func NewSQLiteNoteIndex(dbPath string) (*SQLiteNoteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	index := &SQLiteNoteIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteNoteIndex) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func (s *SQLiteNoteIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS notes (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  path TEXT NOT NULL,
  words INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

func (s *SQLiteNoteIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("reset notes: %w", err)
	}
	return nil
}

func (s *SQLiteNoteIndex) UpsertNote(ctx context.Context, document domain.Document) error {
	const stmt = `
INSERT INTO notes (id, title, path, words, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  title=excluded.title,
  path=excluded.path,
  words=excluded.words,
  updated_at=excluded.updated_at;
`
	note := document.Note
	_, err := s.db.ExecContext(ctx, stmt,
		note.ID,
		note.Title,
		note.Path,
		document.Words(),
		note.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}
