package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"notegraph/internal/modules/note/domain"
	noteout "notegraph/internal/modules/note/port/out"
	apperrors "notegraph/internal/platform/errors"
	"notegraph/internal/platform/markdown"
	"notegraph/internal/platform/slug"
)

type VaultNoteStore struct {
	notesDir string
}

func NewVaultNoteStore(notesDir string) noteout.NoteStore {
	return &VaultNoteStore{notesDir: notesDir}
}

func (s *VaultNoteStore) Save(_ context.Context, document domain.Document) (string, error) {
	note := document.Note
	if err := os.MkdirAll(s.notesDir, 0o755); err != nil {
		return "", fmt.Errorf("create notes directory: %w", err)
	}
	path := note.Path
	if path == "" {
		path = s.freePath(note)
	}
	rendered, err := markdown.RenderFrontmatter(toFrontmatter(note), document.Body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write note markdown: %w", err)
	}
	return path, nil
}

// freePath picks <slug>.md, falling back to <slug>-<id prefix>.md when
// another note already owns the name.
func (s *VaultNoteStore) freePath(note domain.Note) string {
	path := filepath.Join(s.notesDir, note.Slug+".md")
	if _, err := os.Stat(path); err != nil {
		return path
	}
	suffix := note.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return filepath.Join(s.notesDir, note.Slug+"-"+suffix+".md")
}

func (s *VaultNoteStore) FindByID(ctx context.Context, id string) (domain.Document, error) {
	docs, err := s.List(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	for _, doc := range docs {
		if doc.Note.ID == id {
			return doc, nil
		}
	}
	return domain.Document{}, fmt.Errorf("note %s: %w", id, apperrors.ErrNotFound)
}

func (s *VaultNoteStore) FindByPath(_ context.Context, path string) (domain.Document, error) {
	if filepath.Ext(path) != ".md" {
		return domain.Document{}, fmt.Errorf("note path %s: %w", path, apperrors.ErrInvalidInput)
	}
	doc, err := readNote(path)
	if os.IsNotExist(err) {
		return domain.Document{}, fmt.Errorf("note path %s: %w", path, apperrors.ErrNotFound)
	}
	return doc, err
}

func (s *VaultNoteStore) List(_ context.Context) ([]domain.Document, error) {
	matches, err := filepath.Glob(filepath.Join(s.notesDir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob notes: %w", err)
	}
	sort.Strings(matches)

	out := make([]domain.Document, 0, len(matches))
	for _, path := range matches {
		doc, err := readNote(path)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func readNote(path string) (domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Document{}, err
		}
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	meta, body, err := markdown.SplitFrontmatter(string(content))
	if err != nil {
		return domain.Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	note, err := fromFrontmatter(meta, path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("decode note %s: %w", path, err)
	}
	return domain.Document{Note: note, Body: body}, nil
}

func toFrontmatter(note domain.Note) map[string]any {
	return map[string]any{
		"id":         note.ID,
		"title":      note.Title,
		"created_at": note.CreatedAt.Format(time.RFC3339),
		"updated_at": note.UpdatedAt.Format(time.RFC3339),
	}
}

// fromFrontmatter fills gaps for hand-written notes: the filename slug
// stands in for a missing id or title and the file time for missing dates.
func fromFrontmatter(meta map[string]any, path string) (domain.Note, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	note := domain.Note{
		ID:    asString(meta["id"]),
		Title: asString(meta["title"]),
		Slug:  slug.Make(base),
		Path:  path,
	}
	if note.ID == "" {
		note.ID = note.Slug
	}
	if note.Title == "" {
		note.Title = base
	}
	note.CreatedAt = asTime(meta["created_at"])
	note.UpdatedAt = asTime(meta["updated_at"])
	if note.UpdatedAt.IsZero() {
		if info, err := os.Stat(path); err == nil {
			note.UpdatedAt = info.ModTime().UTC()
		}
	}
	if note.CreatedAt.IsZero() {
		note.CreatedAt = note.UpdatedAt
	}
	if err := note.Validate(); err != nil {
		return domain.Note{}, err
	}
	return note, nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	default:
		return fmt.Sprint(v)
	}
}

// asTime accepts both RFC 3339 strings and the time.Time values yaml.v3
// decodes unquoted timestamps into.
func asTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x.UTC()
	case string:
		t, _ := time.Parse(time.RFC3339, x)
		return t
	default:
		return time.Time{}
	}
}
