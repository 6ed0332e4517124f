package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	noteout "notegraph/internal/modules/note/adapter/out"
	"notegraph/internal/modules/note/dto"
	notein "notegraph/internal/modules/note/port/in"
	"notegraph/internal/modules/note/service"
	"notegraph/internal/modules/note/usecase"
	"notegraph/internal/platform/clock"
	apperrors "notegraph/internal/platform/errors"
	"notegraph/internal/platform/id"

	_ "modernc.org/sqlite"
)

func newInteractor(t *testing.T, vault string) notein.Usecase {
	t.Helper()
	notesDir := filepath.Join(vault, "notes")
	index, err := noteout.NewSQLiteNoteIndex(filepath.Join(vault, ".notegraph", "notegraph.db"))
	if err != nil {
		t.Fatalf("new note index: %v", err)
	}
	t.Cleanup(func() { _ = index.Close() })
	svc := service.NewNoteService(
		clock.Fixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
		&id.Sequence{IDs: []string{"id-cocina", "id-viajes"}},
		noteout.NewVaultNoteStore(notesDir),
		index,
		noteout.NewFSWatcher(notesDir, 20*time.Millisecond, zap.NewNop()),
		zap.NewNop(),
	)
	return usecase.NewInteractor(svc)
}

func TestAddListGetAndReindex(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	uc := newInteractor(t, vault)
	ctx := context.Background()

	out, err := uc.Add(ctx, dto.AddNoteInput{Title: "Cocina", Body: "harina horno pan"})
	if err != nil {
		t.Fatalf("add note: %v", err)
	}
	if out.ID != "id-cocina" || out.Words != 3 {
		t.Fatalf("unexpected note output: %+v", out)
	}
	content, err := os.ReadFile(out.Path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	if !strings.HasPrefix(string(content), "---\n") || !strings.Contains(string(content), "id: id-cocina") {
		t.Fatalf("frontmatter not rendered: %s", content)
	}

	handWritten := filepath.Join(vault, "notes", "Viaje a Roma.md")
	if err := os.WriteFile(handWritten, []byte("tren mapa maleta"), 0o644); err != nil {
		t.Fatalf("write hand-written note: %v", err)
	}

	list, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list notes: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected two notes, got %+v", list)
	}

	detail, err := uc.Get(ctx, "viaje-a-roma")
	if err != nil {
		t.Fatalf("get hand-written note: %v", err)
	}
	if detail.Title != "Viaje a Roma" || strings.TrimSpace(detail.Body) != "tren mapa maleta" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	byPath, err := uc.FindByPath(ctx, out.Path)
	if err != nil {
		t.Fatalf("find by path: %v", err)
	}
	if byPath.ID != out.ID || !byPath.CreatedAt.Equal(byPath.UpdatedAt) {
		t.Fatalf("unexpected note by path: %+v", byPath)
	}

	if _, err := uc.Get(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	count, err := uc.Reindex(ctx)
	if err != nil {
		t.Fatalf("reindex: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected two indexed notes, got %d", count)
	}

	db, err := sql.Open("sqlite", filepath.Join(vault, ".notegraph", "notegraph.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer func() { _ = db.Close() }()
	var words int
	if err := db.QueryRow(`SELECT words FROM notes WHERE id = ?`, "viaje-a-roma").Scan(&words); err != nil {
		t.Fatalf("query index: %v", err)
	}
	if words != 3 {
		t.Fatalf("expected 3 indexed words, got %d", words)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, t.TempDir())
	if _, err := uc.Add(context.Background(), dto.AddNoteInput{Title: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestAddSameTitleKeepsBothNotes(t *testing.T) {
	t.Parallel()
	uc := newInteractor(t, t.TempDir())
	first, err := uc.Add(context.Background(), dto.AddNoteInput{Title: "Cocina", Body: "pan"})
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	second, err := uc.Add(context.Background(), dto.AddNoteInput{Title: "Cocina", Body: "sal"})
	if err != nil {
		t.Fatalf("add second: %v", err)
	}
	if first.Path == second.Path {
		t.Fatalf("second note overwrote %s", first.Path)
	}
}

func TestWatchReportsChangedNotes(t *testing.T) {
	t.Parallel()
	vault := t.TempDir()
	uc := newInteractor(t, vault)
	if err := os.MkdirAll(filepath.Join(vault, "notes"), 0o755); err != nil {
		t.Fatalf("mkdir notes: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan dto.NoteDetailOutput, 4)
	done := make(chan error, 1)
	go func() {
		done <- uc.Watch(ctx, func(note dto.NoteDetailOutput) { changed <- note })
	}()

	deadline := time.After(3 * time.Second)
	path := filepath.Join(vault, "notes", "diario.md")
	for {
		if err := os.WriteFile(path, []byte("hoy llueve mucho"), 0o644); err != nil {
			t.Fatalf("write note: %v", err)
		}
		select {
		case note := <-changed:
			if note.ID != "diario" {
				t.Fatalf("unexpected changed note %+v", note)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("no change reported")
		}
	}
}
