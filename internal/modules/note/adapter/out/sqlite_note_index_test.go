package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	noteout "notegraph/internal/modules/note/adapter/out"
	"notegraph/internal/modules/note/domain"
)

func TestSQLiteNoteIndexCloseReleasesDB(t *testing.T) {
	t.Parallel()
	index, err := noteout.NewSQLiteNoteIndex(filepath.Join(t.TempDir(), "state", "notegraph.db"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, index.Reset(ctx))
	require.NoError(t, index.UpsertNote(ctx, domain.Document{
		Note: domain.Note{
			ID:        "id-cocina",
			Title:     "Cocina",
			Path:      "cocina.md",
			UpdatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		},
		Body: "harina horno pan",
	}))

	require.NoError(t, index.Close())
	assert.Error(t, index.Reset(ctx))
}

func TestSQLiteNoteIndexSchemaFailure(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "notegraph.db")
	require.NoError(t, os.Mkdir(dbPath, 0o755))

	index, err := noteout.NewSQLiteNoteIndex(dbPath)
	require.Error(t, err)
	assert.Nil(t, index)
}
