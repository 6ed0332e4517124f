package out

import (
	"context"

	"notegraph/internal/modules/note/domain"
)

type NoteStore interface {
	Save(ctx context.Context, document domain.Document) (string, error)
	FindByID(ctx context.Context, id string) (domain.Document, error)
	FindByPath(ctx context.Context, path string) (domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}

type NoteIndexProjector interface {
	Reset(ctx context.Context) error
	UpsertNote(ctx context.Context, document domain.Document) error
}

// ChangeWatcher reports paths of notes written under the vault until ctx is
// done. Bursts of events for one path are delivered once.
type ChangeWatcher interface {
	Watch(ctx context.Context, onChange func(path string)) error
}
