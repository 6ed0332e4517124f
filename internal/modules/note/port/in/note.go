package in

import (
	"context"

	"notegraph/internal/modules/note/dto"
)

type Usecase interface {
	Add(ctx context.Context, input dto.AddNoteInput) (dto.NoteOutput, error)
	List(ctx context.Context) ([]dto.NoteOutput, error)
	Get(ctx context.Context, id string) (dto.NoteDetailOutput, error)
	FindByPath(ctx context.Context, path string) (dto.NoteDetailOutput, error)
	Reindex(ctx context.Context) (int, error)
	Watch(ctx context.Context, onChange func(dto.NoteDetailOutput)) error
}
