package in

import (
	"context"

	"notegraph/internal/modules/note/dto"
	notein "notegraph/internal/modules/note/port/in"
)

type CLIHandler struct {
	usecase notein.Usecase
}

func NewCLIHandler(usecase notein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, title, body string) (dto.NoteOutput, error) {
	return h.usecase.Add(ctx, dto.AddNoteInput{Title: title, Body: body})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.NoteOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id string) (dto.NoteDetailOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) Reindex(ctx context.Context) (int, error) {
	return h.usecase.Reindex(ctx)
}
