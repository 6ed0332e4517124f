package usecase

import (
	"context"

	"notegraph/internal/modules/note/domain"
	"notegraph/internal/modules/note/dto"
	notein "notegraph/internal/modules/note/port/in"
	"notegraph/internal/modules/note/service"
)

type Interactor struct {
	svc *service.NoteService
}

func NewInteractor(svc *service.NoteService) notein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Add(ctx context.Context, input dto.AddNoteInput) (dto.NoteOutput, error) {
	doc, err := i.svc.Add(ctx, input.Title, input.Body)
	if err != nil {
		return dto.NoteOutput{}, err
	}
	return mapNote(doc), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.NoteOutput, error) {
	docs, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NoteOutput, 0, len(docs))
	for _, doc := range docs {
		out = append(out, mapNote(doc))
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.NoteDetailOutput, error) {
	doc, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.NoteDetailOutput{}, err
	}
	return mapDetail(doc), nil
}

func (i *Interactor) FindByPath(ctx context.Context, path string) (dto.NoteDetailOutput, error) {
	doc, err := i.svc.FindByPath(ctx, path)
	if err != nil {
		return dto.NoteDetailOutput{}, err
	}
	return mapDetail(doc), nil
}

func (i *Interactor) Reindex(ctx context.Context) (int, error) {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) Watch(ctx context.Context, onChange func(dto.NoteDetailOutput)) error {
	return i.svc.Watch(ctx, func(doc domain.Document) {
		onChange(mapDetail(doc))
	})
}

func mapNote(doc domain.Document) dto.NoteOutput {
	return dto.NoteOutput{
		ID:        doc.Note.ID,
		Title:     doc.Note.Title,
		Path:      doc.Note.Path,
		Words:     doc.Words(),
		UpdatedAt: doc.Note.UpdatedAt,
	}
}

func mapDetail(doc domain.Document) dto.NoteDetailOutput {
	return dto.NoteDetailOutput{
		ID:        doc.Note.ID,
		Title:     doc.Note.Title,
		Path:      doc.Note.Path,
		Words:     doc.Words(),
		CreatedAt: doc.Note.CreatedAt,
		UpdatedAt: doc.Note.UpdatedAt,
		Body:      doc.Body,
	}
}
