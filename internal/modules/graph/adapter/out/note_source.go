package out

import (
	"context"
	"strings"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
	notedto "notegraph/internal/modules/note/dto"
	notein "notegraph/internal/modules/note/port/in"
)

// NoteSourceAdapter feeds note bodies to the graph pipeline. The title is
// prepended so it contributes terms like the body does.
type NoteSourceAdapter struct {
	notes notein.Usecase
}

func NewNoteSourceAdapter(notes notein.Usecase) graphout.NoteSource {
	return &NoteSourceAdapter{notes: notes}
}

func (a *NoteSourceAdapter) ReadNote(ctx context.Context, noteID string) (domain.NoteText, error) {
	note, err := a.notes.Get(ctx, noteID)
	if err != nil {
		return domain.NoteText{}, err
	}
	return toNoteText(note), nil
}

func (a *NoteSourceAdapter) WatchNotes(ctx context.Context, onChange func(domain.NoteText)) error {
	return a.notes.Watch(ctx, func(note notedto.NoteDetailOutput) {
		onChange(toNoteText(note))
	})
}

func toNoteText(note notedto.NoteDetailOutput) domain.NoteText {
	text := strings.TrimSpace(note.Body)
	if title := strings.TrimSpace(note.Title); title != "" {
		text = title + "\n" + text
	}
	return domain.NoteText{ID: note.ID, Title: note.Title, Path: note.Path, Text: text}
}
