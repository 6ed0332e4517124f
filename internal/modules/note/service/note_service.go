package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"notegraph/internal/modules/note/domain"
	noteout "notegraph/internal/modules/note/port/out"
	"notegraph/internal/platform/clock"
	apperrors "notegraph/internal/platform/errors"
	"notegraph/internal/platform/id"
	"notegraph/internal/platform/slug"
)

type NoteService struct {
	clock     clock.Clock
	idGen     id.Generator
	store     noteout.NoteStore
	projector noteout.NoteIndexProjector
	watcher   noteout.ChangeWatcher
	logger    *zap.Logger
}

func NewNoteService(
	clock clock.Clock,
	idGen id.Generator,
	store noteout.NoteStore,
	projector noteout.NoteIndexProjector,
	watcher noteout.ChangeWatcher,
	logger *zap.Logger,
) *NoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{clock: clock, idGen: idGen, store: store, projector: projector, watcher: watcher, logger: logger}
}

func (s *NoteService) Add(ctx context.Context, title, body string) (domain.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Document{}, fmt.Errorf("title is required: %w", apperrors.ErrInvalidInput)
	}
	now := s.clock.Now()
	doc := domain.Document{
		Note: domain.Note{
			ID:        s.idGen.New(),
			Title:     title,
			Slug:      slug.Make(title),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Body: body,
	}
	if err := doc.Note.Validate(); err != nil {
		return domain.Document{}, err
	}
	path, err := s.store.Save(ctx, doc)
	if err != nil {
		return domain.Document{}, err
	}
	doc.Note.Path = path
	if err := s.projector.UpsertNote(ctx, doc); err != nil {
		return domain.Document{}, err
	}
	s.logger.Info("note added", zap.String("note_id", doc.Note.ID), zap.String("path", path))
	return doc, nil
}

func (s *NoteService) List(ctx context.Context) ([]domain.Document, error) {
	return s.store.List(ctx)
}

func (s *NoteService) Get(ctx context.Context, noteID string) (domain.Document, error) {
	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		return domain.Document{}, fmt.Errorf("note id is required: %w", apperrors.ErrInvalidInput)
	}
	return s.store.FindByID(ctx, noteID)
}

func (s *NoteService) FindByPath(ctx context.Context, path string) (domain.Document, error) {
	return s.store.FindByPath(ctx, path)
}

func (s *NoteService) Reindex(ctx context.Context) (int, error) {
	if err := s.projector.Reset(ctx); err != nil {
		return 0, err
	}
	docs, err := s.store.List(ctx)
	if err != nil {
		return 0, err
	}
	for _, doc := range docs {
		if err := s.projector.UpsertNote(ctx, doc); err != nil {
			return 0, err
		}
	}
	return len(docs), nil
}

// Watch reloads each changed note, refreshes its index row and hands it to
// onChange. Notes that fail to load are logged and skipped.
func (s *NoteService) Watch(ctx context.Context, onChange func(domain.Document)) error {
	return s.watcher.Watch(ctx, func(path string) {
		doc, err := s.store.FindByPath(ctx, path)
		if err != nil {
			s.logger.Warn("skip changed note", zap.String("path", path), zap.Error(err))
			return
		}
		if err := s.projector.UpsertNote(ctx, doc); err != nil {
			s.logger.Warn("index changed note", zap.String("note_id", doc.Note.ID), zap.Error(err))
		}
		onChange(doc)
	})
}
