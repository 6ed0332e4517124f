package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
	apperrors "notegraph/internal/platform/errors"
)

type Refresh struct {
	Note    domain.NoteText
	Record  domain.VisualizationRecord
	Elapsed time.Duration
	Err     error
}

type GraphService struct {
	cache    *GraphCache
	notes    graphout.NoteSource
	exporter graphout.RecordExporter
	dot      graphout.DOTRenderer
	logger   *zap.Logger
}

func NewGraphService(
	cache *GraphCache,
	notes graphout.NoteSource,
	exporter graphout.RecordExporter,
	dot graphout.DOTRenderer,
	logger *zap.Logger,
) *GraphService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GraphService{
		cache:    cache,
		notes:    notes,
		exporter: exporter,
		dot:      dot,
		logger:   logger,
	}
}

func (s *GraphService) Visualize(ctx context.Context, noteID string) (domain.NoteText, domain.VisualizationRecord, error) {
	note, err := s.readNote(ctx, noteID)
	if err != nil {
		return domain.NoteText{}, domain.VisualizationRecord{}, err
	}
	record, err := s.cache.Ensure(ctx, note.ID, note.Text).Await(ctx)
	if err != nil {
		return domain.NoteText{}, domain.VisualizationRecord{}, err
	}
	return note, record, nil
}

// Analyze runs ad-hoc text on the compute host, so it shares the worker pool
// and the run timeout, but skips the cache. A positive window overrides the
// configured one.
func (s *GraphService) Analyze(ctx context.Context, text string, window int) (domain.VisualizationRecord, error) {
	record, err := s.cache.Compute(ctx, text, window)
	if err != nil {
		return domain.VisualizationRecord{}, fmt.Errorf("analyze text: %w", err)
	}
	return record, nil
}

func (s *GraphService) Export(ctx context.Context, noteID, nodesPath, linksPath string) error {
	if strings.TrimSpace(nodesPath) == "" || strings.TrimSpace(linksPath) == "" {
		return fmt.Errorf("nodes and links paths are required: %w", apperrors.ErrInvalidInput)
	}
	_, record, err := s.Visualize(ctx, noteID)
	if err != nil {
		return err
	}
	return s.exporter.ExportCSV(ctx, record, nodesPath, linksPath)
}

func (s *GraphService) DOT(ctx context.Context, noteID string) ([]byte, error) {
	note, record, err := s.Visualize(ctx, noteID)
	if err != nil {
		return nil, err
	}
	return s.dot.RenderDOT(note.ID, record)
}

// Refresh schedules a recomputation for note and reports the outcome to
// done, if set, once it settles. It never blocks on the computation.
func (s *GraphService) Refresh(ctx context.Context, note domain.NoteText, done func(Refresh)) {
	start := time.Now()
	future := s.cache.Ensure(ctx, note.ID, note.Text)
	go func() {
		record, err := future.Await(ctx)
		result := Refresh{Note: note, Record: record, Elapsed: time.Since(start), Err: err}
		if err != nil {
			s.logger.Warn("graph refresh failed", zap.String("note_id", note.ID), zap.Error(err))
		} else {
			s.logger.Info("graph refreshed",
				zap.String("note_id", note.ID),
				zap.Int("nodes", len(record.Nodes)),
				zap.Int("links", len(record.Links)),
				zap.Duration("elapsed", result.Elapsed),
			)
		}
		if done != nil {
			done(result)
		}
	}()
}

// Watch recomputes graphs for notes as they change until ctx is done.
func (s *GraphService) Watch(ctx context.Context, done func(Refresh)) error {
	return s.notes.WatchNotes(ctx, func(note domain.NoteText) {
		s.Refresh(ctx, note, done)
	})
}

func (s *GraphService) Invalidate(noteID string) {
	s.cache.Invalidate(noteID)
}

func (s *GraphService) Stats() StatsSnapshot {
	return s.cache.Stats()
}

func (s *GraphService) readNote(ctx context.Context, noteID string) (domain.NoteText, error) {
	noteID = strings.TrimSpace(noteID)
	if noteID == "" {
		return domain.NoteText{}, fmt.Errorf("note id is required: %w", apperrors.ErrInvalidInput)
	}
	note, err := s.notes.ReadNote(ctx, noteID)
	if err != nil {
		return domain.NoteText{}, fmt.Errorf("read note %s: %w", noteID, err)
	}
	return note, nil
}
