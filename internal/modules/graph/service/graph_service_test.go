package service_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	graphoutadapter "notegraph/internal/modules/graph/adapter/out"
	"notegraph/internal/modules/graph/domain"
	"notegraph/internal/modules/graph/service"
	apperrors "notegraph/internal/platform/errors"
)

type fakeNotes struct {
	notes   map[string]domain.NoteText
	changes []domain.NoteText
}

func (f *fakeNotes) ReadNote(_ context.Context, id string) (domain.NoteText, error) {
	note, ok := f.notes[id]
	if !ok {
		return domain.NoteText{}, fmt.Errorf("note %s: %w", id, apperrors.ErrNotFound)
	}
	return note, nil
}

func (f *fakeNotes) WatchNotes(_ context.Context, onChange func(domain.NoteText)) error {
	for _, note := range f.changes {
		onChange(note)
	}
	return nil
}

type fakeExporter struct {
	record    domain.VisualizationRecord
	nodesPath string
	linksPath string
}

func (f *fakeExporter) ExportCSV(_ context.Context, record domain.VisualizationRecord, nodesPath, linksPath string) error {
	f.record, f.nodesPath, f.linksPath = record, nodesPath, linksPath
	return nil
}

type fakeDOT struct{ name string }

func (f *fakeDOT) RenderDOT(name string, _ domain.VisualizationRecord) ([]byte, error) {
	f.name = name
	return []byte("graph {}"), nil
}

func newService(t *testing.T, notes *fakeNotes) (*service.GraphService, *fakeExporter, *fakeDOT) {
	t.Helper()
	host, _ := newPipelineHost()
	cache := newCache(t, host, service.CacheOptions{})
	exporter := &fakeExporter{}
	dot := &fakeDOT{}
	svc := service.NewGraphService(cache, notes, exporter, dot, zap.NewNop())
	return svc, exporter, dot
}

func sampleNotes() *fakeNotes {
	return &fakeNotes{notes: map[string]domain.NoteText{
		"n1": {ID: "n1", Title: "Cocina", Text: "harina horno pan harina"},
	}}
}

func TestVisualizeReadsNoteAndCaches(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t, sampleNotes())

	note, record, err := svc.Visualize(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "Cocina", note.Title)
	require.Len(t, record.Nodes, 3)

	_, _, err = svc.Visualize(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), svc.Stats().Hits)
}

func TestVisualizeErrors(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t, sampleNotes())

	_, _, err := svc.Visualize(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, _, err = svc.Visualize(context.Background(), "  ")
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAnalyzeWindowOverride(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t, sampleNotes())

	bigram, err := svc.Analyze(context.Background(), "sol luna mar", 0)
	require.NoError(t, err)
	assert.Len(t, bigram.Links, 2)

	wide, err := svc.Analyze(context.Background(), "sol luna mar", 3)
	require.NoError(t, err)
	assert.Len(t, wide.Links, 3)
	assert.Zero(t, svc.Stats().Computations)
}

type stalledScorer struct{}

func (stalledScorer) Score(ctx context.Context, _ *domain.Graph) (map[string]float64, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAnalyzeHonorsComputeTimeout(t *testing.T) {
	t.Parallel()
	pipeline := domain.NewPipeline(2)
	pipeline.Scorer = stalledScorer{}
	host := graphoutadapter.NewWorkerHost(pipeline, graphoutadapter.WorkerOptions{Workers: 1, Timeout: time.Millisecond})
	t.Cleanup(func() { _ = host.Close() })
	cache := newCache(t, host, service.CacheOptions{})
	svc := service.NewGraphService(cache, sampleNotes(), &fakeExporter{}, &fakeDOT{}, zap.NewNop())

	text := strings.Repeat("sol luna mar nube ", 750)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := svc.Analyze(ctx, text, 0)
	require.ErrorIs(t, err, domain.ErrComputeTimeout)
	require.NoError(t, ctx.Err())
	assert.Zero(t, svc.Stats().Computations)
	assert.Zero(t, svc.Stats().Entries)
}

func TestAnalyzeAfterCloseIsSuperseded(t *testing.T) {
	t.Parallel()
	host, _ := newPipelineHost()
	cache := newCache(t, host, service.CacheOptions{})
	svc := service.NewGraphService(cache, sampleNotes(), &fakeExporter{}, &fakeDOT{}, zap.NewNop())

	cache.Close()
	_, err := svc.Analyze(context.Background(), "sol luna mar", 0)
	require.ErrorIs(t, err, domain.ErrSuperseded)
	assert.Zero(t, host.calls.Load())
}

func TestExportAndDOT(t *testing.T) {
	t.Parallel()
	svc, exporter, dot := newService(t, sampleNotes())

	require.ErrorIs(t, svc.Export(context.Background(), "n1", "", "links.csv"), apperrors.ErrInvalidInput)
	require.NoError(t, svc.Export(context.Background(), "n1", "nodes.csv", "links.csv"))
	assert.Equal(t, "nodes.csv", exporter.nodesPath)
	assert.Len(t, exporter.record.Nodes, 3)

	out, err := svc.DOT(context.Background(), "n1")
	require.NoError(t, err)
	assert.Equal(t, "graph {}", string(out))
	assert.Equal(t, "n1", dot.name)
}

func TestWatchRefreshesChangedNotes(t *testing.T) {
	t.Parallel()
	notes := sampleNotes()
	notes.changes = []domain.NoteText{{ID: "n2", Text: "tren mapa maleta"}}
	svc, _, _ := newService(t, notes)

	done := make(chan service.Refresh, 1)
	require.NoError(t, svc.Watch(context.Background(), func(r service.Refresh) { done <- r }))

	select {
	case r := <-done:
		require.NoError(t, r.Err)
		assert.Equal(t, "n2", r.Note.ID)
		assert.Len(t, r.Record.Nodes, 3)
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not complete")
	}
	assert.Equal(t, int64(1), svc.Stats().Commits)
}

func TestInvalidateDropsEntry(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t, sampleNotes())
	_, _, err := svc.Visualize(context.Background(), "n1")
	require.NoError(t, err)

	svc.Invalidate("n1")
	assert.Zero(t, svc.Stats().Entries)
}
