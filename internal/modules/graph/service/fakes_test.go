package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notegraph/internal/modules/graph/domain"
	"notegraph/internal/modules/graph/service"
)

type countingPreprocessor struct {
	inner domain.TextPreprocessor
	calls atomic.Int64
}

func (p *countingPreprocessor) Process(raw string) []string {
	p.calls.Add(1)
	return p.inner.Process(raw)
}

// pipelineHost runs every request on its own goroutine.
type pipelineHost struct {
	pipeline domain.Pipeline
	calls    atomic.Int64
}

func newPipelineHost() (*pipelineHost, *countingPreprocessor) {
	pre := &countingPreprocessor{inner: domain.NewPreprocessor(nil)}
	p := domain.NewPipeline(2)
	p.Preprocessor = pre
	return &pipelineHost{pipeline: p}, pre
}

func (h *pipelineHost) Submit(ctx context.Context, req domain.ComputeRequest) (<-chan domain.ComputeResponse, error) {
	h.calls.Add(1)
	ch := make(chan domain.ComputeResponse, 1)
	go func() {
		record, err := h.pipeline.Compute(ctx, req)
		ch <- domain.ComputeResponse{NoteID: req.NoteID, Seq: req.Seq, Record: record, Err: err}
	}()
	return ch, nil
}

// gatedHost holds every request until the test replies to it.
type gatedHost struct {
	mu        sync.Mutex
	replies   map[uint64]chan domain.ComputeResponse
	requests  map[uint64]domain.ComputeRequest
	submitted chan domain.ComputeRequest
	err       error
}

func newGatedHost() *gatedHost {
	return &gatedHost{
		replies:   map[uint64]chan domain.ComputeResponse{},
		requests:  map[uint64]domain.ComputeRequest{},
		submitted: make(chan domain.ComputeRequest, 32),
	}
}

func (h *gatedHost) Submit(_ context.Context, req domain.ComputeRequest) (<-chan domain.ComputeResponse, error) {
	if h.err != nil {
		return nil, h.err
	}
	ch := make(chan domain.ComputeResponse, 1)
	h.mu.Lock()
	h.replies[req.Seq] = ch
	h.requests[req.Seq] = req
	h.mu.Unlock()
	h.submitted <- req
	return ch, nil
}

func (h *gatedHost) next(t *testing.T) domain.ComputeRequest {
	t.Helper()
	select {
	case req := <-h.submitted:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("no request submitted")
		return domain.ComputeRequest{}
	}
}

func (h *gatedHost) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case req := <-h.submitted:
		t.Fatalf("unexpected request %+v", req)
	case <-time.After(50 * time.Millisecond):
	}
}

func (h *gatedHost) reply(seq uint64, record domain.VisualizationRecord, err error) {
	h.mu.Lock()
	ch := h.replies[seq]
	req := h.requests[seq]
	h.mu.Unlock()
	ch <- domain.ComputeResponse{NoteID: req.NoteID, Seq: seq, Record: record, Err: err}
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func await(t *testing.T, f *service.Future) (domain.VisualizationRecord, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	record, err := f.Await(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "future did not resolve")
	return record, err
}

func recordOf(labels ...string) domain.VisualizationRecord {
	rec := domain.VisualizationRecord{}
	for _, label := range labels {
		rec.Nodes = append(rec.Nodes, domain.NodeRecord{ID: label, Label: label})
	}
	return rec
}
