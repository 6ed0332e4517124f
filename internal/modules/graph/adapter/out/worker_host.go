package out

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
)

const (
	DefaultComputeTimeout = 10 * time.Second
	queueDepth            = 64
)

type Runner interface {
	Compute(ctx context.Context, req domain.ComputeRequest) (domain.VisualizationRecord, error)
}

type WorkerOptions struct {
	Workers int
	Timeout time.Duration
	Logger  *zap.Logger
}

type task struct {
	ctx    context.Context
	req    domain.ComputeRequest
	result chan domain.ComputeResponse
}

// WorkerHost runs pipeline requests on a fixed pool of goroutines. Every
// run is bounded by the configured timeout.
type WorkerHost struct {
	runner  Runner
	timeout time.Duration
	logger  *zap.Logger

	queue chan task
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

var _ graphout.ComputeHost = (*WorkerHost)(nil)

func NewWorkerHost(runner Runner, opts WorkerOptions) *WorkerHost {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultComputeTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &WorkerHost{
		runner:  runner,
		timeout: opts.Timeout,
		logger:  opts.Logger,
		queue:   make(chan task, queueDepth),
	}
	for i := 0; i < opts.Workers; i++ {
		h.wg.Add(1)
		go h.runWorker()
	}
	return h
}

func (h *WorkerHost) Submit(ctx context.Context, req domain.ComputeRequest) (<-chan domain.ComputeResponse, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, domain.ErrHostClosed
	}
	result := make(chan domain.ComputeResponse, 1)
	owned := domain.NewComputeRequest(req.NoteID, req.Text, req.Seq)
	owned.Window = req.Window
	t := task{ctx: ctx, req: owned, result: result}
	select {
	case h.queue <- t:
		return result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting requests, finishes queued ones and waits for the
// workers to exit.
func (h *WorkerHost) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.queue)
	h.mu.Unlock()
	h.wg.Wait()
	return nil
}

func (h *WorkerHost) runWorker() {
	defer h.wg.Done()
	for t := range h.queue {
		t.result <- h.process(t)
	}
}

func (h *WorkerHost) process(t task) domain.ComputeResponse {
	resp := domain.ComputeResponse{NoteID: t.req.NoteID, Seq: t.req.Seq}
	if err := t.ctx.Err(); err != nil {
		resp.Err = err
		return resp
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(t.ctx, h.timeout)
	defer cancel()
	record, err := h.run(ctx, t.req)
	resp.Elapsed = time.Since(start)

	switch {
	case err == nil:
		resp.Record = record
	case errors.Is(err, context.DeadlineExceeded) && t.ctx.Err() == nil:
		resp.Err = fmt.Errorf("run pipeline after %s: %w", h.timeout, domain.ErrComputeTimeout)
	default:
		resp.Err = err
	}
	if resp.Err != nil {
		h.logger.Debug("graph run failed",
			zap.String("note_id", resp.NoteID), zap.Uint64("seq", resp.Seq), zap.Error(resp.Err))
	}
	return resp
}

func (h *WorkerHost) run(ctx context.Context, req domain.ComputeRequest) (record domain.VisualizationRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("graph run panicked", zap.Any("panic", r))
			record = domain.VisualizationRecord{}
			err = fmt.Errorf("run pipeline: %w: %v", domain.ErrComputeFailed, r)
		}
	}()
	return h.runner.Compute(ctx, req)
}
