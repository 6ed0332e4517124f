package service

import (
	"context"

	"notegraph/internal/modules/graph/domain"
)

// Future resolves once with the record of a graph computation or its error.
type Future struct {
	done   chan struct{}
	record domain.VisualizationRecord
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func resolvedFuture(record domain.VisualizationRecord, err error) *Future {
	f := newFuture()
	f.resolve(record, err)
	return f
}

func (f *Future) resolve(record domain.VisualizationRecord, err error) {
	f.record = record
	f.err = err
	close(f.done)
}

func (f *Future) Done() <-chan struct{} {
	return f.done
}

func (f *Future) Await(ctx context.Context) (domain.VisualizationRecord, error) {
	select {
	case <-f.done:
		return f.record, f.err
	case <-ctx.Done():
		return domain.VisualizationRecord{}, ctx.Err()
	}
}
