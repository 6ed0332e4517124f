package out

import (
	"context"

	"notegraph/internal/modules/graph/domain"
)

// ComputeHost runs pipeline requests off the caller's goroutine. Each
// accepted request yields exactly one response on the returned channel.
type ComputeHost interface {
	Submit(ctx context.Context, req domain.ComputeRequest) (<-chan domain.ComputeResponse, error)
}

type NoteSource interface {
	ReadNote(ctx context.Context, noteID string) (domain.NoteText, error)
	WatchNotes(ctx context.Context, onChange func(domain.NoteText)) error
}

type RecordExporter interface {
	ExportCSV(ctx context.Context, record domain.VisualizationRecord, nodesPath, linksPath string) error
}

type DOTRenderer interface {
	RenderDOT(name string, record domain.VisualizationRecord) ([]byte, error)
}
