package in

import (
	"context"

	"notegraph/internal/modules/graph/dto"
)

type Usecase interface {
	Visualize(ctx context.Context, noteID string) (dto.GraphOutput, error)
	Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.GraphOutput, error)
	Export(ctx context.Context, input dto.ExportInput) error
	DOT(ctx context.Context, noteID string) ([]byte, error)
	Watch(ctx context.Context, onRefresh func(dto.RefreshEvent)) error
	Invalidate(ctx context.Context, noteID string)
	Stats(ctx context.Context) dto.CacheStatsOutput
}
