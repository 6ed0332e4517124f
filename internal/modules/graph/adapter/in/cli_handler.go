package in

import (
	"context"

	"notegraph/internal/modules/graph/dto"
	graphin "notegraph/internal/modules/graph/port/in"
)

type CLIHandler struct {
	usecase graphin.Usecase
}

func NewCLIHandler(usecase graphin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Show(ctx context.Context, noteID string) (dto.GraphOutput, error) {
	return h.usecase.Visualize(ctx, noteID)
}

func (h CLIHandler) Analyze(ctx context.Context, text string, window int) (dto.GraphOutput, error) {
	return h.usecase.Analyze(ctx, dto.AnalyzeInput{Text: text, Window: window})
}

func (h CLIHandler) Export(ctx context.Context, noteID, nodesPath, linksPath string) error {
	return h.usecase.Export(ctx, dto.ExportInput{NoteID: noteID, NodesPath: nodesPath, LinksPath: linksPath})
}

func (h CLIHandler) DOT(ctx context.Context, noteID string) ([]byte, error) {
	return h.usecase.DOT(ctx, noteID)
}

func (h CLIHandler) Watch(ctx context.Context, onRefresh func(dto.RefreshEvent)) error {
	return h.usecase.Watch(ctx, onRefresh)
}

func (h CLIHandler) Invalidate(ctx context.Context, noteID string) {
	h.usecase.Invalidate(ctx, noteID)
}

func (h CLIHandler) Stats(ctx context.Context) dto.CacheStatsOutput {
	return h.usecase.Stats(ctx)
}
