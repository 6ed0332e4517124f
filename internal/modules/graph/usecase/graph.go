package usecase

import (
	"context"
	"sort"

	"notegraph/internal/modules/graph/domain"
	"notegraph/internal/modules/graph/dto"
	graphin "notegraph/internal/modules/graph/port/in"
	"notegraph/internal/modules/graph/service"
)

const clusterTerms = 5

type Interactor struct {
	svc *service.GraphService
}

func NewInteractor(svc *service.GraphService) graphin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Visualize(ctx context.Context, noteID string) (dto.GraphOutput, error) {
	note, record, err := i.svc.Visualize(ctx, noteID)
	if err != nil {
		return dto.GraphOutput{}, err
	}
	out := mapGraph(record)
	out.NoteID = note.ID
	out.Title = note.Title
	return out, nil
}

func (i *Interactor) Analyze(ctx context.Context, input dto.AnalyzeInput) (dto.GraphOutput, error) {
	record, err := i.svc.Analyze(ctx, input.Text, input.Window)
	if err != nil {
		return dto.GraphOutput{}, err
	}
	return mapGraph(record), nil
}

func (i *Interactor) Export(ctx context.Context, input dto.ExportInput) error {
	return i.svc.Export(ctx, input.NoteID, input.NodesPath, input.LinksPath)
}

func (i *Interactor) DOT(ctx context.Context, noteID string) ([]byte, error) {
	return i.svc.DOT(ctx, noteID)
}

func (i *Interactor) Watch(ctx context.Context, onRefresh func(dto.RefreshEvent)) error {
	return i.svc.Watch(ctx, func(r service.Refresh) {
		if onRefresh == nil {
			return
		}
		onRefresh(dto.RefreshEvent{
			NoteID:  r.Note.ID,
			Nodes:   len(r.Record.Nodes),
			Links:   len(r.Record.Links),
			Elapsed: r.Elapsed,
			Err:     r.Err,
		})
	})
}

func (i *Interactor) Invalidate(_ context.Context, noteID string) {
	i.svc.Invalidate(noteID)
}

func (i *Interactor) Stats(context.Context) dto.CacheStatsOutput {
	s := i.svc.Stats()
	return dto.CacheStatsOutput{
		Hits:           s.Hits,
		Misses:         s.Misses,
		HitRate:        s.HitRate(),
		Computations:   s.Computations,
		Coalesced:      s.Coalesced,
		Commits:        s.Commits,
		DiscardedStale: s.DiscardedStale,
		Failures:       s.Failures,
		Evictions:      s.Evictions,
		Entries:        s.Entries,
	}
}

func mapGraph(record domain.VisualizationRecord) dto.GraphOutput {
	out := dto.GraphOutput{
		Record: dto.RecordOutput{
			Nodes: make([]dto.NodeOutput, 0, len(record.Nodes)),
			Links: make([]dto.LinkOutput, 0, len(record.Links)),
		},
		View: make([]dto.ViewNode, 0, len(record.Nodes)),
	}
	for _, n := range record.Nodes {
		out.Record.Nodes = append(out.Record.Nodes, dto.NodeOutput{
			ID:         n.ID,
			Label:      n.Label,
			Cluster:    n.Cluster,
			Centrality: n.Centrality,
		})
		out.View = append(out.View, dto.ViewNode{
			ID:         n.ID,
			Label:      n.Label,
			Cluster:    n.Cluster,
			Centrality: n.Centrality,
			Color:      domain.ColorFor(n.Cluster),
			Size:       domain.SizeFor(n.Centrality),
		})
	}
	for _, l := range record.Links {
		out.Record.Links = append(out.Record.Links, dto.LinkOutput{Source: l.Source, Target: l.Target, Weight: l.Weight})
	}
	out.Clusters = summarizeClusters(record.Nodes)
	summary := record.Summary()
	out.Summary = dto.SummaryOutput{
		Nodes:      summary.Nodes,
		Links:      summary.Links,
		Clusters:   summary.Clusters,
		Modularity: summary.Modularity,
	}
	return out
}

// summarizeClusters orders clusters by id and each cluster's terms by
// descending centrality, then label.
func summarizeClusters(nodes []domain.NodeRecord) []dto.ClusterSummary {
	members := map[int][]domain.NodeRecord{}
	for _, n := range nodes {
		members[n.Cluster] = append(members[n.Cluster], n)
	}
	ids := make([]int, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]dto.ClusterSummary, 0, len(ids))
	for _, id := range ids {
		group := members[id]
		sort.SliceStable(group, func(a, b int) bool {
			if group[a].Centrality != group[b].Centrality {
				return group[a].Centrality > group[b].Centrality
			}
			return group[a].Label < group[b].Label
		})
		terms := make([]string, 0, clusterTerms)
		for _, n := range group {
			if len(terms) == clusterTerms {
				break
			}
			terms = append(terms, n.Label)
		}
		out = append(out, dto.ClusterSummary{
			ID:    id,
			Color: domain.ColorFor(id),
			Size:  len(group),
			Terms: terms,
		})
	}
	return out
}
