package domain

import (
	"context"
	"fmt"
)

type CommunityDetector interface {
	Detect(g *Graph) map[string]int
}

type CentralityScorer interface {
	Score(ctx context.Context, g *Graph) (map[string]float64, error)
}

// Pipeline runs preprocessing, graph building, community detection and
// centrality scoring as one unit of work.
type Pipeline struct {
	Preprocessor TextPreprocessor
	Detector     CommunityDetector
	Scorer       CentralityScorer
	Window       int
}

func NewPipeline(window int) Pipeline {
	return Pipeline{
		Preprocessor: NewPreprocessor(nil),
		Detector:     Louvain{},
		Scorer:       Brandes{},
		Window:       window,
	}
}

func (p Pipeline) Run(ctx context.Context, text string) (VisualizationRecord, error) {
	if err := ctx.Err(); err != nil {
		return VisualizationRecord{}, err
	}
	p = p.withDefaults()
	tokens := p.Preprocessor.Process(text)
	g := Build(tokens, p.Window)
	communities := p.Detector.Detect(g)
	centrality, err := p.Scorer.Score(ctx, g)
	if err != nil {
		return VisualizationRecord{}, fmt.Errorf("score centrality: %w", err)
	}
	return NewRecord(g, communities, centrality), nil
}

// Compute runs req.Text, using req.Window when it is positive.
func (p Pipeline) Compute(ctx context.Context, req ComputeRequest) (VisualizationRecord, error) {
	if req.Window > 0 {
		p.Window = req.Window
	}
	return p.Run(ctx, req.Text)
}

func (p Pipeline) withDefaults() Pipeline {
	if p.Preprocessor == nil {
		p.Preprocessor = NewPreprocessor(nil)
	}
	if p.Detector == nil {
		p.Detector = Louvain{}
	}
	if p.Scorer == nil {
		p.Scorer = Brandes{}
	}
	return p
}

// NewRecord lays out nodes in first-appearance order and links in
// first-observation order.
func NewRecord(g *Graph, communities map[string]int, centrality map[string]float64) VisualizationRecord {
	labels := g.Nodes()
	record := VisualizationRecord{
		Nodes: make([]NodeRecord, 0, len(labels)),
		Links: make([]LinkRecord, 0, g.EdgeCount()),
	}
	for _, label := range labels {
		record.Nodes = append(record.Nodes, NodeRecord{
			ID:         label,
			Label:      label,
			Cluster:    communities[label],
			Centrality: centrality[label],
		})
	}
	for _, e := range g.Edges() {
		record.Links = append(record.Links, LinkRecord{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return record
}
