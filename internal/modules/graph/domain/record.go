package domain

import (
	"fmt"

	apperrors "notegraph/internal/platform/errors"
)

type NodeRecord struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Cluster    int     `json:"cluster"`
	Centrality float64 `json:"centrality"`
}

type LinkRecord struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Weight int    `json:"weight"`
}

// VisualizationRecord is the renderer-facing result of one pipeline run.
// Records are shared between cache readers and must not be modified.
type VisualizationRecord struct {
	Nodes []NodeRecord `json:"nodes"`
	Links []LinkRecord `json:"links"`
}

type RecordSummary struct {
	Nodes      int     `json:"nodes"`
	Links      int     `json:"links"`
	Clusters   int     `json:"clusters"`
	Modularity float64 `json:"modularity"`
}

func (r VisualizationRecord) Validate() error {
	ids := make(map[string]struct{}, len(r.Nodes))
	for _, node := range r.Nodes {
		if _, dup := ids[node.ID]; dup {
			return fmt.Errorf("validate record: duplicate node %q: %w", node.ID, apperrors.ErrInvalidInput)
		}
		ids[node.ID] = struct{}{}
	}
	pairs := make(map[[2]string]struct{}, len(r.Links))
	for _, link := range r.Links {
		if link.Source == link.Target {
			return fmt.Errorf("validate record: self-loop on %q: %w", link.Source, apperrors.ErrInvalidInput)
		}
		if _, ok := ids[link.Source]; !ok {
			return fmt.Errorf("validate record: unknown source %q: %w", link.Source, apperrors.ErrInvalidInput)
		}
		if _, ok := ids[link.Target]; !ok {
			return fmt.Errorf("validate record: unknown target %q: %w", link.Target, apperrors.ErrInvalidInput)
		}
		pair := [2]string{link.Source, link.Target}
		if pair[0] > pair[1] {
			pair[0], pair[1] = pair[1], pair[0]
		}
		if _, dup := pairs[pair]; dup {
			return fmt.Errorf("validate record: duplicate link %s-%s: %w", pair[0], pair[1], apperrors.ErrInvalidInput)
		}
		pairs[pair] = struct{}{}
	}
	return nil
}

func (r VisualizationRecord) Clusters() int {
	seen := make(map[int]struct{})
	for _, node := range r.Nodes {
		seen[node.Cluster] = struct{}{}
	}
	return len(seen)
}

// Modularity evaluates the record's cluster assignment over its links.
func (r VisualizationRecord) Modularity() float64 {
	cluster := make(map[string]int, len(r.Nodes))
	for _, node := range r.Nodes {
		cluster[node.ID] = node.Cluster
	}
	m := 0.0
	internal := make(map[int]float64)
	degree := make(map[int]float64)
	for _, link := range r.Links {
		w := float64(link.Weight)
		m += w
		cs, ct := cluster[link.Source], cluster[link.Target]
		degree[cs] += w
		degree[ct] += w
		if cs == ct {
			internal[cs] += w
		}
	}
	if m == 0 {
		return 0
	}
	return modularityOf(internal, degree, m)
}

func (r VisualizationRecord) Summary() RecordSummary {
	return RecordSummary{
		Nodes:      len(r.Nodes),
		Links:      len(r.Links),
		Clusters:   r.Clusters(),
		Modularity: r.Modularity(),
	}
}
