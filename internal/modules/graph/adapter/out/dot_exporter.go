package out

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"

	"notegraph/internal/modules/graph/domain"
	graphout "notegraph/internal/modules/graph/port/out"
)

type dotNode struct {
	id     int64
	record domain.NodeRecord
}

func (n dotNode) ID() int64 { return n.id }

func (n dotNode) DOTID() string { return strconv.Quote(n.record.ID) }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{
		{Key: "label", Value: n.record.Label},
		{Key: "cluster", Value: strconv.Itoa(n.record.Cluster)},
		{Key: "centrality", Value: strconv.FormatFloat(n.record.Centrality, 'f', -1, 64)},
		{Key: "style", Value: "filled"},
		{Key: "fillcolor", Value: domain.ColorFor(n.record.Cluster)},
		{Key: "width", Value: strconv.FormatFloat(domain.SizeFor(n.record.Centrality)/10, 'f', -1, 64)},
	}
}

type dotEdge struct {
	from, to dotNode
	weight   int
}

func (e dotEdge) From() graph.Node         { return e.from }
func (e dotEdge) To() graph.Node           { return e.to }
func (e dotEdge) ReversedEdge() graph.Edge { return dotEdge{from: e.to, to: e.from, weight: e.weight} }
func (e dotEdge) Weight() float64          { return float64(e.weight) }

func (e dotEdge) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "weight", Value: strconv.Itoa(e.weight)}}
}

// DOTExporter renders records as Graphviz undirected graphs. Nodes keep the
// record's order.
type DOTExporter struct{}

var _ graphout.DOTRenderer = DOTExporter{}

func NewDOTExporter() DOTExporter {
	return DOTExporter{}
}

func (DOTExporter) RenderDOT(name string, record domain.VisualizationRecord) ([]byte, error) {
	g := simple.NewWeightedUndirectedGraph(0, 0)
	nodes := make(map[string]dotNode, len(record.Nodes))
	for i, n := range record.Nodes {
		node := dotNode{id: int64(i), record: n}
		nodes[n.ID] = node
		g.AddNode(node)
	}
	for _, link := range record.Links {
		from, ok := nodes[link.Source]
		if !ok {
			return nil, fmt.Errorf("render dot: unknown node %q", link.Source)
		}
		to, ok := nodes[link.Target]
		if !ok {
			return nil, fmt.Errorf("render dot: unknown node %q", link.Target)
		}
		if from.id == to.id {
			continue
		}
		g.SetWeightedEdge(dotEdge{from: from, to: to, weight: link.Weight})
	}
	out, err := dot.Marshal(g, strconv.Quote(name), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal dot: %w", err)
	}
	return out, nil
}
