package domain_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"notegraph/internal/modules/graph/domain"
)

func TestScoreCentralityPath(t *testing.T) {
	t.Parallel()
	got, err := domain.ScoreCentrality(context.Background(), domain.Build([]string{"a", "b", "c"}, 2))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0, "b": 1, "c": 0}, got)
}

func TestScoreCentralityStar(t *testing.T) {
	t.Parallel()
	g := domain.NewGraph(nil, []domain.Edge{
		{Source: "hub", Target: "x", Weight: 1},
		{Source: "hub", Target: "y", Weight: 5},
		{Source: "hub", Target: "z", Weight: 1},
	})
	got, err := domain.ScoreCentrality(context.Background(), g)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got["hub"], 1e-12)
	assert.Zero(t, got["x"])
}

func TestScoreCentralitySmallGraphs(t *testing.T) {
	t.Parallel()
	got, err := domain.ScoreCentrality(context.Background(), domain.Build(nil, 2))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = domain.ScoreCentrality(context.Background(), domain.Build([]string{"a", "b"}, 2))
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"a": 0, "b": 0}, got)
}

func TestScoreCentralityBoundsAndDisconnected(t *testing.T) {
	t.Parallel()
	g := domain.NewGraph([]string{"alone"}, []domain.Edge{
		{Source: "a", Target: "b", Weight: 1},
		{Source: "b", Target: "c", Weight: 1},
		{Source: "x", Target: "y", Weight: 1},
	})
	got, err := domain.ScoreCentrality(context.Background(), g)
	require.NoError(t, err)
	require.Len(t, got, g.NodeCount())
	for label, c := range got {
		assert.GreaterOrEqual(t, c, 0.0, label)
		assert.LessOrEqual(t, c, 1.0, label)
	}
	assert.Zero(t, got["alone"])
	assert.Positive(t, got["b"])
}

func TestScoreCentralityMatchesGonum(t *testing.T) {
	t.Parallel()
	g := domain.Build(domain.NewPreprocessor(nil).Process(sampleNote), 3)
	got, err := domain.ScoreCentrality(context.Background(), g)
	require.NoError(t, err)

	ids := map[string]int64{}
	ug := simple.NewUndirectedGraph()
	for i, label := range g.Nodes() {
		ids[label] = int64(i)
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		ug.SetEdge(ug.NewEdge(simple.Node(ids[e.Source]), simple.Node(ids[e.Target])))
	}
	raw := network.Betweenness(ug)
	n := float64(g.NodeCount())
	for label, id := range ids {
		want := raw[id] / ((n - 1) * (n - 2))
		assert.InDelta(t, want, got[label], 1e-9, label)
	}
}

func TestScoreCentralityHonorsContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := domain.ScoreCentrality(ctx, domain.Build([]string{"a", "b", "c"}, 2))
	require.ErrorIs(t, err, context.Canceled)
}
