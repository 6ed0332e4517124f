package domain_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notegraph/internal/modules/graph/domain"
)

func TestPipelineRunProducesValidRecord(t *testing.T) {
	t.Parallel()
	rec, err := domain.NewPipeline(2).Run(context.Background(), sampleNote)
	require.NoError(t, err)
	require.NoError(t, rec.Validate())
	require.NotEmpty(t, rec.Nodes)
	for _, n := range rec.Nodes {
		assert.Equal(t, n.ID, n.Label)
		assert.GreaterOrEqual(t, n.Centrality, 0.0)
		assert.LessOrEqual(t, n.Centrality, 1.0)
	}
	assert.Equal(t, "grafo", rec.Nodes[0].ID)
}

func TestPipelineIsDeterministic(t *testing.T) {
	t.Parallel()
	p := domain.NewPipeline(3)
	first, err := p.Run(context.Background(), sampleNote)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := p.Run(context.Background(), sampleNote)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestPipelineEmptyText(t *testing.T) {
	t.Parallel()
	rec, err := domain.Pipeline{}.Run(context.Background(), "  the  ")
	require.NoError(t, err)
	assert.Empty(t, rec.Nodes)
	assert.Empty(t, rec.Links)
}

func TestPipelineRepeatedWord(t *testing.T) {
	t.Parallel()
	rec, err := domain.NewPipeline(2).Run(context.Background(), strings.Repeat("eco ", 5000))
	require.NoError(t, err)
	require.Len(t, rec.Nodes, 1)
	assert.Empty(t, rec.Links)
	assert.Equal(t, 0, rec.Nodes[0].Cluster)
}

func TestPipelineCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := domain.NewPipeline(2).Run(ctx, sampleNote)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewComputeRequestClonesText(t *testing.T) {
	t.Parallel()
	req := domain.NewComputeRequest("n1", "hello", 7)
	assert.Equal(t, "hello", req.Text)
	assert.Equal(t, uint64(7), req.Seq)
}
