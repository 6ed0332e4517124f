package graph_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphdto "notegraph/internal/modules/graph/dto"
	graphview "notegraph/internal/ui/views/graph"
)

type fakePort struct {
	out         graphdto.GraphOutput
	err         error
	invalidated []string
}

func (f *fakePort) Show(context.Context, string) (graphdto.GraphOutput, error) { return f.out, f.err }

func (f *fakePort) Analyze(context.Context, string, int) (graphdto.GraphOutput, error) {
	return f.out, f.err
}

func (f *fakePort) Invalidate(_ context.Context, id string) {
	f.invalidated = append(f.invalidated, id)
}

func (f *fakePort) Stats(context.Context) graphdto.CacheStatsOutput {
	return graphdto.CacheStatsOutput{Entries: 1}
}

func sampleOutput() graphdto.GraphOutput {
	return graphdto.GraphOutput{
		NoteID: "n1",
		Title:  "Mascotas",
		View: []graphdto.ViewNode{
			{ID: "gato", Label: "gato", Cluster: 0, Centrality: 0.8, Color: "#1f77b4", Size: 21},
			{ID: "perro", Label: "perro", Cluster: 1, Centrality: 0.1, Color: "#ff7f0e", Size: 7},
		},
		Clusters: []graphdto.ClusterSummary{
			{ID: 0, Color: "#1f77b4", Size: 1, Terms: []string{"gato"}},
			{ID: 1, Color: "#ff7f0e", Size: 1, Terms: []string{"perro"}},
		},
		Summary: graphdto.SummaryOutput{Nodes: 2, Links: 1, Clusters: 2, Modularity: 0.25},
	}
}

// loadMsg runs the batched command returned by Load and picks out the
// graph result.
func loadMsg(t *testing.T, cmd tea.Cmd) graphview.LoadedMsg {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case graphview.LoadedMsg:
		return msg
	case tea.BatchMsg:
		return fromBatch(t, msg)
	}
	t.Fatal("no LoadedMsg from command")
	return graphview.LoadedMsg{}
}

func fromBatch(t *testing.T, batch tea.BatchMsg) graphview.LoadedMsg {
	t.Helper()
	for _, c := range batch {
		if c == nil {
			continue
		}
		if msg, ok := c().(graphview.LoadedMsg); ok {
			return msg
		}
	}
	t.Fatal("no LoadedMsg in batch")
	return graphview.LoadedMsg{}
}

func TestRenderListsClustersAndCentralTerms(t *testing.T) {
	t.Parallel()
	text := graphview.Render("Mascotas", sampleOutput(), graphdto.CacheStatsOutput{Entries: 3})
	assert.Contains(t, text, "Mascotas")
	assert.Contains(t, text, "2 clusters")
	assert.Contains(t, text, "modularity 0.250")
	assert.Contains(t, text, "#0 (1)")
	assert.Contains(t, text, "#1 (1)")
	assert.Less(t, strings.Index(text, "gato      "), strings.Index(text, "perro     "))
	assert.Contains(t, text, "cache: 3 entries")
}

func TestRenderEmptyGraph(t *testing.T) {
	t.Parallel()
	text := graphview.Render("vacío", graphdto.GraphOutput{}, graphdto.CacheStatsOutput{})
	assert.Contains(t, text, "No terms left")
}

func TestLoadedMsgForStaleRequestIsDropped(t *testing.T) {
	t.Parallel()
	port := &fakePort{out: sampleOutput()}
	m := graphview.New(port)

	first := loadMsg(t, m.Load("n1", "Mascotas"))
	second := loadMsg(t, m.Load("n2", "Cocina"))
	require.NotEqual(t, first.Token, second.Token)

	m, _ = m.Update(first)
	assert.Contains(t, m.View(), "Computing graph for Cocina")

	m, _ = m.Update(second)
	assert.NotContains(t, m.View(), "Computing graph")
	assert.Equal(t, "n2", m.NoteID())
}

func TestRefreshInvalidatesCurrentNote(t *testing.T) {
	t.Parallel()
	port := &fakePort{out: sampleOutput()}
	m := graphview.New(port)
	assert.Nil(t, m.Refresh())

	m, _ = m.Update(loadMsg(t, m.Load("n1", "Mascotas")))
	msg := loadMsg(t, m.Refresh())
	assert.Equal(t, []string{"n1"}, port.invalidated)
	assert.NoError(t, msg.Err)
}

func TestLoadErrorIsShown(t *testing.T) {
	t.Parallel()
	port := &fakePort{err: errors.New("compute graph: boom")}
	m := graphview.New(port)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(loadMsg(t, m.Load("n1", "Mascotas")))
	assert.Contains(t, m.View(), "boom")
}
