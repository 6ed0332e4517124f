package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	graphdto "notegraph/internal/modules/graph/dto"
	"notegraph/internal/ui/theme"
)

const centralTerms = 10

type GraphPort interface {
	Show(ctx context.Context, noteID string) (graphdto.GraphOutput, error)
	Analyze(ctx context.Context, text string, window int) (graphdto.GraphOutput, error)
	Invalidate(ctx context.Context, noteID string)
	Stats(ctx context.Context) graphdto.CacheStatsOutput
}

// LoadedMsg carries a finished graph. Token identifies the request so a
// slow result for a note the user has already left is dropped.
type LoadedMsg struct {
	Token int
	Out   graphdto.GraphOutput
	Stats graphdto.CacheStatsOutput
	Err   error
}

// RefreshedMsg is sent by the watcher when a note's graph was recomputed.
type RefreshedMsg struct {
	Event graphdto.RefreshEvent
}

type Model struct {
	port    GraphPort
	detail  viewport.Model
	spinner spinner.Model

	token   int
	noteID  string
	title   string
	out     graphdto.GraphOutput
	stats   graphdto.CacheStatsOutput
	err     error
	loading bool
	width   int
	height  int
}

func New(port GraphPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Green)

	m := Model{port: port, detail: vp, spinner: sp}
	m.detail.SetContent(m.render())
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Load requests the graph of a stored note. The result arrives as LoadedMsg.
func (m *Model) Load(noteID, title string) tea.Cmd {
	m.begin(noteID, title)
	token := m.token
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Token: token}
		}
		ctx := context.Background()
		out, err := m.port.Show(ctx, noteID)
		return LoadedMsg{Token: token, Out: out, Stats: m.port.Stats(ctx), Err: err}
	})
}

// Refresh drops the cached graph of the current note and loads it again.
func (m *Model) Refresh() tea.Cmd {
	if m.noteID == "" {
		return nil
	}
	if m.port != nil {
		m.port.Invalidate(context.Background(), m.noteID)
	}
	return m.Load(m.noteID, m.title)
}

// AnalyzeText shows the graph of ad-hoc text without caching it.
func (m *Model) AnalyzeText(text string) tea.Cmd {
	m.begin("", "ad-hoc text")
	token := m.token
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{Token: token}
		}
		ctx := context.Background()
		out, err := m.port.Analyze(ctx, text, 0)
		return LoadedMsg{Token: token, Out: out, Stats: m.port.Stats(ctx), Err: err}
	})
}

func (m *Model) begin(noteID, title string) {
	m.token++
	m.noteID = noteID
	m.title = title
	m.loading = true
	m.err = nil
}

func (m Model) NoteID() string { return m.noteID }

// Clusters returns the clusters of the graph on screen.
func (m Model) Clusters() []graphdto.ClusterSummary { return m.out.Clusters }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.detail.Width = m.width - 4
		m.detail.Height = m.height - 4
		m.detail.SetContent(m.render())

	case LoadedMsg:
		if msg.Token != m.token {
			return m, nil
		}
		m.loading = false
		m.out = msg.Out
		m.stats = msg.Stats
		m.err = msg.Err
		m.detail.SetContent(m.render())
		m.detail.GotoTop()

	case RefreshedMsg:
		if msg.Event.Err == nil && msg.Event.NoteID != "" && msg.Event.NoteID == m.noteID && !m.loading {
			cmds = append(cmds, m.Load(m.noteID, m.title))
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	var vCmd tea.Cmd
	m.detail, vCmd = m.detail.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Computing graph for "+m.title+"…")
	}
	return theme.Pane.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.detail.View())
}

func (m Model) render() string {
	switch {
	case m.title == "":
		return theme.Muted.Render("Select a note and press enter to see its graph")
	case m.err != nil:
		return theme.Title.Render(m.title) + "\n\n" + theme.Error.Render(m.err.Error())
	}
	return Render(m.title, m.out, m.stats)
}

// Render lays out a graph as a summary line, one line per community in its
// palette color and the most central terms.
func Render(title string, out graphdto.GraphOutput, stats graphdto.CacheStatsOutput) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(title) + "\n")
	s := out.Summary
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("%d terms  %d links  %d clusters  modularity %.3f",
		s.Nodes, s.Links, s.Clusters, s.Modularity)) + "\n\n")
	if s.Nodes == 0 {
		sb.WriteString(theme.Muted.Render("No terms left after filtering stopwords.") + "\n")
		return sb.String()
	}

	sb.WriteString(theme.Hot.Render("Clusters") + "\n")
	for _, c := range out.Clusters {
		style := theme.Cluster(c.Color)
		sb.WriteString(fmt.Sprintf(" %s %s  %s\n",
			style.Render("●"),
			style.Render(fmt.Sprintf("#%d (%d)", c.ID, c.Size)),
			strings.Join(c.Terms, ", ")))
	}

	view := append([]graphdto.ViewNode(nil), out.View...)
	sort.SliceStable(view, func(a, b int) bool {
		if view[a].Centrality != view[b].Centrality {
			return view[a].Centrality > view[b].Centrality
		}
		return view[a].Label < view[b].Label
	})
	if len(view) > centralTerms {
		view = view[:centralTerms]
	}
	sb.WriteString("\n" + theme.Hot.Render("Central terms") + "\n")
	for _, n := range view {
		bar := strings.Repeat("█", int(n.Size/5))
		sb.WriteString(fmt.Sprintf(" %-16s %s %.3f\n", n.Label, theme.Cluster(n.Color).Render(bar), n.Centrality))
	}

	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("cache: %d entries  hit rate %.0f%%  %d computed  %d stale",
		stats.Entries, stats.HitRate*100, stats.Computations, stats.DiscardedStale)))
	return sb.String()
}
