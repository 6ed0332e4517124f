package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notedto "notegraph/internal/modules/note/dto"
	"notegraph/internal/ui/components"
	"notegraph/internal/ui/theme"
	graphview "notegraph/internal/ui/views/graph"
	notesview "notegraph/internal/ui/views/notes"
)

type notePort interface {
	List(ctx context.Context) ([]notedto.NoteOutput, error)
	Get(ctx context.Context, id string) (notedto.NoteDetailOutput, error)
	Reindex(ctx context.Context) (int, error)
}

type tabID int

const (
	tabNotes tabID = iota
	tabGraph
	tabCount
)

var tabLabels = [tabCount]string{"Notes", "Graph"}

type reindexedMsg struct {
	count int
	err   error
}

type keyMap struct {
	Tab     key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "show graph")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute graph")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; the sub-views do the rendering.
type Model struct {
	notes notePort
	graph graphview.GraphPort

	notesView notesview.Model
	graphView graphview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(notes notePort, graph graphview.GraphPort) Model {
	return Model{
		notes:     notes,
		graph:     graph,
		notesView: notesview.New(notes),
		graphView: graphview.New(graph),
		activeTab: tabNotes,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.notesView.Init(), m.graphView.Init())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case reindexedMsg:
		if msg.err != nil {
			m.status = "reindex: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("reindexed %d notes", msg.count)
		return m, m.notesView.Reload()

	// Graph results and watcher refreshes go to the graph view whichever
	// tab is showing.
	case graphview.LoadedMsg:
		if msg.Err != nil {
			m.status = "graph: " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("graph: %d terms in %d clusters", msg.Out.Summary.Nodes, msg.Out.Summary.Clusters)
		}
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		m.palette.SetClusters(m.graphView.Clusters())
		return m, cmd

	case graphview.RefreshedMsg:
		if msg.Event.Err == nil {
			m.status = fmt.Sprintf("recomputed %s in %s", msg.Event.NoteID, msg.Event.Elapsed.Round(time.Millisecond))
		}
		var cmd tea.Cmd
		m.graphView, cmd = m.graphView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the notes list when its search filter is active.
		if m.activeTab == tabNotes && m.notesView.Filtering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case "enter":
			if m.activeTab == tabNotes {
				if id, ok := m.notesView.SelectedNoteID(); ok {
					m.activeTab = tabGraph
					return m, m.graphView.Load(id, m.notesView.SelectedNoteTitle())
				}
			}
		case "r":
			if m.activeTab == tabGraph {
				return m, m.graphView.Refresh()
			}
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabNotes:
		m.notesView, tabCmd = m.notesView.Update(msg)
	case tabGraph:
		m.graphView, tabCmd = m.graphView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar), 1)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabGraph:
		content = m.graphView.View()
	default:
		content = m.notesView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "notegraph  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  enter:graph  r:recompute  :::palette  q:quit")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	switch parts[0] {
	case "graph:show":
		id, ok := m.notesView.SelectedNoteID()
		if !ok {
			m.status = "no note selected"
			return m, nil
		}
		m.activeTab = tabGraph
		return m, m.graphView.Load(id, m.notesView.SelectedNoteTitle())

	case "graph:refresh":
		if m.graphView.NoteID() == "" {
			m.status = "no graph loaded"
			return m, nil
		}
		m.activeTab = tabGraph
		return m, m.graphView.Refresh()

	case "graph:invalidate":
		id := m.graphView.NoteID()
		if id == "" || m.graph == nil {
			m.status = "no graph loaded"
			return m, nil
		}
		m.graph.Invalidate(context.Background(), id)
		m.status = "dropped cached graph of " + id
		return m, nil

	case "graph:text":
		text := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if text == "" {
			m.status = "usage: graph:text <text>"
			return m, nil
		}
		m.activeTab = tabGraph
		return m, m.graphView.AnalyzeText(text)

	case "graph:stats":
		if m.graph == nil {
			return m, nil
		}
		st := m.graph.Stats(context.Background())
		m.status = fmt.Sprintf("cache: %d entries  hits %d  misses %d  coalesced %d  stale %d  failures %d",
			st.Entries, st.Hits, st.Misses, st.Coalesced, st.DiscardedStale, st.Failures)
		return m, nil

	case "note:reindex":
		return m, m.reindexCmd()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.notesView, _ = m.notesView.Update(sz)
	m.graphView, _ = m.graphView.Update(sz)
}

func (m Model) reindexCmd() tea.Cmd {
	return func() tea.Msg {
		count, err := m.notes.Reindex(context.Background())
		return reindexedMsg{count: count, err: err}
	}
}
