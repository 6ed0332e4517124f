package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	notedto "notegraph/internal/modules/note/dto"
	"notegraph/internal/ui/theme"
)

const previewLines = 20

type NotesPort interface {
	List(ctx context.Context) ([]notedto.NoteOutput, error)
	Get(ctx context.Context, id string) (notedto.NoteDetailOutput, error)
}

type NotesLoadedMsg struct {
	Notes []notedto.NoteOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail notedto.NoteDetailOutput
	Err    error
}

type noteItem struct {
	note notedto.NoteOutput
}

func (i noteItem) Title() string { return i.note.Title }
func (i noteItem) Description() string {
	return fmt.Sprintf("%d words  %s", i.note.Words, i.note.UpdatedAt.Format("2006-01-02"))
}
func (i noteItem) FilterValue() string { return i.note.Title }

type Model struct {
	port    NotesPort
	list    list.Model
	detail  notedto.NoteDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port NotesPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case NotesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Notes: " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Notes))
		for i, n := range msg.Notes {
			items[i] = noteItem{note: n}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if id, ok := m.SelectedNoteID(); ok {
			cmds = append(cmds, m.loadDetailCmd(id))
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if id, ok := m.SelectedNoteID(); ok {
				cmds = append(cmds, m.loadDetailCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading notes…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) SelectedNoteID() (string, bool) {
	if item, ok := m.list.SelectedItem().(noteItem); ok {
		return item.note.ID, true
	}
	return "", false
}

func (m Model) SelectedNoteTitle() string {
	if item, ok := m.list.SelectedItem().(noteItem); ok {
		return item.note.Title
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// Reload fetches the note list again, e.g. after a reindex.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return NotesLoadedMsg{}
		}
		notes, err := m.port.List(context.Background())
		return NotesLoadedMsg{Notes: notes, Err: err}
	}
}

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	d := m.detail
	if d.ID == "" {
		return theme.Muted.Render("Select a note to preview it")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(d.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:      ") + d.ID + "\n")
	sb.WriteString(theme.Muted.Render("path:    ") + d.Path + "\n")
	sb.WriteString(fmt.Sprintf("%s%d\n", theme.Muted.Render("words:   "), d.Words))
	sb.WriteString(theme.Muted.Render("updated: ") + d.UpdatedAt.Format("2006-01-02 15:04") + "\n\n")

	lines := strings.Split(strings.TrimSpace(d.Body), "\n")
	if len(lines) > previewLines {
		lines = append(lines[:previewLines], "…")
	}
	sb.WriteString(strings.Join(lines, "\n") + "\n")
	sb.WriteString("\n" + theme.Muted.Render("enter: show graph"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Get(context.Background(), id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
