package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	graphdto "notegraph/internal/modules/graph/dto"
	"notegraph/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

const (
	maxHints   = 5
	maxLegend  = 5
	legendTerm = 3
)

// hints must stay in sync with the switch in app/model.go executePalette.
var paletteHints = []string{
	"graph:show",
	"graph:refresh",
	"graph:invalidate",
	"graph:text <text>",
	"graph:stats",
	"note:reindex",
}

// Palette is a command-palette overlay backed by bubbles/textinput. Under the
// hints it keeps a color legend of the clusters of the graph on screen.
type Palette struct {
	input    textinput.Model
	visible  bool
	width    int
	clusters []graphdto.ClusterSummary
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "type a command…"
	ti.CharLimit = 512
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// SetClusters replaces the legend, kept in the order given.
func (p *Palette) SetClusters(clusters []graphdto.ClusterSummary) {
	p.clusters = clusters
}

// Matches returns at most maxHints hints starting with prefix.
func Matches(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, h := range paletteHints {
		if prefix != "" && !strings.HasPrefix(h, prefix) {
			continue
		}
		out = append(out, h)
		if len(out) == maxHints {
			break
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.visible = false
			p.input.Blur()
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command Palette") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := Matches(p.input.Value()); len(hints) > 0 {
		sb.WriteString("\n")
		for _, h := range hints {
			sb.WriteString(hintStyle.Render("  "+h) + "\n")
		}
	}
	if legend := p.legend(); legend != "" {
		sb.WriteString("\n" + legend)
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(sb.String())
}

func (p Palette) legend() string {
	if len(p.clusters) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, c := range p.clusters {
		if i == maxLegend {
			sb.WriteString(hintStyle.Render(fmt.Sprintf("  +%d more", len(p.clusters)-maxLegend)) + "\n")
			break
		}
		terms := c.Terms
		if len(terms) > legendTerm {
			terms = terms[:legendTerm]
		}
		swatch := theme.Cluster(c.Color).Render("●")
		label := fmt.Sprintf(" c%d (%d) %s", c.ID, c.Size, strings.Join(terms, " "))
		sb.WriteString("  " + swatch + hintStyle.Render(label) + "\n")
	}
	return sb.String()
}
