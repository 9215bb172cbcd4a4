package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"aaprofile/internal/composition"
	"aaprofile/internal/config"
	"aaprofile/internal/profile"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Colors for modern design
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	surfaceColor   = lipgloss.Color("#1F2937") // Dark gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	mutedColor     = lipgloss.Color("#9CA3AF") // Muted gray
	borderColor    = lipgloss.Color("#374151") // Border gray
)

// Styles
var (
	containerStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Background(surfaceColor).
			Padding(0, 1)

	symbolStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	barStyle    = lipgloss.NewStyle().Foreground(secondaryColor)
	zeroStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

type listItem struct {
	row profile.Row
}

func (i listItem) FilterValue() string { return i.row.ID }

func (i listItem) Title() string { return i.row.ID }

// Description lists the three most abundant residues.
func (i listItem) Description() string {
	top := ranked(i.row.Profile)
	parts := make([]string, 0, 3)
	for _, r := range top[:3] {
		parts = append(parts, fmt.Sprintf("%c %.1f%%", r.symbol, r.pct))
	}
	return strings.Join(parts, "  ")
}

type residuePct struct {
	symbol byte
	pct    float64
}

// ranked returns residues by decreasing percentage, ties in alphabet order.
func ranked(p composition.Profile) []residuePct {
	values := p.Values()
	out := make([]residuePct, composition.Size)
	for i, v := range values {
		out[i] = residuePct{symbol: composition.Alphabet[i], pct: v}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].pct > out[b].pct })
	return out
}

type mode int

const (
	modeBars mode = iota
	modeRanked
	modeValues
)

func (m mode) String() string {
	switch m {
	case modeBars:
		return "Bars"
	case modeRanked:
		return "Ranked"
	case modeValues:
		return "Values"
	default:
		return "Unknown"
	}
}

type model struct {
	list          list.Model
	rows          []profile.Row
	source        string
	currentMode   mode
	width         int
	height        int
	selectedIndex int
}

func newModel(tbl *profile.Table, source string) model {
	rows := tbl.Rows()
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = listItem{row: r}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Composition profiles"
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(true)
	return model{list: l, rows: rows, source: source, currentMode: modeBars}
}

func (m model) cycleMode() model {
	m.currentMode = (m.currentMode + 1) % 3
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// left panel takes 1/3 of width
		m.list.SetWidth(msg.Width / 3)
		m.list.SetHeight(msg.Height - 4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "tab":
				return m.cycleMode(), nil
			case "1":
				m.currentMode = modeBars
				return m, nil
			case "2":
				m.currentMode = modeRanked
				return m, nil
			case "3":
				m.currentMode = modeValues
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.selectedIndex = m.list.Index()
	return m, cmd
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	left := containerStyle.
		Width(m.width/3 - 2).
		Height(m.height - 4).
		Render(m.list.View())

	var right string
	if item, ok := m.list.SelectedItem().(listItem); ok {
		right = strings.Join(m.buildRightLines(item.row), "\n")
	} else {
		right = "No record selected"
	}
	rightPanel := containerStyle.
		Width(m.width*2/3 - 2).
		Height(m.height - 4).
		Render(right)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, rightPanel),
		m.renderStatusBar(),
	)
}

// buildRightLines renders the selected row for the current mode.
func (m model) buildRightLines(r profile.Row) []string {
	lines := []string{titleStyle.Render(r.ID), ""}
	barWidth := m.width*2/3 - 20
	if barWidth < 10 {
		barWidth = 10
	}

	entries := ranked(r.Profile)
	if m.currentMode != modeRanked {
		values := r.Profile.Values()
		for i := range entries {
			entries[i] = residuePct{symbol: composition.Alphabet[i], pct: values[i]}
		}
	}
	for _, e := range entries {
		sym := symbolStyle.Render(string(e.symbol))
		pct := fmt.Sprintf("%6.2f%%", e.pct)
		if e.pct == 0 {
			pct = zeroStyle.Render(pct)
		}
		switch m.currentMode {
		case modeValues:
			lines = append(lines, fmt.Sprintf("%s  %s", sym, pct))
		default:
			n := int(e.pct / 100 * float64(barWidth))
			lines = append(lines, fmt.Sprintf("%s %s %s", sym, pct, barStyle.Render(strings.Repeat("█", n))))
		}
	}
	return lines
}

func (m model) renderStatusBar() string {
	info := fmt.Sprintf("%d/%d records  |  Mode: %s  |  %s  |  tab/1-3 mode, / filter, q quit",
		m.selectedIndex+1, len(m.rows), m.currentMode, m.source)
	return statusBarStyle.Width(m.width).Render(info)
}

func main() {
	path := flag.String("in", config.DefaultOutput, "profile CSV written by aaprofile")
	flag.Parse()

	tbl, err := profile.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p := tea.NewProgram(newModel(tbl, *path), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v", err)
		os.Exit(1)
	}
}
