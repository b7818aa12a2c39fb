package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/poller"
	"github.com/nexusriot/ducknetspeed/internal/probe"
	"github.com/nexusriot/ducknetspeed/internal/rate"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

const (
	appName        = "ducknetspeed 🦆"
	defaultHistory = 60
	sparkMaxW      = 60
	statsEvery     = time.Second
)

type titleMsg string
type menuMsg []display.MenuItem
type sampleMsg rate.Sample
type statsTickMsg time.Time

func statsTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return statsTickMsg(t) })
}

// Options configures a Model.
type Options struct {
	Hostname string
	// History is the number of samples kept for the sparklines.
	History int
	Stats   func() poller.Stats
	OnMode  func(speedfmt.Mode)
}

// Model is the Bubble Tea program showing the speed title as a status bar
// and the display menu as a navigable list.
type Model struct {
	w, h int

	hostname string
	title    string
	menu     []display.MenuItem
	cursor   int

	rxHist, txHist []float64
	history        int

	stats  func() poller.Stats
	onMode func(speedfmt.Mode)
	keys   keyMap

	quitting bool
}

func NewModel(opts Options) Model {
	if opts.History <= 0 {
		opts.History = defaultHistory
	}
	return Model{
		hostname: opts.Hostname,
		history:  opts.History,
		stats:    opts.Stats,
		onMode:   opts.OnMode,
		keys:     defaultKeys(),
		cursor:   -1,
	}
}

func (m Model) Init() tea.Cmd {
	return statsTick(statsEvery)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		return m, nil

	case titleMsg:
		m.title = string(msg)
		return m, nil

	case menuMsg:
		m.menu = []display.MenuItem(msg)
		m.cursor = m.fixCursor()
		return m, nil

	case sampleMsg:
		m.rxHist = probe.ClampHistory(append(m.rxHist, msg.RxBytesPerSecond), m.history)
		m.txHist = probe.ClampHistory(append(m.txHist, msg.TxBytesPerSecond), m.history)
		return m, nil

	case statsTickMsg:
		return m, statsTick(statsEvery)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		m.cursor = m.step(-1)
	case key.Matches(msg, m.keys.Down):
		m.cursor = m.step(1)
	case key.Matches(msg, m.keys.Select):
		if m.cursor >= 0 && m.cursor < len(m.menu) {
			return m.activate(m.menu[m.cursor].Action)
		}
	case key.Matches(msg, m.keys.Both):
		return m.activate(display.ActionModeBoth)
	case key.Matches(msg, m.keys.DlOnly):
		return m.activate(display.ActionModeDownload)
	case key.Matches(msg, m.keys.UlOnly):
		return m.activate(display.ActionModeUpload)
	}
	return m, nil
}

func (m Model) activate(a display.Action) (tea.Model, tea.Cmd) {
	if a == display.ActionQuit {
		return m.quit()
	}
	if mode, ok := a.Mode(); ok && m.onMode != nil {
		m.onMode(mode)
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func selectable(it display.MenuItem) bool {
	return it.Enabled && !it.Separator
}

// fixCursor keeps the cursor on a selectable row after the menu changes,
// preferring the checked item and then the first selectable one.
func (m Model) fixCursor() int {
	if m.cursor >= 0 && m.cursor < len(m.menu) && selectable(m.menu[m.cursor]) {
		return m.cursor
	}
	first := -1
	for i, it := range m.menu {
		if !selectable(it) {
			continue
		}
		if it.Checked {
			return i
		}
		if first < 0 {
			first = i
		}
	}
	return first
}

func (m Model) step(dir int) int {
	if len(m.menu) == 0 {
		return -1
	}
	for i := m.cursor + dir; i >= 0 && i < len(m.menu); i += dir {
		if selectable(m.menu[i]) {
			return i
		}
	}
	return m.cursor
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	parts := []string{
		m.renderHeader(),
		m.renderStatus(),
		m.renderSparks(),
		m.renderMenu(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	left := titleStyle.Render(appName)
	if m.hostname != "" {
		left += " " + subtleStyle.Render(m.hostname)
	}
	if m.w <= 0 {
		return left
	}
	size := subtleStyle.Render(fmt.Sprintf("(%dx%d)", m.w, m.h))
	rem := max(0, m.w-lipgloss.Width(left))
	return clampWidth(left+padTo(rem, size), m.w)
}

func (m Model) renderStatus() string {
	title := m.title
	if title == "" {
		title = "…"
	}
	return boxStyle.Render(statusStyle.Render(title))
}

func (m Model) renderSparks() string {
	w := sparkMaxW
	if m.w > 0 {
		w = max(10, min(m.w-4, sparkMaxW))
	}
	down := speedfmt.DownArrow + " " + okStyle.Render(Spark(m.rxHist, w))
	up := speedfmt.UpArrow + " " + warnStyle.Render(Spark(m.txHist, w))
	return down + "\n" + up
}

func (m Model) renderMenu() string {
	sepW := 24
	if m.w > 0 {
		sepW = max(8, min(m.w, 40))
	}
	var b strings.Builder
	for i, it := range m.menu {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case it.Separator:
			b.WriteString(subtleStyle.Render(strings.Repeat("─", sepW)))
		case !it.Enabled:
			b.WriteString(subtleStyle.Render("  " + it.Label))
		default:
			b.WriteString(m.renderItem(i, it))
		}
	}
	return b.String()
}

func (m Model) renderItem(i int, it display.MenuItem) string {
	label := it.Label
	if _, ok := it.Action.Mode(); ok {
		radio := "( ) "
		if it.Checked {
			radio = "(•) "
		}
		label = radio + label
	}
	if i == m.cursor {
		return selectedStyle.Render("> " + label)
	}
	return "  " + label
}

func (m Model) renderFooter() string {
	footer := subtleStyle.Render(m.keys.help())
	if m.stats != nil {
		st := m.stats()
		line := fmt.Sprintf("polls %d • failed %d • skipped %d", st.Polls, st.Failures, st.Skipped)
		footer += "\n" + subtleStyle.Render(line)
		if st.LastError != "" {
			footer += "\n" + errStyle.Render("Error: "+oneLine(st.LastError))
		}
	}
	return clampWidth(footer, m.w)
}

// helpers

func padTo(width int, s string) string {
	if width <= 0 {
		return ""
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return strings.Repeat(" ", width-w) + s
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// clampWidth truncates every line of s to w cells; w <= 0 leaves s untouched.
func clampWidth(s string, w int) string {
	if w <= 0 {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(s)
}
