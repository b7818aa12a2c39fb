// Package display owns the presentation state of the speed readout: the
// loading animation, the chosen display mode, and the last rendered detail
// lines used to suppress redundant menu rebuilds.
package display

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/spinner"

	"github.com/nexusriot/ducknetspeed/internal/rate"
	"github.com/nexusriot/ducknetspeed/internal/speedfmt"
)

// LoadingLabel is shown, after the current glyph, until the first poll lands.
const LoadingLabel = "Loading network details…"

// State is the presentation state.
type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "loading"
}

// DefaultSpinner is the glyph set used while loading.
var DefaultSpinner = spinner.Dot

// Machine is not safe for concurrent use; the poll orchestrator serializes
// every call.
type Machine struct {
	renderer Renderer
	glyphs   spinner.Spinner

	state    State
	mode     speedfmt.Mode
	frame    int
	last     rate.Sample
	snapshot []string
}

// NewMachine returns a Machine in the Loading state. An empty glyph set
// falls back to DefaultSpinner.
func NewMachine(r Renderer, glyphs spinner.Spinner, mode speedfmt.Mode) *Machine {
	if len(glyphs.Frames) == 0 {
		glyphs = DefaultSpinner
	}
	return &Machine{
		renderer: r,
		glyphs:   glyphs,
		mode:     mode,
	}
}

// State returns the current presentation state.
func (m *Machine) State() State { return m.state }

// Mode returns the current display mode.
func (m *Machine) Mode() speedfmt.Mode { return m.mode }

// Snapshot returns a copy of the last rendered detail lines.
func (m *Machine) Snapshot() []string { return slices.Clone(m.snapshot) }

// FrameInterval is the animation cadence of the glyph set.
func (m *Machine) FrameInterval() time.Duration { return m.glyphs.FPS }

// Start renders the first loading frame.
func (m *Machine) Start() {
	if m.state == Loading {
		m.renderLoading()
	}
}

// Animate advances the loading glyph. It does nothing once Ready.
func (m *Machine) Animate() {
	if m.state != Loading {
		return
	}
	m.frame = (m.frame + 1) % len(m.glyphs.Frames)
	m.renderLoading()
}

// Update records a completed poll. The title is always rendered; the menu
// is rebuilt on the first Ready render and whenever lines differ from the
// previous snapshot.
func (m *Machine) Update(r rate.Sample, lines []string) {
	first := m.state == Loading
	m.state = Ready
	m.last = r

	m.renderer.SetTitle(m.title())
	if first || !slices.Equal(m.snapshot, lines) {
		m.snapshot = slices.Clone(lines)
		m.renderer.SetMenu(buildMenu(m.snapshot, m.mode))
	}
}

// SetMode changes the display mode. Once Ready the title and menu are
// re-rendered from the cached rate and details right away; while Loading
// the loading presentation is refreshed and the mode applies later.
func (m *Machine) SetMode(mode speedfmt.Mode) {
	m.mode = mode
	if m.state == Loading {
		m.renderLoading()
		return
	}
	m.renderer.SetTitle(m.title())
	m.renderer.SetMenu(buildMenu(m.snapshot, m.mode))
}

func (m *Machine) title() string {
	return speedfmt.Format(m.last.RxBytesPerSecond, m.last.TxBytesPerSecond, m.mode)
}

func (m *Machine) glyph() string {
	return m.glyphs.Frames[m.frame]
}

func (m *Machine) renderLoading() {
	g := m.glyph()
	m.renderer.SetTitle(g)
	m.renderer.SetMenu(buildMenu([]string{g + " " + LoadingLabel}, m.mode))
}
