package ui

import (
	"fmt"
	"io"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nexusriot/ducknetspeed/internal/display"
	"github.com/nexusriot/ducknetspeed/internal/rate"
)

// ProgramRenderer forwards display updates into a running Bubble Tea
// program. Send blocks until the program reads the message, and returns
// immediately once the program has exited.
type ProgramRenderer struct {
	send func(tea.Msg)
}

func NewProgramRenderer(p *tea.Program) *ProgramRenderer {
	return &ProgramRenderer{send: p.Send}
}

func (r *ProgramRenderer) SetTitle(text string) { r.send(titleMsg(text)) }

func (r *ProgramRenderer) SetMenu(items []display.MenuItem) {
	r.send(menuMsg(slices.Clone(items)))
}

// Sample feeds the sparklines; suitable as poller.Options.OnSample.
func (r *ProgramRenderer) Sample(s rate.Sample) { r.send(sampleMsg(s)) }

// LineRenderer writes titles and detail lines to w, one line per change.
// Consecutive identical titles and menus are skipped.
type LineRenderer struct {
	mu        sync.Mutex
	w         io.Writer
	lastTitle string
	lastMenu  []display.MenuItem
	err       error
}

func NewLineRenderer(w io.Writer) *LineRenderer {
	return &LineRenderer{w: w}
}

func (r *LineRenderer) SetTitle(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if text == r.lastTitle {
		return
	}
	r.lastTitle = text
	r.write("%s\n", text)
}

// SetMenu prints the detail rows of the menu (the rows before the first
// separator), indented under the title.
func (r *LineRenderer) SetMenu(items []display.MenuItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastMenu != nil && slices.Equal(items, r.lastMenu) {
		return
	}
	r.lastMenu = slices.Clone(items)
	for _, it := range items {
		if it.Separator {
			break
		}
		r.write("  %s\n", it.Label)
	}
}

// Err reports the first write error, if any.
func (r *LineRenderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

func (r *LineRenderer) write(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		r.err = err
	}
}
