// Package testing provides test doubles for the display package.
package testing

import (
	"sync"

	"github.com/nexusriot/ducknetspeed/internal/display"
)

// Recorder is a display.Renderer that records every call.
type Recorder struct {
	mu     sync.Mutex
	titles []string
	menus  [][]display.MenuItem
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetTitle(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, text)
}

func (r *Recorder) SetMenu(items []display.MenuItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]display.MenuItem, len(items))
	copy(cp, items)
	r.menus = append(r.menus, cp)
}

// Titles returns every title rendered so far.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.titles...)
}

// Menus returns every menu rendered so far.
func (r *Recorder) Menus() [][]display.MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]display.MenuItem(nil), r.menus...)
}

// LastTitle returns the most recent title, or "" if none.
func (r *Recorder) LastTitle() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.titles) == 0 {
		return ""
	}
	return r.titles[len(r.titles)-1]
}

// LastMenu returns the most recent menu, or nil if none.
func (r *Recorder) LastMenu() []display.MenuItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.menus) == 0 {
		return nil
	}
	return r.menus[len(r.menus)-1]
}

// LastDetails returns the disabled, non-separator labels of the last menu
// that precede the first separator.
func (r *Recorder) LastDetails() []string {
	var out []string
	for _, it := range r.LastMenu() {
		if it.Separator {
			break
		}
		out = append(out, it.Label)
	}
	return out
}

// Reset clears recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = nil
	r.menus = nil
}
