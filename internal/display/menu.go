package display

import "github.com/nexusriot/ducknetspeed/internal/speedfmt"

// Action is what selecting a menu item asks for.
type Action int

const (
	ActionNone Action = iota
	ActionModeBoth
	ActionModeDownload
	ActionModeUpload
	ActionQuit
)

// ActionForMode returns the action that selects m.
func ActionForMode(m speedfmt.Mode) Action {
	switch m {
	case speedfmt.DownloadOnly:
		return ActionModeDownload
	case speedfmt.UploadOnly:
		return ActionModeUpload
	default:
		return ActionModeBoth
	}
}

// Mode returns the display mode a mode action selects.
func (a Action) Mode() (speedfmt.Mode, bool) {
	switch a {
	case ActionModeBoth:
		return speedfmt.Both, true
	case ActionModeDownload:
		return speedfmt.DownloadOnly, true
	case ActionModeUpload:
		return speedfmt.UploadOnly, true
	default:
		return speedfmt.Both, false
	}
}

// MenuItem is one line of the menu handed to the renderer.
type MenuItem struct {
	Label     string
	Enabled   bool
	Checked   bool
	Separator bool
	Action    Action
}

// Renderer is the display collaborator.
type Renderer interface {
	SetTitle(text string)
	SetMenu(items []MenuItem)
}

// buildMenu lays out detail lines, the mode radio group and Quit.
func buildMenu(lines []string, mode speedfmt.Mode) []MenuItem {
	items := make([]MenuItem, 0, len(lines)+len(speedfmt.Modes)+3)
	for _, l := range lines {
		items = append(items, MenuItem{Label: l})
	}
	items = append(items, MenuItem{Separator: true})
	for _, m := range speedfmt.Modes {
		items = append(items, MenuItem{
			Label:   m.Label(),
			Enabled: true,
			Checked: m == mode,
			Action:  ActionForMode(m),
		})
	}
	items = append(items,
		MenuItem{Separator: true},
		MenuItem{Label: "Quit", Enabled: true, Action: ActionQuit},
	)
	return items
}
