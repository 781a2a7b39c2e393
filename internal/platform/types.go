package platform

import (
	"fmt"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Scope selects the application window an element tree is read from.
type Scope struct {
	App      string `yaml:"app,omitempty"       json:"app,omitempty"`       // Filter by application name
	Window   string `yaml:"window,omitempty"    json:"window,omitempty"`    // Filter by window title substring
	WindowID int    `yaml:"window-id,omitempty" json:"window-id,omitempty"` // Filter by system window ID (0 = unset)
	PID      int    `yaml:"pid,omitempty"       json:"pid,omitempty"`       // Filter by process ID (0 = unset)
}

// IsZero reports whether no scope field is set.
func (s Scope) IsZero() bool {
	return s.App == "" && s.Window == "" && s.WindowID == 0 && s.PID == 0
}

func (s Scope) String() string {
	var parts []string
	if s.App != "" {
		parts = append(parts, fmt.Sprintf("app=%q", s.App))
	}
	if s.Window != "" {
		parts = append(parts, fmt.Sprintf("window=%q", s.Window))
	}
	if s.WindowID != 0 {
		parts = append(parts, fmt.Sprintf("window-id=%d", s.WindowID))
	}
	if s.PID != 0 {
		parts = append(parts, fmt.Sprintf("pid=%d", s.PID))
	}
	if len(parts) == 0 {
		return "frontmost"
	}
	return strings.Join(parts, " ")
}

// ReadOptions controls what elements to read.
type ReadOptions struct {
	Scope
	Depth int // Max traversal depth (0 = unlimited)
}

// ActionOptions configures which element to act on and what action to perform.
type ActionOptions struct {
	Scope
	ID     int    // Element ID (from read output)
	Action string // Action to perform: "press", "cancel", "pick", "increment", "decrement", "confirm", "showMenu", "raise"
}

// SetValueOptions configures an attribute write on an element.
type SetValueOptions struct {
	Scope
	ID        int    // Element ID (from read output)
	Value     string // New value
	Attribute string // Attribute to set (default "value")
}
