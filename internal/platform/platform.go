package platform

import (
	"time"

	"github.com/mj1618/desktop-invoke/internal/model"
)

// Reader reads the UI element tree from the OS accessibility layer.
type Reader interface {
	// ReadElements returns the element tree for the specified target.
	ReadElements(opts ReadOptions) ([]model.Element, error)
}

// Inputter simulates mouse and keyboard input.
type Inputter interface {
	Click(x, y int, button MouseButton, count int) error
	PressAndHold(x, y int, duration time.Duration) error
	Scroll(x, y int, dx, dy int) error
	Drag(fromX, fromY, toX, toY int, duration time.Duration) error
	TypeText(text string, delayMs int) error
	KeyCombo(keys []string) error
}

// WindowManager manages window focus.
type WindowManager interface {
	FocusWindow(scope Scope) error
}

// ActionPerformer performs accessibility actions directly on UI elements.
type ActionPerformer interface {
	// PerformAction executes an accessibility action on an element identified
	// by its sequential ID within the given read scope.
	PerformAction(opts ActionOptions) error
}

// ValueSetter writes accessibility attributes of UI elements.
type ValueSetter interface {
	SetValue(opts SetValueOptions) error
}
