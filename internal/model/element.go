package model

import (
	"fmt"
	"strings"
)

// Element represents a UI element in the accessibility tree.
type Element struct {
	ID          int       `yaml:"i"           json:"i"`           // Sequential integer ID
	Role        string    `yaml:"r"           json:"r"`           // Abbreviated role code
	Title       string    `yaml:"t,omitempty" json:"t,omitempty"` // Visible label / title
	Value       string    `yaml:"v,omitempty" json:"v,omitempty"` // Current value
	Description string    `yaml:"d,omitempty" json:"d,omitempty"` // Accessibility description
	Bounds      [4]int    `yaml:"b"           json:"b"`           // [x, y, width, height]
	Focused     bool      `yaml:"f,omitempty" json:"f,omitempty"` // Has keyboard focus
	Enabled     *bool     `yaml:"e,omitempty" json:"e,omitempty"` // nil or true = enabled (omit); false = disabled (include)
	Selected    bool      `yaml:"s,omitempty" json:"s,omitempty"` // Is selected
	Children    []Element `yaml:"c,omitempty" json:"c,omitempty"` // Child elements
	Actions     []string  `yaml:"a,omitempty" json:"a,omitempty"` // Available actions
}

// Center returns the screen coordinates of the element's midpoint.
func (e *Element) Center() (x, y int) {
	return e.Bounds[0] + e.Bounds[2]/2, e.Bounds[1] + e.Bounds[3]/2
}

// IsEnabled reports whether the element accepts input.
func (e *Element) IsEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// HasAction reports whether the element exposes the named accessibility action.
func (e *Element) HasAction(name string) bool {
	for _, a := range e.Actions {
		if a == name {
			return true
		}
	}
	return false
}

// Attributes returns the element's properties as a string-keyed map, the
// payload shape returned by attribute retrieval.
func (e *Element) Attributes() map[string]any {
	attrs := map[string]any{
		"id":       e.ID,
		"role":     e.Role,
		"enabled":  e.IsEnabled(),
		"focused":  e.Focused,
		"selected": e.Selected,
		"frame": map[string]any{
			"x":      e.Bounds[0],
			"y":      e.Bounds[1],
			"width":  e.Bounds[2],
			"height": e.Bounds[3],
		},
	}
	if e.Title != "" {
		attrs["label"] = e.Title
	}
	if e.Value != "" {
		attrs["value"] = e.Value
	}
	if e.Description != "" {
		attrs["description"] = e.Description
	}
	if len(e.Actions) > 0 {
		attrs["actions"] = append([]string(nil), e.Actions...)
	}
	return attrs
}

// String returns a brief human-readable description of an element.
func (e *Element) String() string {
	parts := []string{fmt.Sprintf("id=%d", e.ID), fmt.Sprintf("role=%s", e.Role)}
	if e.Title != "" {
		parts = append(parts, fmt.Sprintf("title=%q", e.Title))
	}
	if e.Value != "" {
		parts = append(parts, fmt.Sprintf("value=%q", e.Value))
	}
	return strings.Join(parts, " ")
}

// FindByID searches the element tree recursively for an element with the given ID.
func FindByID(elements []Element, id int) *Element {
	for i := range elements {
		if elements[i].ID == id {
			return &elements[i]
		}
		if found := FindByID(elements[i].Children, id); found != nil {
			return found
		}
	}
	return nil
}

// FindFocused returns the element holding keyboard focus, or nil.
func FindFocused(elements []Element) *Element {
	for i := range elements {
		if elements[i].Focused {
			return &elements[i]
		}
		if found := FindFocused(elements[i].Children); found != nil {
			return found
		}
	}
	return nil
}
