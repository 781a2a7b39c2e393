// Package expect builds element expectations from condition records and
// evaluates them against the live element tree.
package expect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/resolve"
)

// Assertion keys of a condition record.
const (
	KeyValue         = "value"
	KeyValueContains = "value-contains"
	KeyChecked       = "checked"
	KeyUnchecked     = "unchecked"
	KeyEnabled       = "enabled"
	KeyDisabled      = "disabled"
	KeyFocused       = "focused"
	KeyGone          = "gone"
)

// Finder looks elements up without going through a cache.
type Finder interface {
	FindFresh(ctx context.Context, q resolve.Query) (*resolve.Target, error)
}

// Expectation is a check on one element. With no assertion set it only
// requires the element to exist.
type Expectation struct {
	Query resolve.Query

	Value         *string
	ValueContains string
	Checked       bool
	Unchecked     bool
	Enabled       bool
	Disabled      bool
	Focused       bool
	Gone          bool

	finder Finder
}

// Evaluate reads the tree and reports why the expectation does not hold,
// or nil when it does.
func (e *Expectation) Evaluate(ctx context.Context) error {
	if e.finder == nil {
		return fmt.Errorf("no element finder configured")
	}
	t, err := e.finder.FindFresh(ctx, e.Query)
	if e.Gone {
		switch {
		case err == nil:
			return fmt.Errorf("expected element to be gone but found: %s", t.Element.String())
		case errors.Is(err, resolve.ErrAmbiguous):
			return fmt.Errorf("expected element to be gone but several match %s", e.Query)
		case errors.Is(err, resolve.ErrNotFound):
			return nil
		default:
			return err
		}
	}
	if err != nil {
		return err
	}
	return e.Check(&t.Element)
}

// Check validates el's properties against the expectation.
func (e *Expectation) Check(el *model.Element) error {
	if e.Value != nil && el.Value != *e.Value {
		return fmt.Errorf("expected value %q but got %q", *e.Value, el.Value)
	}
	if e.ValueContains != "" && !strings.Contains(strings.ToLower(el.Value), strings.ToLower(e.ValueContains)) {
		return fmt.Errorf("expected value to contain %q but got %q", e.ValueContains, el.Value)
	}
	if e.Checked && !el.Selected {
		return fmt.Errorf("expected element to be checked but it is not")
	}
	if e.Unchecked && el.Selected {
		return fmt.Errorf("expected element to be unchecked but it is checked")
	}
	if e.Disabled && el.IsEnabled() {
		return fmt.Errorf("expected element to be disabled but it is enabled")
	}
	if e.Enabled && !el.IsEnabled() {
		return fmt.Errorf("expected element to be enabled but it is disabled")
	}
	if e.Focused && !el.Focused {
		return fmt.Errorf("expected element to be focused but it is not")
	}
	return nil
}

func (e *Expectation) String() string {
	var checks []string
	if e.Value != nil {
		checks = append(checks, fmt.Sprintf("value=%q", *e.Value))
	}
	if e.ValueContains != "" {
		checks = append(checks, fmt.Sprintf("value-contains=%q", e.ValueContains))
	}
	for _, f := range []struct {
		set  bool
		name string
	}{
		{e.Checked, KeyChecked}, {e.Unchecked, KeyUnchecked},
		{e.Enabled, KeyEnabled}, {e.Disabled, KeyDisabled},
		{e.Focused, KeyFocused}, {e.Gone, KeyGone},
	} {
		if f.set {
			checks = append(checks, f.name)
		}
	}
	if len(checks) == 0 {
		checks = append(checks, "exists")
	}
	return e.Query.String() + " " + strings.Join(checks, " ")
}

var _ action.Condition = (*Expectation)(nil)
