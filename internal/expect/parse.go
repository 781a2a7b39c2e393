package expect

import (
	"context"
	"fmt"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/resolve"
)

// Parser builds Expectations from condition records.
type Parser struct {
	Finder Finder
}

// ParseCondition implements action.ConditionParser. A record that names no
// window inherits the window keys of parent.
func (p Parser) ParseCondition(_ context.Context, record, parent map[string]any) (action.Condition, error) {
	e, err := Parse(record, parent)
	if err != nil {
		return nil, err
	}
	e.finder = p.Finder
	return e, nil
}

// Parse reads an Expectation from record.
func Parse(record, parent map[string]any) (*Expectation, error) {
	merged := inheritScope(record, parent)
	q, err := resolve.ParseQuery(merged)
	if err != nil {
		return nil, err
	}
	if q.ID == 0 && q.Text == "" {
		return nil, fmt.Errorf("condition needs %q or %q", resolve.KeyText, resolve.KeyID)
	}

	e := &Expectation{Query: q}
	if v, ok := record[KeyValue]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%q must be a string, got %T", KeyValue, v)
		}
		e.Value = &s
	}
	if v, ok := record[KeyValueContains]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%q must be a string, got %T", KeyValueContains, v)
		}
		e.ValueContains = s
	}
	for key, dst := range map[string]*bool{
		KeyChecked:   &e.Checked,
		KeyUnchecked: &e.Unchecked,
		KeyEnabled:   &e.Enabled,
		KeyDisabled:  &e.Disabled,
		KeyFocused:   &e.Focused,
		KeyGone:      &e.Gone,
	} {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%q must be a boolean, got %T", key, v)
		}
		*dst = b
	}
	if e.Checked && e.Unchecked {
		return nil, fmt.Errorf("%q and %q are mutually exclusive", KeyChecked, KeyUnchecked)
	}
	if e.Enabled && e.Disabled {
		return nil, fmt.Errorf("%q and %q are mutually exclusive", KeyEnabled, KeyDisabled)
	}
	return e, nil
}

func inheritScope(record, parent map[string]any) map[string]any {
	for _, key := range resolve.ScopeKeys {
		if _, ok := record[key]; ok {
			return record
		}
	}
	merged := make(map[string]any, len(record)+len(resolve.ScopeKeys))
	for _, key := range resolve.ScopeKeys {
		if v, ok := parent[key]; ok {
			merged[key] = v
		}
	}
	for k, v := range record {
		merged[k] = v
	}
	return merged
}
