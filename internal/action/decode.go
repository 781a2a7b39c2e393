package action

import (
	"context"
	"fmt"

	"github.com/mj1618/desktop-invoke/internal/model"
)

// Command record keys.
const (
	KeyKind   = "action"
	KeyParams = "params"
	KeyWhile  = "while"
)

// Resolver locates the element a command record targets.
type Resolver interface {
	Resolve(ctx context.Context, record map[string]any) (Target, error)
}

// ConditionParser builds a Condition from a nested condition record. parent
// is the enclosing command record.
type ConditionParser interface {
	ParseCondition(ctx context.Context, record, parent map[string]any) (Condition, error)
}

// Decoder turns raw command records into actions.
type Decoder struct {
	Resolver   Resolver
	Conditions ConditionParser
}

// Decode validates the record's kind, resolves its target and binds its raw
// parameter list. Per-kind parameter validation happens at execution.
// No Action is returned on error.
func (d *Decoder) Decode(ctx context.Context, record map[string]any) (*Action, error) {
	rawKind, ok := record[KeyKind]
	if !ok {
		return nil, contractf("", "missing %q", KeyKind)
	}
	kindStr, ok := rawKind.(string)
	if !ok {
		return nil, contractf("", "%q must be a string, got %T", KeyKind, rawKind)
	}
	desc, err := Lookup(kindStr)
	if err != nil {
		return nil, err
	}
	kind := desc.Kind

	var params model.Params
	switch kind {
	case KindTapBackspaceKey:
		params = model.Params{model.StringParam(backspaceText)}
	case KindTapReturnKey:
		params = model.Params{model.StringParam(returnText)}
	default:
		if params, err = model.ParseParams(record[KeyParams]); err != nil {
			return nil, contract(kind, err)
		}
	}

	if d.Resolver == nil {
		return nil, fmt.Errorf("no element resolver configured")
	}
	target, err := d.Resolver.Resolve(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("resolve target: %w", err)
	}

	a := &Action{Kind: kind, Params: params, Target: target}
	if kind != KindScroll {
		a.performer = desc.New(params)
		return a, nil
	}

	// Scroll always decodes to the repeat-capable variant.
	cond, err := d.parseWhile(ctx, record)
	if err != nil {
		return nil, err
	}
	a.While = cond
	a.performer = &scrollAction{params: params, while: cond}
	return a, nil
}

func (d *Decoder) parseWhile(ctx context.Context, record map[string]any) (Condition, error) {
	raw, ok := record[KeyWhile]
	if !ok || raw == nil {
		return nil, nil
	}
	whileRecord, ok := raw.(map[string]any)
	if !ok {
		return nil, contractf(KindScroll, "%q must be a record, got %T", KeyWhile, raw)
	}
	if d.Conditions == nil {
		return nil, fmt.Errorf("no condition parser configured for %q", KeyWhile)
	}
	cond, err := d.Conditions.ParseCondition(ctx, whileRecord, record)
	if err != nil {
		return nil, fmt.Errorf("parse %q condition: %w", KeyWhile, err)
	}
	return cond, nil
}
