package action

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownKind is returned when a command names an unregistered kind.
var ErrUnknownKind = errors.New("unknown action kind")

// ContractError is a protocol violation by the client: unknown kinds,
// malformed structural fields, missing or mistyped required parameters,
// unrecognized enumeration strings and out-of-range preconditions.
// These halt the run instead of being reported through completion.
type ContractError struct {
	Kind Kind
	Err  error
}

func (e *ContractError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("contract violation: %v", e.Err)
	}
	return fmt.Sprintf("contract violation in %q: %v", e.Kind, e.Err)
}

func (e *ContractError) Unwrap() error { return e.Err }

func contractf(kind Kind, format string, args ...any) error {
	return &ContractError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func contract(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &ContractError{Kind: kind, Err: err}
}

// IsFatal reports whether err belongs to the fatal tier.
func IsFatal(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

// AssertionError is a reported failure raised by an action's own check.
type AssertionError struct {
	Reason string
}

func (e *AssertionError) Error() string { return e.Reason }

// CompositeError is the repeat loop's terminal failure: the step that failed
// and the condition failure that caused the step to be attempted.
type CompositeError struct {
	Step      error
	Condition error
}

func (e *CompositeError) Error() string {
	return e.Step.Error() + " and " + lowerFirst(e.Condition.Error())
}

func (e *CompositeError) Unwrap() []error { return []error{e.Step, e.Condition} }

// PanicError is a panic raised inside a backend primitive, recovered and
// reported as a failure.
type PanicError struct {
	Op    string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: backend panic: %v", e.Op, e.Value)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
