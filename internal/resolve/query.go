package resolve

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
)

// Targeting keys read from a command record.
const (
	KeyApp      = "app"
	KeyWindow   = "window"
	KeyWindowID = "window-id"
	KeyPID      = "pid"
	KeyID       = "id"
	KeyText     = "text"
	KeyRoles    = "roles"
	KeyExact    = "exact"
	KeyScopeID  = "scope-id"
)

// ScopeKeys are the keys that select a window rather than an element.
var ScopeKeys = []string{KeyApp, KeyWindow, KeyWindowID, KeyPID}

// Query selects one element of a window's tree. With neither ID nor Text set
// it selects the focused element.
type Query struct {
	platform.Scope `yaml:",inline"`
	ID             int      `yaml:"id,omitempty"       json:"id,omitempty"`
	Text           string   `yaml:"text,omitempty"     json:"text,omitempty"`
	Roles          []string `yaml:"roles,omitempty"    json:"roles,omitempty"`
	Exact          bool     `yaml:"exact,omitempty"    json:"exact,omitempty"`
	ScopeID        int      `yaml:"scope-id,omitempty" json:"scope-id,omitempty"`
}

func (q Query) String() string {
	var parts []string
	switch {
	case q.ID > 0:
		parts = append(parts, fmt.Sprintf("id=%d", q.ID))
	case q.Text != "":
		parts = append(parts, fmt.Sprintf("text=%q", q.Text))
	default:
		parts = append(parts, "focused")
	}
	if len(q.Roles) > 0 {
		parts = append(parts, "roles="+strings.Join(q.Roles, ","))
	}
	if q.Exact {
		parts = append(parts, "exact")
	}
	if q.ScopeID > 0 {
		parts = append(parts, fmt.Sprintf("scope-id=%d", q.ScopeID))
	}
	return strings.Join(parts, " ") + " in " + q.Scope.String()
}

// ParseQuery reads the targeting keys of record. Unknown keys are ignored.
func ParseQuery(record map[string]any) (Query, error) {
	var q Query
	var err error
	if q.Scope.App, err = stringField(record, KeyApp); err != nil {
		return q, err
	}
	if q.Scope.Window, err = stringField(record, KeyWindow); err != nil {
		return q, err
	}
	if q.Scope.WindowID, err = intField(record, KeyWindowID); err != nil {
		return q, err
	}
	if q.Scope.PID, err = intField(record, KeyPID); err != nil {
		return q, err
	}
	if q.ID, err = intField(record, KeyID); err != nil {
		return q, err
	}
	if q.Text, err = stringField(record, KeyText); err != nil {
		return q, err
	}
	if q.ScopeID, err = intField(record, KeyScopeID); err != nil {
		return q, err
	}
	if q.Roles, err = rolesField(record); err != nil {
		return q, err
	}
	if v, ok := record[KeyExact]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return q, fmt.Errorf("%q must be a boolean, got %T", KeyExact, v)
		}
		q.Exact = b
	}
	if q.ID < 0 || q.ScopeID < 0 {
		return q, fmt.Errorf("element ids must be positive")
	}
	return q, nil
}

func stringField(record map[string]any, key string) (string, error) {
	v, ok := record[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string, got %T", key, v)
	}
	return s, nil
}

func intField(record map[string]any, key string) (int, error) {
	v, ok := record[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, fmt.Errorf("%q must be an integer, got %v", key, v)
	}
	return n, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	}
	return 0, false
}

// rolesField accepts a comma-separated string or a list of strings and
// expands meta roles such as "interactive".
func rolesField(record map[string]any) ([]string, error) {
	v, ok := record[KeyRoles]
	if !ok || v == nil {
		return nil, nil
	}
	var roles []string
	switch r := v.(type) {
	case string:
		for _, role := range strings.Split(r, ",") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}
	case []string:
		roles = append(roles, r...)
	case []any:
		for _, item := range r {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%q entries must be strings, got %T", KeyRoles, item)
			}
			roles = append(roles, s)
		}
	default:
		return nil, fmt.Errorf("%q must be a string or a list, got %T", KeyRoles, v)
	}
	return model.ExpandRoles(roles), nil
}
