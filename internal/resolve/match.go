package resolve

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-invoke/internal/model"
)

// collectLeafMatches collects elements whose title, value or description
// match text, optionally filtered by role. Only the deepest matches are
// returned: a parent is dropped when one of its children matches too.
func collectLeafMatches(elements []model.Element, textLower string, roles map[string]bool, exact bool) []*model.Element {
	var results []*model.Element
	for i := range elements {
		el := &elements[i]
		childMatches := collectLeafMatches(el.Children, textLower, roles, exact)
		selfMatch := textMatchesElement(*el, textLower, exact) && (len(roles) == 0 || roles[el.Role])
		if selfMatch && len(childMatches) == 0 {
			results = append(results, el)
		} else {
			results = append(results, childMatches...)
		}
	}
	return results
}

func textMatchesElement(el model.Element, textLower string, exact bool) bool {
	if exact {
		return exactFieldMatch(el.Title, textLower) ||
			exactFieldMatch(el.Value, textLower) ||
			exactFieldMatch(el.Description, textLower)
	}
	return strings.Contains(strings.ToLower(el.Title), textLower) ||
		strings.Contains(strings.ToLower(el.Value), textLower) ||
		strings.Contains(strings.ToLower(el.Description), textLower)
}

// exactFieldMatch compares case-insensitively, also accepting field with a
// trailing parenthetical such as a shortcut hint " (⌘Enter)" removed.
func exactFieldMatch(field, textLower string) bool {
	if strings.EqualFold(field, textLower) {
		return true
	}
	if idx := strings.LastIndex(field, "("); idx > 0 && strings.HasSuffix(strings.TrimRight(field, "\u202c"), ")") {
		stripped := strings.TrimRight(field[:idx], " \u202a")
		return strings.EqualFold(stripped, textLower)
	}
	return false
}

// narrowByFocus keeps the matches sharing the deepest common ancestor with
// the focused element, so a match inside the focused dialog wins over one in
// the window behind it.
func narrowByFocus(elements []model.Element, matches []*model.Element) []*model.Element {
	focused := model.FindFocused(elements)
	if focused == nil {
		return matches
	}
	focusPath := pathToID(elements, focused.ID)
	if len(focusPath) == 0 {
		return matches
	}

	best := 0
	scores := make([]int, len(matches))
	for i, m := range matches {
		scores[i] = commonPrefixLen(focusPath, pathToID(elements, m.ID))
		best = max(best, scores[i])
	}
	if best == 0 {
		return matches
	}

	var narrowed []*model.Element
	for i, m := range matches {
		if scores[i] == best {
			narrowed = append(narrowed, m)
		}
	}
	return narrowed
}

// staticRoles are display-only roles, deprioritized when an interactive
// element matches the same text.
var staticRoles = map[string]bool{
	"txt":   true,
	"img":   true,
	"group": true,
	"other": true,
}

// preferInteractive drops static matches when the set mixes both kinds.
func preferInteractive(matches []*model.Element) []*model.Element {
	var interactive []*model.Element
	for _, m := range matches {
		if !staticRoles[m.Role] {
			interactive = append(interactive, m)
		}
	}
	if len(interactive) > 0 && len(interactive) < len(matches) {
		return interactive
	}
	return matches
}

// pathToID returns the element ids from the root down to targetID.
func pathToID(elements []model.Element, targetID int) []int {
	for i := range elements {
		if elements[i].ID == targetID {
			return []int{elements[i].ID}
		}
		if childPath := pathToID(elements[i].Children, targetID); childPath != nil {
			return append([]int{elements[i].ID}, childPath...)
		}
	}
	return nil
}

// rolePath renders the role chain to targetID, e.g. "window > group > btn".
func rolePath(elements []model.Element, targetID int) string {
	var walk func([]model.Element) []string
	walk = func(elements []model.Element) []string {
		for i := range elements {
			if elements[i].ID == targetID {
				return []string{elements[i].Role}
			}
			if child := walk(elements[i].Children); child != nil {
				return append([]string{elements[i].Role}, child...)
			}
		}
		return nil
	}
	return strings.Join(walk(elements), " > ")
}

func commonPrefixLen(a, b []int) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// ambiguous builds the multiple-match error with enough context (bounds,
// path) to refine the query without another read.
func ambiguous(elements []model.Element, q Query, matches []*model.Element) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d elements match text %q", len(matches), q.Text)
	if len(q.Roles) > 0 {
		fmt.Fprintf(&b, " with roles %q", strings.Join(q.Roles, ","))
	}
	b.WriteString("; narrow with id, exact, or scope-id:\n")
	for _, m := range matches {
		fmt.Fprintf(&b, "  id=%d %s (%d,%d,%d,%d)", m.ID, m.Role,
			m.Bounds[0], m.Bounds[1], m.Bounds[2], m.Bounds[3])
		if m.Title != "" {
			fmt.Fprintf(&b, " title=%q", m.Title)
		}
		if m.Description != "" {
			fmt.Fprintf(&b, " desc=%q", m.Description)
		}
		if path := rolePath(elements, m.ID); path != "" {
			fmt.Fprintf(&b, " path=%q", path)
		}
		b.WriteByte('\n')
	}
	return fmt.Errorf("%w: %s", ErrAmbiguous, strings.TrimRight(b.String(), "\n"))
}
