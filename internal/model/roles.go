package model

// MetaRoles maps meta-role names to the concrete roles they expand to.
// "interactive" covers roles that accept user input, including web app
// fields exposed as "other".
var MetaRoles = map[string][]string{
	"interactive": {"btn", "lnk", "input", "other", "chk", "toggle", "radio", "list", "menuitem"},
	"scrollable":  {"scroll", "list", "web"},
}

// ExpandRoles expands any meta-roles in the given list to their concrete roles.
// Non-meta roles are passed through unchanged. Duplicates are removed.
func ExpandRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var expanded []string
	for _, r := range roles {
		concrete, ok := MetaRoles[r]
		if !ok {
			concrete = []string{r}
		}
		for _, c := range concrete {
			if !seen[c] {
				seen[c] = true
				expanded = append(expanded, c)
			}
		}
	}
	return expanded
}

// IsInteractiveRole reports whether role belongs to the "interactive" meta-role.
func IsInteractiveRole(role string) bool {
	for _, r := range MetaRoles["interactive"] {
		if r == role {
			return true
		}
	}
	return false
}
