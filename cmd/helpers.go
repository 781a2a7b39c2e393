package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// addScopeFlags adds the window scoping flags shared by every command that
// touches the desktop.
func addScopeFlags(cmd *cobra.Command) {
	cmd.Flags().String(resolve.KeyApp, "", "Scope to application")
	cmd.Flags().String(resolve.KeyWindow, "", "Scope to window title substring")
	cmd.Flags().Int(resolve.KeyWindowID, 0, "Scope to a system window ID")
	cmd.Flags().Int(resolve.KeyPID, 0, "Scope to a process ID")
}

// addTargetingFlags adds --id, --text, --roles, --exact and --scope-id for
// element targeting, plus the scope flags.
func addTargetingFlags(cmd *cobra.Command) {
	addScopeFlags(cmd)
	cmd.Flags().Int(resolve.KeyID, 0, "Target element by ID (from a tree read)")
	cmd.Flags().String(resolve.KeyText, "", "Target element by title/value/description text")
	cmd.Flags().String(resolve.KeyRoles, "", "Filter text matches by role (e.g. \"btn\", \"btn,lnk\", \"interactive\")")
	cmd.Flags().Bool(resolve.KeyExact, false, "Require exact match on title/value/description (default: substring)")
	cmd.Flags().Int(resolve.KeyScopeID, 0, "Limit text search to descendants of this element ID")
}

// applyFlags copies every changed targeting or scope flag into record.
func applyFlags(cmd *cobra.Command, record map[string]any) {
	for _, key := range []string{resolve.KeyApp, resolve.KeyWindow, resolve.KeyText, resolve.KeyRoles} {
		if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
			record[key], _ = cmd.Flags().GetString(key)
		}
	}
	for _, key := range []string{resolve.KeyWindowID, resolve.KeyPID, resolve.KeyID, resolve.KeyScopeID} {
		if f := cmd.Flags().Lookup(key); f != nil && f.Changed {
			record[key], _ = cmd.Flags().GetInt(key)
		}
	}
	if f := cmd.Flags().Lookup(resolve.KeyExact); f != nil && f.Changed {
		record[resolve.KeyExact], _ = cmd.Flags().GetBool(resolve.KeyExact)
	}
}

// parseScalar reads a command-line argument as a YAML value, so "50" is a
// number, "~" is null and "{x: 5, y: 3}" is a map. Anything that is not
// valid YAML stays a string.
func parseScalar(arg string) any {
	var v any
	if err := yaml.Unmarshal([]byte(arg), &v); err != nil {
		return arg
	}
	return v
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no input provided")
	}
	return data, nil
}
