package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"perform", "do", "kinds", "read", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestTargetingFlags(t *testing.T) {
	flags := performCmd.Flags()

	tests := []struct {
		name     string
		flagType string
	}{
		{"app", "string"},
		{"window", "string"},
		{"window-id", "int"},
		{"pid", "int"},
		{"id", "int"},
		{"text", "string"},
		{"roles", "string"},
		{"exact", "bool"},
		{"scope-id", "int"},
		{"params", "string"},
		{"while", "string"},
		{"file", "string"},
	}

	for _, tt := range tests {
		f := flags.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected flag %q not found", tt.name)
			continue
		}
		if f.Value.Type() != tt.flagType {
			t.Errorf("flag %q: expected type %q, got %q", tt.name, tt.flagType, f.Value.Type())
		}
	}
}
