package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read",
	Short: "Read the UI element tree",
	Long: `Read a window's element tree from the OS accessibility layer.

The element IDs in the output are the values accepted by --id and --scope-id.`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)
	addScopeFlags(readCmd)
	readCmd.Flags().Int("depth", 0, "Max depth to traverse (0 = unlimited)")
}

func runRead(cmd *cobra.Command, args []string) error {
	record := map[string]any{}
	applyFlags(cmd, record)
	q, err := resolve.ParseQuery(record)
	if err != nil {
		return err
	}
	if q.Scope.IsZero() {
		return fmt.Errorf("one of --app, --window, --window-id or --pid is required")
	}
	depth, _ := cmd.Flags().GetInt("depth")

	provider, err := newProvider()
	if err != nil {
		return err
	}
	if provider.Reader == nil {
		return fmt.Errorf("reading the element tree is not available on this platform")
	}
	elements, err := provider.Reader.ReadElements(platform.ReadOptions{Scope: q.Scope, Depth: depth})
	if err != nil {
		return fmt.Errorf("failed to read elements: %w", err)
	}
	return output.Print(elements)
}
