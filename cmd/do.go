package cmd

import (
	"context"
	"fmt"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var doCmd = &cobra.Command{
	Use:   "do",
	Short: "Perform a sequence of actions",
	Long: `Perform a sequence of command records from a YAML list on stdin.

Each record has an "action" kind, optional "params", targeting keys and, for
scroll, a "while" condition. Records run one after another; by default the
batch stops at the first failure.

Example:
  desktop-invoke do --app "Safari" <<'EOF'
  - {action: tap, text: "Full Name"}
  - {action: typeText, params: ["John Doe"]}
  - {action: tap, text: "Country"}
  - {action: scroll, params: [100, down], id: 31, while: {text: "Spain"}}
  - {action: tap, text: "Spain", exact: true}
  - {action: tap, text: "Submit"}
  EOF`,
	RunE: runDo,
}

func init() {
	rootCmd.AddCommand(doCmd)
	addScopeFlags(doCmd)
	doCmd.Flags().Bool("stop-on-error", true, "Stop execution on first error (default: true)")
	doCmd.Flags().StringP("file", "f", "-", "Read records from a YAML file (\"-\" for stdin)")
}

func runDo(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	data, err := readInput(cmd, file)
	if err != nil {
		return err
	}
	records, err := parseRecords(data)
	if err != nil {
		return err
	}

	defaults := map[string]any{}
	applyFlags(cmd, defaults)
	for _, record := range records {
		applyScopeDefaults(record, defaults)
	}
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
	defer cancel()

	s, err := newSession(ctx, log, nil)
	if err != nil {
		return err
	}
	defer s.stop()

	result := executeBatch(ctx, func(ctx context.Context, record map[string]any) (output.ActionResult, error) {
		a, res, err := s.runner.RunCommand(ctx, record)
		return output.NewActionResult(record, a, res, err), err
	}, records, stopOnError)

	if err := output.Print(result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%d of %d actions failed", failures(result), result.Total)
	}
	return nil
}

// parseRecords decodes a YAML list of command records.
func parseRecords(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no actions provided")
	}
	for i, record := range records {
		if record == nil {
			return nil, fmt.Errorf("step %d: empty record", i+1)
		}
		if _, ok := record[action.KeyKind]; !ok {
			return nil, fmt.Errorf("step %d: missing %q", i+1, action.KeyKind)
		}
	}
	return records, nil
}

// applyScopeDefaults fills the batch's scope into a record that names no
// scope of its own.
func applyScopeDefaults(record, defaults map[string]any) {
	for _, key := range resolve.ScopeKeys {
		if _, ok := record[key]; ok {
			return
		}
	}
	for key, value := range defaults {
		record[key] = value
	}
}

// executeBatch runs records in order. A rejected record (decode failure or
// contract violation) always ends the batch; a reported failure ends it only
// when stopOnError is set.
func executeBatch(ctx context.Context, perform func(context.Context, map[string]any) (output.ActionResult, error), records []map[string]any, stopOnError bool) output.BatchResult {
	batch := output.BatchResult{OK: true, Total: len(records)}
	for _, record := range records {
		if ctx.Err() != nil {
			batch.OK = false
			break
		}
		result, err := perform(ctx, record)
		batch.Results = append(batch.Results, result)
		batch.Done++
		if !result.OK {
			batch.OK = false
			if err != nil || stopOnError {
				break
			}
		}
	}
	return batch
}

func failures(batch output.BatchResult) int {
	n := batch.Total - batch.Done
	for _, r := range batch.Results {
		if !r.OK {
			n++
		}
	}
	return n
}
