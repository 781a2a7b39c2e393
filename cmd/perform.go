package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mj1618/desktop-invoke/internal/action"
	"github.com/mj1618/desktop-invoke/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var performCmd = &cobra.Command{
	Use:   "perform <kind> [params...]",
	Short: "Perform one action on an element",
	Long: `Perform a single action on a UI element.

The first argument is the action kind; the rest are its parameters, each read
as a YAML value ("50" is a number, "{x: 5, y: 3}" a point). Use "kinds" to
list the supported kinds and their parameters.

The whole command can also be given as a YAML record with --file.

Examples:
  desktop-invoke perform tap --app "Calculator" --text "7"
  desktop-invoke perform typeText "hello" --app "TextEdit" --roles input
  desktop-invoke perform tap "{x: 5, y: 5}" --app "Safari" --id 12
  desktop-invoke perform scroll 50 down --app "Mail" --id 4 --while '{text: "Inbox"}'
  desktop-invoke perform -f step.yaml`,
	Args: cobra.ArbitraryArgs,
	RunE: runPerform,
}

func init() {
	rootCmd.AddCommand(performCmd)
	addTargetingFlags(performCmd)
	addRecordFlags(performCmd)
}

// addRecordFlags adds the flags that supply a command record's parameters,
// condition or whole body.
func addRecordFlags(cmd *cobra.Command) {
	cmd.Flags().String("params", "", "Parameters as a YAML list (e.g. \"[50, down]\")")
	cmd.Flags().String("while", "", "Scroll condition as a YAML map (e.g. '{text: \"Done\", enabled: true}')")
	cmd.Flags().StringP("file", "f", "", "Read the command record from a YAML file (\"-\" for stdin)")
}

func runPerform(cmd *cobra.Command, args []string) error {
	record, err := buildRecord(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
	defer cancel()

	s, err := newSession(ctx, log, nil)
	if err != nil {
		return err
	}
	defer s.stop()

	a, res, err := s.runner.RunCommand(ctx, record)
	result := output.NewActionResult(record, a, res, err)
	if printErr := output.Print(result); printErr != nil {
		return printErr
	}
	if log.IsDebugEnabled() {
		log.Outcome(os.Stderr, result.Description, firstErr(err, res.Err))
	}
	if !result.OK {
		return fmt.Errorf("%s failed: %s", result.Action, result.Error)
	}
	return nil
}

// buildRecord assembles a command record from --file, positional arguments
// and flags, in that order of precedence from lowest to highest.
func buildRecord(cmd *cobra.Command, args []string) (map[string]any, error) {
	record := map[string]any{}

	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := readInput(cmd, file)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &record); err != nil {
			return nil, fmt.Errorf("invalid command record: %w", err)
		}
		if record == nil {
			record = map[string]any{}
		}
	}

	if len(args) > 0 {
		record[action.KeyKind] = args[0]
		if len(args) > 1 {
			params := make([]any, len(args)-1)
			for i, arg := range args[1:] {
				params[i] = parseScalar(arg)
			}
			record[action.KeyParams] = params
		}
	}
	if _, ok := record[action.KeyKind]; !ok {
		return nil, fmt.Errorf("an action kind is required (see \"desktop-invoke kinds\")")
	}

	if raw, _ := cmd.Flags().GetString("params"); raw != "" {
		if len(args) > 1 {
			return nil, fmt.Errorf("--params cannot be combined with positional parameters")
		}
		var params []any
		if err := yaml.Unmarshal([]byte(raw), &params); err != nil {
			return nil, fmt.Errorf("invalid --params: %w", err)
		}
		record[action.KeyParams] = params
	}

	if raw, _ := cmd.Flags().GetString("while"); raw != "" {
		var cond map[string]any
		if err := yaml.Unmarshal([]byte(raw), &cond); err != nil {
			return nil, fmt.Errorf("invalid --while: %w", err)
		}
		record[action.KeyWhile] = cond
	}

	applyFlags(cmd, record)
	return record, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
