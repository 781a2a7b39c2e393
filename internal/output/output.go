package output

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Writer is where Print writes; tests swap it.
var Writer io.Writer = os.Stdout

// ActionResult is the output of a single performed action.
type ActionResult struct {
	OK          bool           `yaml:"ok"                    json:"ok"`
	Action      string         `yaml:"action"                json:"action"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Result      map[string]any `yaml:"result,omitempty"      json:"result,omitempty"`
	Error       string         `yaml:"error,omitempty"       json:"error,omitempty"`
}

// BatchResult is the output of a sequence of actions.
type BatchResult struct {
	OK      bool           `yaml:"ok"      json:"ok"`
	Total   int            `yaml:"total"   json:"total"`
	Done    int            `yaml:"done"    json:"done"`
	Results []ActionResult `yaml:"results" json:"results"`
}

// KindInfo describes one registered action kind.
type KindInfo struct {
	Kind    string `yaml:"kind"             json:"kind"`
	Params  string `yaml:"params,omitempty" json:"params,omitempty"`
	Summary string `yaml:"summary"          json:"summary"`
}

// Print serializes v to Writer in the current output format.
func Print(v interface{}) error {
	return Fprint(Writer, OutputFormat, v)
}

// Fprint serializes v to w in format.
func Fprint(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, v, PrettyOutput)
	case FormatYAML:
		return EncodeYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// EncodeJSON writes v as JSON without HTML escaping, single-line unless
// pretty is set.
func EncodeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// EncodeYAML writes v as YAML.
func EncodeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}
