package output

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func sampleResult() ActionResult {
	return ActionResult{
		OK:          true,
		Action:      "getAttributes",
		Description: `GETATTRIBUTES WITH btn "<OK>" (id=4) in frontmost`,
		Result:      map[string]any{"label": "<OK>", "enabled": true},
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeYAML(&buf, sampleResult()); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	if strings.Count(output, "\n") <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", output)
	}

	var decoded ActionResult
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Action != "getAttributes" {
		t.Errorf("action: got %q, want %q", decoded.Action, "getAttributes")
	}
	if decoded.Result["label"] != "<OK>" {
		t.Errorf("result.label: got %v", decoded.Result["label"])
	}
}

func TestEncodeJSON_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleResult(), false); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	if strings.Count(output, "\n") != 1 {
		t.Errorf("compact JSON should be a single line, got:\n%s", output)
	}
	if !strings.Contains(output, `"label":"<OK>"`) {
		t.Errorf("expected unescaped HTML characters and sorted keys, got %s", output)
	}
	if strings.Index(output, `"enabled"`) > strings.Index(output, `"label"`) {
		t.Errorf("expected map keys sorted, got %s", output)
	}
}

func TestEncodeJSON_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleResult(), true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "\n  \"ok\": true") {
		t.Errorf("expected indented output, got:\n%s", buf.String())
	}
}

func TestActionResult_OmitEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, ActionResult{Action: "tap"}, false); err != nil {
		t.Fatal(err)
	}
	if got, want := buf.String(), "{\"ok\":false,\"action\":\"tap\"}\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPrint_Format(t *testing.T) {
	var buf bytes.Buffer
	oldWriter, oldFormat := Writer, OutputFormat
	defer func() { Writer, OutputFormat = oldWriter, oldFormat }()
	Writer = &buf

	OutputFormat = FormatJSON
	if err := Print(KindInfo{Kind: "tap", Summary: "Tap the element"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), `{"kind":"tap"`) {
		t.Errorf("expected JSON, got %q", buf.String())
	}

	buf.Reset()
	OutputFormat = FormatYAML
	if err := Print(KindInfo{Kind: "tap", Summary: "Tap the element"}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "kind: tap\n") {
		t.Errorf("expected YAML, got %q", buf.String())
	}

	OutputFormat = "xml"
	if err := Print(KindInfo{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
