package expect

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mj1618/desktop-invoke/internal/model"
	"github.com/mj1618/desktop-invoke/internal/platform"
	"github.com/mj1618/desktop-invoke/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildAssertTree is a small form.
//
//	root (id=1, group, title="App")
//	├── submitBtn (id=2, btn, title="Submit", enabled=true)
//	├── disabledBtn (id=3, btn, title="Save", enabled=false)
//	├── searchInput (id=4, input, title="Search", value="hello world", focused=true)
//	├── checkbox (id=5, chk, title="Remember me", selected=true)
//	├── uncheckedBox (id=6, chk, title="Agree to terms", selected=false)
//	└── statusText (id=7, txt, title="Status", value="Success")
func buildAssertTree() []model.Element {
	enabledTrue := true
	enabledFalse := false
	return []model.Element{
		{
			ID: 1, Role: "group", Title: "App",
			Children: []model.Element{
				{ID: 2, Role: "btn", Title: "Submit", Enabled: &enabledTrue},
				{ID: 3, Role: "btn", Title: "Save", Enabled: &enabledFalse},
				{ID: 4, Role: "input", Title: "Search", Value: "hello world", Focused: true},
				{ID: 5, Role: "chk", Title: "Remember me", Selected: true},
				{ID: 6, Role: "chk", Title: "Agree to terms", Selected: false},
				{ID: 7, Role: "txt", Title: "Status", Value: "Success"},
			},
		},
	}
}

func strPtr(s string) *string { return &s }

func TestCheck(t *testing.T) {
	tree := buildAssertTree()
	tests := []struct {
		name string
		id   int
		e    Expectation
		pass bool
	}{
		{"value match", 4, Expectation{Value: strPtr("hello world")}, true},
		{"value mismatch", 4, Expectation{Value: strPtr("wrong")}, false},
		{"empty value on filled element", 4, Expectation{Value: strPtr("")}, false},
		{"value contains, case-insensitive", 4, Expectation{ValueContains: "WORLD"}, true},
		{"value contains miss", 4, Expectation{ValueContains: "xyz"}, false},
		{"checked", 5, Expectation{Checked: true}, true},
		{"checked on unchecked", 6, Expectation{Checked: true}, false},
		{"unchecked", 6, Expectation{Unchecked: true}, true},
		{"unchecked on checked", 5, Expectation{Unchecked: true}, false},
		{"disabled", 3, Expectation{Disabled: true}, true},
		{"disabled on enabled", 2, Expectation{Disabled: true}, false},
		{"enabled", 2, Expectation{Enabled: true}, true},
		{"enabled when unspecified", 7, Expectation{Enabled: true}, true},
		{"enabled on disabled", 3, Expectation{Enabled: true}, false},
		{"focused", 4, Expectation{Focused: true}, true},
		{"focused miss", 2, Expectation{Focused: true}, false},
		{"no assertions", 7, Expectation{}, true},
		{"combined", 4, Expectation{ValueContains: "hello", Focused: true, Enabled: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Check(model.FindByID(tree, tt.id))
			if tt.pass {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

type fakeReader struct {
	trees [][]model.Element
	reads int
}

func (r *fakeReader) ReadElements(platform.ReadOptions) ([]model.Element, error) {
	r.reads++
	return r.trees[min(r.reads, len(r.trees))-1], nil
}

func finderFor(trees ...[]model.Element) (*resolve.Resolver, *fakeReader) {
	reader := &fakeReader{trees: trees}
	return resolve.New(reader, 0, nil), reader
}

func TestEvaluate_Exists(t *testing.T) {
	finder, _ := finderFor(buildAssertTree())
	cond, err := Parser{Finder: finder}.ParseCondition(context.Background(), map[string]any{"text": "Status"}, nil)
	require.NoError(t, err)
	assert.NoError(t, cond.Evaluate(context.Background()))

	cond, err = Parser{Finder: finder}.ParseCondition(context.Background(), map[string]any{"text": "Footer"}, nil)
	require.NoError(t, err)
	err = cond.Evaluate(context.Background())
	assert.ErrorIs(t, err, resolve.ErrNotFound)
	assert.EqualError(t, err, `no element found matching text "Footer"`)
}

func TestEvaluate_ReadsLiveTree(t *testing.T) {
	before := []model.Element{{ID: 1, Role: "txt", Title: "Header"}}
	after := []model.Element{{ID: 1, Role: "txt", Title: "Header"}, {ID: 2, Role: "txt", Title: "Footer"}}
	finder, reader := finderFor(before, before, after)

	cond, err := Parser{Finder: finder}.ParseCondition(context.Background(), map[string]any{"text": "Footer"}, nil)
	require.NoError(t, err)
	assert.Error(t, cond.Evaluate(context.Background()))
	assert.Error(t, cond.Evaluate(context.Background()))
	assert.NoError(t, cond.Evaluate(context.Background()))
	assert.Equal(t, 3, reader.reads)
}

func TestEvaluate_Gone(t *testing.T) {
	finder, _ := finderFor(buildAssertTree())
	gone, err := Parse(map[string]any{"text": "Spinner", "gone": true}, nil)
	require.NoError(t, err)
	gone.finder = finder
	assert.NoError(t, gone.Evaluate(context.Background()))

	present, err := Parse(map[string]any{"text": "Submit", "gone": true}, nil)
	require.NoError(t, err)
	present.finder = finder
	err = present.Evaluate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected element to be gone")
}

type errFinder struct{ err error }

func (f errFinder) FindFresh(context.Context, resolve.Query) (*resolve.Target, error) {
	return nil, f.err
}

func TestEvaluate_GoneReadFailure(t *testing.T) {
	readErr := fmt.Errorf("failed to read elements: %w", errors.New("app not running"))
	e, err := Parse(map[string]any{"id": 3, "gone": true}, nil)
	require.NoError(t, err)
	e.finder = errFinder{err: readErr}
	assert.ErrorIs(t, e.Evaluate(context.Background()), readErr)
}

func TestEvaluate_NoFinder(t *testing.T) {
	e, err := Parse(map[string]any{"id": 3}, nil)
	require.NoError(t, err)
	assert.Error(t, e.Evaluate(context.Background()))
}

func TestParse(t *testing.T) {
	e, err := Parse(map[string]any{
		"text":           "Search",
		"value":          "",
		"value-contains": "hello",
		"focused":        true,
		"enabled":        false,
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, e.Value)
	assert.Equal(t, "", *e.Value)
	assert.Equal(t, "hello", e.ValueContains)
	assert.True(t, e.Focused)
	assert.False(t, e.Enabled)
	assert.Equal(t, `text="Search" in frontmost value="" value-contains="hello" focused`, e.String())
}

func TestParse_Errors(t *testing.T) {
	for _, record := range []map[string]any{
		{},
		{"value": "x"},
		{"text": "a", "value": 3},
		{"text": "a", "value-contains": true},
		{"text": "a", "checked": "yes"},
		{"text": "a", "checked": true, "unchecked": true},
		{"text": "a", "enabled": true, "disabled": true},
		{"text": 7},
	} {
		_, err := Parse(record, nil)
		assert.Error(t, err, "%v", record)
	}
}

func TestParse_InheritsScope(t *testing.T) {
	parent := map[string]any{"action": "scroll", "app": "Notes", "window": "Doc", "text": "List"}

	e, err := Parse(map[string]any{"text": "Footer"}, parent)
	require.NoError(t, err)
	assert.Equal(t, platform.Scope{App: "Notes", Window: "Doc"}, e.Query.Scope)
	assert.Equal(t, "Footer", e.Query.Text)

	e, err = Parse(map[string]any{"text": "Footer", "pid": 12}, parent)
	require.NoError(t, err)
	assert.Equal(t, platform.Scope{PID: 12}, e.Query.Scope, "explicit scope replaces the parent's")
}

func TestExpectation_String(t *testing.T) {
	e := &Expectation{Query: resolve.Query{ID: 5}}
	assert.Equal(t, "id=5 in frontmost exists", e.String())
	e.Checked, e.Gone = true, true
	assert.Equal(t, "id=5 in frontmost checked gone", e.String())
}
