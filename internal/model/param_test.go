package model

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseParam_Variants(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want ParamKind
	}{
		{"int", 3, ParamInteger},
		{"float", 1.5, ParamNumber},
		{"json integer", json.Number("7"), ParamInteger},
		{"json float", json.Number("0.25"), ParamNumber},
		{"string", "up", ParamString},
		{"point", map[string]any{"x": 1.0, "y": 2}, ParamPoint},
		{"map", map[string]any{"key": "v"}, ParamMap},
		{"null", nil, ParamNumber},
		{"bool", true, ParamRaw},
		{"list", []any{1}, ParamRaw},
		{"huge uint", uint64(math.MaxUint64), ParamNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseParam(tt.raw).Kind())
		})
	}
}

func TestParseParam_NullIsNaN(t *testing.T) {
	f, ok := ParseParam(nil).Float()
	require.True(t, ok)
	assert.True(t, math.IsNaN(f))
}

func TestParseParam_RawRefusedByAccessors(t *testing.T) {
	for _, raw := range []any{true, []any{1}, struct{}{}, map[any]any{1: "x"}} {
		p := ParseParam(raw)
		if p.Kind() != ParamRaw {
			t.Errorf("ParseParam(%v): got kind %s, want raw", raw, p.Kind())
		}
		if _, ok := p.Float(); ok {
			t.Errorf("raw %v read as number", raw)
		}
		if _, ok := p.Int(); ok {
			t.Errorf("raw %v read as integer", raw)
		}
		if _, ok := p.Text(); ok {
			t.Errorf("raw %v read as string", raw)
		}
		if _, ok := p.Point(); ok {
			t.Errorf("raw %v read as point", raw)
		}
		if _, ok := p.Map(); ok {
			t.Errorf("raw %v read as map", raw)
		}
	}
}

func TestParams_RawSkippedWhenOptional(t *testing.T) {
	params, err := ParseParams([]any{"up", true, 1.0})
	require.NoError(t, err)

	_, ok := params.OptText(1)
	assert.False(t, ok)
	_, err = params.Text(1)
	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "params[1]: expected string, got raw true", err.Error())
}

func TestParams_IntOutOfRange(t *testing.T) {
	params, err := ParseParams([]any{1e300, -1e300, uint64(math.MaxUint64), json.Number("99999999999999999999")})
	require.NoError(t, err)
	for i := range params {
		_, err := params.Int(i)
		var pe *ParamError
		if !errors.As(err, &pe) {
			t.Errorf("params[%d]: expected ParamError, got %v", i, err)
		}
	}

	params, err = ParseParams([]any{float64(1 << 30), int64(-5)})
	require.NoError(t, err)
	n, err := params.Int(0)
	require.NoError(t, err)
	assert.Equal(t, 1<<30, n)
	n, err = params.Int(1)
	require.NoError(t, err)
	assert.Equal(t, -5, n)
}

func TestParseParams_FromYAML(t *testing.T) {
	var record map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(`params: [50, "down", 0.5, {x: 1, y: 2}]`), &record))

	params, err := ParseParams(record["params"])
	require.NoError(t, err)
	require.Len(t, params, 4)

	px, err := params.Float(0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, px)

	dir, err := params.Text(1)
	require.NoError(t, err)
	assert.Equal(t, "down", dir)

	pt, ok := params.OptPoint(3)
	require.True(t, ok)
	assert.Equal(t, Point{X: 1, Y: 2}, pt)
}

func TestParseParams_NotAList(t *testing.T) {
	_, err := ParseParams("up")
	assert.Error(t, err)

	params, err := ParseParams(nil)
	assert.NoError(t, err)
	assert.Nil(t, params)
}

func TestParams_NumericWidening(t *testing.T) {
	params := Params{IntegerParam(3), NumberParam(2.0), NumberParam(2.5)}

	f, err := params.Float(0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	n, err := params.Int(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = params.Int(2)
	assert.Error(t, err, "non-integral number must not narrow to integer")
}

func TestParams_RequiredErrors(t *testing.T) {
	params := Params{StringParam("fast")}

	_, err := params.Float(0)
	var pe *ParamError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, pe.Index)
	assert.Equal(t, ParamNumber, pe.Want)
	require.NotNil(t, pe.Got)

	_, err = params.Text(1)
	require.True(t, errors.As(err, &pe))
	assert.Nil(t, pe.Got)
	assert.Contains(t, err.Error(), "missing required string")
}

func TestParams_OptionalMismatchIsAbsent(t *testing.T) {
	params := Params{StringParam("x")}
	_, ok := params.OptFloat(0)
	assert.False(t, ok)
	_, ok = params.OptText(5)
	assert.False(t, ok)
}

func TestParams_String(t *testing.T) {
	params := Params{StringParam("up"), IntegerParam(2), NumberParam(0.5)}
	assert.Equal(t, `"up", 2, 0.5`, params.String())
}
