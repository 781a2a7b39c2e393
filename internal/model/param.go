package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParamKind identifies which variant a Param holds.
type ParamKind int

const (
	ParamNumber ParamKind = iota + 1
	ParamInteger
	ParamString
	ParamPoint
	ParamMap
	// ParamRaw holds a value outside the other variants, such as a bool.
	// Every typed accessor refuses it.
	ParamRaw
)

func (k ParamKind) String() string {
	switch k {
	case ParamNumber:
		return "number"
	case ParamInteger:
		return "integer"
	case ParamString:
		return "string"
	case ParamPoint:
		return "point"
	case ParamMap:
		return "map"
	case ParamRaw:
		return "raw"
	default:
		return "unknown"
	}
}

// Param is a decoded action argument. Exactly one variant is populated,
// selected by Kind.
type Param struct {
	kind ParamKind
	num  float64
	str  string
	pt   Point
	m    map[string]any
	raw  any
}

func NumberParam(f float64) Param     { return Param{kind: ParamNumber, num: f} }
func IntegerParam(i int) Param        { return Param{kind: ParamInteger, num: float64(i)} }
func StringParam(s string) Param      { return Param{kind: ParamString, str: s} }
func PointParam(p Point) Param        { return Param{kind: ParamPoint, pt: p} }
func MapParam(m map[string]any) Param { return Param{kind: ParamMap, m: m} }
func RawParam(v any) Param            { return Param{kind: ParamRaw, raw: v} }

// Kind returns the variant held by p.
func (p Param) Kind() ParamKind { return p.kind }

// Float reads p as a floating-point number. Integers widen.
func (p Param) Float() (float64, bool) {
	if p.kind == ParamNumber || p.kind == ParamInteger {
		return p.num, true
	}
	return 0, false
}

// Int reads p as an integer. Numbers with an integral value in the range
// of int narrow.
func (p Param) Int() (int, bool) {
	switch p.kind {
	case ParamInteger:
		return int(p.num), true
	case ParamNumber:
		if p.num == math.Trunc(p.num) && p.num >= math.MinInt && p.num < -float64(math.MinInt) {
			return int(p.num), true
		}
	}
	return 0, false
}

// Text reads p as a string.
func (p Param) Text() (string, bool) {
	if p.kind == ParamString {
		return p.str, true
	}
	return "", false
}

// Point reads p as a point.
func (p Param) Point() (Point, bool) {
	if p.kind == ParamPoint {
		return p.pt, true
	}
	return Point{}, false
}

// Map reads p as a key-value map. Points are returned as {x, y}.
func (p Param) Map() (map[string]any, bool) {
	switch p.kind {
	case ParamMap:
		return p.m, true
	case ParamPoint:
		return map[string]any{"x": p.pt.X, "y": p.pt.Y}, true
	}
	return nil, false
}

// String renders p for action descriptions; strings are quoted.
func (p Param) String() string {
	switch p.kind {
	case ParamNumber:
		return strconv.FormatFloat(p.num, 'g', -1, 64)
	case ParamInteger:
		return strconv.Itoa(int(p.num))
	case ParamString:
		return strconv.Quote(p.str)
	case ParamPoint:
		return fmt.Sprintf("[x: %g, y: %g]", p.pt.X, p.pt.Y)
	case ParamMap:
		return fmt.Sprintf("%v", p.m)
	case ParamRaw:
		return fmt.Sprintf("%v", p.raw)
	default:
		return "<invalid>"
	}
}

// ParseParam decodes a single raw value, as produced by a YAML or JSON
// decoder, into a Param. A null decodes to a NaN number. Values that fit no
// other variant, and integers outside the range of int, are kept as raw or
// number params so that the consuming action decides whether they matter.
func ParseParam(raw any) Param {
	switch v := raw.(type) {
	case nil:
		return NumberParam(math.NaN())
	case int:
		return IntegerParam(v)
	case int32:
		return IntegerParam(int(v))
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			return NumberParam(float64(v))
		}
		return IntegerParam(int(v))
	case uint:
		if v > math.MaxInt {
			return NumberParam(float64(v))
		}
		return IntegerParam(int(v))
	case uint64:
		if v > math.MaxInt {
			return NumberParam(float64(v))
		}
		return IntegerParam(int(v))
	case float32:
		return NumberParam(float64(v))
	case float64:
		return NumberParam(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return ParseParam(i)
		}
		if f, err := v.Float64(); err == nil {
			return NumberParam(f)
		}
		return RawParam(v)
	case string:
		return StringParam(v)
	case map[string]any:
		return parseMapParam(v)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			ks, ok := k.(string)
			if !ok {
				return RawParam(v)
			}
			m[ks] = val
		}
		return parseMapParam(m)
	default:
		return RawParam(raw)
	}
}

// parseMapParam returns a point when the map carries numeric x and y entries.
func parseMapParam(m map[string]any) Param {
	x, okX := rawFloat(m["x"])
	y, okY := rawFloat(m["y"])
	if okX && okY {
		return PointParam(Point{X: x, Y: y})
	}
	return MapParam(m)
}

func rawFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Params is the ordered argument list of an action.
type Params []Param

// ParseParams decodes a raw parameter list. A nil input yields nil params;
// anything other than a list is an error.
func ParseParams(raw any) (Params, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("params must be a list, got %T", raw)
	}
	params := make(Params, 0, len(list))
	for _, item := range list {
		params = append(params, ParseParam(item))
	}
	return params, nil
}

// ParamError reports a required parameter that is missing or holds the
// wrong variant.
type ParamError struct {
	Index int
	Want  ParamKind
	Got   *Param // nil when the position is absent
}

func (e *ParamError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("params[%d]: missing required %s parameter", e.Index, e.Want)
	}
	return fmt.Sprintf("params[%d]: expected %s, got %s %s", e.Index, e.Want, e.Got.Kind(), e.Got)
}

// At returns the parameter at position i, if present.
func (ps Params) At(i int) (Param, bool) {
	if i < 0 || i >= len(ps) {
		return Param{}, false
	}
	return ps[i], true
}

func (ps Params) mismatch(i int, want ParamKind) error {
	if p, ok := ps.At(i); ok {
		return &ParamError{Index: i, Want: want, Got: &p}
	}
	return &ParamError{Index: i, Want: want}
}

// Float returns the required number at position i.
func (ps Params) Float(i int) (float64, error) {
	p, _ := ps.At(i)
	if f, ok := p.Float(); ok {
		return f, nil
	}
	return 0, ps.mismatch(i, ParamNumber)
}

// Int returns the required integer at position i.
func (ps Params) Int(i int) (int, error) {
	p, _ := ps.At(i)
	if n, ok := p.Int(); ok {
		return n, nil
	}
	return 0, ps.mismatch(i, ParamInteger)
}

// Text returns the required string at position i.
func (ps Params) Text(i int) (string, error) {
	p, _ := ps.At(i)
	if s, ok := p.Text(); ok {
		return s, nil
	}
	return "", ps.mismatch(i, ParamString)
}

// OptFloat returns the number at position i. ok is false when the position
// is absent or holds another variant.
func (ps Params) OptFloat(i int) (f float64, ok bool) {
	p, _ := ps.At(i)
	return p.Float()
}

// OptText returns the string at position i, if present.
func (ps Params) OptText(i int) (string, bool) {
	p, _ := ps.At(i)
	return p.Text()
}

// OptPoint returns the point at position i, if present.
func (ps Params) OptPoint(i int) (Point, bool) {
	p, _ := ps.At(i)
	return p.Point()
}

// String renders the list as a comma-separated description.
func (ps Params) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}
