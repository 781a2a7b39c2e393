package model

import (
	"fmt"
	"math"
)

// Point is a two-dimensional value. Depending on context it holds screen
// pixels, an element-relative offset, or a normalized fraction of an extent.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Scale returns p with both coordinates multiplied by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// IsNaN reports whether either coordinate is NaN.
func (p Point) IsNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}
