package indicator

import (
	"fmt"
	"math"
	"strings"
)

// Value is the immutable indicator output for one bar. Single-line indicators hold one
// component; band and oscillator indicators hold several. Components are NaN while the
// indicator warms up.
type Value struct {
	components []float64
}

// Scalar creates a single-component value.
func Scalar(v float64) Value {
	return Value{components: []float64{v}}
}

// Tuple creates a multi-component value.
func Tuple(vs ...float64) Value {
	components := make([]float64, len(vs))
	copy(components, vs)

	return Value{components: components}
}

// Undefined creates a warm-up value with n NaN components.
func Undefined(n int) Value {
	components := make([]float64, n)
	for i := range components {
		components[i] = math.NaN()
	}

	return Value{components: components}
}

// Float returns the first component.
func (v Value) Float() float64 {
	return v.At(0)
}

// At returns component i, or NaN when out of range.
func (v Value) At(i int) float64 {
	if i < 0 || i >= len(v.components) {
		return math.NaN()
	}

	return v.components[i]
}

func (v Value) Len() int {
	return len(v.components)
}

// IsNaN reports whether any component is still undefined.
func (v Value) IsNaN() bool {
	if len(v.components) == 0 {
		return true
	}

	for _, c := range v.components {
		if math.IsNaN(c) {
			return true
		}
	}

	return false
}

// Equal compares component-wise within tol. NaN equals NaN.
func (v Value) Equal(other Value, tol float64) bool {
	if len(v.components) != len(other.components) {
		return false
	}

	for i, c := range v.components {
		o := other.components[i]
		if math.IsNaN(c) || math.IsNaN(o) {
			if math.IsNaN(c) != math.IsNaN(o) {
				return false
			}

			continue
		}

		if math.Abs(c-o) > tol {
			return false
		}
	}

	return true
}

func (v Value) String() string {
	if len(v.components) == 1 {
		return fmt.Sprintf("%g", v.components[0])
	}

	parts := make([]string, len(v.components))
	for i, c := range v.components {
		parts[i] = fmt.Sprintf("%g", c)
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

// Series is a read-only view over indicator values.
type Series struct {
	values []Value
}

func (s Series) Len() int {
	return len(s.values)
}

// At returns the value at index i. Negative indices count from the end.
func (s Series) At(i int) Value {
	if i < 0 {
		i += len(s.values)
	}

	if i < 0 || i >= len(s.values) {
		return Value{components: nil}
	}

	return s.values[i]
}

// Last returns the most recent value and false when the series is empty.
func (s Series) Last() (Value, bool) {
	if len(s.values) == 0 {
		return Value{components: nil}, false
	}

	return s.values[len(s.values)-1], true
}

// Floats returns one component of every value.
func (s Series) Floats(component int) []float64 {
	out := make([]float64, len(s.values))
	for i, v := range s.values {
		out[i] = v.At(component)
	}

	return out
}
