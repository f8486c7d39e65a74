package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	v := Scalar(1.5)
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, 1.5, v.Float())
	assert.False(t, v.IsNaN())
	assert.True(t, math.IsNaN(v.At(3)))
	assert.Equal(t, "1.5", v.String())

	tuple := Tuple(3, 2, 1)
	assert.Equal(t, 3, tuple.Len())
	assert.Equal(t, 2.0, tuple.At(1))
	assert.Equal(t, "(3, 2, 1)", tuple.String())

	assert.True(t, Undefined(2).IsNaN())
	assert.True(t, Tuple(1, math.NaN()).IsNaN())
	assert.True(t, Value{}.IsNaN())
}

func TestValueTupleIsCopied(t *testing.T) {
	components := []float64{1, 2}
	v := Tuple(components...)
	components[0] = 99

	assert.Equal(t, 1.0, v.At(0))
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Scalar(1).Equal(Scalar(1+1e-12), 1e-9))
	assert.False(t, Scalar(1).Equal(Scalar(1.1), 1e-9))
	assert.True(t, Undefined(2).Equal(Undefined(2), 0))
	assert.False(t, Scalar(math.NaN()).Equal(Scalar(1), 1))
	assert.False(t, Scalar(1).Equal(Tuple(1, 1), 0))
}

func TestSeries(t *testing.T) {
	s := Series{values: []Value{Scalar(1), Scalar(2), Scalar(3)}}
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1.0, s.At(0).Float())
	assert.Equal(t, 3.0, s.At(-1).Float())
	assert.True(t, s.At(5).IsNaN())

	last, ok := s.Last()
	assert.True(t, ok)
	assert.Equal(t, 3.0, last.Float())

	_, ok = Series{}.Last()
	assert.False(t, ok)

	assert.Equal(t, []float64{1, 2, 3}, s.Floats(0))
}
