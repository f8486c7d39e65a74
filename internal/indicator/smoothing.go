package indicator

import "math"

// emaState is an exponential moving average seeded with the simple average of the
// first period inputs.
type emaState struct {
	period int
	count  int
	sum    float64
	value  float64
}

func newEMAState(period int) emaState {
	return emaState{period: period, count: 0, sum: 0, value: math.NaN()}
}

func (e *emaState) reset() {
	*e = newEMAState(e.period)
}

// push feeds one input and returns the average, NaN until period inputs were seen.
func (e *emaState) push(x float64) float64 {
	e.count++

	switch {
	case e.count < e.period:
		e.sum += x

		return math.NaN()
	case e.count == e.period:
		e.sum += x
		e.value = e.sum / float64(e.period)
	default:
		alpha := 2.0 / float64(e.period+1)
		e.value = alpha*x + (1-alpha)*e.value
	}

	return e.value
}

// wilderState is Wilder's smoothing: a simple average of the first period inputs,
// then avg = (avg*(period-1) + x) / period.
type wilderState struct {
	period int
	count  int
	sum    float64
	value  float64
}

func newWilderState(period int) wilderState {
	return wilderState{period: period, count: 0, sum: 0, value: math.NaN()}
}

func (w *wilderState) reset() {
	*w = newWilderState(w.period)
}

func (w *wilderState) push(x float64) float64 {
	w.count++

	switch {
	case w.count < w.period:
		w.sum += x

		return math.NaN()
	case w.count == w.period:
		w.sum += x
		w.value = w.sum / float64(w.period)
	default:
		w.value = (w.value*float64(w.period-1) + x) / float64(w.period)
	}

	return w.value
}

// ring keeps the last n pushed inputs.
type ring struct {
	size  int
	items []float64
}

func newRing(size int) ring {
	return ring{size: size, items: make([]float64, 0, size)}
}

func (r *ring) reset() {
	r.items = r.items[:0]
}

func (r *ring) push(x float64) {
	if len(r.items) == r.size {
		copy(r.items, r.items[1:])
		r.items = r.items[:r.size-1]
	}

	r.items = append(r.items, x)
}

func (r *ring) full() bool {
	return len(r.items) == r.size
}

func (r *ring) mean() float64 {
	return mean(r.items)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

// populationStdDev is the standard deviation with divisor n.
func populationStdDev(xs []float64) float64 {
	m := mean(xs)

	variance := 0.0
	for _, x := range xs {
		variance += (x - m) * (x - m)
	}

	return math.Sqrt(variance / float64(len(xs)))
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|); the first bar uses high-low.
func trueRange(high, low, prevClose float64, hasPrev bool) float64 {
	tr := high - low
	if !hasPrev {
		return tr
	}

	return math.Max(tr, math.Max(math.Abs(high-prevClose), math.Abs(low-prevClose)))
}

// roundHalfEven rounds x to places decimals with ties to even.
func roundHalfEven(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))

	return math.RoundToEven(x*scale) / scale
}
