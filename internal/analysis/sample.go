package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/parallel"
)

var (
	// ErrInvalidRange indicates a sampling interval with from >= to or a non-finite bound.
	ErrInvalidRange = errors.New("analysis: invalid sampling range")

	// ErrTooFewSamples indicates fewer than two sample points were requested.
	ErrTooFewSamples = errors.New("analysis: at least two samples required")
)

const minChunk = 256

// Series holds f and f' sampled at X.
type Series struct {
	X     []float64
	Value []float64
	Deriv []float64
}

func (s *Series) Len() int {
	return len(s.X)
}

// Sample evaluates f at n evenly spaced points of [from, to], both ends
// included.
func Sample(f dual.Func[float64], from, to float64, n int) (*Series, error) {
	if n < 2 {
		return nil, ErrTooFewSamples
	}
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) || from >= to {
		return nil, ErrInvalidRange
	}

	s := &Series{
		X:     make([]float64, n),
		Value: make([]float64, n),
		Deriv: make([]float64, n),
	}

	step := (to - from) / float64(n-1)
	parallel.For(n, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			x := from + float64(i)*step
			if i == n-1 {
				x = to
			}
			v := f(dual.Variable(x))
			s.X[i] = x
			s.Value[i] = v.Real()
			s.Deriv[i] = v.Dual()
		}
	})

	return s, nil
}

// Metrics summarises the series for storage.
func (s *Series) Metrics() map[string]float64 {
	m := map[string]float64{
		"samples":         float64(s.Len()),
		"critical_points": float64(len(CriticalPoints(s))),
	}
	if s.Len() == 0 {
		return m
	}

	minV, maxV := math.Inf(1), math.Inf(-1)
	maxD := 0.0
	for i := range s.X {
		if v := s.Value[i]; IsFinite(v) {
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}
		if d := math.Abs(s.Deriv[i]); IsFinite(d) && d > maxD {
			maxD = d
		}
	}
	if minV <= maxV {
		m["min"] = minV
		m["max"] = maxV
	}
	m["max_abs_deriv"] = maxD
	return m
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
