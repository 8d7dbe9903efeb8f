package analysis

import (
	"math"

	"github.com/san-kum/dualsim/internal/dual"
)

// DefaultStep is the finite-difference step used when h <= 0.
const DefaultStep = 1e-5

// CentralDifference approximates f'(x) by (f(x+h) - f(x-h)) / 2h.
func CentralDifference(f func(float64) float64, x, h float64) float64 {
	if h <= 0 {
		h = DefaultStep
	}
	return (f(x+h) - f(x-h)) / (2 * h)
}

// Comparison reports how far a central difference strays from the exact
// dual-number derivative.
type Comparison struct {
	Points       int
	MaxAbsError  float64
	MeanAbsError float64
	WorstX       float64
	Exact        []float64
	Approx       []float64
}

// CompareFiniteDifference evaluates f' at each x both ways. Points where
// either derivative is not finite are skipped in the error statistics.
func CompareFiniteDifference(f dual.Func[float64], xs []float64, h float64) Comparison {
	scalar := dual.Lift(f)
	c := Comparison{
		Exact:  make([]float64, len(xs)),
		Approx: make([]float64, len(xs)),
	}

	sum := 0.0
	for i, x := range xs {
		exact := dual.Derivative(f, x)
		approx := CentralDifference(scalar, x, h)
		c.Exact[i] = exact
		c.Approx[i] = approx

		e := math.Abs(exact - approx)
		if math.IsNaN(e) || math.IsInf(e, 0) {
			continue
		}
		c.Points++
		sum += e
		if e > c.MaxAbsError || c.Points == 1 {
			c.MaxAbsError = e
			c.WorstX = x
		}
	}

	if c.Points > 0 {
		c.MeanAbsError = sum / float64(c.Points)
	}
	return c
}
