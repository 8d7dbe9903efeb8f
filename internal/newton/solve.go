package newton

import (
	"context"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/san-kum/dualsim/internal/dual"
)

// Field is the set of component types Newton's method runs over.
type Field interface {
	float32 | float64 | complex64 | complex128
}

const (
	DefaultTol     = 1e-10
	DefaultMaxIter = 50
)

type Options struct {
	// Tol bounds the Newton step |f(x)/f'(x)|. A small |f(x)| alone does not
	// stop the iteration, so the result does not depend on how f is scaled.
	Tol     float64
	MaxIter int
	// RecordPath keeps every iterate in Result.Path.
	RecordPath bool
}

func DefaultOptions() Options {
	return Options{
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
	}
}

func (o Options) withDefaults() Options {
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}
	if o.MaxIter <= 0 {
		o.MaxIter = DefaultMaxIter
	}
	return o
}

type Result[T Field] struct {
	Root       T
	Iterations int
	Residual   float64
	Converged  bool
	Path       []T
}

// Solve runs Newton's method on f from x0. It stops when f(x) is exactly
// zero or once a step shorter than Tol has been taken. On error the
// returned Result holds the last iterate reached.
func Solve[T Field](ctx context.Context, f dual.Func[T], x0 T, opts Options) (*Result[T], error) {
	opts = opts.withDefaults()

	res := &Result[T]{Root: x0}
	if opts.RecordPath {
		res.Path = append(res.Path, x0)
	}

	x := x0
	for i := 0; i < opts.MaxIter; i++ {
		select {
		case <-ctx.Done():
			return res, &IterationError[T]{Iter: i, X: x, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())}
		default:
		}

		v := f(dual.Variable(x))
		fx, dfx := v.Real(), v.Dual()
		res.Residual = magnitude(fx)
		res.Iterations = i

		if res.Residual == 0 {
			res.Converged = true
			return res, nil
		}
		if dfx == 0 {
			return res, &IterationError[T]{Iter: i, X: x, Wrapped: ErrZeroDerivative}
		}

		step := fx / dfx
		x -= step
		if !finite(x) {
			return res, &IterationError[T]{Iter: i, X: x, Wrapped: ErrNotFinite}
		}

		res.Root = x
		res.Iterations = i + 1
		if opts.RecordPath {
			res.Path = append(res.Path, x)
		}

		if magnitude(step) < opts.Tol {
			res.Residual = magnitude(f(dual.Constant(x)).Real())
			res.Converged = true
			return res, nil
		}
	}

	return res, &IterationError[T]{Iter: opts.MaxIter, X: x, Wrapped: ErrNoConvergence}
}

func magnitude[T Field](v T) float64 {
	switch v := any(v).(type) {
	case float32:
		return math.Abs(float64(v))
	case float64:
		return math.Abs(v)
	case complex64:
		return cmplx.Abs(complex128(v))
	case complex128:
		return cmplx.Abs(v)
	}
	return math.NaN()
}

func finite[T Field](v T) bool {
	m := magnitude(v)
	return !math.IsNaN(m) && !math.IsInf(m, 0)
}
