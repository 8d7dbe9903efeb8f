package newton

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroDerivative indicates f'(x) was exactly zero at an iterate.
	ErrZeroDerivative = errors.New("newton: derivative vanished")

	// ErrNotFinite indicates an iterate became NaN or Inf.
	ErrNotFinite = errors.New("newton: iterate is not finite")

	// ErrNoConvergence indicates the iteration limit was reached.
	ErrNoConvergence = errors.New("newton: no convergence within iteration limit")

	// ErrCanceled indicates the iteration was interrupted by its context.
	ErrCanceled = errors.New("newton: canceled by context")

	// ErrNoRoots indicates a basin map was requested without roots.
	ErrNoRoots = errors.New("newton: no roots given")

	// ErrInvalidGrid indicates a basin grid with non-positive size or scale.
	ErrInvalidGrid = errors.New("newton: invalid basin grid")
)

// IterationError wraps an error with the iterate it occurred at.
type IterationError[T Field] struct {
	Iter    int
	X       T
	Wrapped error
}

func (e *IterationError[T]) Error() string {
	return fmt.Sprintf("%v (iteration %d, x=%v)", e.Wrapped, e.Iter, e.X)
}

func (e *IterationError[T]) Unwrap() error {
	return e.Wrapped
}
