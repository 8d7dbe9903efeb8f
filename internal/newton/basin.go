package newton

import (
	"context"
	"fmt"
	"math/cmplx"

	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/parallel"
)

// DefaultRoots are the five roots of the default Newton fractal.
var DefaultRoots = []complex128{1, -1, 1i, -1i, 1 + 1i}

// Polynomial returns p(z) = ∏(z − rᵢ) lifted to dual numbers.
func Polynomial(roots []complex128) dual.Func[complex128] {
	rs := append([]complex128(nil), roots...)
	return func(z dual.Number[complex128]) dual.Number[complex128] {
		p := dual.Constant[complex128](1)
		for _, r := range rs {
			p.MulAssign(z.SubScalar(r))
		}
		return p
	}
}

// BasinConfig describes a square window of the complex plane centred on
// Center and extending Scale in each direction.
type BasinConfig struct {
	Roots   []complex128
	Width   int
	Height  int
	Center  complex128
	Scale   float64
	Tol     float64
	MaxIter int
	// Radius is how close a converged iterate must be to a root to be
	// attributed to it. Zero means 1e-6.
	Radius float64
}

func DefaultBasinConfig() BasinConfig {
	return BasinConfig{
		Roots:   DefaultRoots,
		Width:   64,
		Height:  32,
		Scale:   2,
		Tol:     DefaultTol,
		MaxIter: DefaultMaxIter,
	}
}

// Point returns the complex coordinate at the centre of cell (col, row).
// Row 0 is the top of the window.
func (c BasinConfig) Point(col, row int) complex128 {
	re := c.Scale * (2*(float64(col)+0.5)/float64(c.Width) - 1)
	im := c.Scale * (1 - 2*(float64(row)+0.5)/float64(c.Height))
	return c.Center + complex(re, im)
}

func (c BasinConfig) validate() error {
	if len(c.Roots) == 0 {
		return ErrNoRoots
	}
	if c.Width <= 0 || c.Height <= 0 || !(c.Scale > 0) {
		return ErrInvalidGrid
	}
	return nil
}

// BasinMap holds, in row-major order, the index of the root each cell
// converged to (-1 for none) and the iterations it took.
type BasinMap struct {
	Width  int
	Height int
	Roots  []complex128
	Index  []int
	Iter   []int
}

func (m *BasinMap) At(col, row int) (root, iter int) {
	i := row*m.Width + col
	return m.Index[i], m.Iter[i]
}

// Counts returns the number of cells attributed to each root and the
// number of cells that did not converge to any of them.
func (m *BasinMap) Counts() (perRoot []int, unresolved int) {
	perRoot = make([]int, len(m.Roots))
	for _, idx := range m.Index {
		if idx < 0 {
			unresolved++
			continue
		}
		perRoot[idx]++
	}
	return perRoot, unresolved
}

// Basin runs Newton's method from every cell of the window. Rows are
// split across goroutines.
func Basin(ctx context.Context, cfg BasinConfig) (*BasinMap, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	radius := cfg.Radius
	if radius <= 0 {
		radius = 1e-6
	}
	opts := Options{Tol: cfg.Tol, MaxIter: cfg.MaxIter}.withDefaults()
	poly := Polynomial(cfg.Roots)

	n := cfg.Width * cfg.Height
	m := &BasinMap{
		Width:  cfg.Width,
		Height: cfg.Height,
		Roots:  append([]complex128(nil), cfg.Roots...),
		Index:  make([]int, n),
		Iter:   make([]int, n),
	}

	parallel.For(cfg.Height, 4, func(start, end int) {
		for row := start; row < end; row++ {
			if ctx.Err() != nil {
				return
			}
			for col := 0; col < cfg.Width; col++ {
				i := row*cfg.Width + col
				res, err := Solve(ctx, poly, cfg.Point(col, row), opts)
				m.Iter[i] = res.Iterations
				m.Index[i] = -1
				if err == nil {
					m.Index[i] = nearest(m.Roots, res.Root, radius)
				}
			}
		}
	})

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return m, nil
}

func nearest(roots []complex128, z complex128, radius float64) int {
	best, bestDist := -1, radius
	for i, r := range roots {
		if d := cmplx.Abs(z - r); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
