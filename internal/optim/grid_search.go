package optim

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/newton"
)

var ErrInvalidGrid = errors.New("optim: invalid seed grid")

// GridSearch runs Newton's method from evenly spaced seeds over [From, To]
// and collects the distinct roots found inside the interval.
type GridSearch struct {
	From, To float64
	Seeds    int
	// Merge is the distance below which two roots are considered the same.
	// Zero means 1e-8.
	Merge  float64
	Newton newton.Options
}

func NewGridSearch(from, to float64, seeds int) *GridSearch {
	return &GridSearch{From: from, To: to, Seeds: seeds, Newton: newton.DefaultOptions()}
}

// Root is a converged root with the seed that first reached it and how
// many seeds reached it in total.
type Root struct {
	X     float64
	Seed  float64
	Hits  int
	Iters int
}

// Search returns roots in ascending order. Seeds that fail to converge are
// ignored; only cancellation is reported as an error.
func (g *GridSearch) Search(ctx context.Context, f dual.Func[float64]) ([]Root, error) {
	if g.Seeds < 1 || !(g.From <= g.To) {
		return nil, ErrInvalidGrid
	}

	merge := g.Merge
	if merge <= 0 {
		merge = 1e-8
	}

	var roots []Root
	for i := 0; i < g.Seeds; i++ {
		seed := g.From
		if g.Seeds > 1 {
			seed += (g.To - g.From) * float64(i) / float64(g.Seeds-1)
		}

		res, err := newton.Solve(ctx, f, seed, g.Newton)
		if errors.Is(err, newton.ErrCanceled) {
			return nil, err
		}
		if err != nil || !res.Converged {
			continue
		}
		if res.Root < g.From || res.Root > g.To {
			continue
		}

		found := false
		for j := range roots {
			if math.Abs(roots[j].X-res.Root) < merge {
				roots[j].Hits++
				found = true
				break
			}
		}
		if !found {
			roots = append(roots, Root{X: res.Root, Seed: seed, Hits: 1, Iters: res.Iterations})
		}
	}

	sort.Slice(roots, func(i, j int) bool { return roots[i].X < roots[j].X })
	return roots, nil
}
