// Package newton finds roots with Newton's method, taking each derivative
// from the dual component of a dual-number evaluation.
//
//   - [Solve]: iterate x ← x − f(x)/f'(x) over real or complex fields
//   - [Polynomial]: the monic polynomial with given complex roots
//   - [Basin]: map a window of the complex plane to the root each point
//     converges to (a Newton fractal)
//
// # Example
//
//	f := func(x dual.Number[float64]) dual.Number[float64] {
//	    return x.Mul(x).SubScalar(2)
//	}
//	res, err := newton.Solve(ctx, f, 1.0, newton.DefaultOptions())
//	// res.Root ≈ 1.41421356
package newton
