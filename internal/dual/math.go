package dual

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Elementary functions over floating-point components. Each is evaluated in
// float64 and applies the chain rule f(a+bε) = f(a) + f'(a)·bε.

func f64[T constraints.Float](v T) float64 { return float64(v) }

// chain builds f(a) + f'(a)·bε for z = a+bε.
func chain[T constraints.Float](z Number[T], fn, deriv float64) Number[T] {
	return Number[T]{real: T(fn), dual: T(deriv) * z.dual}
}

// Inv returns 1/z.
//
// Special cases are:
//
//	Inv(±0) = ±Inf-Infϵ
func Inv[T constraints.Float](z Number[T]) Number[T] {
	r := f64(z.real)
	return chain(z, 1/r, -1/(r*r))
}

// Exp returns e**z.
func Exp[T constraints.Float](z Number[T]) Number[T] {
	v := math.Exp(f64(z.real))
	return chain(z, v, v)
}

// Log returns the natural logarithm of z.
//
// Special cases are:
//
//	Log(+Inf) = +Inf+0ϵ
//	Log(±0) = -Inf±Infϵ
//	Log(x < 0) = NaN+NaNϵ
//	Log(NaN) = NaN
func Log[T constraints.Float](z Number[T]) Number[T] {
	r := f64(z.real)
	switch {
	case r == 0:
		return Number[T]{real: T(math.Inf(-1)), dual: T(math.Copysign(math.Inf(1), r))}
	case math.IsInf(r, 1):
		return Number[T]{real: z.real}
	case r < 0:
		return Number[T]{real: T(math.NaN()), dual: T(math.NaN())}
	}
	return chain(z, math.Log(r), 1/r)
}

// Sqrt returns the square root of z.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0+Infϵ
//	Sqrt(x < 0) = NaN+NaNϵ
//	Sqrt(NaN) = NaN
func Sqrt[T constraints.Float](z Number[T]) Number[T] {
	r := f64(z.real)
	if r <= 0 {
		if r == 0 {
			return Number[T]{real: z.real, dual: T(math.Inf(1))}
		}
		return Number[T]{real: T(math.NaN()), dual: T(math.NaN())}
	}
	v := math.Sqrt(r)
	return chain(z, v, 0.5/v)
}

// PowReal returns z**p for a real exponent p.
//
// Special cases are:
//
//	PowReal(x, ±0) = 1 for any x
//	PowReal(x, 1) = x for any x
//	PowReal(±0+xϵ, p) uses ±1e-15 in place of 0 for the derivative
func PowReal[T constraints.Float](z Number[T], p float64) Number[T] {
	const tol = 1e-15

	switch p {
	case 0:
		return Number[T]{real: 1}
	case 1:
		return z
	}

	r := f64(z.real)
	base := r
	if math.Abs(base) < tol {
		base = math.Copysign(tol, base)
	}
	return chain(z, math.Pow(r, p), p*math.Pow(base, p-1))
}

// Sin returns the sine of z.
//
// Special cases are:
//
//	Sin(±0) = ±0+xϵ
//	Sin(±Inf) = NaN
//	Sin(NaN) = NaN
func Sin[T constraints.Float](z Number[T]) Number[T] {
	if z.real == 0 {
		return z
	}
	s, c := math.Sincos(f64(z.real))
	return chain(z, s, c)
}

// Cos returns the cosine of z.
func Cos[T constraints.Float](z Number[T]) Number[T] {
	s, c := math.Sincos(f64(z.real))
	return chain(z, c, -s)
}

// Tan returns the tangent of z.
//
// Special cases are:
//
//	Tan(±0) = ±0+xϵ
func Tan[T constraints.Float](z Number[T]) Number[T] {
	if z.real == 0 {
		return z
	}
	t := math.Tan(f64(z.real))
	return chain(z, t, 1+t*t)
}

// Abs returns |z|. At 0 the derivative is taken from the sign of the
// zero, so Abs(+0+xϵ) = 0+xϵ and Abs(-0+xϵ) = 0-xϵ.
func Abs[T constraints.Float](z Number[T]) Number[T] {
	r := f64(z.real)
	if math.Signbit(r) {
		return Number[T]{real: T(-r), dual: -z.dual}
	}
	return z
}
