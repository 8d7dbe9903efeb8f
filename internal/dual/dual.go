package dual

import (
	"fmt"
	"io"

	"golang.org/x/exp/constraints"
)

// Scalar is the set of component types a Number can be built over.
type Scalar interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Real is the subset of Scalar that converts freely between members.
type Real interface {
	constraints.Integer | constraints.Float
}

// Number is a dual number real+dual·ε. The zero value is (0,0).
type Number[T Scalar] struct {
	real T
	dual T
}

func New[T Scalar](real, dual T) Number[T] {
	return Number[T]{real: real, dual: dual}
}

func Zero[T Scalar]() Number[T] {
	return Number[T]{}
}

// Constant embeds s with zero dual component.
func Constant[T Scalar](s T) Number[T] {
	return Number[T]{real: s}
}

// Variable returns x+1ε, the seed for differentiating with respect to x.
func Variable[T Scalar](x T) Number[T] {
	return Number[T]{real: x, dual: 1}
}

// Convert copies both components of z through a T(U) conversion.
// Narrowing is not checked.
func Convert[T, U Real](z Number[U]) Number[T] {
	return Number[T]{real: T(z.real), dual: T(z.dual)}
}

// ConvertComplex is Convert for complex component types.
func ConvertComplex[T, U constraints.Complex](z Number[U]) Number[T] {
	return Number[T]{real: T(z.real), dual: T(z.dual)}
}

func (z Number[T]) Real() T { return z.real }
func (z Number[T]) Dual() T { return z.dual }

// Assign sets z to a+0ε.
func (z *Number[T]) Assign(a T) *Number[T] {
	z.real = a
	z.dual = T(0)
	return z
}

// AssignFrom sets z to T(a)+0ε.
func AssignFrom[T, U Real](z *Number[T], a U) *Number[T] {
	return z.Assign(T(a))
}

// AddScalarAssign shifts the real component by a. The dual component is
// left untouched.
func (z *Number[T]) AddScalarAssign(a T) *Number[T] {
	z.real += a
	return z
}

func (z *Number[T]) SubScalarAssign(a T) *Number[T] {
	z.real -= a
	return z
}

// MulScalarAssign scales both components by a.
func (z *Number[T]) MulScalarAssign(a T) *Number[T] {
	z.real *= a
	z.dual *= a
	return z
}

func (z *Number[T]) DivScalarAssign(a T) *Number[T] {
	z.real /= a
	z.dual /= a
	return z
}

func (z *Number[T]) AddAssign(w Number[T]) *Number[T] {
	z.real += w.real
	z.dual += w.dual
	return z
}

func (z *Number[T]) SubAssign(w Number[T]) *Number[T] {
	z.real -= w.real
	z.dual -= w.dual
	return z
}

// MulAssign applies the product rule. The dual update reads the old real.
func (z *Number[T]) MulAssign(w Number[T]) *Number[T] {
	r := z.real * w.real
	z.dual = z.real*w.dual + z.dual*w.real
	z.real = r
	return z
}

// DivAssign applies the quotient rule over w.real². The real component is
// computed as (z.real*w.real)/w.real², which can round differently from
// z.real/w.real.
func (z *Number[T]) DivAssign(w Number[T]) *Number[T] {
	r := z.real * w.real
	n := w.real * w.real
	z.dual = (z.dual*w.real - z.real*w.dual) / n
	z.real = r / n
	return z
}

func (z Number[T]) Add(w Number[T]) Number[T] {
	z.AddAssign(w)
	return z
}

func (z Number[T]) Sub(w Number[T]) Number[T] {
	z.SubAssign(w)
	return z
}

func (z Number[T]) Mul(w Number[T]) Number[T] {
	z.MulAssign(w)
	return z
}

func (z Number[T]) Div(w Number[T]) Number[T] {
	z.DivAssign(w)
	return z
}

func (z Number[T]) AddScalar(a T) Number[T] {
	z.AddScalarAssign(a)
	return z
}

func (z Number[T]) SubScalar(a T) Number[T] {
	z.SubScalarAssign(a)
	return z
}

func (z Number[T]) MulScalar(a T) Number[T] {
	z.MulScalarAssign(a)
	return z
}

func (z Number[T]) DivScalar(a T) Number[T] {
	z.DivScalarAssign(a)
	return z
}

// ScalarAdd returns a+y.
func ScalarAdd[T Scalar](a T, y Number[T]) Number[T] {
	y.AddScalarAssign(a)
	return y
}

// ScalarSub returns a-y, built as (a, -y.dual) minus y.real.
func ScalarSub[T Scalar](a T, y Number[T]) Number[T] {
	z := New(a, -y.dual)
	z.SubScalarAssign(y.real)
	return z
}

// ScalarMul returns a*y.
func ScalarMul[T Scalar](a T, y Number[T]) Number[T] {
	y.MulScalarAssign(a)
	return y
}

// ScalarDiv returns a/y, evaluated as the dual quotient (a,0)/y.
func ScalarDiv[T Scalar](a T, y Number[T]) Number[T] {
	z := Constant(a)
	z.DivAssign(y)
	return z
}

// Plus returns a copy of z.
func (z Number[T]) Plus() Number[T] {
	return z
}

func (z Number[T]) Neg() Number[T] {
	return Number[T]{real: -z.real, dual: -z.dual}
}

func (z Number[T]) Equal(w Number[T]) bool {
	return z.real == w.real && z.dual == w.dual
}

func (z Number[T]) NotEqual(w Number[T]) bool {
	return z.real != w.real || z.dual != w.dual
}

// EqualScalar reports whether z is exactly a+0ε.
func (z Number[T]) EqualScalar(a T) bool {
	return z.real == a && z.dual == T(0)
}

func (z Number[T]) NotEqualScalar(a T) bool {
	return z.real != a || z.dual != T(0)
}

func ScalarEqual[T Scalar](a T, z Number[T]) bool {
	return a == z.real && T(0) == z.dual
}

func ScalarNotEqual[T Scalar](a T, z Number[T]) bool {
	return a != z.real || T(0) != z.dual
}

// String returns "(real,dual)" with each component in its default format.
func (z Number[T]) String() string {
	return fmt.Sprintf("(%v,%v)", z.real, z.dual)
}

// Format implements fmt.Formatter. The verbs v and s pad String to the
// width, left-justified with the - flag; any other verb, with its flags, width
// and precision, is applied to each component in turn.
func (z Number[T]) Format(fs fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		w, ok := fs.Width()
		switch {
		case !ok:
			io.WriteString(fs, z.String())
		case fs.Flag('-'):
			fmt.Fprintf(fs, "%-*s", w, z.String())
		default:
			fmt.Fprintf(fs, "%*s", w, z.String())
		}
	default:
		f := fmt.FormatString(fs, verb)
		fmt.Fprintf(fs, "("+f+","+f+")", z.real, z.dual)
	}
}
