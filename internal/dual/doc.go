// Package dual provides a generic dual-number type for forward-mode
// automatic differentiation.
//
// A dual number is a pair a+bε where ε²=0. Evaluating f(a+bε) yields
// f(a) in the real component and f'(a)·b in the dual component:
//
//   - [Number]: the (real, dual) pair over any [Scalar] type
//   - [Variable]: seeds the dual component with 1 so f'(x) can be read back
//   - [Constant]: embeds a bare scalar with zero dual component
//   - [Exp], [Log], [Sin], [Sqrt], [PowReal]: chain-rule elementary functions
//
// # Example
//
//	f := func(x dual.Number[float64]) dual.Number[float64] {
//	    return x.Mul(x).Add(x.MulScalar(3)).AddScalar(2)
//	}
//	v := f(dual.Variable(5.0)) // (42,13)
//
// # Operand order
//
// Go has no operator overloading, so every operator exists once per operand
// pairing. Methods named AddScalar, SubScalar, ... take the scalar on the
// right; the package functions ScalarAdd, ScalarSub, ... take it on the
// left. ScalarSub and ScalarDiv have their own evaluation order and are not
// derived from the right-hand forms.
//
// # Thread Safety
//
// Number is a plain value. Methods with a pointer receiver mutate only that
// receiver; concurrent mutation of one value needs external synchronization.
package dual
