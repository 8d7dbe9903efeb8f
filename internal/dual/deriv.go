package dual

// Func is a scalar function lifted to dual numbers.
type Func[T Scalar] func(Number[T]) Number[T]

// Derivative returns f'(x).
func Derivative[T Scalar](f Func[T], x T) T {
	return f(Variable(x)).dual
}

// ValueAndDerivative returns f(x) and f'(x) from a single evaluation.
func ValueAndDerivative[T Scalar](f Func[T], x T) (T, T) {
	v := f(Variable(x))
	return v.real, v.dual
}

// Lift turns f into a function that returns only the real part,
// so a dual-number implementation can be used as a plain scalar function.
func Lift[T Scalar](f Func[T]) func(T) T {
	return func(x T) T {
		return f(Constant(x)).real
	}
}
