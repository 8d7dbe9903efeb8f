package newton_test

import (
	"context"
	"errors"
	"math"
	"math/cmplx"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/newton"
)

func sqrtTwo(x dual.Number[float64]) dual.Number[float64] {
	return x.Mul(x).SubScalar(2)
}

func noRealRoot(x dual.Number[float64]) dual.Number[float64] {
	return x.Mul(x).AddScalar(1)
}

var _ = Describe("Solve", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("finds the square root of two", func() {
		res, err := newton.Solve(ctx, sqrtTwo, 1.0, newton.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Root).To(BeNumerically("~", math.Sqrt2, 1e-12))
		Expect(res.Iterations).To(BeNumerically("<", 10))
	})

	It("returns immediately when x0 is an exact root", func() {
		f := func(x dual.Number[float64]) dual.Number[float64] {
			return x.Mul(x).SubScalar(4)
		}
		res, err := newton.Solve(ctx, f, 2.0, newton.Options{Tol: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(0))
		Expect(res.Root).To(Equal(2.0))
		Expect(res.Residual).To(Equal(0.0))
	})

	It("takes a final step from a nearly exact x0", func() {
		res, err := newton.Solve(ctx, sqrtTwo, math.Sqrt2, newton.Options{Tol: 1e-9})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Iterations).To(Equal(1))
		Expect(res.Root).To(BeNumerically("~", math.Sqrt2, 1e-15))
	})

	It("does not accept a tiny residual far from the root", func() {
		f := func(x dual.Number[float64]) dual.Number[float64] {
			return x.SubScalar(3).MulScalar(1e-11)
		}
		res, err := newton.Solve(ctx, f, 0.0, newton.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Root).To(BeNumerically("~", 3, 1e-12))
		Expect(res.Iterations).To(BeNumerically(">=", 1))
	})

	It("records the iterate path when asked", func() {
		opts := newton.DefaultOptions()
		opts.RecordPath = true
		res, err := newton.Solve(ctx, sqrtTwo, 1.0, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Path).To(HaveLen(res.Iterations + 1))
		Expect(res.Path[0]).To(Equal(1.0))
		Expect(res.Path[1]).To(Equal(1.5))
	})

	It("works over float32", func() {
		f := func(x dual.Number[float32]) dual.Number[float32] {
			return x.Mul(x).SubScalar(9)
		}
		res, err := newton.Solve(ctx, f, float32(1), newton.Options{Tol: 1e-5})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Root).To(BeNumerically("~", 3, 1e-4))
	})

	It("finds complex roots", func() {
		f := func(z dual.Number[complex128]) dual.Number[complex128] {
			return z.Mul(z).AddScalar(1)
		}
		res, err := newton.Solve(ctx, f, complex(0.5, 0.5), newton.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(cmplx.Abs(res.Root - 1i)).To(BeNumerically("<", 1e-9))
	})

	It("reports a vanishing derivative", func() {
		_, err := newton.Solve(ctx, noRealRoot, 0.0, newton.DefaultOptions())
		Expect(err).To(MatchError(newton.ErrZeroDerivative))

		var ie *newton.IterationError[float64]
		Expect(errors.As(err, &ie)).To(BeTrue())
		Expect(ie.Iter).To(Equal(0))
		Expect(ie.X).To(Equal(0.0))
	})

	It("gives up after MaxIter iterations", func() {
		res, err := newton.Solve(ctx, noRealRoot, 0.5, newton.Options{MaxIter: 20})
		Expect(err).To(MatchError(newton.ErrNoConvergence))
		Expect(res.Converged).To(BeFalse())
		Expect(res.Iterations).To(Equal(20))
	})

	It("reports non-finite iterates", func() {
		f := func(x dual.Number[float64]) dual.Number[float64] {
			return dual.Log(x)
		}
		_, err := newton.Solve(ctx, f, -1.0, newton.DefaultOptions())
		Expect(err).To(MatchError(newton.ErrNotFinite))
	})

	It("stops when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := newton.Solve(canceled, sqrtTwo, 1.0, newton.DefaultOptions())
		Expect(err).To(MatchError(newton.ErrCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})
