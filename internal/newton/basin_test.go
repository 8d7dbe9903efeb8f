package newton_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dualsim/internal/dual"
	"github.com/san-kum/dualsim/internal/newton"
)

var _ = Describe("Polynomial", func() {
	It("vanishes at each root with non-zero derivative", func() {
		p := newton.Polynomial(newton.DefaultRoots)
		for _, r := range newton.DefaultRoots {
			v := p(dual.Variable(r))
			Expect(v.Real()).To(Equal(complex128(0)))
			Expect(v.Dual()).NotTo(Equal(complex128(0)))
		}
	})

	It("has derivative 2z for roots ±1", func() {
		p := newton.Polynomial([]complex128{1, -1})
		v := p(dual.Variable(complex128(3)))
		Expect(v.Real()).To(Equal(complex128(8)))
		Expect(v.Dual()).To(Equal(complex128(6)))
	})
})

var _ = Describe("Basin", func() {
	var cfg newton.BasinConfig

	BeforeEach(func() {
		cfg = newton.DefaultBasinConfig()
		cfg.Width = 41
		cfg.Height = 41
	})

	It("maps the window centre of each cell", func() {
		Expect(cfg.Point(20, 20)).To(Equal(complex128(0)))
		Expect(real(cfg.Point(0, 0))).To(BeNumerically("<", 0))
		Expect(imag(cfg.Point(0, 0))).To(BeNumerically(">", 0))
	})

	It("attributes cells near a root to that root", func() {
		m, err := newton.Basin(context.Background(), cfg)
		Expect(err).NotTo(HaveOccurred())

		root, _ := m.At(30, 20)
		Expect(root).To(Equal(0))
		root, _ = m.At(10, 20)
		Expect(root).To(Equal(1))

		perRoot, unresolved := m.Counts()
		total := unresolved
		for i, c := range perRoot {
			Expect(c).To(BeNumerically(">", 0), "root %d has no basin", i)
			total += c
		}
		Expect(total).To(Equal(cfg.Width * cfg.Height))
	})

	It("rejects empty configurations", func() {
		cfg.Roots = nil
		_, err := newton.Basin(context.Background(), cfg)
		Expect(err).To(MatchError(newton.ErrNoRoots))

		cfg = newton.DefaultBasinConfig()
		cfg.Scale = 0
		_, err = newton.Basin(context.Background(), cfg)
		Expect(err).To(MatchError(newton.ErrInvalidGrid))
	})

	It("honours cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newton.Basin(ctx, cfg)
		Expect(err).To(MatchError(newton.ErrCanceled))
	})
})
