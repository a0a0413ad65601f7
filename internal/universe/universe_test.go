package universe_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/quench/internal/field"
	"github.com/san-kum/quench/internal/universe"
)

// captureParams are the frame-capture constants: fast cooling that is
// guaranteed to cross the critical correlation length.
func captureParams() universe.Params {
	return universe.Params{
		Size:           16,
		TempInitial:    100.0,
		TempFinal:      0.1,
		CoolingRate:    8.0,
		XiCritical:     8.0,
		NoiseAmplitude: 1.0,
	}
}

var _ = Describe("Universe", func() {
	Describe("cooling", func() {
		It("decreases temperature by exactly coolingRate*0.01 per step until the floor", func() {
			u := universe.NewSeeded(captureParams(), 1)
			prev := u.Snapshot().Temperature

			for i := 0; i < 100; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
				cur := u.Snapshot().Temperature
				Expect(prev - cur).To(BeNumerically("~", 0.08, 1e-9))
				prev = cur
			}
		})

		It("freezes once the floor is reached", func() {
			p := captureParams()
			p.TempInitial = 0.15
			u := universe.NewSeeded(p, 1)

			_, err := u.Step()
			Expect(err).NotTo(HaveOccurred())
			frozen := u.Snapshot().Temperature
			Expect(frozen).To(BeNumerically("<", p.TempFinal))

			for i := 0; i < 10; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(u.Snapshot().Temperature).To(Equal(frozen))
			}
		})
	})

	Describe("correlation length", func() {
		It("is derived from temperature on every step", func() {
			u := universe.NewSeeded(captureParams(), 2)
			for i := 0; i < 50; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
				s := u.Snapshot()
				Expect(s.Xi).To(Equal(universe.CorrelationLength(s.Temperature)))
			}
		})

		It("follows xi = 10/(T + 0.1)", func() {
			Expect(universe.CorrelationLength(0)).To(BeNumerically("~", 100.0, 1e-9))
			Expect(universe.CorrelationLength(0.9)).To(BeNumerically("~", 10.0, 1e-9))
			Expect(universe.CorrelationLength(99.9)).To(BeNumerically("~", 0.1, 1e-9))
		})
	})

	Describe("bootstrap", func() {
		It("fires on the first step where xi reaches critical: step 1236 for the capture constants", func() {
			u := universe.NewSeeded(captureParams(), 3)

			steps := 0
			fired := false
			for !fired && steps < 2000 {
				var err error
				fired, err = u.Step()
				Expect(err).NotTo(HaveOccurred())
				steps++
			}

			Expect(fired).To(BeTrue())
			Expect(steps).To(Equal(1236))
			Expect(u.Snapshot().Time).To(Equal(1236))
			Expect(u.Snapshot().Temperature).To(BeNumerically("<=", 1.15))
		})

		It("signals the transition exactly once and never reverts", func() {
			u := universe.NewSeeded(captureParams(), 4)

			signals := 0
			for i := 0; i < 1500; i++ {
				fired, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
				if fired {
					signals++
					Expect(u.Snapshot().Bootstrapped).To(BeTrue())
				}
				if u.Snapshot().Bootstrapped {
					Expect(signals).To(Equal(1))
				}
			}
			Expect(signals).To(Equal(1))
			Expect(u.Snapshot().Bootstrapped).To(BeTrue())
		})

		It("applies the post-bootstrap rule on the transition step itself", func() {
			p := universe.Params{
				Size:        4,
				TempInitial: 1.2,
				TempFinal:   0.1,
				CoolingRate: 8.0,
				XiCritical:  8.0,
				// zero forcing makes the update deterministic
				NoiseAmplitude: 0,
			}
			u := universe.NewSeeded(p, 5)

			g := field.New(4)
			g.Fill(2.0)
			Expect(u.SetField(g)).To(Succeed())

			fired, err := u.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(fired).To(BeTrue())

			// Constant field: laplacian 0, so post rule gives 2 - 0.05*2^3 = 1.6.
			// The pre rule would have given 2*0.95 = 1.9.
			s := u.Snapshot()
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					Expect(s.Field.At(x, y)).To(BeNumerically("~", 1.6, 1e-12))
				}
			}
			Expect(s.Time).To(Equal(1))
		})
	})

	Describe("post-bootstrap dynamics", func() {
		It("keeps a bounded field bounded over 1000 steps without forcing", func() {
			p := captureParams()
			p.NoiseAmplitude = 0
			p.XiCritical = 0.01 // bootstraps on the first step
			u := universe.NewSeeded(p, 6)

			for i := 0; i < 1000; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			s := u.Snapshot()
			Expect(s.Bootstrapped).To(BeTrue())
			Expect(s.Field.Finite()).To(BeTrue())
			Expect(s.Field.Min()).To(BeNumerically(">=", -10.0))
			Expect(s.Field.Max()).To(BeNumerically("<=", 10.0))
		})
	})

	Describe("pre-bootstrap dynamics", func() {
		It("stays in the fluctuation regime when critical xi is unreachable", func() {
			p := captureParams()
			p.XiCritical = 1e9
			u := universe.NewSeeded(p, 7)

			for i := 0; i < 50; i++ {
				fired, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
				Expect(fired).To(BeFalse())
			}

			s := u.Snapshot()
			Expect(s.Bootstrapped).To(BeFalse())
			Expect(s.Time).To(Equal(50))
		})

		It("forgets structure within a few dozen steps", func() {
			p := captureParams()
			p.XiCritical = 1e9
			p.NoiseAmplitude = 0
			u := universe.NewSeeded(p, 8)

			g := field.New(16)
			g.Fill(2.0)
			Expect(u.SetField(g)).To(Succeed())

			for i := 0; i < 100; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			// 0.95^100 * 2 is far below any visible structure
			Expect(math.Abs(u.Snapshot().Field.Max())).To(BeNumerically("<", 0.02))
		})
	})

	Describe("snapshots", func() {
		It("returns deep copies that never alias the live field", func() {
			u := universe.NewSeeded(captureParams(), 9)
			s := u.Snapshot()
			before := s.Field.At(0, 0)

			_, err := u.Step()
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Field.At(0, 0)).To(Equal(before))

			s.Field.Set(0, 0, 123)
			Expect(u.Snapshot().Field.At(0, 0)).NotTo(Equal(123.0))
		})

		It("records temperature and xi histories including the initial values", func() {
			u := universe.NewSeeded(captureParams(), 10)
			for i := 0; i < 10; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(u.TempHistory()).To(HaveLen(11))
			Expect(u.XiHistory()).To(HaveLen(11))
			Expect(u.TempHistory()[0]).To(Equal(100.0))
		})
	})

	Describe("phase classification", func() {
		It("labels pre, approaching, and post regimes", func() {
			p := captureParams()

			pre := universe.Snapshot{Xi: 2.0}
			Expect(p.Phase(pre)).To(Equal(universe.PhasePre))

			approaching := universe.Snapshot{Xi: 6.0}
			Expect(p.Phase(approaching)).To(Equal(universe.PhaseApproaching))

			post := universe.Snapshot{Xi: 9.0, Bootstrapped: true}
			Expect(p.Phase(post)).To(Equal(universe.PhasePost))
		})
	})

	Describe("reset", func() {
		It("restores the hot uncorrelated regime", func() {
			p := captureParams()
			p.XiCritical = 0.01
			u := universe.NewSeeded(p, 11)

			for i := 0; i < 20; i++ {
				_, err := u.Step()
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(u.Snapshot().Bootstrapped).To(BeTrue())

			u.Reset()
			s := u.Snapshot()
			Expect(s.Bootstrapped).To(BeFalse())
			Expect(s.Time).To(Equal(0))
			Expect(s.Temperature).To(Equal(p.TempInitial))
		})
	})
})
