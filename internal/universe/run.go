package universe

import (
	"context"
	"math/rand"
)

// Result collects the scalar trace of a headless run.
type Result struct {
	Times         []int
	Temps         []float64
	Xis           []float64
	Means         []float64
	Variances     []float64
	Bootstrapped  bool
	BootstrapStep int
	Final         Snapshot
}

// Run drives a universe for the given number of steps and records the scalar
// trace per step. It stops early on context cancellation or a diverged field.
func Run(ctx context.Context, u *Universe, steps int) (*Result, error) {
	r := &Result{
		Times:         make([]int, 0, steps),
		Temps:         make([]float64, 0, steps),
		Xis:           make([]float64, 0, steps),
		Means:         make([]float64, 0, steps),
		Variances:     make([]float64, 0, steps),
		BootstrapStep: -1,
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			r.Final = u.Snapshot()
			return r, ctx.Err()
		default:
		}

		fired, err := u.Step()
		s := u.Snapshot()
		if fired {
			r.Bootstrapped = true
			r.BootstrapStep = s.Time
		}
		r.Times = append(r.Times, s.Time)
		r.Temps = append(r.Temps, s.Temperature)
		r.Xis = append(r.Xis, s.Xi)
		r.Means = append(r.Means, s.Field.Mean())
		r.Variances = append(r.Variances, s.Field.Variance())
		if err != nil {
			r.Final = s
			return r, err
		}
	}

	r.Final = u.Snapshot()
	return r, nil
}

// RunWithCallback steps the universe and hands every snapshot to the
// callback along with the bootstrap signal. Returning false stops the run.
func RunWithCallback(ctx context.Context, u *Universe, steps int, callback func(s Snapshot, bootstrapped bool) bool) error {
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fired, err := u.Step()
		if err != nil {
			return err
		}
		if !callback(u.Snapshot(), fired) {
			return nil
		}
	}
	return nil
}

// NewSeeded builds a universe on a deterministic random stream.
func NewSeeded(p Params, seed int64) *Universe {
	return New(p, rand.New(rand.NewSource(seed)))
}
