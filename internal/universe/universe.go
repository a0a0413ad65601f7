package universe

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/quench/internal/field"
)

// Field update coefficients. Pre-bootstrap the field relaxes toward pure
// noise; post-bootstrap it follows an explicit-Euler step of a damped
// reaction-diffusion equation whose cubic term bounds growth.
const (
	initialAmplitude = 0.1
	preDecay         = 0.95
	preNoiseGain     = 0.2
	diffusionRate    = 0.1
	cubicDamping     = 0.05
	postNoiseGain    = 0.05

	corrScale  = 10.0
	corrOffset = 0.1
)

// Params is the injected configuration for one universe. The two original
// presentation modes use divergent constants for the same quantities, so
// nothing here is compiled in.
type Params struct {
	Size           int
	TempInitial    float64
	TempFinal      float64
	CoolingRate    float64
	XiCritical     float64
	NoiseAmplitude float64
}

// Phase is the qualitative regime label derived from a snapshot.
type Phase int

const (
	PhasePre Phase = iota
	PhaseApproaching
	PhasePost
)

func (p Phase) String() string {
	switch p {
	case PhasePost:
		return "OBSERVATION ACTIVE"
	case PhaseApproaching:
		return "APPROACHING CRITICAL"
	default:
		return "PRE-BOOTSTRAP"
	}
}

// Phase classifies a snapshot: post once bootstrapped, approaching when the
// correlation length passes 70% of critical.
func (p Params) Phase(s Snapshot) Phase {
	if s.Bootstrapped {
		return PhasePost
	}
	if s.Xi > p.XiCritical*0.7 {
		return PhaseApproaching
	}
	return PhasePre
}

// CooledFraction maps a temperature onto [0,1] progress toward the floor.
func (p Params) CooledFraction(temperature float64) float64 {
	f := (p.TempInitial - temperature) / (p.TempInitial - p.TempFinal)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// XiFraction maps a correlation length onto [0,1] against 1.5x critical,
// matching the original status bar scaling.
func (p Params) XiFraction(xi float64) float64 {
	f := xi / (p.XiCritical * 1.5)
	if f > 1 {
		return 1
	}
	return f
}

// CorrelationLength derives xi from temperature: xi = 10/(T + 0.1). The
// offset keeps the expression finite at T = 0.
func CorrelationLength(temperature float64) float64 {
	return corrScale / (temperature + corrOffset)
}

// Snapshot is the read-only view handed to renderers. Field is a deep copy;
// mutating it never touches the universe.
type Snapshot struct {
	Field        *field.Grid
	Temperature  float64
	Xi           float64
	Bootstrapped bool
	Time         int
}

// Universe owns the field grid and the two-state cooling machine: a
// fluctuation regime before bootstrap and a terminal structure-preserving
// regime after. Bootstrap fires exactly once, when the correlation length
// first reaches the critical threshold.
type Universe struct {
	p     Params
	rng   *rand.Rand
	noise *field.Noise

	grid         *field.Grid
	temperature  float64
	xi           float64
	bootstrapped bool
	time         int

	tempHist []float64
	xiHist   []float64
}

// New seeds a universe with iid N(0, 0.1) fluctuations at the initial
// temperature. A nil rng falls back to wall-clock seeding.
func New(p Params, rng *rand.Rand) *Universe {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	u := &Universe{
		p:     p,
		rng:   rng,
		noise: field.NewNoise(rng, p.NoiseAmplitude),
	}
	u.init()
	return u
}

func (u *Universe) init() {
	u.grid = field.New(u.p.Size)
	for i, d := 0, u.grid.Data(); i < len(d); i++ {
		d[i] = u.rng.NormFloat64() * initialAmplitude
	}
	u.temperature = u.p.TempInitial
	u.xi = CorrelationLength(u.temperature)
	u.bootstrapped = false
	u.time = 0
	u.tempHist = append(u.tempHist[:0], u.temperature)
	u.xiHist = append(u.xiHist[:0], u.xi)
}

// Reset restores the initial regime with fresh fluctuations. The random
// stream continues; pass a freshly seeded rng to New for reproducible runs.
func (u *Universe) Reset() { u.init() }

func (u *Universe) Params() Params { return u.p }

// Step advances the simulation by one time unit. The returned bool is true
// only on the single call where bootstrap transitions; the error reports a
// diverged field, which the damping terms make an invariant violation rather
// than an expected condition.
//
// The post-bootstrap rule runs on the transition step itself: skipping it
// would drop a step of dynamics for no modeled reason.
func (u *Universe) Step() (bool, error) {
	if u.temperature > u.p.TempFinal {
		u.temperature -= u.p.CoolingRate * 0.01
	}
	u.xi = CorrelationLength(u.temperature)

	fired := false
	if !u.bootstrapped && u.xi >= u.p.XiCritical {
		u.bootstrapped = true
		fired = true
	}

	if u.bootstrapped {
		u.relax()
	} else {
		u.fluctuate()
	}
	u.time++

	u.tempHist = append(u.tempHist, u.temperature)
	u.xiHist = append(u.xiHist, u.xi)

	if !u.grid.Finite() {
		return fired, fmt.Errorf("field diverged at t=%d (T=%.3f)", u.time, u.temperature)
	}
	return fired, nil
}

// fluctuate is the pre-bootstrap rule: exponential relaxation toward
// correlated noise. No structure survives more than a few steps.
func (u *Universe) fluctuate() {
	noise := u.noise.Correlated(u.p.Size, u.xi)
	d, nd := u.grid.Data(), noise.Data()
	for i := range d {
		d[i] = d[i]*preDecay + nd[i]*preNoiseGain
	}
}

// relax is the post-bootstrap rule: diffusion plus a cubic restoring term
// plus weak stochastic forcing at the current correlation scale.
func (u *Universe) relax() {
	lap := u.grid.Laplacian()
	noise := u.noise.Correlated(u.p.Size, u.xi)
	d, ld, nd := u.grid.Data(), lap.Data(), noise.Data()
	for i := range d {
		v := d[i]
		d[i] = v + diffusionRate*ld[i] - cubicDamping*v*v*v + postNoiseGain*nd[i]
	}
}

func (u *Universe) Snapshot() Snapshot {
	return Snapshot{
		Field:        u.grid.Clone(),
		Temperature:  u.temperature,
		Xi:           u.xi,
		Bootstrapped: u.bootstrapped,
		Time:         u.time,
	}
}

// SetField overwrites the field grid. Sizes must match.
func (u *Universe) SetField(g *field.Grid) error {
	if g.Size() != u.p.Size {
		return fmt.Errorf("field size %d does not match universe size %d", g.Size(), u.p.Size)
	}
	u.grid = g.Clone()
	return nil
}

// TempHistory returns a copy of the recorded per-step temperatures,
// including the initial value.
func (u *Universe) TempHistory() []float64 {
	return append([]float64(nil), u.tempHist...)
}

// XiHistory returns a copy of the recorded per-step correlation lengths.
func (u *Universe) XiHistory() []float64 {
	return append([]float64(nil), u.xiHist...)
}
