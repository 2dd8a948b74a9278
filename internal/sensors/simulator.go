package sensors

import (
	"math"
	"math/rand"
	"time"

	"digital-nose/internal/scent"
)

// driftPeriod controls the slow sinusoidal drift term. One full cycle every
// 50*pi ticks, modeling sensor aging and thermal cycling independent of
// per-sample noise.
const driftPeriod = 25.0

// Config holds simulation parameters for a simulator instance.
type Config struct {
	BaselineNoise float64 // scales drift influence, >= 0
	DriftRate     float64 // drift amplitude in radians per tick
	SampleRateHz  int     // informational only
}

// DefaultConfig returns the standard simulation parameters.
func DefaultConfig() Config {
	return Config{
		BaselineNoise: 0.05,
		DriftRate:     0.01,
		SampleRateHz:  1,
	}
}

// Simulator generates synthetic multi-channel readings for a scent profile.
// It carries mutable state (tick counter and RNG) and is therefore
// single-owner: callers sharing one instance across goroutines must
// synchronize externally.
type Simulator struct {
	config Config
	rng    *rand.Rand
	tick   int
}

// NewSimulator creates a simulator with the given config and random source.
// A nil rng falls back to a time-seeded source; tests inject a fixed seed
// for reproducibility.
func NewSimulator(config Config, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{
		config: config,
		rng:    rng,
	}
}

// Capture simulates n readings for the given profile. The tick counter
// advances by one per reading and persists across calls on the same
// simulator instance.
func (s *Simulator) Capture(profile scent.ScentProfile, n int) []scent.Reading {
	readings := make([]scent.Reading, 0, n)
	for i := 0; i < n; i++ {
		readings = append(readings, s.simulateSingle(profile))
		s.tick++
	}
	return readings
}

// simulateSingle produces one reading at the current tick. The drift term is
// computed once and shared across every channel of the reading; noise is
// drawn independently per channel. No channel may go negative.
func (s *Simulator) simulateSingle(profile scent.ScentProfile) scent.Reading {
	drift := s.config.DriftRate * math.Sin(float64(s.tick)/driftPeriod)

	means := profile.Mean.Values()
	variances := profile.Variance.Values()

	var values [scent.NumFeatures]float64
	for i := range values {
		baseline := means[i]
		variance := variances[i]
		noise := (s.rng.Float64() - 0.5) * variance * 2
		values[i] = math.Max(0.0, baseline*(1+noise+drift*s.config.BaselineNoise))
	}

	return scent.Reading{
		Features:    scent.VectorFromValues(values),
		ScentFamily: profile.Name,
	}
}

// Tick returns the current tick counter value.
func (s *Simulator) Tick() int {
	return s.tick
}
