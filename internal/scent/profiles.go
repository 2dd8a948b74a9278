package scent

import (
	"errors"
	"fmt"
)

// ErrUnknownProfile is returned when a profile name is not in the registry.
var ErrUnknownProfile = errors.New("unknown scent profile")

// defaultVariance fills in for any channel whose variance was left unset.
const defaultVariance = 0.1

// ScentProfile is an idealized per-family feature distribution used to
// synthesize readings. Immutable after construction.
type ScentProfile struct {
	Name     string
	Mean     FeatureVector
	Variance FeatureVector
}

// NewScentProfile builds a profile, defaulting any non-positive variance
// channel to 0.1 so every channel always has usable spread.
func NewScentProfile(name string, mean, variance FeatureVector) ScentProfile {
	values := variance.Values()
	for i, v := range values {
		if v <= 0 {
			values[i] = defaultVariance
		}
	}
	return ScentProfile{
		Name:     name,
		Mean:     mean,
		Variance: VectorFromValues(values),
	}
}

// uniformVariance gives every channel the same variance.
func uniformVariance(v float64) FeatureVector {
	var values [NumFeatures]float64
	for i := range values {
		values[i] = v
	}
	return VectorFromValues(values)
}

// DefaultProfiles returns the fixed, ordered registry of scent families.
// Iteration order is part of the dataset contract: generated datasets hold
// one contiguous block per profile in this order.
func DefaultProfiles() []ScentProfile {
	return []ScentProfile{
		NewScentProfile("citrus", FeatureVector{
			AcetonePPB:         120.0,
			EthanolPPB:         80.0,
			ToluenePPB:         5.0,
			AmmoniaPPB:         3.0,
			HydrogenSulfidePPB: 2.0,
			TerpenePPB:         150.0,
			TemperatureC:       23.0,
			HumidityPct:        40.0,
		}, uniformVariance(0.10)),
		NewScentProfile("herbal", FeatureVector{
			AcetonePPB:         35.0,
			EthanolPPB:         60.0,
			ToluenePPB:         15.0,
			AmmoniaPPB:         10.0,
			HydrogenSulfidePPB: 4.0,
			TerpenePPB:         90.0,
			TemperatureC:       22.5,
			HumidityPct:        50.0,
		}, uniformVariance(0.15)),
		NewScentProfile("woody", FeatureVector{
			AcetonePPB:         45.0,
			EthanolPPB:         35.0,
			ToluenePPB:         30.0,
			AmmoniaPPB:         6.0,
			HydrogenSulfidePPB: 3.5,
			TerpenePPB:         200.0,
			TemperatureC:       21.0,
			HumidityPct:        45.0,
		}, uniformVariance(0.12)),
		NewScentProfile("sweet", FeatureVector{
			AcetonePPB:         15.0,
			EthanolPPB:         95.0,
			ToluenePPB:         8.0,
			AmmoniaPPB:         4.0,
			HydrogenSulfidePPB: 2.5,
			TerpenePPB:         170.0,
			TemperatureC:       22.0,
			HumidityPct:        48.0,
		}, uniformVariance(0.08)),
	}
}

// ProfileByName looks up a profile in the given registry.
func ProfileByName(profiles []ScentProfile, name string) (ScentProfile, error) {
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return ScentProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// ProfileNames returns the registry names in iteration order.
func ProfileNames(profiles []ScentProfile) []string {
	names := make([]string, 0, len(profiles))
	for _, p := range profiles {
		names = append(names, p.Name)
	}
	return names
}
