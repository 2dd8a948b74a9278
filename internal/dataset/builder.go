// Package dataset builds labeled training data from the sensor simulator
// and persists it through pluggable stores.
package dataset

import (
	"digital-nose/internal/scent"
	"digital-nose/internal/sensors"
)

// DefaultSamplesPerProfile is the standard dataset size per scent family.
const DefaultSamplesPerProfile = 120

// Sample generates a labeled dataset by capturing samplesPerProfile readings
// for each profile in registry order. Rows stay in insertion order, one
// contiguous block per profile; shuffling for the train/test split is the
// classifier's job, not the builder's.
func Sample(profiles []scent.ScentProfile, samplesPerProfile int, simulator *sensors.Simulator) scent.Dataset {
	data := make(scent.Dataset, 0, len(profiles)*samplesPerProfile)
	for _, profile := range profiles {
		data = append(data, simulator.Capture(profile, samplesPerProfile)...)
	}
	return data
}
