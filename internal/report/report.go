// Package report builds immutable classification summaries for display and
// serialization by the front ends.
package report

import (
	"errors"
	"fmt"
	"math"
	"time"

	"digital-nose/internal/scent"
)

// ErrMissingLabel is returned when the predicted family is absent from the
// probability map. The classifier contract makes this unreachable in normal
// operation, but it is checked rather than trusted.
var ErrMissingLabel = errors.New("predicted family missing from probabilities")

// ScentReport is the result of one classification. Built only through
// FromPrediction and never mutated afterwards.
type ScentReport struct {
	Timestamp        time.Time
	PredictedFamily  string
	Confidence       float64
	IntensityIndex   float64
	RawProbabilities map[string]float64
	Environment      scent.Environment
}

// FromPrediction assembles a report from classifier output. The probability
// map is copied so later caller mutation cannot reach the report.
func FromPrediction(predictedFamily string, probabilities map[string]float64, intensityIndex float64, env scent.Environment) (ScentReport, error) {
	confidence, ok := probabilities[predictedFamily]
	if !ok {
		return ScentReport{}, fmt.Errorf("%w: %q", ErrMissingLabel, predictedFamily)
	}

	probs := make(map[string]float64, len(probabilities))
	for label, p := range probabilities {
		probs[label] = p
	}

	return ScentReport{
		Timestamp:        time.Now().UTC(),
		PredictedFamily:  predictedFamily,
		Confidence:       confidence,
		IntensityIndex:   intensityIndex,
		RawProbabilities: probs,
		Environment:      env,
	}, nil
}

// Doc is the serialized form of a report shared by every front end:
// terminal table, JSON API response, and MQTT payload all render this.
type Doc struct {
	Timestamp        string             `json:"timestamp"`
	PredictedFamily  string             `json:"predicted_family"`
	Confidence       float64            `json:"confidence"`
	IntensityIndex   float64            `json:"intensity_index"`
	RawProbabilities map[string]float64 `json:"raw_probabilities"`
	Environment      map[string]float64 `json:"environment"`
}

// Doc returns the display representation. Confidence and probabilities are
// rounded to 4 decimals, intensity and environment to 2; rounding here is a
// display convenience only, internal values keep full precision.
func (r ScentReport) Doc() Doc {
	probs := make(map[string]float64, len(r.RawProbabilities))
	for label, p := range r.RawProbabilities {
		probs[label] = roundTo(p, 4)
	}
	return Doc{
		Timestamp:        r.Timestamp.Format(time.RFC3339),
		PredictedFamily:  r.PredictedFamily,
		Confidence:       roundTo(r.Confidence, 4),
		IntensityIndex:   roundTo(r.IntensityIndex, 2),
		RawProbabilities: probs,
		Environment: map[string]float64{
			"temperature_c": roundTo(r.Environment.TemperatureC, 2),
			"humidity_pct":  roundTo(r.Environment.HumidityPct, 2),
		},
	}
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
