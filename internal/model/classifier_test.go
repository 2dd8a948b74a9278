package model

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-nose/internal/dataset"
	"digital-nose/internal/scent"
	"digital-nose/internal/sensors"
)

// buildDataset generates a deterministic labeled dataset: 4 profiles,
// samplesPerProfile rows each.
func buildDataset(t *testing.T, samplesPerProfile int, seed int64) scent.Dataset {
	t.Helper()
	sim := sensors.NewSimulator(sensors.DefaultConfig(), rand.New(rand.NewSource(seed)))
	return dataset.Sample(scent.DefaultProfiles(), samplesPerProfile, sim)
}

func TestTrainRejectsBadArguments(t *testing.T) {
	data := buildDataset(t, 5, 1)

	tests := []struct {
		name     string
		data     scent.Dataset
		testSize float64
	}{
		{"empty dataset", scent.Dataset{}, 0.2},
		{"nil dataset", nil, 0.2},
		{"test size zero", data, 0},
		{"test size one", data, 1},
		{"test size negative", data, -0.5},
		{"test size above one", data, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Train(tt.data, tt.testSize, 0)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestTrainDeterministicPerSeed(t *testing.T) {
	data := buildDataset(t, 30, 3)

	artifactsA, metricsA, err := Train(data, 0.3, 17)
	require.NoError(t, err)
	artifactsB, metricsB, err := Train(data, 0.3, 17)
	require.NoError(t, err)

	assert.Equal(t, artifactsA.Classes, artifactsB.Classes)
	assert.Equal(t, artifactsA.Centroids, artifactsB.Centroids)
	assert.Equal(t, metricsA.OverallAccuracy, metricsB.OverallAccuracy)
	assert.Equal(t, metricsA.SamplesEvaluated, metricsB.SamplesEvaluated)
	require.Equal(t, len(metricsA.PerClassAccuracy), len(metricsB.PerClassAccuracy))
	for label, accA := range metricsA.PerClassAccuracy {
		accB, ok := metricsB.PerClassAccuracy[label]
		require.True(t, ok)
		if accA == nil {
			assert.Nil(t, accB)
		} else {
			require.NotNil(t, accB)
			assert.Equal(t, *accA, *accB)
		}
	}
}

func TestTrainDoesNotMutateInput(t *testing.T) {
	data := buildDataset(t, 10, 3)
	before := make(scent.Dataset, len(data))
	copy(before, data)

	_, _, err := Train(data, 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, before, data)
}

func TestTrainHoldoutSize(t *testing.T) {
	data := buildDataset(t, 20, 1) // 80 rows

	_, metrics, err := Train(data, 0.25, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, metrics.SamplesEvaluated)
}

func TestTrainSingleRowDegenerateSplit(t *testing.T) {
	data := buildDataset(t, 20, 1)[:1]

	artifacts, metrics, err := Train(data, 0.5, 0)
	require.NoError(t, err)

	// Train and test both equal the full dataset: one class, evaluated on
	// the single row it was trained on.
	assert.Equal(t, []string{data[0].ScentFamily}, artifacts.Classes)
	assert.Equal(t, 1, metrics.SamplesEvaluated)
	assert.Equal(t, 1.0, metrics.OverallAccuracy)
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	data := buildDataset(t, 20, 2)
	artifacts, _, err := Train(data, 0.25, 0)
	require.NoError(t, err)

	sim := sensors.NewSimulator(sensors.DefaultConfig(), rand.New(rand.NewSource(5)))
	for _, profile := range scent.DefaultProfiles() {
		reading := sim.Capture(profile, 1)[0]
		predicted, probabilities, err := Predict(artifacts, reading.Features)
		require.NoError(t, err)

		require.Len(t, probabilities, len(artifacts.Classes))
		sum := 0.0
		for _, label := range artifacts.Classes {
			p, ok := probabilities[label]
			require.True(t, ok, "class %s missing from probabilities", label)
			assert.GreaterOrEqual(t, p, 0.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-6)
		assert.Contains(t, artifacts.Classes, predicted)
		assert.Equal(t, probabilities[predicted], maxProbability(probabilities))
	}
}

func maxProbability(probabilities map[string]float64) float64 {
	best := -1.0
	for _, p := range probabilities {
		if p > best {
			best = p
		}
	}
	return best
}

func TestPredictOnCentroidIsConfident(t *testing.T) {
	data := buildDataset(t, 20, 2)
	artifacts, _, err := Train(data, 0.25, 0)
	require.NoError(t, err)

	// A sample sitting exactly on a centroid must classify as that class.
	for label, centroid := range artifacts.Centroids {
		predicted, probabilities, err := Predict(artifacts, centroid)
		require.NoError(t, err)
		assert.Equal(t, label, predicted)
		assert.Greater(t, probabilities[label], 0.9)
	}
}

func TestPredictUntrainedModel(t *testing.T) {
	_, _, err := Predict(Artifacts{}, scent.FeatureVector{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestEndToEndPipeline(t *testing.T) {
	data := buildDataset(t, 20, 1) // 80 rows, 4 classes

	artifacts, metrics, err := Train(data, 0.25, 0)
	require.NoError(t, err)

	assert.Len(t, artifacts.Classes, 4)
	assert.True(t, sort.StringsAreSorted(artifacts.Classes))
	assert.GreaterOrEqual(t, metrics.OverallAccuracy, 0.0)
	assert.LessOrEqual(t, metrics.OverallAccuracy, 1.0)
	assert.Equal(t, scent.FeatureNames(), artifacts.FeatureColumns)
}

func TestCitrusRanksTopTwo(t *testing.T) {
	// Statistical sanity check on centroid separability: across 100 fresh
	// citrus captures, the citrus probability must land in the top two in
	// at least 80% of trials.
	data := buildDataset(t, 20, 1)
	artifacts, _, err := Train(data, 0.25, 0)
	require.NoError(t, err)

	citrus, err := scent.ProfileByName(scent.DefaultProfiles(), "citrus")
	require.NoError(t, err)

	sim := sensors.NewSimulator(sensors.DefaultConfig(), rand.New(rand.NewSource(7)))
	const trials = 100
	topTwo := 0
	for i := 0; i < trials; i++ {
		reading := sim.Capture(citrus, 1)[0]
		_, probabilities, err := Predict(artifacts, reading.Features)
		require.NoError(t, err)

		higher := 0
		for label, p := range probabilities {
			if label != "citrus" && p > probabilities["citrus"] {
				higher++
			}
		}
		if higher < 2 {
			topTwo++
		}
	}
	assert.GreaterOrEqual(t, topTwo, 80, "citrus in top-2 for only %d/%d trials", topTwo, trials)
}

func TestPerClassAccuracyNilForAbsentLabels(t *testing.T) {
	// Train with a label present only once: depending on the shuffle it can
	// end up with no holdout rows, in which case its per-class accuracy must
	// be nil rather than a division by zero. Construct the case directly.
	artifacts := Artifacts{
		Centroids: map[string]scent.FeatureVector{
			"a": {AcetonePPB: 1},
			"b": {AcetonePPB: 100},
		},
		Classes:        []string{"a", "b"},
		FeatureColumns: scent.FeatureNames(),
	}

	testRows := scent.Dataset{
		{Features: scent.FeatureVector{AcetonePPB: 1}, ScentFamily: "a"},
	}
	metrics := evaluate(artifacts, testRows)

	require.Contains(t, metrics.PerClassAccuracy, "b")
	assert.Nil(t, metrics.PerClassAccuracy["b"])
	require.NotNil(t, metrics.PerClassAccuracy["a"])
	assert.Equal(t, 1.0, *metrics.PerClassAccuracy["a"])
	assert.Equal(t, 1.0, metrics.OverallAccuracy)
}
