package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"digital-nose/internal/scent"
)

// ErrInvalidArgument is returned for bad training inputs: an empty dataset
// or a test size outside (0, 1).
var ErrInvalidArgument = errors.New("invalid argument")

// distanceEpsilon keeps the distance-to-score conversion defined when a
// sample lands exactly on a centroid.
const distanceEpsilon = 1e-6

// Artifacts is the trained centroid model. Immutable once returned by Train.
type Artifacts struct {
	// Centroids maps each class label to the arithmetic mean of the
	// training rows with that label.
	Centroids map[string]scent.FeatureVector

	// Classes is the sorted set of labels seen in training. Prediction
	// iterates it in order, which also fixes the tie-break.
	Classes []string

	// FeatureColumns is the canonical ordered list of feature names the
	// model was trained over.
	FeatureColumns []string
}

// Metrics summarizes holdout evaluation.
type Metrics struct {
	// OverallAccuracy is correct/total over the holdout set, 0 when the
	// holdout is empty.
	OverallAccuracy float64 `json:"overall_accuracy"`

	// PerClassAccuracy maps label to holdout accuracy. A nil entry means
	// the label had no holdout rows, so accuracy is unavailable.
	PerClassAccuracy map[string]*float64 `json:"per_class_accuracy"`

	// SamplesEvaluated is the holdout row count.
	SamplesEvaluated int `json:"samples_evaluated"`
}

// Train fits the centroid classifier on a labeled dataset and evaluates it
// on a holdout split.
//
// The dataset is shuffled with a generator seeded by randomState, so the
// same seed and dataset always produce the same split and the same metrics.
// The holdout takes round(n*testSize) rows, clamped so at least one row
// remains on each side; datasets with fewer than two rows train and
// evaluate on the full data.
func Train(data scent.Dataset, testSize float64, randomState int64) (Artifacts, Metrics, error) {
	if testSize <= 0 || testSize >= 1 {
		return Artifacts{}, Metrics{}, fmt.Errorf("%w: test size must be in (0, 1), got %v", ErrInvalidArgument, testSize)
	}
	if len(data) == 0 {
		return Artifacts{}, Metrics{}, fmt.Errorf("%w: dataset must contain rows to train the model", ErrInvalidArgument)
	}

	rows := make(scent.Dataset, len(data))
	copy(rows, data)

	rng := rand.New(rand.NewSource(randomState))
	rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})

	var trainRows, testRows scent.Dataset
	if len(rows) < 2 {
		trainRows = rows
		testRows = rows
	} else {
		holdout := int(math.Round(float64(len(rows)) * testSize))
		if holdout < 1 {
			holdout = 1
		}
		if holdout >= len(rows) {
			holdout = len(rows) - 1
		}
		testRows = rows[:holdout]
		trainRows = rows[holdout:]
	}

	centroids := computeCentroids(trainRows)
	classes := make([]string, 0, len(centroids))
	for label := range centroids {
		classes = append(classes, label)
	}
	sort.Strings(classes)

	artifacts := Artifacts{
		Centroids:      centroids,
		Classes:        classes,
		FeatureColumns: scent.FeatureNames(),
	}

	metrics := evaluate(artifacts, testRows)
	return artifacts, metrics, nil
}

// computeCentroids averages feature values per label over training rows.
func computeCentroids(rows scent.Dataset) map[string]scent.FeatureVector {
	totals := make(map[string][scent.NumFeatures]float64)
	counts := make(map[string]int)

	for _, row := range rows {
		sum := totals[row.ScentFamily]
		values := row.Features.Values()
		for i := range sum {
			sum[i] += values[i]
		}
		totals[row.ScentFamily] = sum
		counts[row.ScentFamily]++
	}

	centroids := make(map[string]scent.FeatureVector, len(totals))
	for label, sum := range totals {
		count := counts[label]
		for i := range sum {
			sum[i] /= float64(count)
		}
		centroids[label] = scent.VectorFromValues(sum)
	}
	return centroids
}

// Predict classifies a single sample against the trained centroids. It
// returns the winning label and a probability per class; probabilities are
// normalized inverse distances and sum to 1 over exactly artifacts.Classes.
func Predict(artifacts Artifacts, sample scent.FeatureVector) (string, map[string]float64, error) {
	if len(artifacts.Classes) == 0 {
		return "", nil, fmt.Errorf("%w: model has no trained classes", ErrInvalidArgument)
	}

	scores := make(map[string]float64, len(artifacts.Classes))
	total := 0.0
	for _, label := range artifacts.Classes {
		distance := sample.Distance(artifacts.Centroids[label])
		score := 1.0 / (distance + distanceEpsilon)
		scores[label] = score
		total += score
	}

	probabilities := make(map[string]float64, len(scores))
	predicted := ""
	best := -1.0
	// Iterate Classes in order so ties resolve to the first label seen.
	for _, label := range artifacts.Classes {
		p := scores[label] / total
		probabilities[label] = p
		if p > best {
			best = p
			predicted = label
		}
	}
	return predicted, probabilities, nil
}

// evaluate runs prediction over every holdout row and accumulates overall
// and per-class accuracy.
func evaluate(artifacts Artifacts, testRows scent.Dataset) Metrics {
	type tally struct {
		correct int
		total   int
	}
	perClass := make(map[string]*tally, len(artifacts.Classes))
	for _, label := range artifacts.Classes {
		perClass[label] = &tally{}
	}

	correct := 0
	for _, row := range testRows {
		predicted, _, err := Predict(artifacts, row.Features)
		if err != nil {
			continue
		}
		counts, ok := perClass[row.ScentFamily]
		if !ok {
			counts = &tally{}
			perClass[row.ScentFamily] = counts
		}
		counts.total++
		if predicted == row.ScentFamily {
			counts.correct++
			correct++
		}
	}

	overall := 0.0
	if len(testRows) > 0 {
		overall = float64(correct) / float64(len(testRows))
	}

	perClassAccuracy := make(map[string]*float64, len(perClass))
	for label, counts := range perClass {
		if counts.total == 0 {
			perClassAccuracy[label] = nil
			continue
		}
		accuracy := float64(counts.correct) / float64(counts.total)
		perClassAccuracy[label] = &accuracy
	}

	return Metrics{
		OverallAccuracy:  overall,
		PerClassAccuracy: perClassAccuracy,
		SamplesEvaluated: len(testRows),
	}
}
