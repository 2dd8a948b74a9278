// Package app wires the core components into one application context that
// every front end (CLI, web, MQTT bridge, TUI) shares. The context is built
// once at startup and passed explicitly; there is no package-level state.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"digital-nose/internal/database"
	"digital-nose/internal/dataset"
	"digital-nose/internal/model"
	"digital-nose/internal/report"
	"digital-nose/internal/scent"
	"digital-nose/internal/sensors"
	"digital-nose/pkg/config"
)

// ErrNotTrained is returned by operations that need a trained model before
// TrainAndEvaluate has run.
var ErrNotTrained = errors.New("model has not been trained")

// App owns the simulator, the dataset store, and the trained model. Safe
// for concurrent use: all mutable state is guarded by the mutex.
type App struct {
	cfg      *config.Config
	profiles []scent.ScentProfile
	store    dataset.Store

	mu        sync.Mutex
	simulator *sensors.Simulator
	artifacts model.Artifacts
	metrics   model.Metrics
	trained   bool
}

// New builds the application context from configuration, selecting the
// dataset store backend and creating the live-capture simulator.
func New(cfg *config.Config) (*App, error) {
	profiles := scent.DefaultProfiles()

	sensorConfig := sensors.Config{
		BaselineNoise: cfg.BaselineNoise,
		DriftRate:     cfg.DriftRate,
		SampleRateHz:  cfg.SampleRateHz,
	}

	// The generator uses its own simulator so dataset generation does not
	// advance the live-capture tick counter.
	generate := func() scent.Dataset {
		sim := sensors.NewSimulator(sensorConfig, rand.New(rand.NewSource(cfg.RandomState)))
		return dataset.Sample(profiles, cfg.SamplesPerProfile, sim)
	}

	var store dataset.Store
	switch cfg.StoreBackend {
	case config.StoreCSV:
		store = dataset.NewCSVStore(cfg.DatasetPath, generate)
	case config.StoreClickHouse:
		chStore, err := database.NewClickHouseStore(
			cfg.ClickHouseAddr,
			cfg.ClickHouseDB,
			cfg.ClickHouseUser,
			cfg.ClickHousePass,
			generate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ClickHouse store: %w", err)
		}
		store = chStore
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	return &App{
		cfg:       cfg,
		profiles:  profiles,
		store:     store,
		simulator: sensors.NewSimulator(sensorConfig, rand.New(rand.NewSource(time.Now().UnixNano()))),
	}, nil
}

// Profiles returns the fixed profile registry.
func (a *App) Profiles() []scent.ScentProfile {
	return a.profiles
}

// EnsureDataset makes sure a dataset is persisted and returns it.
func (a *App) EnsureDataset(ctx context.Context, force bool) (scent.Dataset, error) {
	return a.store.Ensure(ctx, force)
}

// TrainAndEvaluate loads (or generates) the dataset, trains the classifier,
// and stores the artifacts for subsequent captures.
func (a *App) TrainAndEvaluate(ctx context.Context) (model.Metrics, error) {
	data, err := a.store.Ensure(ctx, false)
	if err != nil {
		return model.Metrics{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	artifacts, metrics, err := model.Train(data, a.cfg.TestSize, a.cfg.RandomState)
	if err != nil {
		return model.Metrics{}, err
	}

	a.mu.Lock()
	a.artifacts = artifacts
	a.metrics = metrics
	a.trained = true
	a.mu.Unlock()

	log.Printf("App: Model trained on %d rows, %d classes, holdout accuracy %.3f",
		len(data), len(artifacts.Classes), metrics.OverallAccuracy)
	return metrics, nil
}

// Trained reports whether a model is available.
func (a *App) Trained() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trained
}

// Metrics returns the evaluation metrics from the last training run.
func (a *App) Metrics() (model.Metrics, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.trained {
		return model.Metrics{}, ErrNotTrained
	}
	return a.metrics, nil
}

// Artifacts returns the trained model artifacts.
func (a *App) Artifacts() (model.Artifacts, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.trained {
		return model.Artifacts{}, ErrNotTrained
	}
	return a.artifacts, nil
}

// CaptureSample simulates one live reading for the named profile,
// classifies it, and builds the scent report.
func (a *App) CaptureSample(profileName string) (scent.Reading, report.ScentReport, error) {
	profile, err := scent.ProfileByName(a.profiles, profileName)
	if err != nil {
		return scent.Reading{}, report.ScentReport{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.trained {
		return scent.Reading{}, report.ScentReport{}, ErrNotTrained
	}

	reading := a.simulator.Capture(profile, 1)[0]
	predicted, probabilities, err := model.Predict(a.artifacts, reading.Features)
	if err != nil {
		return scent.Reading{}, report.ScentReport{}, err
	}

	rep, err := report.FromPrediction(
		predicted,
		probabilities,
		report.IntensityFromTotalVOC(reading.Features.TotalVOC()),
		reading.Features.Environment(),
	)
	if err != nil {
		return scent.Reading{}, report.ScentReport{}, err
	}
	return reading, rep, nil
}

// Close releases the dataset store.
func (a *App) Close() error {
	return a.store.Close()
}
