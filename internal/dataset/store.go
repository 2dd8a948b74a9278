package dataset

import (
	"context"
	"errors"

	"digital-nose/internal/scent"
)

// ErrNoDataset is returned by Load when no dataset has been persisted yet.
var ErrNoDataset = errors.New("no dataset available")

// GeneratorFunc produces a fresh dataset when a store has nothing persisted
// or is asked to regenerate.
type GeneratorFunc func() scent.Dataset

// Store is the persistence boundary for training data. Ensure is
// idempotent: repeated calls return the same persisted dataset unless force
// asks for regeneration.
type Store interface {
	// Ensure returns the persisted dataset, generating and saving one
	// first if none exists or force is set.
	Ensure(ctx context.Context, force bool) (scent.Dataset, error)

	// Save persists a dataset, replacing any previous one.
	Save(ctx context.Context, data scent.Dataset) error

	// Load reads back the persisted dataset, ErrNoDataset if absent.
	Load(ctx context.Context) (scent.Dataset, error)

	// Close releases any underlying resources.
	Close() error
}
