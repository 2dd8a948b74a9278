package dataset

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital-nose/internal/scent"
	"digital-nose/internal/sensors"
)

func testGenerator(samplesPerProfile int) GeneratorFunc {
	return func() scent.Dataset {
		sim := sensors.NewSimulator(sensors.DefaultConfig(), rand.New(rand.NewSource(1)))
		return Sample(scent.DefaultProfiles(), samplesPerProfile, sim)
	}
}

func TestCSVStoreSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")
	store := NewCSVStore(path, testGenerator(5))

	data := testGenerator(5)()
	require.NoError(t, store.Save(context.Background(), data))

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, data, loaded)
}

func TestCSVStoreLoadMissingFile(t *testing.T) {
	store := NewCSVStore(filepath.Join(t.TempDir(), "missing.csv"), testGenerator(5))

	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestCSVStoreEnsureGeneratesOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "readings.csv")

	calls := 0
	gen := testGenerator(5)
	store := NewCSVStore(path, func() scent.Dataset {
		calls++
		return gen()
	})

	first, err := store.Ensure(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Len(t, first, 20)

	// Second call reads the file back without regenerating.
	second, err := store.Ensure(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCSVStoreEnsureForceRegenerates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "readings.csv")

	calls := 0
	gen := testGenerator(5)
	store := NewCSVStore(path, func() scent.Dataset {
		calls++
		return gen()
	})

	_, err := store.Ensure(context.Background(), false)
	require.NoError(t, err)
	_, err = store.Ensure(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCSVStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))

	store := NewCSVStore(path, testGenerator(5))
	_, err := store.Load(context.Background())
	require.Error(t, err)
}
