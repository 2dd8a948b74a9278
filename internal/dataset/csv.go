package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"digital-nose/internal/scent"
)

// labelColumn is the last CSV column, after the 8 feature columns.
const labelColumn = "scent_family"

// CSVStore persists the dataset as a flat CSV file: the 8 feature columns
// in canonical order plus the label column.
type CSVStore struct {
	path     string
	generate GeneratorFunc
}

// NewCSVStore creates a store writing to path. The generator is invoked by
// Ensure when the file is missing or regeneration is forced.
func NewCSVStore(path string, generate GeneratorFunc) *CSVStore {
	return &CSVStore{
		path:     path,
		generate: generate,
	}
}

// Ensure returns the dataset at the store's path, generating it first if
// the file does not exist or force is set.
func (s *CSVStore) Ensure(ctx context.Context, force bool) (scent.Dataset, error) {
	if _, err := os.Stat(s.path); err == nil && !force {
		return s.Load(ctx)
	}

	data := s.generate()
	if err := s.Save(ctx, data); err != nil {
		return nil, err
	}
	log.Printf("CSVStore: Generated dataset with %d rows at %s", len(data), s.path)
	return data, nil
}

// Save writes the dataset, creating parent directories as needed.
func (s *CSVStore) Save(_ context.Context, data scent.Dataset) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(scent.FeatureNames(), labelColumn)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write dataset header: %w", err)
	}

	record := make([]string, scent.NumFeatures+1)
	for _, row := range data {
		values := row.Features.Values()
		for i, v := range values {
			record[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		record[scent.NumFeatures] = row.ScentFamily
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write dataset row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush dataset file: %w", err)
	}
	return nil
}

// Load reads the dataset back, validating the header and every row shape.
func (s *CSVStore) Load(_ context.Context) (scent.Dataset, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoDataset
		}
		return nil, fmt.Errorf("failed to open dataset file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset file %s is empty", s.path)
	}

	header := records[0]
	if len(header) != scent.NumFeatures+1 || header[scent.NumFeatures] != labelColumn {
		return nil, fmt.Errorf("dataset file %s has unexpected columns %v", s.path, header)
	}

	data := make(scent.Dataset, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		if len(record) != scent.NumFeatures+1 {
			return nil, fmt.Errorf("dataset row %d has %d columns, want %d", lineNo+2, len(record), scent.NumFeatures+1)
		}
		var values [scent.NumFeatures]float64
		for i := 0; i < scent.NumFeatures; i++ {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, fmt.Errorf("dataset row %d column %s: %w", lineNo+2, header[i], err)
			}
			values[i] = v
		}
		label := record[scent.NumFeatures]
		if label == "" {
			return nil, fmt.Errorf("dataset row %d has an empty label", lineNo+2)
		}
		data = append(data, scent.Reading{
			Features:    scent.VectorFromValues(values),
			ScentFamily: label,
		})
	}
	return data, nil
}

// Close is a no-op for the CSV store.
func (s *CSVStore) Close() error {
	return nil
}
