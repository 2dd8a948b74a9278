// Package database provides the ClickHouse-backed dataset store, for
// deployments that keep training data in a shared warehouse instead of a
// local CSV file.
package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"digital-nose/internal/dataset"
	"digital-nose/internal/scent"
)

// readingsTable holds one row per labeled reading. The seq column preserves
// insertion order so the dataset reads back exactly as it was built.
const readingsTable = "scent_readings"

const createReadingsTable = `
	CREATE TABLE IF NOT EXISTS scent_readings (
		seq UInt64,
		acetone_ppb Float64,
		ethanol_ppb Float64,
		toluene_ppb Float64,
		ammonia_ppb Float64,
		hydrogen_sulfide_ppb Float64,
		terpene_ppb Float64,
		temperature_c Float64,
		humidity_pct Float64,
		scent_family String,
		created_at DateTime DEFAULT now()
	) ENGINE = MergeTree()
	ORDER BY seq
`

// ClickHouseStore implements dataset.Store on a ClickHouse connection.
type ClickHouseStore struct {
	conn     driver.Conn
	generate dataset.GeneratorFunc
}

// NewClickHouseStore connects, pings, and initializes the schema. The
// generator is invoked by Ensure when the table is empty or regeneration is
// forced.
func NewClickHouseStore(addr, database, username, password string, generate dataset.GeneratorFunc) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 5 * time.Second,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	log.Printf("ClickHouseStore: Connected to %s", addr)

	store := &ClickHouseStore{conn: conn, generate: generate}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates the readings table if it does not exist.
func (s *ClickHouseStore) initSchema() error {
	if err := s.conn.Exec(context.Background(), createReadingsTable); err != nil {
		return fmt.Errorf("failed to create table %s: %w", readingsTable, err)
	}
	return nil
}

// Ensure returns the stored dataset, generating and saving a fresh one when
// the table is empty or force is set.
func (s *ClickHouseStore) Ensure(ctx context.Context, force bool) (scent.Dataset, error) {
	count, err := s.rowCount(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 && !force {
		return s.Load(ctx)
	}

	data := s.generate()
	if err := s.Save(ctx, data); err != nil {
		return nil, err
	}
	log.Printf("ClickHouseStore: Generated dataset with %d rows", len(data))
	return data, nil
}

// Save replaces the stored dataset with the given rows in one batch insert.
func (s *ClickHouseStore) Save(ctx context.Context, data scent.Dataset) error {
	if err := s.conn.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s", readingsTable)); err != nil {
		return fmt.Errorf("failed to truncate %s: %w", readingsTable, err)
	}

	batch, err := s.conn.PrepareBatch(ctx, fmt.Sprintf(
		`INSERT INTO %s (seq, acetone_ppb, ethanol_ppb, toluene_ppb, ammonia_ppb,
			hydrogen_sulfide_ppb, terpene_ppb, temperature_c, humidity_pct, scent_family)`,
		readingsTable))
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for i, row := range data {
		v := row.Features
		err := batch.Append(
			uint64(i),
			v.AcetonePPB,
			v.EthanolPPB,
			v.ToluenePPB,
			v.AmmoniaPPB,
			v.HydrogenSulfidePPB,
			v.TerpenePPB,
			v.TemperatureC,
			v.HumidityPct,
			row.ScentFamily,
		)
		if err != nil {
			return fmt.Errorf("failed to append reading %d: %w", i, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}
	return nil
}

// Load reads the dataset back in insertion order.
func (s *ClickHouseStore) Load(ctx context.Context) (scent.Dataset, error) {
	rows, err := s.conn.Query(ctx, fmt.Sprintf(
		`SELECT acetone_ppb, ethanol_ppb, toluene_ppb, ammonia_ppb,
			hydrogen_sulfide_ppb, terpene_ppb, temperature_c, humidity_pct, scent_family
		FROM %s ORDER BY seq`,
		readingsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var data scent.Dataset
	for rows.Next() {
		var v scent.FeatureVector
		var label string
		err := rows.Scan(
			&v.AcetonePPB,
			&v.EthanolPPB,
			&v.ToluenePPB,
			&v.AmmoniaPPB,
			&v.HydrogenSulfidePPB,
			&v.TerpenePPB,
			&v.TemperatureC,
			&v.HumidityPct,
			&label,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		data = append(data, scent.Reading{Features: v, ScentFamily: label})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read readings: %w", err)
	}

	if len(data) == 0 {
		return nil, dataset.ErrNoDataset
	}
	return data, nil
}

// rowCount returns the number of stored readings.
func (s *ClickHouseStore) rowCount(ctx context.Context) (uint64, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, fmt.Sprintf("SELECT count() FROM %s", readingsTable))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count readings: %w", err)
	}
	return count, nil
}

// Close closes the ClickHouse connection.
func (s *ClickHouseStore) Close() error {
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			return fmt.Errorf("failed to close ClickHouse connection: %w", err)
		}
		log.Println("ClickHouseStore: Connection closed")
	}
	return nil
}
