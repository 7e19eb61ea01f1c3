// Package sqlite stores fleets and emissions snapshots in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/flightcarbon/backend/internal/domain"
)

// Repository implements domain.DataRepository using SQLite
type Repository struct {
	db *sql.DB
}

// New opens the database file and initializes the schema
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to configure database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to initialize schema: %w", err)
	}

	return repo, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		// async persistence writes from several goroutines
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

func (r *Repository) initSchema() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS flight_estimates (
			id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			callsign TEXT NOT NULL,
			airline TEXT NOT NULL,
			aircraft TEXT NOT NULL,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			distance_km REAL NOT NULL,
			co2_kg REAL NOT NULL,
			fuel_kg REAL NOT NULL,
			passengers INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS emissions_snapshots (
			id TEXT PRIMARY KEY,
			baseline_tons REAL NOT NULL,
			today REAL NOT NULL,
			this_week REAL NOT NULL,
			this_month REAL NOT NULL,
			this_year REAL NOT NULL,
			recorded_at INTEGER NOT NULL
		);`,
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_flight_estimates_seed ON flight_estimates(seed)`,
		`CREATE INDEX IF NOT EXISTS idx_emissions_snapshots_recorded_at ON emissions_snapshots(recorded_at)`,
	}

	for _, stmt := range append(tables, indexes...) {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveFleet inserts all estimates of a fleet in a single transaction.
// Regenerating the same seed is a no-op since ids repeat.
func (r *Repository) SaveFleet(ctx context.Context, seed int64, flights []domain.FlightRecord) error {
	if len(flights) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO flight_estimates (
		id, seed, callsign, airline, aircraft, origin, destination,
		distance_km, co2_kg, fuel_kg, passengers
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlite: failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, f := range flights {
		if _, err := stmt.ExecContext(ctx,
			f.ID, seed, f.Callsign, f.Airline, f.Aircraft, f.Origin, f.Destination,
			f.Emissions.DistanceKm, f.Emissions.CO2Kg, f.Emissions.FuelConsumptionKg, f.Emissions.Passengers,
		); err != nil {
			return fmt.Errorf("sqlite: failed to insert flight %s: %w", f.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit transaction: %w", err)
	}

	return nil
}

// SaveSnapshot persists a timeframe snapshot
func (r *Repository) SaveSnapshot(ctx context.Context, rec domain.SnapshotRecord) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO emissions_snapshots (
		id, baseline_tons, today, this_week, this_month, this_year, recorded_at
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.BaselineTons, rec.Snapshot.Today, rec.Snapshot.ThisWeek,
		rec.Snapshot.ThisMonth, rec.Snapshot.ThisYear, rec.RecordedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save snapshot: %w", err)
	}
	return nil
}

// GetHistoricalSnapshots returns snapshots recorded in [from, to], newest first
func (r *Repository) GetHistoricalSnapshots(ctx context.Context, from, to time.Time) ([]domain.SnapshotRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, baseline_tons, today, this_week, this_month, this_year, recorded_at
		FROM emissions_snapshots
		WHERE recorded_at BETWEEN ? AND ?
		ORDER BY recorded_at DESC
		LIMIT 100`,
		from.UnixNano(), to.UnixNano(),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var results []domain.SnapshotRecord
	for rows.Next() {
		var (
			s          domain.SnapshotRecord
			recordedAt int64
		)
		if err := rows.Scan(
			&s.ID, &s.BaselineTons, &s.Snapshot.Today, &s.Snapshot.ThisWeek,
			&s.Snapshot.ThisMonth, &s.Snapshot.ThisYear, &recordedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan snapshot row: %w", err)
		}
		s.RecordedAt = time.Unix(0, recordedAt).UTC()
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to read snapshot rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

var _ domain.DataRepository = (*Repository)(nil)
