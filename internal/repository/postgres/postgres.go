package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flightcarbon/backend/internal/domain"
)

// PostgresRepository implements domain.DataRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the tables if they do not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS flight_estimates (
			id                TEXT PRIMARY KEY,
			seed              BIGINT NOT NULL,
			callsign          TEXT NOT NULL,
			airline           TEXT NOT NULL,
			aircraft          TEXT NOT NULL,
			origin            TEXT NOT NULL,
			destination       TEXT NOT NULL,
			distance_km       DOUBLE PRECISION NOT NULL,
			co2_kg            DOUBLE PRECISION NOT NULL,
			fuel_kg           DOUBLE PRECISION NOT NULL,
			passengers        INTEGER NOT NULL,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_flight_estimates_seed ON flight_estimates(seed)`,
		`CREATE TABLE IF NOT EXISTS emissions_snapshots (
			id            TEXT PRIMARY KEY,
			baseline_tons DOUBLE PRECISION NOT NULL,
			today         DOUBLE PRECISION NOT NULL,
			this_week     DOUBLE PRECISION NOT NULL,
			this_month    DOUBLE PRECISION NOT NULL,
			this_year     DOUBLE PRECISION NOT NULL,
			recorded_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_emissions_snapshots_recorded_at ON emissions_snapshots(recorded_at)`,
	}

	for _, stmt := range stmts {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: failed to create schema: %w", err)
		}
	}
	return nil
}

// insertFlightSQL skips ids that are already stored. Ids derive from the
// seed, so regenerating a seed or growing its count repeats them.
const insertFlightSQL = `
	INSERT INTO flight_estimates (
		id, seed, callsign, airline, aircraft, origin, destination,
		distance_km, co2_kg, fuel_kg, passengers
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (id) DO NOTHING
`

// SaveFleet stores the estimates of a generated fleet in one batch
func (r *PostgresRepository) SaveFleet(ctx context.Context, seed int64, flights []domain.FlightRecord) error {
	if len(flights) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, f := range flights {
		batch.Queue(insertFlightSQL,
			f.ID, seed, f.Callsign, f.Airline, f.Aircraft, f.Origin, f.Destination,
			f.Emissions.DistanceKm, f.Emissions.CO2Kg, f.Emissions.FuelConsumptionKg, f.Emissions.Passengers,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	for _, f := range flights {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("postgres: failed to save flight %s: %w", f.ID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("postgres: failed to save fleet: %w", err)
	}

	return nil
}

// SaveSnapshot persists a timeframe snapshot to PostgreSQL
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, rec domain.SnapshotRecord) error {
	query := `
		INSERT INTO emissions_snapshots (
			id, baseline_tons, today, this_week, this_month, this_year, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.BaselineTons, rec.Snapshot.Today, rec.Snapshot.ThisWeek,
		rec.Snapshot.ThisMonth, rec.Snapshot.ThisYear, rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save snapshot: %w", err)
	}

	return nil
}

// GetHistoricalSnapshots retrieves snapshot history from PostgreSQL
func (r *PostgresRepository) GetHistoricalSnapshots(ctx context.Context, from, to time.Time) ([]domain.SnapshotRecord, error) {
	query := `
		SELECT id, baseline_tons, today, this_week, this_month, this_year, recorded_at
		FROM emissions_snapshots
		WHERE recorded_at BETWEEN $1 AND $2
		ORDER BY recorded_at DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var results []domain.SnapshotRecord
	for rows.Next() {
		var s domain.SnapshotRecord
		err := rows.Scan(
			&s.ID, &s.BaselineTons, &s.Snapshot.Today, &s.Snapshot.ThisWeek,
			&s.Snapshot.ThisMonth, &s.Snapshot.ThisYear, &s.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan snapshot row: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to read snapshot rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

var _ domain.DataRepository = (*PostgresRepository)(nil)
