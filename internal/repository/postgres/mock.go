package postgres

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flightcarbon/backend/internal/domain"
)

// maxMockSnapshots bounds the in-memory history
const maxMockSnapshots = 100

// MockRepository implements domain.DataRepository in memory for testing/demo mode
type MockRepository struct {
	mu        sync.Mutex
	flightIDs map[string]int64 // id -> seed
	snapshots []domain.SnapshotRecord
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{flightIDs: make(map[string]int64)}
}

// SaveFleet keeps flight ids only; repeated ids are ignored like in PostgreSQL
func (r *MockRepository) SaveFleet(ctx context.Context, seed int64, flights []domain.FlightRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range flights {
		if _, ok := r.flightIDs[f.ID]; !ok {
			r.flightIDs[f.ID] = seed
		}
	}
	return nil
}

// SaveSnapshot keeps the most recent snapshots in memory
func (r *MockRepository) SaveSnapshot(ctx context.Context, rec domain.SnapshotRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = append(r.snapshots, rec)
	if len(r.snapshots) > maxMockSnapshots {
		r.snapshots = r.snapshots[len(r.snapshots)-maxMockSnapshots:]
	}
	return nil
}

// GetHistoricalSnapshots returns stored snapshots in the range, newest first
func (r *MockRepository) GetHistoricalSnapshots(ctx context.Context, from, to time.Time) ([]domain.SnapshotRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []domain.SnapshotRecord
	for _, s := range r.snapshots {
		if !s.RecordedAt.Before(from) && !s.RecordedAt.After(to) {
			results = append(results, s)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RecordedAt.After(results[j].RecordedAt)
	})
	return results, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

var _ domain.DataRepository = (*MockRepository)(nil)
