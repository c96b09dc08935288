package core

import (
	"context"
	"sync"
	"time"
)

// JobAction represents the type of job being recorded.
type JobAction string

const (
	JobUpload JobAction = "upload"
	JobClean  JobAction = "clean"
	JobExport JobAction = "export"
)

// JobRecord is one entry in the cleaning-job audit trail. It records
// what was done to a file, never the file's data.
type JobRecord struct {
	ID          string        `json:"id"`
	Action      JobAction     `json:"action"`
	FileName    string        `json:"fileName"`
	RowsIn      int           `json:"rowsIn"`
	RowsOut     int           `json:"rowsOut"`
	ScoreBefore int           `json:"scoreBefore"`
	ScoreAfter  int           `json:"scoreAfter"`
	Steps       []string      `json:"steps,omitempty"`
	Target      string        `json:"target,omitempty"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// JobStore persists job records. Implementations must be safe for
// concurrent use. Recording failures are logged by callers, never
// surfaced to the user; history is best-effort.
type JobStore interface {
	RecordJob(ctx context.Context, rec JobRecord) error
	RecentJobs(ctx context.Context, limit int) ([]JobRecord, error)
}

// MemoryJobStore keeps the most recent job records in memory.
// It is the default store when no database is configured.
type MemoryJobStore struct {
	mu   sync.RWMutex
	recs []JobRecord
	max  int
}

// NewMemoryJobStore creates a store retaining at most max records.
func NewMemoryJobStore(max int) *MemoryJobStore {
	if max <= 0 {
		max = 100
	}
	return &MemoryJobStore{max: max}
}

// RecordJob appends a record, evicting the oldest when full.
func (s *MemoryJobStore) RecordJob(_ context.Context, rec JobRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recs = append(s.recs, rec)
	if len(s.recs) > s.max {
		s.recs = s.recs[len(s.recs)-s.max:]
	}
	return nil
}

// RecentJobs returns up to limit records, newest first.
func (s *MemoryJobStore) RecentJobs(_ context.Context, limit int) ([]JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recs) {
		limit = len(s.recs)
	}

	out := make([]JobRecord, 0, limit)
	for i := len(s.recs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.recs[i])
	}
	return out, nil
}
