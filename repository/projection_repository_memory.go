package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"debt-planner/domain"
)

// ProjectionRepositoryMemory is an in-memory implementation of
// ProjectionRepository.
type ProjectionRepositoryMemory struct {
	mu   sync.RWMutex
	data []domain.ProjectionRecord
}

func NewProjectionRepositoryMemory() *ProjectionRepositoryMemory {
	return &ProjectionRepositoryMemory{
		data: []domain.ProjectionRecord{},
	}
}

func (r *ProjectionRepositoryMemory) Save(
	_ context.Context,
	rec domain.ProjectionRecord,
) (domain.ProjectionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.data = append(r.data, rec)
	r.mu.Unlock()
	return rec, nil
}

func (r *ProjectionRepositoryMemory) ListByDebt(
	_ context.Context,
	debtID string,
	limit int,
) ([]domain.ProjectionRecord, error) {
	r.mu.RLock()
	out := []domain.ProjectionRecord{}
	for i := len(r.data) - 1; i >= 0; i-- {
		if r.data[i].DebtID == debtID {
			out = append(out, r.data[i])
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProjectionRepositoryMemory) DeleteBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.data[:0]
	var removed int64
	for _, rec := range r.data {
		if rec.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.data = kept
	return removed, nil
}
