package repository

import (
	"context"
	"time"

	"debt-planner/domain"
)

// ProjectionRepository keeps the projection history of persisted debts.
type ProjectionRepository interface {
	// Save stores rec, assigning an ID when it has none.
	Save(ctx context.Context, rec domain.ProjectionRecord) (domain.ProjectionRecord, error)
	// ListByDebt returns newest first. A limit of 0 returns everything.
	ListByDebt(ctx context.Context, debtID string, limit int) ([]domain.ProjectionRecord, error)
	// DeleteBefore removes records created before cutoff and reports how many.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
