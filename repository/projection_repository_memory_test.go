package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
	"debt-planner/projection"
)

func record(debtID string, at time.Time) domain.ProjectionRecord {
	return domain.ProjectionRecord{
		DebtID:     debtID,
		Method:     projection.MethodAmortization,
		Debt:       domain.Debt{ID: debtID, Principal: 1000, InterestRate: 12, Term: 12},
		Projection: projection.Projection{Method: projection.MethodAmortization, Balances: []float64{1000, 0}},
		CreatedAt:  at,
	}
}

func TestProjectionRepositoryMemory_SaveAssignsID(t *testing.T) {
	repo := NewProjectionRepositoryMemory()
	rec, err := repo.Save(context.Background(), domain.ProjectionRecord{DebtID: "d1"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestProjectionRepositoryMemory_ListByDebt(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectionRepositoryMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, err := repo.Save(ctx, record("d1", base.Add(time.Duration(i)*time.Hour)))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, record("d2", base))
	require.NoError(t, err)

	all, err := repo.ListByDebt(ctx, "d1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, base.Add(2*time.Hour), all[0].CreatedAt)
	assert.Equal(t, base, all[2].CreatedAt)

	limited, err := repo.ListByDebt(ctx, "d1", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := repo.ListByDebt(ctx, "unknown", 0)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProjectionRepositoryMemory_DeleteBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectionRepositoryMemory()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _ = repo.Save(ctx, record("d1", base))
	_, _ = repo.Save(ctx, record("d1", base.Add(48*time.Hour)))
	_, _ = repo.Save(ctx, record("d2", base.Add(time.Hour)))

	n, err := repo.DeleteBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, _ := repo.ListByDebt(ctx, "d1", 0)
	require.Len(t, left, 1)
	assert.Equal(t, base.Add(48*time.Hour), left[0].CreatedAt)
}
