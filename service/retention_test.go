package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
	"debt-planner/metrics"
	"debt-planner/repository"
)

func TestHistoryPruner_Prune(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewProjectionRepositoryMemory()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 91 * 24 * time.Hour, 24 * time.Hour} {
		_, err := repo.Save(ctx, domain.ProjectionRecord{DebtID: "d", CreatedAt: fixedNow.Add(-age)})
		require.NoError(t, err)
	}

	m := metrics.New()
	p := NewHistoryPruner(repo, 90*24*time.Hour, "@daily", nil, m)
	p.now = clock

	n, err := p.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HistoryPruned))

	left, _ := repo.ListByDebt(ctx, "d", 0)
	assert.Len(t, left, 1)
}

func TestHistoryPruner_PruneError(t *testing.T) {
	p := NewHistoryPruner(failingRepo{}, time.Hour, "@daily", nil, nil)
	_, err := p.Prune(context.Background())
	assert.Error(t, err)
}

func TestHistoryPruner_StartStop(t *testing.T) {
	repo := repository.NewProjectionRepositoryMemory()

	p := NewHistoryPruner(repo, time.Hour, "*/5 * * * *", nil, nil)
	require.NoError(t, p.Start())
	assert.Len(t, p.cron.Entries(), 1)
	<-p.Stop().Done()

	disabled := NewHistoryPruner(repo, 0, "*/5 * * * *", nil, nil)
	require.NoError(t, disabled.Start())
	assert.Empty(t, disabled.cron.Entries())

	bad := NewHistoryPruner(repo, time.Hour, "whenever", nil, nil)
	assert.Error(t, bad.Start())
}
