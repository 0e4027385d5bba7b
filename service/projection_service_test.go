package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/projection"
	"debt-planner/repository"
)

func newProjectionService(t *testing.T) (*ProjectionService, *repository.ProjectionRepositoryMemory, *repository.MemoryCache, *metrics.Metrics) {
	t.Helper()
	repo := repository.NewProjectionRepositoryMemory()
	cache := repository.NewMemoryCache()
	m := metrics.New()
	svc := NewProjectionService(repo, cache, WithClock(clock), WithMetrics(m))
	return svc, repo, cache, m
}

func TestProjectDebt_Amortization(t *testing.T) {
	svc, repo, _, m := newProjectionService(t)
	ctx := context.Background()

	p, err := svc.ProjectDebt(ctx, amortizingDebt())
	require.NoError(t, err)

	assert.Equal(t, projection.MethodAmortization, p.Method)
	assert.Equal(t, 1066.19, p.Payments[1])
	assert.Equal(t, 794.23, p.TotalInterest)
	assert.Equal(t, 0.0, p.FinalBalance())
	assert.Equal(t, "2025-01-15", p.PayoffDate)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectionsTotal.WithLabelValues("amortization", "ok")))

	// No ID, no history.
	recs, err := repo.ListByDebt(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestProjectDebt_SavesHistory(t *testing.T) {
	svc, _, _, _ := newProjectionService(t)
	ctx := context.Background()

	d := amortizingDebt()
	d.ID = "loan-42"
	_, err := svc.ProjectDebt(ctx, d)
	require.NoError(t, err)
	d.RepaymentMethod = projection.MethodBullet
	_, err = svc.ProjectDebt(ctx, d)
	require.NoError(t, err)

	recs, err := svc.History(ctx, "loan-42", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, projection.MethodBullet, recs[0].Method)
	assert.Equal(t, projection.MethodAmortization, recs[1].Method)
	assert.Equal(t, fixedNow, recs[0].CreatedAt)
	assert.NotEmpty(t, recs[0].ID)
	assert.Equal(t, "loan-42", recs[0].Debt.ID)
}

func TestProjectDebt_UsesCache(t *testing.T) {
	svc, _, cache, m := newProjectionService(t)
	ctx := context.Background()

	first, err := svc.ProjectDebt(ctx, amortizingDebt())
	require.NoError(t, err)
	second, err := svc.ProjectDebt(ctx, amortizingDebt())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectionsTotal.WithLabelValues("amortization", "ok")))

	other := amortizingDebt()
	other.RepaymentMethod = projection.MethodEqualPrincipal
	_, err = svc.ProjectDebt(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

func TestProjectDebt_DefaultStartDate(t *testing.T) {
	svc, _, _, _ := newProjectionService(t)
	d := amortizingDebt()
	d.StartDate = ""

	p, err := svc.ProjectDebt(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", p.Dates[0])
}

func TestProjectDebt_Rejects(t *testing.T) {
	svc, _, _, m := newProjectionService(t)
	ctx := context.Background()

	d := amortizingDebt()
	d.Principal = 0
	_, err := svc.ProjectDebt(ctx, d)
	assert.ErrorIs(t, err, projection.ErrInvalidInput)
	assert.True(t, IsBadRequest(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProjectionsTotal.WithLabelValues("amortization", "invalid")))

	d = amortizingDebt()
	d.Principal = MaxDebtAmount + 1
	_, err = svc.ProjectDebt(ctx, d)
	assert.ErrorIs(t, err, ErrValidation)

	d = amortizingDebt()
	d.Term = 51
	_, err = svc.ProjectDebt(ctx, d)
	assert.ErrorIs(t, err, ErrValidation)

	d = amortizingDebt()
	d.InterestRate = 2000
	_, err = svc.ProjectDebt(ctx, d)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProjectDebt_CriticalIsNotAnError(t *testing.T) {
	svc, _, _, m := newProjectionService(t)
	d := amortizingDebt()
	d.MaxAffordablePayment = ptr(500)

	p, err := svc.ProjectDebt(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, p.HasCritical())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WarningsTotal.WithLabelValues("critical")))
}

func TestProjectDebt_StorageFailuresAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	cache := &failingCache{}
	svc := NewProjectionService(failingRepo{}, cache,
		WithClock(clock), WithLogger(logging.NewFromCore(core)))

	d := amortizingDebt()
	d.ID = "loan-1"
	p, err := svc.ProjectDebt(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, 1066.19, p.Payments[1])
	assert.Equal(t, 1, cache.sets)

	assert.Equal(t, 1, logs.FilterMessage("cache lookup failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("failed to cache projection").Len())
	saved := logs.FilterMessage("failed to save projection history").All()
	require.Len(t, saved, 1)
	assert.Equal(t, "loan-1", saved[0].ContextMap()["debt_id"])
}

func TestProjectDebt_CorruptCacheEntry(t *testing.T) {
	svc, _, cache, _ := newProjectionService(t)
	ctx := context.Background()

	s, err := NormalizeDebt(amortizingDebt(), fixedNow)
	require.NoError(t, err)
	key, err := cacheKey(s)
	require.NoError(t, err)
	require.NoError(t, cache.Set(ctx, key, "{not json", 0))

	p, err := svc.ProjectDebt(ctx, amortizingDebt())
	require.NoError(t, err)
	assert.Equal(t, 1066.19, p.Payments[1])
}

func TestProjectDebt_Concurrent(t *testing.T) {
	svc, _, _, _ := newProjectionService(t)

	var wg sync.WaitGroup
	results := make([]projection.Projection, 16)
	errs := make([]error, 16)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.ProjectDebt(context.Background(), amortizingDebt())
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].TotalPaid, results[i].TotalPaid)
	}
}

func TestHistory(t *testing.T) {
	svc, _, _, _ := newProjectionService(t)
	_, err := svc.History(context.Background(), "", 0)
	assert.ErrorIs(t, err, ErrValidation)

	recs, err := svc.History(context.Background(), "unknown", 0)
	require.NoError(t, err)
	assert.Empty(t, recs)

	failing := NewProjectionService(failingRepo{}, nil)
	_, err = failing.History(context.Background(), "x", 0)
	require.Error(t, err)
	assert.False(t, IsBadRequest(err))
}

func TestCacheKey(t *testing.T) {
	a, err := NormalizeDebt(amortizingDebt(), fixedNow)
	require.NoError(t, err)
	d := amortizingDebt()
	d.RepaymentMethod = projection.MethodBullet
	b, err := NormalizeDebt(d, fixedNow)
	require.NoError(t, err)

	ka, err := cacheKey(a)
	require.NoError(t, err)
	ka2, _ := cacheKey(a)
	kb, _ := cacheKey(b)
	assert.Equal(t, ka, ka2)
	assert.NotEqual(t, ka, kb)
	assert.Contains(t, ka, "v1:")
}

