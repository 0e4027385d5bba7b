package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
	"debt-planner/projection"
)

func newWhatIf(t *testing.T) (*WhatIfService, *ProjectionService) {
	t.Helper()
	svc, _, _, _ := newProjectionService(t)
	return NewWhatIfService(svc), svc
}

func TestAnalyze_DefaultMethods(t *testing.T) {
	w, _ := newWhatIf(t)
	res, err := w.Analyze(context.Background(), domain.WhatIfInput{Debt: amortizingDebt()})
	require.NoError(t, err)

	require.Len(t, res.Scenarios, 4)
	byMethod := map[projection.Method]domain.WhatIfScenario{}
	for _, sc := range res.Scenarios {
		assert.Empty(t, sc.Error)
		byMethod[sc.Method] = sc
	}
	assert.Equal(t, projection.MethodAmortization, res.Scenarios[0].Method)
	assert.Equal(t, 12794.23, byMethod[projection.MethodAmortization].TotalPaid)
	assert.Equal(t, 12780.0, byMethod[projection.MethodEqualPrincipal].TotalPaid)
	assert.Equal(t, 13440.0, byMethod[projection.MethodInterestOnly].TotalPaid)
	assert.Equal(t, 12, byMethod[projection.MethodBullet].Periods)
	assert.Equal(t, projection.MethodEqualPrincipal, res.Cheapest)
}

func TestAnalyze_SettlementWins(t *testing.T) {
	w, _ := newWhatIf(t)
	d := amortizingDebt()
	d.Settlement = &domain.SettlementTerms{CashAvailable: 8000, AcceptedPercentage: 60}

	res, err := w.Analyze(context.Background(), domain.WhatIfInput{
		Debt:    d,
		Methods: []projection.Method{projection.MethodAmortization, projection.MethodSettlement, projection.MethodSettlement},
	})
	require.NoError(t, err)
	require.Len(t, res.Scenarios, 2)
	assert.Equal(t, 7200.0, res.Scenarios[1].TotalPaid)
	assert.Equal(t, projection.MethodSettlement, res.Cheapest)
}

func TestAnalyze_CriticalScenarioIsNotCheapest(t *testing.T) {
	w, _ := newWhatIf(t)
	d := amortizingDebt()
	d.Settlement = &domain.SettlementTerms{CashAvailable: 100, AcceptedPercentage: 60}

	res, err := w.Analyze(context.Background(), domain.WhatIfInput{
		Debt:    d,
		Methods: []projection.Method{projection.MethodSettlement, projection.MethodAmortization},
	})
	require.NoError(t, err)
	assert.True(t, res.Scenarios[0].Critical)
	assert.Equal(t, 0.0, res.Scenarios[0].TotalPaid)
	assert.Equal(t, projection.MethodAmortization, res.Cheapest)
}

func TestAnalyze_ScenarioErrors(t *testing.T) {
	w, _ := newWhatIf(t)
	res, err := w.Analyze(context.Background(), domain.WhatIfInput{
		Debt:    amortizingDebt(),
		Methods: []projection.Method{projection.MethodAmortization, projection.MethodForbearance},
	})
	require.NoError(t, err)
	assert.Empty(t, res.Scenarios[0].Error)
	assert.Contains(t, res.Scenarios[1].Error, "forbearance terms")
	assert.NotNil(t, res.Scenarios[1].Warnings)
	assert.Equal(t, projection.MethodAmortization, res.Cheapest)
}

func TestAnalyze_AllFail(t *testing.T) {
	w, _ := newWhatIf(t)
	d := amortizingDebt()
	d.Principal = -1

	_, err := w.Analyze(context.Background(), domain.WhatIfInput{Debt: d})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestAnalyze_TooManyMethods(t *testing.T) {
	w, _ := newWhatIf(t)
	methods := make([]projection.Method, MaxWhatIfMethods+1)
	for i := range methods {
		methods[i] = projection.Method(fmt.Sprintf("m%d", i))
	}
	_, err := w.Analyze(context.Background(), domain.WhatIfInput{Debt: amortizingDebt(), Methods: methods})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalyze_DoesNotPersist(t *testing.T) {
	svc, repo, _, _ := newProjectionService(t)
	w := NewWhatIfService(svc)
	d := amortizingDebt()
	d.ID = "draft-1"

	_, err := w.Analyze(context.Background(), domain.WhatIfInput{Debt: d})
	require.NoError(t, err)

	recs, err := repo.ListByDebt(context.Background(), "draft-1", 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	w, _ := newWhatIf(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Analyze(ctx, domain.WhatIfInput{Debt: amortizingDebt()})
	assert.ErrorIs(t, err, context.Canceled)
}

func termInput(pref domain.TermPreference) domain.TermRecommendationInput {
	return domain.TermRecommendationInput{
		Principal:         10000,
		InterestRate:      12,
		MinTermMonths:     12,
		MaxTermMonths:     36,
		MaxMonthlyPayment: 500,
		Preference:        pref,
	}
}

func TestRecommendTerm(t *testing.T) {
	w, _ := newWhatIf(t)
	ctx := context.Background()

	res, err := w.RecommendTerm(ctx, termInput(domain.MinimizeInterest))
	require.NoError(t, err)
	// 23 months is the shortest term under 500 a month.
	assert.Equal(t, 23, res.RecommendedTerm)
	require.Len(t, res.Recommendations, 14)
	for i, rec := range res.Recommendations {
		assert.LessOrEqual(t, rec.MonthlyPayment, 500.0)
		if i > 0 {
			assert.LessOrEqual(t, rec.Score, res.Recommendations[i-1].Score)
		}
	}
	top := res.Recommendations[0]
	assert.Equal(t, 488.86, top.MonthlyPayment)
	assert.True(t, strings.HasPrefix(top.Reason, "23 months at 488.86 a month"))
	assert.Equal(t, "2025-12-15", top.PayoffDate)

	res, err = w.RecommendTerm(ctx, termInput(domain.MinimizePayment))
	require.NoError(t, err)
	assert.Equal(t, 36, res.RecommendedTerm)
	assert.Equal(t, "Term chosen to keep the monthly payment low", res.Recommendations[1].Reason)
}

func TestRecommendTerm_Rejects(t *testing.T) {
	w, _ := newWhatIf(t)
	cases := map[string]func(*domain.TermRecommendationInput){
		"zero principal":   func(in *domain.TermRecommendationInput) { in.Principal = 0 },
		"negative rate":    func(in *domain.TermRecommendationInput) { in.InterestRate = -1 },
		"inverted range":   func(in *domain.TermRecommendationInput) { in.MinTermMonths = 40 },
		"range too wide":   func(in *domain.TermRecommendationInput) { in.MinTermMonths = 1; in.MaxTermMonths = 200 },
		"term over limit":  func(in *domain.TermRecommendationInput) { in.MaxTermMonths = 700 },
		"no payment cap":   func(in *domain.TermRecommendationInput) { in.MaxMonthlyPayment = 0 },
		"bad preference":   func(in *domain.TermRecommendationInput) { in.Preference = "cheapest" },
		"nothing fits cap": func(in *domain.TermRecommendationInput) { in.MaxMonthlyPayment = 100 },
	}
	for name, tweak := range cases {
		t.Run(name, func(t *testing.T) {
			in := termInput(domain.Balanced)
			tweak(&in)
			_, err := w.RecommendTerm(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
