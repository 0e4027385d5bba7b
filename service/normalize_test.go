package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
	"debt-planner/projection"
)

func TestMonthlyRate(t *testing.T) {
	assert.Equal(t, 0.01, MonthlyRate(12))
	assert.Equal(t, 0.0, MonthlyRate(0))
}

func TestTermInMonths(t *testing.T) {
	n, err := TermInMonths(18, "")
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	n, err = TermInMonths(3, domain.TermYears)
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	_, err = TermInMonths(3, "weeks")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestStartDate(t *testing.T) {
	d, err := StartDate("", time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), d)

	_, err = StartDate("31/03/2024", fixedNow)
	assert.ErrorIs(t, err, projection.ErrInvalidInput)
}

func TestToday(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), Today(time.Date(2024, 4, 1, 8, 0, 0, 0, tokyo)))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Today(fixedNow))
}

func TestNormalizeDebt_Methods(t *testing.T) {
	base := amortizingDebt()
	cases := map[projection.Method]func(*domain.Debt){
		"":                              func(*domain.Debt) {},
		projection.MethodAmortization:   func(*domain.Debt) {},
		projection.MethodBullet:         func(*domain.Debt) {},
		projection.MethodInterestOnly:   func(*domain.Debt) {},
		projection.MethodEqualPrincipal: func(*domain.Debt) {},
		projection.MethodReborrowing: func(d *domain.Debt) {
			d.Reborrow = &domain.ReborrowTerms{Percentage: 50, MaxCycles: 2}
		},
		projection.MethodGraduated: func(d *domain.Debt) {
			d.Graduated = &domain.GraduatedTerms{BasePayment: 900, StepPeriods: 6, StepPercentage: 10}
		},
		projection.MethodSettlement: func(d *domain.Debt) {
			d.Settlement = &domain.SettlementTerms{CashAvailable: 7000, AcceptedPercentage: 50}
		},
		projection.MethodForbearance: func(d *domain.Debt) {
			d.Forbearance = &domain.ForbearanceTerms{HolidayPeriods: 2, RepayPeriods: 2}
		},
		projection.MethodSnowball:  func(*domain.Debt) {},
		projection.MethodAvalanche: func(*domain.Debt) {},
	}
	for method, tweak := range cases {
		t.Run(string(method), func(t *testing.T) {
			d := base
			d.RepaymentMethod = method
			tweak(&d)

			s, err := NormalizeDebt(d, fixedNow)
			require.NoError(t, err)
			want := method
			if want == "" {
				want = projection.MethodAmortization
			}
			assert.Equal(t, want, s.Method())

			p, err := projection.Project(s)
			require.NoError(t, err)
			assert.Equal(t, want, p.Method)
		})
	}
}

func TestNormalizeDebt_Converts(t *testing.T) {
	d := amortizingDebt()
	d.MonthlyIncome = ptr(3000)

	s, err := NormalizeDebt(d, fixedNow)
	require.NoError(t, err)
	am, ok := s.(projection.Amortization)
	require.True(t, ok)
	assert.Equal(t, 12000.0, am.Principal)
	assert.Equal(t, 0.01, am.Rate)
	assert.Equal(t, 12, am.Periods)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), am.StartDate)
	assert.Equal(t, 3000.0, *am.MonthlyIncome)
}

func TestNormalizeDebt_SingleDebtPortfolio(t *testing.T) {
	d := amortizingDebt()
	d.Name = "car"
	d.RepaymentMethod = projection.MethodAvalanche
	d.ExtraMonthlyPayment = 100

	s, err := NormalizeDebt(d, fixedNow)
	require.NoError(t, err)
	in, ok := s.(projection.PortfolioInput)
	require.True(t, ok)
	assert.Equal(t, projection.OrderAvalanche, in.Order)
	assert.Equal(t, 100.0, in.Surplus)
	require.Len(t, in.Loans, 1)
	assert.Equal(t, "car", in.Loans[0].ID)
	assert.InDelta(t, 1066.19, in.Loans[0].MinimumPayment, 0.005)

	d.MinimumPayment = 500
	s, err = NormalizeDebt(d, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 500.0, s.(projection.PortfolioInput).Loans[0].MinimumPayment)
}

func TestNormalizeDebt_Rejects(t *testing.T) {
	for _, method := range []projection.Method{
		projection.MethodReborrowing,
		projection.MethodGraduated,
		projection.MethodSettlement,
		projection.MethodForbearance,
		"lottery",
	} {
		d := amortizingDebt()
		d.RepaymentMethod = method
		_, err := NormalizeDebt(d, fixedNow)
		assert.ErrorIs(t, err, ErrValidation, string(method))
	}
}

func TestApplicableMethods(t *testing.T) {
	d := amortizingDebt()
	assert.Len(t, applicableMethods(d), 4)

	d.Settlement = &domain.SettlementTerms{}
	d.MinimumPayment = 100
	methods := applicableMethods(d)
	assert.Contains(t, methods, projection.MethodSettlement)
	assert.Contains(t, methods, projection.MethodSnowball)
	assert.NotContains(t, methods, projection.MethodForbearance)
}
