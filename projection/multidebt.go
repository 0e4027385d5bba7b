package projection

import (
	"fmt"
	"sort"
	"time"
)

const (
	// PaidThreshold is the balance at or below which a portfolio loan counts
	// as retired.
	PaidThreshold = 0.01
	// MaxSimulationPeriods bounds the simulator for portfolios whose payments
	// never outrun interest.
	MaxSimulationPeriods = 1000
)

// Order selects how a portfolio is ranked before simulation.
type Order string

const (
	OrderSnowball  Order = "snowball"
	OrderAvalanche Order = "avalanche"
)

// Simulate pays every open loan its minimum each period and routes the whole
// surplus to the first open loan in slice order. Callers rank the slice; the
// simulator itself is order-agnostic. The input slice is never modified.
func Simulate(loans []MultiDebtLoan, surplus float64, start time.Time) (Projection, error) {
	if err := validatePortfolio(loans, surplus); err != nil {
		return Projection{}, err
	}
	if start.IsZero() {
		return Projection{}, invalid("startDate", "is required")
	}

	work := make([]MultiDebtLoan, len(loans))
	copy(work, loans)
	opening := 0.0
	for _, l := range work {
		opening += l.Principal
	}

	s := newSchedule(start, 0, opening)
	var payoffs []LoanPayoff
	retire := func(i, period int) {
		work[i].Principal = 0
		payoffs = append(payoffs, LoanPayoff{
			ID:         work[i].ID,
			Period:     period,
			PayoffDate: FormatDate(AddPeriods(start, period)),
		})
	}

	period := 0
	for open(work) && period < MaxSimulationPeriods {
		period++
		paid, interestTotal := 0.0, 0.0
		for i := range work {
			l := &work[i]
			if l.Principal <= PaidThreshold {
				continue
			}
			interest := l.Principal * l.Rate
			payment := min(l.MinimumPayment, l.Principal+interest)
			l.Principal -= payment - interest
			paid += payment
			interestTotal += interest
			if l.Principal <= PaidThreshold {
				retire(i, period)
			}
		}
		for i := range work {
			l := &work[i]
			if l.Principal <= PaidThreshold {
				continue
			}
			extra := min(surplus, l.Principal)
			l.Principal -= extra
			paid += extra
			if l.Principal <= PaidThreshold {
				retire(i, period)
			}
			break
		}

		aggregate := 0.0
		for _, l := range work {
			aggregate += l.Principal
		}
		s.record(period, aggregate, paid, paid-interestTotal, interestTotal)
	}

	var warnings []Warning
	if open(work) {
		warnings = append(warnings, periodWarning(WarningCritical,
			fmt.Sprintf("simulation did not converge within %d periods", MaxSimulationPeriods),
			period, s.balances[len(s.balances)-1]))
	}
	p := s.finish("", warnings)
	p.LoanPayoffs = payoffs
	return p, nil
}

func open(loans []MultiDebtLoan) bool {
	for _, l := range loans {
		if l.Principal > PaidThreshold {
			return true
		}
	}
	return false
}

// Rank returns a copy of loans in the given order. Snowball is ascending by
// principal with the higher rate first on ties; avalanche is descending by
// rate with the smaller principal first on ties.
func Rank(loans []MultiDebtLoan, order Order) []MultiDebtLoan {
	ranked := make([]MultiDebtLoan, len(loans))
	copy(ranked, loans)
	switch order {
	case OrderSnowball:
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Principal == ranked[j].Principal {
				return ranked[i].Rate > ranked[j].Rate
			}
			return ranked[i].Principal < ranked[j].Principal
		})
	case OrderAvalanche:
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Rate == ranked[j].Rate {
				return ranked[i].Principal < ranked[j].Principal
			}
			return ranked[i].Rate > ranked[j].Rate
		})
	}
	return ranked
}

// Compare simulates the portfolio under both orderings.
func Compare(loans []MultiDebtLoan, surplus float64, start time.Time) (MultiDebtComparison, error) {
	snowball, err := ProjectPortfolio(PortfolioInput{Loans: loans, Surplus: surplus, StartDate: start, Order: OrderSnowball})
	if err != nil {
		return MultiDebtComparison{}, err
	}
	avalanche, err := ProjectPortfolio(PortfolioInput{Loans: loans, Surplus: surplus, StartDate: start, Order: OrderAvalanche})
	if err != nil {
		return MultiDebtComparison{}, err
	}
	return MultiDebtComparison{
		Snowball:      snowball,
		Avalanche:     avalanche,
		InterestSaved: snowball.TotalInterest - avalanche.TotalInterest,
		TimeSaved:     snowball.Periods() - avalanche.Periods(),
	}, nil
}

// PortfolioInput runs the simulator over a ranked portfolio.
type PortfolioInput struct {
	Loans     []MultiDebtLoan `json:"loans"`
	Surplus   float64         `json:"surplus"`
	StartDate time.Time       `json:"startDate"`
	Order     Order           `json:"order"`
}

// ProjectPortfolio ranks the loans by in.Order and simulates them.
func ProjectPortfolio(in PortfolioInput) (Projection, error) {
	var method Method
	switch in.Order {
	case OrderSnowball:
		method = MethodSnowball
	case OrderAvalanche:
		method = MethodAvalanche
	default:
		return Projection{}, invalid("order", "unknown portfolio order %q", in.Order)
	}
	p, err := Simulate(Rank(in.Loans, in.Order), in.Surplus, in.StartDate)
	if err != nil {
		return Projection{}, err
	}
	p.Method = method
	return p, nil
}
