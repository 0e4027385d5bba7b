package service

import (
	"context"
	"fmt"
	"time"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/projection"
)

// PortfolioService compares snowball and avalanche payoff across several
// debts.
type PortfolioService struct {
	log     logging.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewPortfolioService(log logging.Logger, m *metrics.Metrics) *PortfolioService {
	if log == nil {
		log = logging.NewNop()
	}
	return &PortfolioService{log: log, metrics: m, now: time.Now}
}

func (s *PortfolioService) Compare(
	ctx context.Context,
	input domain.PortfolioInput,
) (domain.PortfolioResult, error) {
	if err := validatePortfolio(input); err != nil {
		return domain.PortfolioResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.PortfolioResult{}, err
	}
	start, err := StartDate(input.StartDate, s.now())
	if err != nil {
		return domain.PortfolioResult{}, err
	}

	loans := make([]projection.MultiDebtLoan, len(input.Debts))
	totalDebt := 0.0
	for i, d := range input.Debts {
		loans[i] = projection.MultiDebtLoan{
			ID:             d.Name,
			Principal:      d.Principal,
			Rate:           MonthlyRate(d.InterestRate),
			MinimumPayment: d.MinimumPayment,
		}
		totalDebt += d.Principal
	}

	started := time.Now()
	c, err := projection.Compare(loans, input.ExtraMonthlyPayment, start)
	if err != nil {
		return domain.PortfolioResult{}, fmt.Errorf("compare portfolio: %w", err)
	}
	took := time.Since(started)
	c = c.Rounded()

	for _, p := range []projection.Projection{c.Snowball, c.Avalanche} {
		types := make([]string, len(p.Warnings))
		for i, w := range p.Warnings {
			types[i] = string(w.Type)
		}
		s.metrics.ObserveProjection(string(p.Method), "ok", took, types)
		if p.FinalBalance() > 0 {
			s.log.Warn("portfolio did not converge",
				logging.String("method", string(p.Method)),
				logging.Int("debts", len(loans)),
				logging.Float64("final_balance", p.FinalBalance()))
		}
	}

	recommended, explanation := recommendOrder(c)
	return domain.PortfolioResult{
		TotalDebt:   projection.RoundCents(totalDebt),
		Comparison:  c,
		Recommended: recommended,
		Explanation: explanation,
	}, nil
}

// validatePortfolio applies request limits; field-level checks are left to
// the engine.
func validatePortfolio(input domain.PortfolioInput) error {
	if len(input.Debts) == 0 {
		return validationErr("no debts provided")
	}
	if len(input.Debts) > MaxDebtsPerRequest {
		return validationErr("number of debts exceeds the maximum of %d", MaxDebtsPerRequest)
	}
	names := make(map[string]bool, len(input.Debts))
	for _, d := range input.Debts {
		if d.Name == "" {
			return validationErr("debt name must not be empty")
		}
		if names[d.Name] {
			return validationErr("duplicate debt name: %s", d.Name)
		}
		names[d.Name] = true
		if d.Principal > MaxDebtAmount {
			return validationErr("debt %s exceeds the maximum of %.2f", d.Name, MaxDebtAmount)
		}
		if d.InterestRate > MaxInterestRate {
			return validationErr("interest rate of %s exceeds the maximum of %.2f%%", d.Name, MaxInterestRate)
		}
	}
	return nil
}

// recommendOrder picks the cheaper order, then the faster one. Interest
// and time are reported from the winner's side.
func recommendOrder(c projection.MultiDebtComparison) (projection.Method, string) {
	snowballDone := c.Snowball.FinalBalance() == 0
	avalancheDone := c.Avalanche.FinalBalance() == 0

	switch {
	case !snowballDone && !avalancheDone:
		return "", "Neither order pays these debts off; the payments do not cover the interest."
	case !snowballDone:
		return projection.MethodAvalanche, "Only avalanche pays these debts off."
	case !avalancheDone:
		return projection.MethodSnowball, "Only snowball pays these debts off."
	case c.InterestSaved > 0:
		return projection.MethodAvalanche, savings("Avalanche", "snowball", c.InterestSaved, c.TimeSaved)
	case c.InterestSaved < 0:
		return projection.MethodSnowball, savings("Snowball", "avalanche", -c.InterestSaved, -c.TimeSaved)
	case c.TimeSaved > 0:
		return projection.MethodAvalanche, fmt.Sprintf(
			"Both orders cost the same in interest; avalanche finishes %s sooner.", months(c.TimeSaved))
	case c.TimeSaved < 0:
		return projection.MethodSnowball, fmt.Sprintf(
			"Both orders cost the same in interest; snowball finishes %s sooner.", months(-c.TimeSaved))
	}
	return projection.MethodSnowball, fmt.Sprintf(
		"Both orders cost the same; snowball retires %s first.", firstPaid(c.Snowball))
}

// savings describes a winner that pays saved less interest and finishes
// sooner months earlier than other (later when negative).
func savings(winner, other string, saved float64, sooner int) string {
	msg := fmt.Sprintf("%s saves %.2f in interest", winner, saved)
	switch {
	case sooner > 0:
		msg += fmt.Sprintf(" and finishes %s sooner than %s", months(sooner), other)
	case sooner < 0:
		msg += fmt.Sprintf(" but finishes %s later than %s", months(-sooner), other)
	}
	return msg + "."
}

func months(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}

func firstPaid(p projection.Projection) string {
	if len(p.LoanPayoffs) == 0 {
		return "nothing"
	}
	return p.LoanPayoffs[0].ID
}
