package service

import (
	"time"

	"debt-planner/domain"
	"debt-planner/projection"
)

// MonthlyRate converts an annual percentage rate to a monthly fraction.
func MonthlyRate(apr float64) float64 {
	return apr / 100 / 12
}

// TermInMonths resolves a term and its unit. An empty unit means months.
func TermInMonths(term int, unit domain.TermUnit) (int, error) {
	switch unit {
	case "", domain.TermMonths:
		return term, nil
	case domain.TermYears:
		return term * 12, nil
	}
	return 0, validationErr("unknown term unit %q", unit)
}

// StartDate parses s, falling back to today when it is empty.
func StartDate(s string, today time.Time) (time.Time, error) {
	if s == "" {
		return Today(today), nil
	}
	return projection.ParseDate(s)
}

// Today is the calendar date of now at midnight UTC.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func checkLimits(d domain.Debt) error {
	if d.Principal > MaxDebtAmount {
		return validationErr("principal exceeds the maximum of %.2f", MaxDebtAmount)
	}
	if d.InterestRate > MaxInterestRate {
		return validationErr("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	}
	months, err := TermInMonths(d.Term, d.TermUnit)
	if err != nil {
		return err
	}
	if months > MaxTermMonths {
		return validationErr("term exceeds the maximum of %d months", MaxTermMonths)
	}
	return nil
}

// NormalizeDebt turns a stored debt into the engine strategy its repayment
// method selects. An empty method means amortization.
func NormalizeDebt(d domain.Debt, today time.Time) (projection.Strategy, error) {
	months, err := TermInMonths(d.Term, d.TermUnit)
	if err != nil {
		return nil, err
	}
	start, err := StartDate(d.StartDate, today)
	if err != nil {
		return nil, err
	}

	base := projection.LoanInput{
		Principal:            d.Principal,
		Rate:                 MonthlyRate(d.InterestRate),
		Periods:              months,
		StartDate:            start,
		MonthlyIncome:        d.MonthlyIncome,
		MonthlyLivingCosts:   d.MonthlyLivingCosts,
		MaxAffordablePayment: d.MaxAffordablePayment,
	}

	switch d.RepaymentMethod {
	case "", projection.MethodAmortization:
		return projection.Amortization{LoanInput: base}, nil
	case projection.MethodBullet:
		return projection.Bullet{LoanInput: base}, nil
	case projection.MethodInterestOnly:
		return projection.InterestOnly{LoanInput: base}, nil
	case projection.MethodEqualPrincipal:
		return projection.EqualPrincipal{LoanInput: base}, nil

	case projection.MethodReborrowing:
		if d.Reborrow == nil {
			return nil, validationErr("reborrowing requires reborrow terms")
		}
		return projection.ReborrowInput{
			LoanInput:          base,
			ReborrowPercentage: d.Reborrow.Percentage,
			ReborrowMaxCycles:  d.Reborrow.MaxCycles,
		}, nil

	case projection.MethodGraduated:
		if d.Graduated == nil {
			return nil, validationErr("graduated requires graduated terms")
		}
		return projection.GraduatedInput{
			LoanInput:                 base,
			BasePayment:               d.Graduated.BasePayment,
			StepPeriods:               d.Graduated.StepPeriods,
			StepPercentage:            d.Graduated.StepPercentage,
			AllowNegativeAmortization: d.Graduated.AllowNegativeAmortization,
		}, nil

	case projection.MethodSettlement:
		if d.Settlement == nil {
			return nil, validationErr("settlement requires settlement terms")
		}
		return projection.SettlementInput{
			LoanInput:          base,
			CashAvailable:      d.Settlement.CashAvailable,
			AcceptedPercentage: d.Settlement.AcceptedPercentage,
			MinCashBuffer:      d.Settlement.MinCashBuffer,
		}, nil

	case projection.MethodForbearance:
		if d.Forbearance == nil {
			return nil, validationErr("forbearance requires forbearance terms")
		}
		return projection.ForbearanceInput{
			LoanInput:      base,
			HolidayPeriods: d.Forbearance.HolidayPeriods,
			RepayPeriods:   d.Forbearance.RepayPeriods,
		}, nil

	case projection.MethodSnowball, projection.MethodAvalanche:
		return singleDebtPortfolio(d, base)
	}
	return nil, validationErr("unknown repayment method %q", d.RepaymentMethod)
}

// singleDebtPortfolio runs one debt through the multi-debt simulator. The
// minimum payment defaults to the annuity payment over the term.
func singleDebtPortfolio(d domain.Debt, base projection.LoanInput) (projection.Strategy, error) {
	minPay := d.MinimumPayment
	if minPay == 0 && base.Periods > 0 && base.Principal > 0 {
		minPay = projection.AnnuityPayment(base.Principal, base.Rate, base.Periods)
	}
	id := d.ID
	if id == "" {
		id = d.Name
	}
	if id == "" {
		id = "debt"
	}

	order := projection.OrderSnowball
	if d.RepaymentMethod == projection.MethodAvalanche {
		order = projection.OrderAvalanche
	}
	return projection.PortfolioInput{
		Loans: []projection.MultiDebtLoan{{
			ID:             id,
			Principal:      base.Principal,
			Rate:           base.Rate,
			MinimumPayment: minPay,
		}},
		Surplus:   d.ExtraMonthlyPayment,
		StartDate: base.StartDate,
		Order:     order,
	}, nil
}

// applicableMethods lists the methods a debt carries enough terms for.
func applicableMethods(d domain.Debt) []projection.Method {
	methods := []projection.Method{
		projection.MethodAmortization,
		projection.MethodEqualPrincipal,
		projection.MethodInterestOnly,
		projection.MethodBullet,
	}
	if d.Reborrow != nil {
		methods = append(methods, projection.MethodReborrowing)
	}
	if d.Graduated != nil {
		methods = append(methods, projection.MethodGraduated)
	}
	if d.Settlement != nil {
		methods = append(methods, projection.MethodSettlement)
	}
	if d.Forbearance != nil {
		methods = append(methods, projection.MethodForbearance)
	}
	if d.MinimumPayment > 0 || d.ExtraMonthlyPayment > 0 {
		methods = append(methods, projection.MethodSnowball)
	}
	return methods
}
