package projection

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every input validation failure.
var ErrInvalidInput = errors.New("projection: invalid input")

// InputError describes a malformed input field. Business-level infeasibility
// is never reported this way; it becomes a critical Warning instead.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("projection: invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) hold for every InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func (in LoanInput) validate() error {
	if !finite(in.Principal) || in.Principal <= 0 {
		return invalid("principal", "must be a positive finite amount, got %v", in.Principal)
	}
	if !finite(in.Rate) || in.Rate < 0 {
		return invalid("rate", "must be a non-negative finite fraction, got %v", in.Rate)
	}
	if in.Periods <= 0 {
		return invalid("periods", "must be positive, got %d", in.Periods)
	}
	if in.StartDate.IsZero() {
		return invalid("startDate", "is required")
	}
	optional := []struct {
		name string
		v    *float64
	}{
		{"monthlyIncome", in.MonthlyIncome},
		{"monthlyLivingCosts", in.MonthlyLivingCosts},
		{"maxAffordablePayment", in.MaxAffordablePayment},
	}
	for _, o := range optional {
		if o.v != nil && (!finite(*o.v) || *o.v < 0) {
			return invalid(o.name, "must be a non-negative finite amount, got %v", *o.v)
		}
	}
	return nil
}

func (in ReborrowInput) validate() error {
	if err := in.LoanInput.validate(); err != nil {
		return err
	}
	if !finite(in.ReborrowPercentage) || in.ReborrowPercentage < 0 || in.ReborrowPercentage > 100 {
		return invalid("reborrowPercentage", "must be between 0 and 100, got %v", in.ReborrowPercentage)
	}
	if in.ReborrowMaxCycles < 0 {
		return invalid("reborrowMaxCycles", "must not be negative, got %d", in.ReborrowMaxCycles)
	}
	return nil
}

func (in GraduatedInput) validate() error {
	if err := in.LoanInput.validate(); err != nil {
		return err
	}
	if !finite(in.BasePayment) || in.BasePayment < 0 {
		return invalid("basePayment", "must be a non-negative finite amount, got %v", in.BasePayment)
	}
	if in.StepPeriods <= 0 {
		return invalid("stepPeriods", "must be positive, got %d", in.StepPeriods)
	}
	if !finite(in.StepPercentage) || in.StepPercentage <= -100 {
		return invalid("stepPercentage", "must be finite and above -100, got %v", in.StepPercentage)
	}
	return nil
}

func (in SettlementInput) validate() error {
	if err := in.LoanInput.validate(); err != nil {
		return err
	}
	if !finite(in.CashAvailable) || in.CashAvailable < 0 {
		return invalid("cashAvailable", "must be a non-negative finite amount, got %v", in.CashAvailable)
	}
	if !finite(in.AcceptedPercentage) || in.AcceptedPercentage <= 0 || in.AcceptedPercentage > 100 {
		return invalid("acceptedPercentage", "must be in (0, 100], got %v", in.AcceptedPercentage)
	}
	if !finite(in.MinCashBuffer) || in.MinCashBuffer < 0 {
		return invalid("minCashBuffer", "must be a non-negative finite amount, got %v", in.MinCashBuffer)
	}
	return nil
}

func (in ForbearanceInput) validate() error {
	if err := in.LoanInput.validate(); err != nil {
		return err
	}
	if in.HolidayPeriods < 0 {
		return invalid("holidayPeriods", "must not be negative, got %d", in.HolidayPeriods)
	}
	if in.RepayPeriods < 0 {
		return invalid("repayPeriods", "must not be negative, got %d", in.RepayPeriods)
	}
	return nil
}

func validatePortfolio(loans []MultiDebtLoan, surplus float64) error {
	if len(loans) == 0 {
		return invalid("loans", "at least one loan is required")
	}
	if !finite(surplus) || surplus < 0 {
		return invalid("surplus", "must be a non-negative finite amount, got %v", surplus)
	}
	seen := make(map[string]bool, len(loans))
	for i, l := range loans {
		if l.ID == "" {
			return invalid(fmt.Sprintf("loans[%d].id", i), "is required")
		}
		if seen[l.ID] {
			return invalid(fmt.Sprintf("loans[%d].id", i), "duplicate id %q", l.ID)
		}
		seen[l.ID] = true
		if !finite(l.Principal) || l.Principal <= 0 {
			return invalid(fmt.Sprintf("loans[%d].principal", i), "must be a positive finite amount, got %v", l.Principal)
		}
		// The simulator would treat it as retired before it ever ran.
		if l.Principal <= PaidThreshold {
			return invalid(fmt.Sprintf("loans[%d].principal", i), "must exceed %.2f, got %v", PaidThreshold, l.Principal)
		}
		if !finite(l.Rate) || l.Rate < 0 {
			return invalid(fmt.Sprintf("loans[%d].rate", i), "must be a non-negative finite fraction, got %v", l.Rate)
		}
		if !finite(l.MinimumPayment) || l.MinimumPayment < 0 {
			return invalid(fmt.Sprintf("loans[%d].minimumPayment", i), "must be a non-negative finite amount, got %v", l.MinimumPayment)
		}
	}
	return nil
}
