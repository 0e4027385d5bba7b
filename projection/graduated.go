package projection

import (
	"fmt"
	"math"
)

// ProjectGraduated starts at BasePayment and raises the payment by
// StepPercentage every StepPeriods periods. A payment below the period's
// interest either grows the balance (negative amortization allowed) or is
// lifted to cover exactly the interest.
func ProjectGraduated(in GraduatedInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	growth := 1 + in.StepPercentage/100
	scheduled := func(period int) float64 {
		return in.BasePayment * math.Pow(growth, float64((period-1)/in.StepPeriods))
	}

	var warnings []Warning
	s := newSchedule(in.StartDate, n, in.Principal)
	bal := in.Principal
	negative := 0
	period := 0
	for period < n && bal > 0 {
		period++
		payment := scheduled(period)
		interest := bal * in.Rate
		if payment < interest {
			if in.AllowNegativeAmortization {
				negative++
			} else {
				payment = interest
				warnings = append(warnings, periodWarning(WarningInfo,
					fmt.Sprintf("payment raised to cover %.2f of interest in period %d", interest, period),
					period, interest))
			}
		}
		if payment > bal+interest {
			payment = bal + interest
		}
		principal := payment - interest
		bal = clamp(bal - principal)
		s.record(period, bal, payment, principal, interest)
	}
	s.fill(period+1, n, bal)

	if negative > 0 {
		warnings = append(warnings, newWarning(WarningWarning,
			fmt.Sprintf("payments fell short of interest in %d periods; the balance grew", negative)))
	}
	final := scheduled(n)
	warnings = maxPaymentAt(warnings, final, in.LoanInput, n)
	warnings = affordabilityAt(warnings, final, in.LoanInput, n)
	if bal > 0 {
		warnings = append(warnings, periodWarning(WarningCritical,
			fmt.Sprintf("a balance of %.2f remains unpaid at maturity", bal), n, bal))
	}
	return s.finish(MethodGraduated, warnings), nil
}
