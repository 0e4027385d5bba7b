package projection

import "fmt"

// ProjectForbearance runs three phases inside the term: a payment holiday
// where interest is capitalized, a catch-up phase repaying the accrued
// interest in equal parts, then an annuity over the remaining periods.
//
// The catch-up payments are booked as interest and do not reduce the
// balance, so the capitalized interest is amortized again afterwards.
func ProjectForbearance(in ForbearanceInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	holidayEnd := min(in.HolidayPeriods, n)
	catchUpEnd := min(in.HolidayPeriods+in.RepayPeriods, n)

	s := newSchedule(in.StartDate, n, in.Principal)
	bal := in.Principal
	accrued := 0.0
	period := 0
	for period < holidayEnd {
		period++
		interest := bal * in.Rate
		bal += interest
		accrued += interest
		s.record(period, bal, 0, 0, 0)
	}

	catchUp := 0.0
	if in.RepayPeriods > 0 {
		catchUp = accrued / float64(in.RepayPeriods)
	}
	for period < catchUpEnd {
		period++
		s.record(period, bal, catchUp, 0, catchUp)
	}

	var warnings []Warning
	if accrued > 0 {
		warnings = append(warnings, periodWarning(WarningWarning,
			fmt.Sprintf("the %d-period holiday accrues %.2f of interest", holidayEnd, accrued),
			holidayEnd, accrued))
	}

	remaining := n - period
	if remaining == 0 {
		if bal > 0 {
			warnings = append(warnings, periodWarning(WarningCritical,
				fmt.Sprintf("no periods remain to repay the %.2f balance", bal), n, bal))
		}
		return s.finish(MethodForbearance, warnings), nil
	}

	pay := AnnuityPayment(bal, in.Rate, remaining)
	firstRepayment := period + 1
	for k := 1; k <= remaining; k++ {
		period++
		interest := bal * in.Rate
		principal := pay - interest
		payment := pay
		if k == remaining {
			principal = bal
			payment = principal + interest
		}
		bal = clamp(bal - principal)
		s.record(period, bal, payment, principal, interest)
	}
	warnings = maxPaymentAt(warnings, pay, in.LoanInput, firstRepayment)
	warnings = affordabilityAt(warnings, pay, in.LoanInput, firstRepayment)
	return s.finish(MethodForbearance, warnings), nil
}
