package projection

import "fmt"

// bulletRiskShare is the share of term-long disposable cash a balloon may use
// before it is flagged critical.
const bulletRiskShare = 0.8

// ProjectBullet pays nothing until maturity, then settles principal plus
// simple interest for the whole term in one payment.
func ProjectBullet(in LoanInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	interest := in.Principal * in.Rate * float64(n)
	balloon := in.Principal + interest

	s := newSchedule(in.StartDate, n, in.Principal)
	s.fill(1, n-1, in.Principal)
	s.record(n, 0, balloon, in.Principal, interest)

	var warnings []Warning
	if in.MonthlyIncome != nil && in.MonthlyLivingCosts != nil {
		cash := (*in.MonthlyIncome - *in.MonthlyLivingCosts) * float64(n)
		if balloon > bulletRiskShare*cash {
			warnings = append(warnings, periodWarning(WarningCritical,
				fmt.Sprintf("balloon payment of %.2f exceeds 80%% of the %.2f disposable cash available over the term", balloon, cash),
				n, balloon))
		}
	}
	return s.finish(MethodBullet, warnings), nil
}

// ProjectAmortization pays a fixed annuity every period. The last period
// absorbs floating drift so the balance lands exactly on zero.
func ProjectAmortization(in LoanInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	pay := AnnuityPayment(in.Principal, in.Rate, n)

	s := newSchedule(in.StartDate, n, in.Principal)
	bal := in.Principal
	for i := 1; i <= n; i++ {
		interest := bal * in.Rate
		principal := pay - interest
		payment := pay
		if i == n {
			principal = bal
			payment = principal + interest
		}
		bal = clamp(bal - principal)
		s.record(i, bal, payment, principal, interest)
	}

	var warnings []Warning
	warnings = maxPaymentAt(warnings, pay, in, 1)
	warnings = affordabilityAt(warnings, pay, in, 1)
	return s.finish(MethodAmortization, warnings), nil
}

// ProjectInterestOnly pays interest every period and the principal with the
// final period's interest as a balloon.
func ProjectInterestOnly(in LoanInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	interest := in.Principal * in.Rate
	balloon := in.Principal + interest

	s := newSchedule(in.StartDate, n, in.Principal)
	for i := 1; i < n; i++ {
		s.record(i, in.Principal, interest, 0, interest)
	}
	s.record(n, 0, balloon, in.Principal, interest)

	var warnings []Warning
	warnings = maxPaymentAt(warnings, balloon, in, n)
	warnings = affordabilityAt(warnings, balloon, in, n)
	return s.finish(MethodInterestOnly, warnings), nil
}

// ProjectEqualPrincipal retires the same principal every period with interest
// on the declining balance, so the first payment is the largest.
func ProjectEqualPrincipal(in LoanInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	part := in.Principal / float64(n)
	first := part + in.Principal*in.Rate

	s := newSchedule(in.StartDate, n, in.Principal)
	bal := in.Principal
	for i := 1; i <= n; i++ {
		interest := bal * in.Rate
		principal := part
		if i == n {
			principal = bal
		}
		bal = clamp(bal - principal)
		s.record(i, bal, principal+interest, principal, interest)
	}

	var warnings []Warning
	warnings = maxPaymentAt(warnings, first, in, 1)
	warnings = affordabilityAt(warnings, first, in, 1)
	return s.finish(MethodEqualPrincipal, warnings), nil
}
