package projection

import "fmt"

// ProjectReborrowing models a payday-style cascade: every period the whole
// balance plus interest is repaid and a share of it is borrowed again, until
// the cycle allowance runs out or the term ends.
func ProjectReborrowing(in ReborrowInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	n := in.Periods
	share := in.ReborrowPercentage / 100

	s := newSchedule(in.StartDate, n, in.Principal)
	bal := in.Principal
	cycles := 0
	totalInterest := 0.0
	period := 0
	for period < n && bal > 0 {
		period++
		interest := bal * in.Rate
		paid := bal
		next := 0.0
		if cycles < in.ReborrowMaxCycles && period < n && share > 0 {
			next = clamp(paid * share)
			cycles++
		}
		totalInterest += interest
		bal = next
		s.record(period, bal, paid+interest, paid, interest)
	}
	s.fill(period+1, n, 0)

	var warnings []Warning
	warnings = affordabilityAt(warnings, in.Principal*(1+in.Rate), in.LoanInput, 1)
	warnings = append(warnings, Warning{
		Type: WarningWarning,
		Message: fmt.Sprintf("re-borrowing %d times costs %.2f in interest; cascades are interest-expensive",
			cycles, totalInterest),
		Amount: amount(totalInterest),
	})
	return s.finish(MethodReborrowing, warnings), nil
}
