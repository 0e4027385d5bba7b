package projection

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)

	// cashTolerance absorbs float64 noise in the caller's cash figure. It is
	// far below a cent, so cash is never treated as more than it is.
	cashTolerance = decimal.New(1, -6)
)

// ProjectSettlement models a one-off settlement offer. The result always has
// two points: origination and the settlement date one period later. Cash must
// cover the exact required amount; it is never rounded up.
func ProjectSettlement(in SettlementInput) (Projection, error) {
	if err := in.validate(); err != nil {
		return Projection{}, err
	}
	required := decimal.NewFromFloat(in.Principal).
		Mul(decimal.NewFromFloat(in.AcceptedPercentage)).
		Div(hundred)
	cash := decimal.NewFromFloat(in.CashAvailable)

	s := newSchedule(in.StartDate, 1, in.Principal)
	var warnings []Warning

	if shortfall := required.Sub(cash); shortfall.GreaterThan(cashTolerance) {
		s.record(1, in.Principal, 0, 0, 0)
		warnings = append(warnings, periodWarning(WarningCritical,
			fmt.Sprintf("settlement requires %s but only %s is available", required.StringFixed(2), cash.Truncate(2).StringFixed(2)),
			1, shortfall.InexactFloat64()))
		return s.finish(MethodSettlement, warnings), nil
	}

	pay := required.InexactFloat64()
	s.record(1, 0, pay, pay, 0)

	forgiven := decimal.NewFromFloat(in.Principal).Sub(required)
	if forgiven.IsPositive() {
		warnings = append(warnings, periodWarning(WarningInfo,
			fmt.Sprintf("creditor forgives %s of the balance", forgiven.StringFixed(2)),
			1, forgiven.InexactFloat64()))
	}
	left := decimal.Max(cash.Sub(required), decimal.Zero)
	if left.LessThan(decimal.NewFromFloat(in.MinCashBuffer)) {
		warnings = append(warnings, periodWarning(WarningWarning,
			fmt.Sprintf("only %s remains after settlement, below the %.2f cash buffer", left.Truncate(2).StringFixed(2), in.MinCashBuffer),
			1, left.InexactFloat64()))
	}
	return s.finish(MethodSettlement, warnings), nil
}
