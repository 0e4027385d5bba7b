package projection

import (
	"fmt"
	"time"
)

// DateLayout is the format of every date in a Projection.
const DateLayout = "2006-01-02"

// AddPeriods advances date by n calendar months. When the start day does not
// exist in the target month the result is clamped to that month's last day,
// so Jan 31 + 1 month is Feb 28 (or 29). The result is midnight UTC.
func AddPeriods(date time.Time, n int) time.Time {
	y, m, d := date.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, invalid("startDate", "expected YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

// CheckAffordability classifies payment against disposable income. It returns
// nil when income or living costs are unknown, or when the payment is within
// half of the disposable amount.
func CheckAffordability(payment float64, income, livingCosts *float64) *Warning {
	if income == nil || livingCosts == nil {
		return nil
	}
	disposable := *income - *livingCosts
	switch {
	case payment > disposable:
		w := newWarning(WarningCritical,
			fmt.Sprintf("payment of %.2f exceeds disposable income of %.2f", payment, disposable))
		w.Amount = amount(payment)
		return &w
	case payment > 0.5*disposable:
		w := newWarning(WarningWarning,
			fmt.Sprintf("payment of %.2f uses more than half of disposable income of %.2f", payment, disposable))
		w.Amount = amount(payment)
		return &w
	}
	return nil
}

func newWarning(t WarningType, msg string) Warning {
	return Warning{Type: t, Message: msg}
}

func periodWarning(t WarningType, msg string, period int, amt float64) Warning {
	return Warning{Type: t, Message: msg, Period: &period, Amount: &amt}
}

func amount(v float64) *float64 { return &v }

// affordabilityAt runs CheckAffordability and stamps the period on the result.
func affordabilityAt(warnings []Warning, payment float64, in LoanInput, period int) []Warning {
	w := CheckAffordability(payment, in.MonthlyIncome, in.MonthlyLivingCosts)
	if w == nil {
		return warnings
	}
	w.Period = &period
	return append(warnings, *w)
}

// maxPaymentAt flags a payment above the borrower's declared ceiling.
func maxPaymentAt(warnings []Warning, payment float64, in LoanInput, period int) []Warning {
	if in.MaxAffordablePayment == nil || payment <= *in.MaxAffordablePayment {
		return warnings
	}
	return append(warnings, periodWarning(WarningCritical,
		fmt.Sprintf("payment of %.2f exceeds the maximum affordable payment of %.2f", payment, *in.MaxAffordablePayment),
		period, payment))
}
