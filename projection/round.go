package projection

import "github.com/shopspring/decimal"

// RoundCents rounds half away from zero to two decimals.
func RoundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundAll(in []float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = RoundCents(v)
	}
	return out
}

// Rounded returns a copy of p with every amount rounded to cents. The engine
// works in full precision; this is for presentation only.
func (p Projection) Rounded() Projection {
	out := p
	out.Dates = append([]string(nil), p.Dates...)
	out.Balances = roundAll(p.Balances)
	out.Payments = roundAll(p.Payments)
	out.Principal = roundAll(p.Principal)
	out.Interest = roundAll(p.Interest)
	out.TotalPaid = RoundCents(p.TotalPaid)
	out.TotalInterest = RoundCents(p.TotalInterest)
	out.Warnings = make([]Warning, len(p.Warnings))
	for i, w := range p.Warnings {
		if w.Amount != nil {
			w.Amount = amount(RoundCents(*w.Amount))
		}
		out.Warnings[i] = w
	}
	out.LoanPayoffs = append([]LoanPayoff(nil), p.LoanPayoffs...)
	return out
}

// Rounded rounds both projections and the interest saving to cents.
func (c MultiDebtComparison) Rounded() MultiDebtComparison {
	return MultiDebtComparison{
		Snowball:      c.Snowball.Rounded(),
		Avalanche:     c.Avalanche.Rounded(),
		InterestSaved: RoundCents(c.InterestSaved),
		TimeSaved:     c.TimeSaved,
	}
}
