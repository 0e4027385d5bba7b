package projection

import (
	"math"
	"time"
)

// residual is the largest floating remainder treated as a paid-off balance.
const residual = 1e-6

// schedule accumulates the parallel slices of a Projection. It is local to a
// single projector call and never escapes except through finish.
type schedule struct {
	start     time.Time
	dates     []string
	balances  []float64
	payments  []float64
	principal []float64
	interest  []float64
}

func newSchedule(start time.Time, periods int, opening float64) *schedule {
	s := &schedule{
		start:     start,
		dates:     make([]string, 0, periods+1),
		balances:  make([]float64, 0, periods+1),
		payments:  make([]float64, 0, periods+1),
		principal: make([]float64, 0, periods+1),
		interest:  make([]float64, 0, periods+1),
	}
	s.record(0, opening, 0, 0, 0)
	return s
}

func (s *schedule) record(period int, balance, payment, principal, interest float64) {
	s.dates = append(s.dates, FormatDate(AddPeriods(s.start, period)))
	s.balances = append(s.balances, clamp(balance))
	s.payments = append(s.payments, payment)
	s.principal = append(s.principal, principal)
	s.interest = append(s.interest, interest)
}

// fill records zero-payment periods from `from` through `to` at balance.
func (s *schedule) fill(from, to int, balance float64) {
	for i := from; i <= to; i++ {
		s.record(i, balance, 0, 0, 0)
	}
}

func (s *schedule) finish(method Method, warnings []Warning) Projection {
	p := Projection{
		Method:    method,
		Dates:     s.dates,
		Balances:  s.balances,
		Payments:  s.payments,
		Principal: s.principal,
		Interest:  s.interest,
		Warnings:  warnings,
	}
	for i := range s.payments {
		p.TotalPaid += s.payments[i]
		p.TotalInterest += s.interest[i]
	}
	if p.Warnings == nil {
		p.Warnings = []Warning{}
	}
	p.PayoffDate = s.dates[len(s.dates)-1]
	return p
}

// clamp pins floating noise and negative balances to zero.
func clamp(balance float64) float64 {
	if balance < residual {
		return 0
	}
	return balance
}

// AnnuityPayment is the fixed payment that retires principal over n periods at
// rate r. A zero rate degrades to an even split.
func AnnuityPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	f := math.Pow(1+r, float64(n))
	return principal * r * f / (f - 1)
}
