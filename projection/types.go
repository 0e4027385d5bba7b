// Package projection simulates debt repayment period by period. Every
// function here is pure: inputs are plain values, outputs are freshly
// allocated, and nothing touches storage or the network.
package projection

import "time"

// Method identifies a repayment policy.
type Method string

const (
	MethodBullet         Method = "bullet"
	MethodAmortization   Method = "amortization"
	MethodReborrowing    Method = "reborrowing"
	MethodInterestOnly   Method = "interest_only"
	MethodEqualPrincipal Method = "equal_principal"
	MethodGraduated      Method = "graduated"
	MethodSnowball       Method = "snowball"
	MethodAvalanche      Method = "avalanche"
	MethodSettlement     Method = "settlement"
	MethodForbearance    Method = "forbearance"
)

// WarningType is the severity of a Warning.
type WarningType string

const (
	WarningCritical WarningType = "critical"
	WarningWarning  WarningType = "warning"
	WarningInfo     WarningType = "info"
)

// Warning is an advisory annotation attached to a projection. Warnings never
// stop a projection from being computed.
type Warning struct {
	Type    WarningType `json:"type"`
	Message string      `json:"message"`
	Period  *int        `json:"period,omitempty"`
	Amount  *float64    `json:"amount,omitempty"`
}

// LoanInput describes a single debt. Rate is the interest rate per period as a
// decimal fraction (0.01 for 1% a month).
type LoanInput struct {
	Principal float64   `json:"principal"`
	Rate      float64   `json:"rate"`
	Periods   int       `json:"periods"`
	StartDate time.Time `json:"startDate"`

	// Optional affordability context; nil means unknown.
	MonthlyIncome        *float64 `json:"monthlyIncome,omitempty"`
	MonthlyLivingCosts   *float64 `json:"monthlyLivingCosts,omitempty"`
	MaxAffordablePayment *float64 `json:"maxAffordablePayment,omitempty"`
}

// ReborrowInput configures a re-borrowing cascade.
type ReborrowInput struct {
	LoanInput
	ReborrowPercentage float64 `json:"reborrowPercentage"`
	ReborrowMaxCycles  int     `json:"reborrowMaxCycles"`
}

// GraduatedInput configures a step-up payment plan.
type GraduatedInput struct {
	LoanInput
	BasePayment               float64 `json:"basePayment"`
	StepPeriods               int     `json:"stepPeriods"`
	StepPercentage            float64 `json:"stepPercentage"`
	AllowNegativeAmortization bool    `json:"allowNegativeAmortization"`
}

// SettlementInput configures a lump-sum settlement offer.
type SettlementInput struct {
	LoanInput
	CashAvailable      float64 `json:"cashAvailable"`
	AcceptedPercentage float64 `json:"acceptedPercentage"`
	MinCashBuffer      float64 `json:"minCashBuffer"`
}

// ForbearanceInput configures a payment holiday followed by a catch-up phase.
type ForbearanceInput struct {
	LoanInput
	HolidayPeriods int `json:"holidayPeriods"`
	RepayPeriods   int `json:"repayPeriods"`
}

// Projection is the schedule produced by every strategy. The slices are
// parallel and index 0 is the origination point.
type Projection struct {
	Method        Method       `json:"method"`
	Dates         []string     `json:"dates"`
	Balances      []float64    `json:"balances"`
	Payments      []float64    `json:"payments"`
	Principal     []float64    `json:"principal"`
	Interest      []float64    `json:"interest"`
	TotalPaid     float64      `json:"totalPaid"`
	TotalInterest float64      `json:"totalInterest"`
	PayoffDate    string       `json:"payoffDate"`
	Warnings      []Warning    `json:"warnings"`
	LoanPayoffs   []LoanPayoff `json:"loanPayoffs,omitempty"`
}

// Periods returns the number of simulated periods, excluding origination.
func (p Projection) Periods() int {
	if len(p.Balances) == 0 {
		return 0
	}
	return len(p.Balances) - 1
}

// FinalBalance returns the balance after the last simulated period.
func (p Projection) FinalBalance() float64 {
	if len(p.Balances) == 0 {
		return 0
	}
	return p.Balances[len(p.Balances)-1]
}

// HasCritical reports whether any warning is critical.
func (p Projection) HasCritical() bool {
	for _, w := range p.Warnings {
		if w.Type == WarningCritical {
			return true
		}
	}
	return false
}

// MultiDebtLoan is one debt inside a portfolio.
type MultiDebtLoan struct {
	ID             string  `json:"id"`
	Principal      float64 `json:"principal"`
	Rate           float64 `json:"rate"`
	MinimumPayment float64 `json:"minimumPayment"`
}

// LoanPayoff records the period in which a portfolio loan reached zero.
type LoanPayoff struct {
	ID         string `json:"id"`
	Period     int    `json:"period"`
	PayoffDate string `json:"payoffDate"`
}

// MultiDebtComparison holds both portfolio orderings. InterestSaved and
// TimeSaved are snowball minus avalanche, so positive values favour avalanche.
type MultiDebtComparison struct {
	Snowball      Projection `json:"snowball"`
	Avalanche     Projection `json:"avalanche"`
	InterestSaved float64    `json:"interestSaved"`
	TimeSaved     int        `json:"timeSaved"`
}
