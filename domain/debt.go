package domain

import "debt-planner/projection"

type TermUnit string

const (
	TermMonths TermUnit = "months"
	TermYears  TermUnit = "years"
)

// Debt is a debt as it is stored and submitted by clients: annual rate in
// percent, term with a unit, and a start date string.
type Debt struct {
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name,omitempty"`
	Principal       float64           `json:"principal"`
	InterestRate    float64           `json:"interestRate"` // annual, percent
	Term            int               `json:"term"`
	TermUnit        TermUnit          `json:"termUnit,omitempty"`
	StartDate       string            `json:"startDate,omitempty"`
	RepaymentMethod projection.Method `json:"repaymentMethod,omitempty"`

	MonthlyIncome        *float64 `json:"monthlyIncome,omitempty"`
	MonthlyLivingCosts   *float64 `json:"monthlyLivingCosts,omitempty"`
	MaxAffordablePayment *float64 `json:"maxAffordablePayment,omitempty"`

	// Used by snowball and avalanche on a single debt.
	MinimumPayment      float64 `json:"minimumPayment,omitempty"`
	ExtraMonthlyPayment float64 `json:"extraMonthlyPayment,omitempty"`

	Reborrow    *ReborrowTerms    `json:"reborrow,omitempty"`
	Graduated   *GraduatedTerms   `json:"graduated,omitempty"`
	Settlement  *SettlementTerms  `json:"settlement,omitempty"`
	Forbearance *ForbearanceTerms `json:"forbearance,omitempty"`
}

type ReborrowTerms struct {
	Percentage float64 `json:"percentage"`
	MaxCycles  int     `json:"maxCycles"`
}

type GraduatedTerms struct {
	BasePayment               float64 `json:"basePayment"`
	StepPeriods               int     `json:"stepPeriods"`
	StepPercentage            float64 `json:"stepPercentage"`
	AllowNegativeAmortization bool    `json:"allowNegativeAmortization"`
}

type SettlementTerms struct {
	CashAvailable      float64 `json:"cashAvailable"`
	AcceptedPercentage float64 `json:"acceptedPercentage"`
	MinCashBuffer      float64 `json:"minCashBuffer"`
}

type ForbearanceTerms struct {
	HolidayPeriods int `json:"holidayPeriods"`
	RepayPeriods   int `json:"repayPeriods"`
}
