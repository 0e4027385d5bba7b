package domain

import "debt-planner/projection"

type PortfolioDebt struct {
	Name           string  `json:"name"`
	Principal      float64 `json:"principal"`
	InterestRate   float64 `json:"interestRate"` // annual, percent
	MinimumPayment float64 `json:"minimumPayment"`
}

type PortfolioInput struct {
	Debts               []PortfolioDebt `json:"debts"`
	ExtraMonthlyPayment float64         `json:"extraMonthlyPayment"`
	StartDate           string          `json:"startDate,omitempty"`
}

type PortfolioResult struct {
	TotalDebt   float64                        `json:"totalDebt"`
	Comparison  projection.MultiDebtComparison `json:"comparison"`
	Recommended projection.Method              `json:"recommended,omitempty"`
	Explanation string                         `json:"explanation"`
}
