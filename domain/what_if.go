package domain

import "debt-planner/projection"

// WhatIfInput runs one draft debt under several repayment methods. An empty
// Methods list means every method the debt has terms for.
type WhatIfInput struct {
	Debt    Debt                `json:"debt"`
	Methods []projection.Method `json:"methods,omitempty"`
}

type WhatIfScenario struct {
	Method        projection.Method    `json:"method"`
	Periods       int                  `json:"periods"`
	TotalPaid     float64              `json:"totalPaid"`
	TotalInterest float64              `json:"totalInterest"`
	FinalBalance  float64              `json:"finalBalance"`
	PayoffDate    string               `json:"payoffDate"`
	Critical      bool                 `json:"critical"`
	Warnings      []projection.Warning `json:"warnings"`
	Error         string               `json:"error,omitempty"`
}

type WhatIfResult struct {
	Scenarios []WhatIfScenario  `json:"scenarios"`
	Cheapest  projection.Method `json:"cheapest,omitempty"`
}
