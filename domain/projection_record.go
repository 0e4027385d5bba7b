package domain

import (
	"time"

	"debt-planner/projection"
)

// ProjectionRecord is one entry of a debt's projection history.
type ProjectionRecord struct {
	ID         string                `json:"id"`
	DebtID     string                `json:"debtId"`
	Method     projection.Method     `json:"method"`
	Debt       Debt                  `json:"debt"`
	Projection projection.Projection `json:"projection"`
	CreatedAt  time.Time             `json:"createdAt"`
}
