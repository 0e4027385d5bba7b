package service

import (
	"context"
	"errors"
	"time"

	"debt-planner/domain"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func amortizingDebt() domain.Debt {
	return domain.Debt{
		Principal:    12000,
		InterestRate: 12,
		Term:         1,
		TermUnit:     domain.TermYears,
		StartDate:    "2024-01-15",
	}
}

func ptr(v float64) *float64 { return &v }

type failingRepo struct{}

func (failingRepo) Save(context.Context, domain.ProjectionRecord) (domain.ProjectionRecord, error) {
	return domain.ProjectionRecord{}, errors.New("disk full")
}

func (failingRepo) ListByDebt(context.Context, string, int) ([]domain.ProjectionRecord, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, errors.New("connection refused")
}

type failingCache struct{ sets int }

func (c *failingCache) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("redis down")
}

func (c *failingCache) Set(context.Context, string, string, time.Duration) error {
	c.sets++
	return errors.New("redis down")
}
