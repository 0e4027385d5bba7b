package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/projection"
)

// WhatIfService explores alternatives for a draft debt. Nothing it computes is
// written to history.
type WhatIfService struct {
	projections *ProjectionService
	log         logging.Logger
}

func NewWhatIfService(projections *ProjectionService) *WhatIfService {
	return &WhatIfService{
		projections: projections,
		log:         projections.log.Named("what-if"),
	}
}

// Analyze projects the debt under each requested method concurrently and
// picks the cheapest one that pays the debt off without critical warnings.
func (s *WhatIfService) Analyze(
	ctx context.Context,
	input domain.WhatIfInput,
) (domain.WhatIfResult, error) {
	if err := checkLimits(input.Debt); err != nil {
		return domain.WhatIfResult{}, err
	}

	methods := dedupeMethods(input.Methods)
	if len(methods) == 0 {
		methods = applicableMethods(input.Debt)
	}
	if len(methods) > MaxWhatIfMethods {
		return domain.WhatIfResult{}, validationErr("at most %d methods can be compared", MaxWhatIfMethods)
	}

	today := s.projections.now()
	scenarios := make([]domain.WhatIfScenario, len(methods))
	failures := make([]error, len(methods))

	g, gctx := errgroup.WithContext(ctx)
	for i, method := range methods {
		i, method := i, method
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			draft := input.Debt
			draft.ID = ""
			draft.RepaymentMethod = method

			sc := domain.WhatIfScenario{Method: method, Warnings: []projection.Warning{}}
			strategy, err := NormalizeDebt(draft, today)
			if err == nil {
				var p projection.Projection
				p, err = s.projections.project(gctx, strategy)
				if err == nil {
					sc = summarize(method, p)
				}
			}
			if err != nil {
				if !IsBadRequest(err) {
					return fmt.Errorf("what-if %s: %w", method, err)
				}
				sc.Error = err.Error()
				failures[i] = err
			}
			scenarios[i] = sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.WhatIfResult{}, err
	}

	if allFailed(failures) {
		return domain.WhatIfResult{}, failures[0]
	}

	result := domain.WhatIfResult{Scenarios: scenarios, Cheapest: cheapest(scenarios)}
	s.log.Debug("what-if analyzed",
		logging.Int("scenarios", len(scenarios)),
		logging.String("cheapest", string(result.Cheapest)))
	return result, nil
}

func summarize(method projection.Method, p projection.Projection) domain.WhatIfScenario {
	return domain.WhatIfScenario{
		Method:        method,
		Periods:       p.Periods(),
		TotalPaid:     p.TotalPaid,
		TotalInterest: p.TotalInterest,
		FinalBalance:  p.FinalBalance(),
		PayoffDate:    p.PayoffDate,
		Critical:      p.HasCritical(),
		Warnings:      p.Warnings,
	}
}

func dedupeMethods(in []projection.Method) []projection.Method {
	seen := make(map[projection.Method]bool, len(in))
	out := make([]projection.Method, 0, len(in))
	for _, m := range in {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func allFailed(errs []error) bool {
	for _, err := range errs {
		if err == nil {
			return false
		}
	}
	return len(errs) > 0
}

// cheapest returns the feasible scenario with the lowest total paid. Ties keep
// the earlier method.
func cheapest(scenarios []domain.WhatIfScenario) projection.Method {
	var best projection.Method
	bestPaid := math.Inf(1)
	for _, sc := range scenarios {
		if sc.Error != "" || sc.Critical || sc.FinalBalance > 0 {
			continue
		}
		if sc.TotalPaid < bestPaid {
			best, bestPaid = sc.Method, sc.TotalPaid
		}
	}
	return best
}

// RecommendTerm sweeps term lengths with the amortization projector and ranks
// the affordable ones by the caller's preference.
func (s *WhatIfService) RecommendTerm(
	ctx context.Context,
	input domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := validateTermInput(input); err != nil {
		return domain.TermRecommendationResult{}, err
	}

	start := Today(s.projections.now())
	rate := MonthlyRate(input.InterestRate)
	recommendations := []domain.TermRecommendation{}

	for term := input.MinTermMonths; term <= input.MaxTermMonths; term++ {
		if err := ctx.Err(); err != nil {
			return domain.TermRecommendationResult{}, err
		}

		p, err := projection.ProjectAmortization(projection.LoanInput{
			Principal: input.Principal,
			Rate:      rate,
			Periods:   term,
			StartDate: start,
		})
		if err != nil {
			s.log.Warn("failed to project term", logging.Int("term", term), logging.Err(err))
			continue
		}
		p = p.Rounded()

		payment := p.Payments[1]
		if payment > input.MaxMonthlyPayment {
			continue
		}

		recommendations = append(recommendations, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: payment,
			TotalInterest:  p.TotalInterest,
			PayoffDate:     p.PayoffDate,
			Score:          termScore(input, term, payment, p.TotalInterest),
			Reason:         preferenceReason(input.Preference),
		})
	}

	if len(recommendations) == 0 {
		return domain.TermRecommendationResult{}, validationErr("no term fits the maximum monthly payment of %.2f", input.MaxMonthlyPayment)
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	recommendations[0].Reason = explainTerm(recommendations)

	return domain.TermRecommendationResult{
		RecommendedTerm: recommendations[0].TermMonths,
		Recommendations: recommendations,
	}, nil
}

func validateTermInput(input domain.TermRecommendationInput) error {
	switch {
	case input.Principal <= 0:
		return validationErr("principal must be positive")
	case input.Principal > MaxDebtAmount:
		return validationErr("principal exceeds the maximum of %.2f", MaxDebtAmount)
	case input.InterestRate < 0:
		return validationErr("interest rate must not be negative")
	case input.InterestRate > MaxInterestRate:
		return validationErr("interest rate exceeds the maximum of %.2f%%", MaxInterestRate)
	case input.MinTermMonths < MinTermMonths || input.MaxTermMonths < MinTermMonths:
		return validationErr("terms must be at least %d month", MinTermMonths)
	case input.MinTermMonths > input.MaxTermMonths:
		return validationErr("minimum term is greater than maximum term")
	case input.MaxTermMonths > MaxTermMonths:
		return validationErr("maximum term exceeds the limit of %d months", MaxTermMonths)
	case input.MaxTermMonths-input.MinTermMonths > MaxTermRangeMonths:
		return validationErr("term range exceeds %d months", MaxTermRangeMonths)
	case input.MaxMonthlyPayment <= 0:
		return validationErr("maximum monthly payment must be positive")
	}
	switch input.Preference {
	case domain.MinimizeInterest, domain.MinimizePayment, domain.Balanced:
		return nil
	}
	return validationErr("unknown preference %q", input.Preference)
}

// termScore rates a term from 0 to 10 on interest, payment and length, then
// weights the three by preference.
func termScore(input domain.TermRecommendationInput, term int, payment, interest float64) float64 {
	apr := input.InterestRate / 100
	maxInterest := input.Principal * apr * float64(input.MaxTermMonths) / 12
	minInterest := input.Principal * apr * float64(input.MinTermMonths) / 12
	lowestPayment := input.Principal / float64(input.MaxTermMonths)

	interestRange := maxInterest - minInterest
	paymentRange := input.MaxMonthlyPayment - lowestPayment

	var interestScore, paymentScore float64
	termScore := 10.0
	if interestRange > 0 {
		interestScore = 10 * (1 - (interest-minInterest)/interestRange)
	}
	if paymentRange > 0 {
		paymentScore = 10 * (1 - (payment-lowestPayment)/paymentRange)
	}
	if span := input.MaxTermMonths - input.MinTermMonths; span > 0 {
		termScore = 10 * (1 - float64(term-input.MinTermMonths)/float64(span))
	}

	var score float64
	switch input.Preference {
	case domain.MinimizeInterest:
		score = 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.MinimizePayment:
		score = 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	default:
		score = 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}
	return projection.RoundCents(score)
}

func preferenceReason(p domain.TermPreference) string {
	switch p {
	case domain.MinimizeInterest:
		return "Term chosen to keep total interest low"
	case domain.MinimizePayment:
		return "Term chosen to keep the monthly payment low"
	}
	return "Balance between monthly payment and total cost"
}

// explainTerm describes the top recommendation against the next best
// alternatives.
func explainTerm(ranked []domain.TermRecommendation) string {
	top := ranked[0]
	msg := fmt.Sprintf("%d months at %.2f a month, %.2f in total interest, paid off by %s.",
		top.TermMonths, top.MonthlyPayment, top.TotalInterest, top.PayoffDate)
	for i := 1; i < len(ranked) && i <= 3; i++ {
		alt := ranked[i]
		msg += fmt.Sprintf(" %d months would cost %+.2f a month and %+.2f in interest.",
			alt.TermMonths, alt.MonthlyPayment-top.MonthlyPayment, alt.TotalInterest-top.TotalInterest)
	}
	return msg
}
