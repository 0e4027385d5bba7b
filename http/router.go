package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/service"
)

type Services struct {
	Projections *service.ProjectionService
	WhatIf      *service.WhatIfService
	Portfolio   *service.PortfolioService
}

// NewRouter wires every route. POST routes share the rate limiter.
func NewRouter(
	svcs Services,
	limiter *RateLimiter,
	m *metrics.Metrics,
	log logging.Logger,
) *mux.Router {
	if log == nil {
		log = logging.NewNop()
	}

	projections := NewProjectionHandler(svcs.Projections, log)
	whatIf := NewWhatIfHandler(svcs.WhatIf, log)
	portfolio := NewPortfolioHandler(svcs.Portfolio, log)

	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, m, log, h)
	}

	r := mux.NewRouter()
	r.Use(RequestLogger(log, m))

	r.HandleFunc("/healthz", Health).Methods(http.MethodGet)
	if m != nil {
		r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	r.Handle("/debts/projection", limited(projections.ProjectDebt)).Methods(http.MethodPost)
	r.HandleFunc("/debts/{id}/projections", projections.History).Methods(http.MethodGet)
	r.Handle("/debts/what-if", limited(whatIf.Analyze)).Methods(http.MethodPost)
	r.Handle("/debts/recommend-term", limited(whatIf.RecommendTerm)).Methods(http.MethodPost)
	r.Handle("/portfolio/compare", limited(portfolio.Compare)).Methods(http.MethodPost)

	return r
}

func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, logging.NewNop(), http.StatusOK, map[string]string{"status": "ok"})
}
