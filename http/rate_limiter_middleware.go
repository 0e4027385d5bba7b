package http

import (
	"net"
	"net/http"

	"debt-planner/logging"
	"debt-planner/metrics"
)

// RateLimitMiddleware rejects clients whose bucket is empty with 429.
func RateLimitMiddleware(
	limiter *RateLimiter,
	m *metrics.Metrics,
	log logging.Logger,
	next http.Handler,
) http.Handler {

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !limiter.Allow(ip) {
			m.Limited(routeName(r))
			log.Warn("rate limit exceeded", logging.String("client", ip), logging.String("route", routeName(r)))
			writeJSON(w, log, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
