package cli

import (
	"context"
	"fmt"
	"net/http"

	"debt-planner/config"
	httpapi "debt-planner/http"
	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/repository"
	"debt-planner/service"
)

// stack is the fully wired server.
type stack struct {
	handler http.Handler
	limiter *httpapi.RateLimiter
	pruner  *service.HistoryPruner
	closers []func() error
}

func (s *stack) Close() {
	s.limiter.Stop()
	s.closeAll()
}

// buildStack picks Redis and Postgres when configured and in-memory stores
// otherwise.
func buildStack(ctx context.Context, cfg *config.Config, log logging.Logger) (*stack, error) {
	s := &stack{}
	m := metrics.New()

	var cache repository.CacheRepository = repository.NewMemoryCache()
	if cfg.Cache.RedisAddr != "" {
		rc := repository.NewRedisCache(repository.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   cfg.Cache.KeyPrefix,
		})
		if err := rc.Ping(ctx); err != nil {
			rc.Close()
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Cache.RedisAddr, err)
		}
		s.closers = append(s.closers, rc.Close)
		cache = rc
		log.Info("using redis cache", logging.String("addr", cfg.Cache.RedisAddr))
	}

	var history repository.ProjectionRepository = repository.NewProjectionRepositoryMemory()
	if cfg.History.PostgresDSN != "" {
		db, err := repository.OpenPostgres(ctx, cfg.History.PostgresDSN)
		if err != nil {
			s.closeAll()
			return nil, err
		}
		s.closers = append(s.closers, db.Close)
		pg := repository.NewProjectionRepositoryPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			s.closeAll()
			return nil, err
		}
		history = pg
		log.Info("using postgres history")
	}

	projections := service.NewProjectionService(history, cache,
		service.WithCacheTTL(cfg.Cache.TTL),
		service.WithLogger(log.Named("projection")),
		service.WithMetrics(m),
	)

	s.limiter = httpapi.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	s.handler = httpapi.NewRouter(httpapi.Services{
		Projections: projections,
		WhatIf:      service.NewWhatIfService(projections),
		Portfolio:   service.NewPortfolioService(log.Named("portfolio"), m),
	}, s.limiter, m, log.Named("http"))
	s.pruner = service.NewHistoryPruner(history, cfg.History.Retention, cfg.History.PruneSchedule, log, m)
	return s, nil
}

func (s *stack) closeAll() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}
