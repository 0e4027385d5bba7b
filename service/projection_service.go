package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"debt-planner/domain"
	"debt-planner/logging"
	"debt-planner/metrics"
	"debt-planner/projection"
	"debt-planner/repository"
)

const cacheKeyVersion = "v1"

type ProjectionService struct {
	repo     repository.ProjectionRepository
	cache    repository.CacheRepository
	cacheTTL time.Duration
	log      logging.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	group    singleflight.Group
}

type Option func(*ProjectionService)

func WithCacheTTL(ttl time.Duration) Option {
	return func(s *ProjectionService) { s.cacheTTL = ttl }
}

func WithLogger(l logging.Logger) Option {
	return func(s *ProjectionService) { s.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ProjectionService) { s.metrics = m }
}

// WithClock sets the clock used for default start dates and history times.
func WithClock(now func() time.Time) Option {
	return func(s *ProjectionService) { s.now = now }
}

// NewProjectionService creates a ProjectionService with the given history
// repository and result cache.
func NewProjectionService(
	repo repository.ProjectionRepository,
	cache repository.CacheRepository,
	opts ...Option,
) *ProjectionService {
	s := &ProjectionService{
		repo:  repo,
		cache: cache,
		log:   logging.NewNop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProjectDebt projects debt under its repayment method. When the debt has an
// ID the rounded projection is appended to its history.
func (s *ProjectionService) ProjectDebt(
	ctx context.Context,
	debt domain.Debt,
) (projection.Projection, error) {
	if err := checkLimits(debt); err != nil {
		return projection.Projection{}, err
	}
	strategy, err := NormalizeDebt(debt, s.now())
	if err != nil {
		return projection.Projection{}, err
	}

	p, err := s.project(ctx, strategy)
	if err != nil {
		return projection.Projection{}, err
	}

	if debt.ID != "" {
		rec := domain.ProjectionRecord{
			DebtID:     debt.ID,
			Method:     p.Method,
			Debt:       debt,
			Projection: p,
			CreatedAt:  s.now().UTC(),
		}
		// History is best effort.
		if _, err := s.repo.Save(ctx, rec); err != nil {
			s.log.Warn("failed to save projection history",
				logging.String("debt_id", debt.ID), logging.Err(err))
		}
	}
	return p, nil
}

// History returns the stored projections of a debt, newest first.
func (s *ProjectionService) History(
	ctx context.Context,
	debtID string,
	limit int,
) ([]domain.ProjectionRecord, error) {
	if debtID == "" {
		return nil, validationErr("debt id is required")
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	recs, err := s.repo.ListByDebt(ctx, debtID, limit)
	if err != nil {
		return nil, fmt.Errorf("list history of %s: %w", debtID, err)
	}
	return recs, nil
}

// project runs strategy through the cache. Identical concurrent requests share
// one computation.
func (s *ProjectionService) project(
	ctx context.Context,
	strategy projection.Strategy,
) (projection.Projection, error) {
	key, err := cacheKey(strategy)
	if err != nil {
		return projection.Projection{}, err
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.compute(ctx, key, strategy)
	})
	if err != nil {
		return projection.Projection{}, err
	}
	return v.(projection.Projection), nil
}

func (s *ProjectionService) compute(
	ctx context.Context,
	key string,
	strategy projection.Strategy,
) (projection.Projection, error) {
	method := string(strategy.Method())

	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	started := time.Now()
	p, err := projection.Project(strategy)
	if err != nil {
		s.metrics.ObserveProjection(method, "invalid", time.Since(started), nil)
		return projection.Projection{}, fmt.Errorf("project %s: %w", method, err)
	}
	rounded := p.Rounded()

	types := make([]string, len(rounded.Warnings))
	for i, w := range rounded.Warnings {
		types[i] = string(w.Type)
	}
	took := time.Since(started)
	s.metrics.ObserveProjection(method, "ok", took, types)
	s.log.Debug("projection computed",
		logging.String("method", method),
		logging.Int("periods", rounded.Periods()),
		logging.Int("warnings", len(rounded.Warnings)),
		logging.Duration("took", took))
	if rounded.HasCritical() {
		s.log.Info("projection has critical warnings",
			logging.String("method", method),
			logging.String("first", firstCritical(rounded)))
	}

	s.store(ctx, key, rounded)
	return rounded, nil
}

func (s *ProjectionService) lookup(ctx context.Context, key string) (projection.Projection, bool) {
	if s.cache == nil {
		return projection.Projection{}, false
	}
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("cache lookup failed", logging.String("key", key), logging.Err(err))
	}
	if !ok {
		s.metrics.CacheMiss()
		return projection.Projection{}, false
	}

	var p projection.Projection
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Warn("discarding corrupt cache entry", logging.String("key", key), logging.Err(err))
		s.metrics.CacheMiss()
		return projection.Projection{}, false
	}
	s.metrics.CacheHit()
	return p, true
}

func (s *ProjectionService) store(ctx context.Context, key string, p projection.Projection) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		s.log.Warn("failed to encode projection for cache", logging.Err(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
		s.log.Warn("failed to cache projection", logging.String("key", key), logging.Err(err))
	}
}

// cacheKey hashes the method together with the full normalized input.
func cacheKey(strategy projection.Strategy) (string, error) {
	body, err := json.Marshal(strategy)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	h := xxhash.New()
	_, _ = h.WriteString(string(strategy.Method()))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(body)
	return cacheKeyVersion + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}

func firstCritical(p projection.Projection) string {
	for _, w := range p.Warnings {
		if w.Type == projection.WarningCritical {
			return w.Message
		}
	}
	return ""
}
