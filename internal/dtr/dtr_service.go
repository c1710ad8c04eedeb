package dtr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// cacheTTL bounds how stale a cached monthly report can be after an
// approval or revocation lands.
const cacheTTL = 5 * time.Minute

//go:generate mockgen -source=dtr_service.go -destination=mock/dtr_service_mock.go -package=mock
type Service interface {
	Monthly(ctx context.Context, employeeID string, year int, month time.Month) (Report, error)
	Range(ctx context.Context, employeeID string, from, to time.Time) (Report, error)
	// ExportMonthly renders the monthly report as an xlsx workbook.
	ExportMonthly(ctx context.Context, employeeID string, year int, month time.Month) ([]byte, error)
}

type service struct {
	projector *Projector
	cache     *redis.Client
	group     singleflight.Group
	logger    *zap.Logger
}

// NewService wraps the projector with a redis-backed monthly cache. cache
// may be nil; projection then always hits the database.
func NewService(projector *Projector, cache *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("dtr.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dtr.service")
	}
	return &service{projector: projector, cache: cache, logger: l}
}

func (s *service) Monthly(ctx context.Context, employeeID string, year int, month time.Month) (Report, error) {
	if s.cache == nil {
		return s.projector.ProjectMonth(ctx, employeeID, year, month)
	}

	key := monthlyCacheKey(employeeID, year, month)

	if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
		var report Report
		if err := json.Unmarshal(cached, &report); err == nil {
			return report, nil
		}
		// Corrupt entry; fall through and rebuild.
		s.cache.Del(ctx, key)
	}

	// singleflight collapses concurrent projections of the same month into
	// one database pass.
	v, err, _ := s.group.Do(key, func() (any, error) {
		report, err := s.projector.ProjectMonth(ctx, employeeID, year, month)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(report)
		if err != nil {
			return report, nil
		}
		if err := s.cache.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
			s.logger.Warn("dtr cache write failed", zap.String("key", key), zap.Error(err))
		}
		return report, nil
	})
	if err != nil {
		return Report{}, err
	}
	return v.(Report), nil
}

func (s *service) Range(ctx context.Context, employeeID string, from, to time.Time) (Report, error) {
	return s.projector.ProjectRange(ctx, employeeID, from, to)
}

func (s *service) ExportMonthly(ctx context.Context, employeeID string, year int, month time.Month) ([]byte, error) {
	report, err := s.Monthly(ctx, employeeID, year, month)
	if err != nil {
		return nil, err
	}
	return buildWorkbook(report)
}

func monthlyCacheKey(employeeID string, year int, month time.Month) string {
	return fmt.Sprintf("dtr:monthly:%s:%04d-%02d", employeeID, year, int(month))
}
