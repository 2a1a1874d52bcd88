package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ekos-sistemi/ekos-api/internal/dto"
	"github.com/ekos-sistemi/ekos-api/internal/models"
	appErrors "github.com/ekos-sistemi/ekos-api/pkg/errors"
)

const dashboardStatsCacheKey = "ekos:dashboard:stats"

type dashboardRaporCounter interface {
	CountByDurum(ctx context.Context) (map[string]int, error)
	CountByUygunluk(ctx context.Context) (map[string]int, error)
}

type dashboardProjeCounter interface {
	Count(ctx context.Context) (int, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardService aggregates the landing-page counters. Results are cached
// in Redis; cache failures fall back to direct counts.
type DashboardService struct {
	raporlar dashboardRaporCounter
	projeler dashboardProjeCounter
	cache    statsCache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(raporlar dashboardRaporCounter, projeler dashboardProjeCounter, cache statsCache, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{raporlar: raporlar, projeler: projeler, cache: cache, ttl: ttl, logger: logger}
}

// Stats returns the dashboard counters.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	if s.cache != nil {
		var cached dto.DashboardStats
		if err := s.cache.Get(ctx, dashboardStatsCacheKey, &cached); err == nil {
			return &cached, nil
		} else if !appErrors.HasCode(err, appErrors.ErrCacheMiss.Code) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
	}

	durumlar, err := s.raporlar.CountByDurum(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}
	uygunluklar, err := s.raporlar.CountByUygunluk(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count compliance")
	}
	projeCount, err := s.projeler.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}

	stats := &dto.DashboardStats{
		AktifRapor:    durumlar[models.DurumAktif],
		PasifRapor:    durumlar[models.DurumPasif],
		UygunRapor:    uygunluklar[models.UygunlukUygun],
		UygunsuzRapor: uygunluklar[models.UygunlukUygunDegil],
		ToplamProje:   projeCount,
	}
	stats.ToplamRapor = stats.AktifRapor + stats.PasifRapor

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
