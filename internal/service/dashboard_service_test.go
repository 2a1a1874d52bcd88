package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekos-sistemi/ekos-api/internal/models"
)

type raporCounterStub struct {
	durumlar    map[string]int
	uygunluklar map[string]int
	calls       int
}

func (s *raporCounterStub) CountByDurum(ctx context.Context) (map[string]int, error) {
	s.calls++
	return s.durumlar, nil
}

func (s *raporCounterStub) CountByUygunluk(ctx context.Context) (map[string]int, error) {
	return s.uygunluklar, nil
}

type projeCounterStub struct {
	count int
}

func (s *projeCounterStub) Count(ctx context.Context) (int, error) {
	return s.count, nil
}

func TestDashboardStatsAggregatesCounters(t *testing.T) {
	raporlar := &raporCounterStub{
		durumlar:    map[string]int{models.DurumAktif: 12, models.DurumPasif: 3},
		uygunluklar: map[string]int{models.UygunlukUygun: 10, models.UygunlukUygunDegil: 5},
	}
	svc := NewDashboardService(raporlar, &projeCounterStub{count: 4}, nil, time.Minute, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.AktifRapor)
	assert.Equal(t, 3, stats.PasifRapor)
	assert.Equal(t, 15, stats.ToplamRapor)
	assert.Equal(t, 10, stats.UygunRapor)
	assert.Equal(t, 5, stats.UygunsuzRapor)
	assert.Equal(t, 4, stats.ToplamProje)
}

func TestDashboardStatsServedFromCache(t *testing.T) {
	raporlar := &raporCounterStub{
		durumlar:    map[string]int{models.DurumAktif: 1},
		uygunluklar: map[string]int{},
	}
	svc := NewDashboardService(raporlar, &projeCounterStub{}, newMapCache(), time.Minute, nil)

	_, err := svc.Stats(context.Background())
	require.NoError(t, err)
	_, err = svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, raporlar.calls, "second read must not hit the database")
}
