package analytics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/internal/analytics"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

type stubOverviewService struct {
	calls int
	last  analytics.OverviewRequest
	resp  *types.AnalyticsOverview
	err   error
}

func (s *stubOverviewService) Overview(ctx context.Context, req analytics.OverviewRequest) (*types.AnalyticsOverview, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return nil, s.err
	}
	if s.resp == nil {
		s.resp = &types.AnalyticsOverview{}
	}
	return s.resp, nil
}

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	prev := timeNowUTC
	timeNowUTC = func() time.Time { return now }
	t.Cleanup(func() { timeNowUTC = prev })
	return now
}

func TestOverviewDefaultsToOpenWindow(t *testing.T) {
	svc := &stubOverviewService{resp: &types.AnalyticsOverview{OrderCount: 3}}
	rec := httptest.NewRecorder()
	Overview(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/analytics/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.calls)
	assert.True(t, svc.last.Window.Start.IsZero())
	assert.True(t, svc.last.Window.End.IsZero())
	assert.Equal(t, analytics.DefaultLowStockThreshold, svc.last.LowStockThreshold)
	assert.Equal(t, analytics.DefaultTopProducts, svc.last.TopProducts)

	var env struct {
		Success bool                    `json:"success"`
		Data    types.AnalyticsOverview `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, int64(3), env.Data.OrderCount)
}

func TestOverviewPresetWindow(t *testing.T) {
	now := fixedNow(t)
	svc := &stubOverviewService{}
	rec := httptest.NewRecorder()
	Overview(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/overview?preset=7d&top=10&low_stock=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, now, svc.last.Window.End)
	assert.Equal(t, 7*24*time.Hour, svc.last.Window.End.Sub(svc.last.Window.Start))
	assert.Equal(t, 10, svc.last.TopProducts)
	assert.Equal(t, 2, svc.last.LowStockThreshold)
}

func TestOverviewExplicitRange(t *testing.T) {
	svc := &stubOverviewService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/overview?from=2026-01-01T00:00:00Z&to=2026-02-01T00:00:00Z", nil)
	Overview(svc, logger.Nop()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), svc.last.Window.Start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), svc.last.Window.End)
}

func TestOverviewRejectsBadQueries(t *testing.T) {
	cases := map[string]string{
		"half range":   "/overview?from=2026-01-01T00:00:00Z",
		"bad from":     "/overview?from=yesterday&to=2026-02-01T00:00:00Z",
		"inverted":     "/overview?from=2026-02-01T00:00:00Z&to=2026-01-01T00:00:00Z",
		"bad preset":   "/overview?preset=1y",
		"top too high": "/overview?top=500",
		"bad low":      "/overview?low_stock=abc",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &stubOverviewService{}
			rec := httptest.NewRecorder()
			Overview(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, svc.calls)
		})
	}
}
