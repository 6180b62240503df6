package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()

	return config.Config{
		AppEnv:                          config.EnvDev,
		ServiceName:                     "football-etl",
		HTTPAddr:                        ":0",
		ReadTimeout:                     time.Second,
		WriteTimeout:                    time.Second,
		CORSAllowedOrigins:              []string{"*"},
		DBDriver:                        config.DriverSQLite,
		DBURL:                           filepath.Join(t.TempDir(), "football.db"),
		CacheEnabled:                    true,
		CacheTTL:                        time.Minute,
		SportMonksBaseURL:               "https://api.sportmonks.com/v3",
		SportMonksTimeout:               time.Second,
		SportMonksPerPage:               50,
		SportMonksCircuitFailureCount:   5,
		SportMonksCircuitOpenTimeout:    time.Second,
		SportMonksCircuitHalfOpenMaxReq: 1,
		IngestBatchSize:                 10,
		SyncFetchWorkers:                2,
	}
}

func TestNew_MigratesAndServesReports(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, logging.NewNop(), Options{MigrateOnOpen: true, CacheReports: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	require.Equal(t, usecase.BatchOptions{ChunkSize: 10}, a.BatchOptions())

	_, ok, err := a.Watermarks.Get(ctx, usecase.WatermarkFixtures)
	require.NoError(t, err)
	require.False(t, ok)

	srv, err := NewHTTPServer(cfg, a, logging.NewNop())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leagues/8/goal-stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"matches":0`)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := config.Config{}
	if _, err := NewHTTPServer(cfg, &App{Reports: usecase.NewReportService(nil)}, nil); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestNew_FailsOnUnreachableDatabase(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.DBURL = filepath.Join(t.TempDir(), "missing", "nested", "football.db")

	if _, err := New(context.Background(), cfg, logging.NewNop(), Options{}); err == nil {
		t.Fatalf("expected open error for a path in a missing directory")
	}
}
