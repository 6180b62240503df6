package app

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-etl/external/sportmonks"
	"github.com/riskibarqy/football-etl/internal/config"
	"github.com/riskibarqy/football-etl/internal/domain/report"
	cacherepo "github.com/riskibarqy/football-etl/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-etl/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/football-etl/internal/platform/cache"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/platform/resilience"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

// App holds the wired store, provider client and services. Close releases
// the database handle.
type App struct {
	Store      *sqlstore.Store
	Provider   *sportmonks.Client
	Batch      *usecase.BatchIngestor
	Reference  *usecase.ReferenceIngestor
	Derived    *usecase.DerivedIngestor
	Watermarks *usecase.WatermarkService
	Sync       *usecase.SyncService
	Reports    *usecase.ReportService

	batchOpts usecase.BatchOptions
}

type Options struct {
	// MigrateOnOpen applies the embedded migrations before the store is used.
	MigrateOnOpen bool
	// CacheReports wraps the report repository with the TTL cache when
	// CACHE_ENABLED is set.
	CacheReports bool
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store, err := sqlstore.Open(ctx, storeConfig(cfg, opts))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	provider := sportmonks.NewClient(sportmonks.ClientConfig{
		HTTPClient: &http.Client{
			Timeout:   cfg.SportMonksTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		BaseURL:           cfg.SportMonksBaseURL,
		Token:             cfg.SportMonksToken,
		Timeout:           cfg.SportMonksTimeout,
		MaxRetries:        cfg.SportMonksMaxRetries,
		RequestsPerMinute: cfg.SportMonksRequestsPerMinute,
		PerPage:           cfg.SportMonksPerPage,
		Logger:            logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportMonksCircuitEnabled,
			FailureThreshold: cfg.SportMonksCircuitFailureCount,
			OpenTimeout:      cfg.SportMonksCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportMonksCircuitHalfOpenMaxReq,
		},
	})

	decoder := sportmonks.Decoder{}
	batchOpts := usecase.BatchOptions{
		ChunkSize:     cfg.IngestBatchSize,
		DecodeWorkers: cfg.IngestDecodeWorkers,
	}

	fixtures := usecase.NewFixtureIngestor(store, logger)
	batch := usecase.NewBatchIngestor(decoder, fixtures, logger)
	reference := usecase.NewReferenceIngestor(store, decoder, logger)
	derived := usecase.NewDerivedIngestor(store, logger)
	watermarks := usecase.NewWatermarkService(sqlstore.NewWatermarkRepository(store))
	syncSvc := usecase.NewSyncService(
		provider,
		decoder,
		batch,
		reference,
		derived,
		watermarks,
		usecase.SyncConfig{
			FetchWorkers: cfg.SyncFetchWorkers,
			Batch:        batchOpts,
		},
		logger,
	)

	var reportRepo report.Repository = sqlstore.NewReportRepository(store)
	if opts.CacheReports && cfg.CacheEnabled {
		reportRepo = cacherepo.NewReportRepository(reportRepo, basecache.NewStore[[]report.MatchRow](cfg.CacheTTL))
	}

	return &App{
		Store:      store,
		Provider:   provider,
		Batch:      batch,
		Reference:  reference,
		Derived:    derived,
		Watermarks: watermarks,
		Sync:       syncSvc,
		Reports:    usecase.NewReportService(reportRepo),
		batchOpts:  batchOpts,
	}, nil
}

// BatchOptions returns the chunking configured by INGEST_* variables.
func (a *App) BatchOptions() usecase.BatchOptions {
	return a.batchOpts
}

func (a *App) Close() error {
	return a.Store.Close()
}

func NewHTTPServer(cfg config.Config, a *App, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	handler := httpapi.NewHandler(a.Reports, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
