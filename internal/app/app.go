package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/matchsight/analysis-api/external/insight"
	"github.com/matchsight/analysis-api/external/oddsfeed"
	"github.com/matchsight/analysis-api/internal/config"
	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/share"
	"github.com/matchsight/analysis-api/internal/infrastructure/repository/memory"
	"github.com/matchsight/analysis-api/internal/infrastructure/repository/postgres"
	"github.com/matchsight/analysis-api/internal/interfaces/httpapi"
	"github.com/matchsight/analysis-api/internal/platform/cache"
	idgen "github.com/matchsight/analysis-api/internal/platform/id"
	"github.com/matchsight/analysis-api/internal/platform/logging"
	"github.com/matchsight/analysis-api/internal/platform/resilience"
	"github.com/matchsight/analysis-api/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	matchRepo := memory.NewMatchRepository()
	if cfg.ManualEntry() {
		// No odds provider key: preload the snapshot store so the browser has
		// something to show.
		for league, matches := range memory.SeedMatches(time.Now()) {
			if err := matchRepo.ReplaceLeague(context.Background(), league, matches); err != nil {
				return nil, fmt.Errorf("seed league %s: %w", league, err)
			}
		}
	}

	var pickRepo analysis.PickRepository
	var shareRepo share.Repository
	if cfg.DBURL != "" {
		db, err := openDB(cfg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		pickRepo = postgres.NewAIPickRepository(db)
		shareRepo = postgres.NewShareRepository(db)
	} else {
		logger.Info("no DB_URL configured, using in-memory repositories")
		pickRepo = memory.NewAIPickRepository()
		shareRepo = memory.NewShareRepository()
	}

	var oddsProvider usecase.OddsProvider
	if !cfg.ManualEntry() {
		oddsProvider = oddsfeed.NewClient(oddsfeed.ClientConfig{
			BaseURL:    cfg.OddsAPIBaseURL,
			APIKey:     cfg.OddsAPIKey,
			Timeout:    cfg.OddsAPITimeout,
			MaxRetries: cfg.OddsAPIMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:     cfg.OddsAPICircuitEnabled,
				MaxFailures: cfg.OddsAPICircuitFailureCount,
				Cooldown:    cfg.OddsAPICircuitOpenTimeout,
				MaxProbes:   cfg.OddsAPICircuitHalfOpenMaxReq,
			},
		})
	}

	var insightClient *insight.Client
	if cfg.InsightBaseURL != "" {
		insightClient = insight.NewClient(insight.ClientConfig{
			BaseURL:    cfg.InsightBaseURL,
			Token:      cfg.InsightToken,
			Timeout:    cfg.InsightTimeout,
			MaxRetries: cfg.InsightMaxRetries,
			Logger:     logger,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:     cfg.InsightCircuitEnabled,
				MaxFailures: cfg.InsightCircuitFailureCount,
				Cooldown:    cfg.InsightCircuitOpenTimeout,
				MaxProbes:   cfg.InsightCircuitHalfOpenMaxReq,
			},
		})
	} else {
		logger.Info("no INSIGHT_BASE_URL configured, analysis endpoints will report unavailable")
	}

	location, err := resolveLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var insightProvider usecase.InsightProvider
	var formLookup usecase.FormLookup
	var speechProvider usecase.SpeechProvider
	if insightClient != nil {
		insightProvider = insightClient
		formLookup = insightClient
		speechProvider = insightClient
	}

	store := cache.NewStore(cfg.CacheTTL)
	matchListSvc := usecase.NewMatchListService(matchRepo, pickRepo, location)
	analysisSvc := usecase.NewAnalysisService(insightProvider, matchRepo, formLookup, store, logger)
	audioSvc := usecase.NewAudioService(speechProvider)
	shareSvc := usecase.NewShareService(shareRepo, matchRepo, idgen.NewRandomGenerator(), cfg.ShareBaseURL)
	refreshSvc := usecase.NewRefreshService(oddsProvider, insightProvider, matchRepo, pickRepo, logger)

	handler := httpapi.NewHandler(
		matchListSvc,
		analysisSvc,
		audioSvc,
		shareSvc,
		refreshSvc,
		matchRepo,
		cfg.ManualEntry(),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

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

func resolveLocation(timezone string) (*time.Location, error) {
	if timezone == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return location, nil
}
