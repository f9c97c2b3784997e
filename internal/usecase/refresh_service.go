package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
)

type RefreshInput struct {
	Leagues    []string
	MaxWorkers int
}

type RefreshResult struct {
	LeagueCount  int                 `json:"league_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	Leagues      []RefreshLeagueItem `json:"leagues"`
}

type RefreshLeagueItem struct {
	League     string `json:"league"`
	Status     string `json:"status"`
	Matches    int    `json:"matches"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RefreshService re-pulls league snapshots from the odds provider into the
// match repository through a bounded worker pool. It backs the internal
// refresh job; browse traffic only ever reads the snapshots it writes.
type RefreshService struct {
	odds      OddsProvider
	insight   InsightProvider
	matchRepo match.Repository
	pickRepo  analysis.PickRepository
	logger    *logging.Logger
}

func NewRefreshService(
	odds OddsProvider,
	insight InsightProvider,
	matchRepo match.Repository,
	pickRepo analysis.PickRepository,
	logger *logging.Logger,
) *RefreshService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &RefreshService{
		odds:      odds,
		insight:   insight,
		matchRepo: matchRepo,
		pickRepo:  pickRepo,
		logger:    logger,
	}
}

func (s *RefreshService) Refresh(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.Refresh")
	defer span.End()

	if s.odds == nil {
		return RefreshResult{}, fmt.Errorf("%w: odds provider is not configured", ErrDependencyUnavailable)
	}

	leagues := dedupeLeagues(input.Leagues)
	if len(leagues) == 0 {
		return RefreshResult{}, fmt.Errorf("%w: at least one league is required", ErrInvalidInput)
	}

	workerCount := normalizeRefreshWorkerCount(input.MaxWorkers, len(leagues))
	result := RefreshResult{
		LeagueCount: len(leagues),
		WorkerCount: workerCount,
		Leagues:     make([]RefreshLeagueItem, 0, len(leagues)),
	}

	rows := make(chan RefreshLeagueItem, len(leagues))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	workerPool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer workerPool.Release()

	var workers sync.WaitGroup
	for _, league := range leagues {
		league := league
		workers.Add(1)
		if err := workerPool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshLeagueItem{League: league}

			count, refreshErr := s.refreshLeague(ctx, league)
			row.Matches = count
			row.DurationMs = time.Since(start).Milliseconds()
			if refreshErr != nil {
				row.Status = refreshStatusFailed
				row.Message = refreshErr.Error()
				failedCount.Add(1)
				s.logger.WarnContext(ctx, "league refresh failed", "league", league, "error", refreshErr)
			} else {
				row.Status = refreshStatusSuccess
				successCount.Add(1)
			}

			rows <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit league to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].League < result.Leagues[j].League
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *RefreshService) refreshLeague(ctx context.Context, league string) (int, error) {
	matches, err := s.odds.ListMatches(ctx, league)
	if err != nil {
		return 0, fmt.Errorf("list matches league=%s: %w", league, err)
	}
	if err := s.matchRepo.ReplaceLeague(ctx, league, matches); err != nil {
		return 0, fmt.Errorf("replace league snapshot league=%s: %w", league, err)
	}

	// Pick sync is best-effort: a stale pick set is better than failing the
	// whole snapshot refresh.
	if s.insight != nil && s.pickRepo != nil {
		if err := s.refreshPicks(ctx, league); err != nil {
			s.logger.WarnContext(ctx, "ai pick refresh failed, keeping previous picks", "league", league, "error", err)
		}
	}

	return len(matches), nil
}

func (s *RefreshService) refreshPicks(ctx context.Context, league string) error {
	result, err := s.insight.AIPicks(ctx, league)
	if err != nil {
		return fmt.Errorf("fetch ai picks league=%s: %w", league, err)
	}
	if err := s.pickRepo.ReplaceLeague(ctx, league, result.Picks, result.FlaggedMatchIDs); err != nil {
		return fmt.Errorf("replace ai picks league=%s: %w", league, err)
	}
	return nil
}

func dedupeLeagues(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		league := match.NormalizeSportKey(item)
		if league == "" {
			continue
		}
		if _, ok := seen[league]; ok {
			continue
		}
		seen[league] = struct{}{}
		out = append(out, league)
	}
	return out
}

func normalizeRefreshWorkerCount(value, leagueCount int) int {
	if leagueCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > leagueCount {
		value = leagueCount
	}
	return value
}
