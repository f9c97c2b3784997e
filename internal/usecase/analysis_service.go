package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/form"
	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/platform/cache"
	"github.com/matchsight/analysis-api/internal/platform/logging"
)

const leagueCountWorkers = 8

// MatchAnalysis is the aggregated per-match view served to clients: the raw
// report plus every derived heuristic.
type MatchAnalysis struct {
	Match       match.Match
	Report      analysis.Report
	Confidence  Confidence
	Edges       []OutcomeEdge
	TopEdge     *OutcomeEdge
	TopEdgeTier string
	Schedule    ScheduleComparison
}

// ScheduleComparison pairs both sides' rest views with the advantage verdict.
type ScheduleComparison struct {
	Home      Schedule      `json:"home"`
	Away      Schedule      `json:"away"`
	Advantage AdvantageSide `json:"advantage"`
}

// FormLookup supplies a team's recent results and aggregate counters. Nil
// means form data is unavailable and schedules degrade to neutral.
type FormLookup interface {
	TeamForm(ctx context.Context, team string) (TeamFormData, error)
}

// TeamFormData is the raw per-team payload from the stats collaborator.
// Stats is nil when the provider omits the aggregate block.
type TeamFormData struct {
	Entries []FormEntry
	Stats   *form.TeamStats
}

// FormEntry is one recent result as the stats collaborator reports it.
type FormEntry struct {
	Result   string
	Opponent string
	Score    string
	Date     string
}

// TeamFormView is the derived form widget for one team: streak, rating and
// the named aggregate stats.
type TeamFormView struct {
	Streak string
	Rating int
	Stats  map[form.StatKey]float64
}

// teamStatKeys fixes which counters the view exposes; resolution goes through
// the form.Stat accessor table.
var teamStatKeys = []form.StatKey{
	form.StatGoalsScored,
	form.StatGoalsConceded,
	form.StatCleanSheets,
	form.StatMatchesPlayed,
	form.StatAvgGoalsScored,
	form.StatAvgGoalsAgainst,
}

// AnalysisService builds the full analysis view for a match. Reports are
// cached per match ID; cache misses fan in through the store's singleflight.
type AnalysisService struct {
	insight       InsightProvider
	matchRepo     match.Repository
	formLookup    FormLookup
	confidenceSvc *ConfidenceService
	fatigueSvc    *FatigueService
	formSvc       *FormService
	valueSvc      *ValueService
	store         *cache.Store
	logger        *logging.Logger
}

func NewAnalysisService(
	insight InsightProvider,
	matchRepo match.Repository,
	formLookup FormLookup,
	store *cache.Store,
	logger *logging.Logger,
) *AnalysisService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &AnalysisService{
		insight:       insight,
		matchRepo:     matchRepo,
		formLookup:    formLookup,
		confidenceSvc: NewConfidenceService(),
		fatigueSvc:    NewFatigueService(),
		formSvc:       NewFormService(),
		valueSvc:      NewValueService(),
		store:         store,
		logger:        logger,
	}
}

func (s *AnalysisService) MatchAnalysis(ctx context.Context, matchID string) (MatchAnalysis, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.MatchAnalysis")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return MatchAnalysis{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	if s.insight == nil {
		return MatchAnalysis{}, fmt.Errorf("%w: insight provider is not configured", ErrDependencyUnavailable)
	}

	value, err := s.store.GetOrLoad(ctx, "analysis:"+matchID, func(ctx context.Context) (any, error) {
		return s.buildAnalysis(ctx, matchID)
	})
	if err != nil {
		return MatchAnalysis{}, err
	}

	result, ok := value.(MatchAnalysis)
	if !ok {
		return MatchAnalysis{}, fmt.Errorf("unexpected cached analysis type %T", value)
	}
	return result, nil
}

func (s *AnalysisService) buildAnalysis(ctx context.Context, matchID string) (MatchAnalysis, error) {
	m, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return MatchAnalysis{}, fmt.Errorf("get match %s: %w", matchID, err)
	}
	if !found {
		return MatchAnalysis{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	report, err := s.insight.Analyze(ctx, AnalyzeRequest{
		MatchID:  m.ID,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
		League:   m.League,
	})
	if err != nil {
		return MatchAnalysis{}, fmt.Errorf("%w: analyze match %s: %v", ErrDependencyUnavailable, matchID, err)
	}

	result := MatchAnalysis{
		Match:      m,
		Report:     report,
		Confidence: s.confidenceSvc.Score(report),
		Schedule:   s.scheduleComparison(ctx, m),
	}

	if implied := ImpliedProbabilities(m); implied != nil {
		result.Edges = s.valueSvc.Edges(report.Probabilities, implied)
		if top, ok := s.valueSvc.LargestEdge(result.Edges); ok {
			result.TopEdge = &top
			result.TopEdgeTier = s.valueSvc.Tier(top.Diff)
		}
	}

	return result, nil
}

// scheduleComparison is best-effort: a failed or absent form lookup yields a
// neutral schedule for that side, never an error.
func (s *AnalysisService) scheduleComparison(ctx context.Context, m match.Match) ScheduleComparison {
	home := s.teamSchedule(ctx, m.HomeTeam, m.CommenceTime)
	away := s.teamSchedule(ctx, m.AwayTeam, m.CommenceTime)
	return ScheduleComparison{
		Home:      home,
		Away:      away,
		Advantage: s.fatigueSvc.RestAdvantage(home, away),
	}
}

func (s *AnalysisService) teamSchedule(ctx context.Context, team string, target time.Time) Schedule {
	if s.formLookup == nil {
		return s.fatigueSvc.TeamSchedule(nil, target)
	}

	data, err := s.formLookup.TeamForm(ctx, team)
	if err != nil {
		s.logger.WarnContext(ctx, "form lookup failed, using neutral schedule", "team", team, "error", err)
		return s.fatigueSvc.TeamSchedule(nil, target)
	}

	return s.fatigueSvc.TeamSchedule(formMatchesFromEntries(data.Entries), target)
}

// TeamForm derives the form view for one team: streak and rating from the
// result sequence, aggregate counters resolved through the named-stat table.
func (s *AnalysisService) TeamForm(ctx context.Context, team string) (TeamFormView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.TeamForm")
	defer span.End()

	if s.formLookup == nil {
		return TeamFormView{}, nil
	}
	data, err := s.formLookup.TeamForm(ctx, team)
	if err != nil {
		return TeamFormView{}, fmt.Errorf("team form for %s: %w", team, err)
	}

	results := make([]string, 0, len(data.Entries))
	for _, e := range data.Entries {
		results = append(results, e.Result)
	}

	view := TeamFormView{
		Streak: s.formSvc.Streak(results),
		Rating: s.formSvc.FormRating(results),
	}
	if data.Stats != nil {
		view.Stats = make(map[form.StatKey]float64, len(teamStatKeys))
		for _, key := range teamStatKeys {
			if value, ok := form.Stat(*data.Stats, key); ok {
				view.Stats[key] = value
			}
		}
	}
	return view, nil
}

// LeagueCounts fans out match counts across leagues. Failures count as zero
// for that league; the batch never aborts. Writes are last-writer-wins per
// league key, matching the concurrent-fetch behavior clients expect.
func (s *AnalysisService) LeagueCounts(ctx context.Context, leagues []string) map[string]int {
	ctx, span := startUsecaseSpan(ctx, "usecase.AnalysisService.LeagueCounts")
	defer span.End()

	counts := make(map[string]int, len(leagues))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(leagueCountWorkers)
	for _, league := range leagues {
		league := league
		p.Go(func() {
			count := 0
			matches, err := s.matchRepo.ListByLeague(ctx, league)
			if err != nil {
				s.logger.WarnContext(ctx, "league count failed, reporting zero", "league", league, "error", err)
			} else {
				count = len(matches)
			}

			mu.Lock()
			counts[league] = count
			mu.Unlock()
		})
	}
	p.Wait()

	return counts
}

func formMatchesFromEntries(entries []FormEntry) []form.FormMatch {
	out := make([]form.FormMatch, 0, len(entries))
	for _, e := range entries {
		out = append(out, form.FormMatch{
			Result:   form.NormalizeResult(e.Result),
			Opponent: e.Opponent,
			Score:    e.Score,
			PlayedAt: form.ParsePlayedAt(e.Date),
		})
	}
	return out
}
