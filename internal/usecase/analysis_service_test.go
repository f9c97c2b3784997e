package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/form"
	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/platform/cache"
)

type mockInsightProvider struct {
	mock.Mock
}

func (m *mockInsightProvider) Analyze(ctx context.Context, req AnalyzeRequest) (analysis.Report, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(analysis.Report), args.Error(1)
}

func (m *mockInsightProvider) AIPicks(ctx context.Context, league string) (AIPicksResult, error) {
	args := m.Called(ctx, league)
	return args.Get(0).(AIPicksResult), args.Error(1)
}

type mockFormLookup struct {
	mock.Mock
}

func (m *mockFormLookup) TeamForm(ctx context.Context, team string) (TeamFormData, error) {
	args := m.Called(ctx, team)
	return args.Get(0).(TeamFormData), args.Error(1)
}

func analyzedMatch() match.Match {
	return match.Match{
		ID:           "m1",
		SportKey:     "soccer",
		League:       "soccer_epl",
		HomeTeam:     "Arsenal",
		AwayTeam:     "Chelsea",
		CommenceTime: time.Date(2026, 5, 2, 16, 0, 0, 0, time.UTC),
		Bookmakers: []match.Bookmaker{
			{
				Key: "book_a",
				Markets: []match.MarketOdds{
					{
						Key: "h2h",
						Outcomes: []match.Outcome{
							{Name: "Arsenal", Price: 2.0},
							{Name: "Draw", Price: 4.0},
							{Name: "Chelsea", Price: 4.0},
						},
					},
				},
			},
		},
	}
}

func TestAnalysisService_MatchAnalysisDerivesViews(t *testing.T) {
	m := analyzedMatch()
	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{"soccer_epl": {m}}}

	draw := 20.0
	report := analysis.Report{
		MatchID:       "m1",
		Probabilities: &analysis.Probabilities{HomeWin: 58, Draw: &draw, AwayWin: 22},
		Risk:          analysis.RiskLow,
		Meta: analysis.Meta{
			DataQuality: boolPtr(true),
		},
	}

	insight := &mockInsightProvider{}
	insight.On("Analyze", mock.Anything, AnalyzeRequest{
		MatchID:  "m1",
		HomeTeam: "Arsenal",
		AwayTeam: "Chelsea",
		League:   "soccer_epl",
	}).Return(report, nil).Once()

	formLookup := &mockFormLookup{}
	formLookup.On("TeamForm", mock.Anything, "Arsenal").
		Return(TeamFormData{Entries: []FormEntry{{Result: "W", Date: "2026-04-30"}}}, nil)
	formLookup.On("TeamForm", mock.Anything, "Chelsea").
		Return(TeamFormData{}, errors.New("provider down"))

	svc := NewAnalysisService(insight, matchRepo, formLookup, cache.NewStore(time.Minute), nil)

	got, err := svc.MatchAnalysis(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, "m1", got.Report.MatchID)

	// 50 + 15 (data quality) + 10 (clear favorite: 58 vs 22/20) + 5 (low risk).
	require.Equal(t, 80, got.Confidence.Score)

	require.Len(t, got.Edges, 3)
	require.NotNil(t, got.TopEdge)
	require.Equal(t, OutcomeHome, got.TopEdge.Outcome)
	require.InDelta(t, 8.0, got.TopEdge.Diff, 1e-9)
	require.Equal(t, "accent", got.TopEdgeTier)

	// Home side has form data, away side degraded to neutral.
	require.NotNil(t, got.Schedule.Home.RestDays)
	require.Nil(t, got.Schedule.Away.RestDays)
	require.Equal(t, AdvantageUnknown, got.Schedule.Advantage)

	// Second call must come from cache: Analyze is asserted Once above.
	again, err := svc.MatchAnalysis(context.Background(), "m1")
	require.NoError(t, err)
	require.Equal(t, got.Confidence, again.Confidence)

	insight.AssertExpectations(t)
}

func TestAnalysisService_MatchAnalysisUnknownMatch(t *testing.T) {
	insight := &mockInsightProvider{}
	svc := NewAnalysisService(insight, &fakeMatchRepo{}, nil, cache.NewStore(time.Minute), nil)

	_, err := svc.MatchAnalysis(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MatchAnalysis(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestAnalysisService_MatchAnalysisProviderFailure(t *testing.T) {
	m := analyzedMatch()
	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{"soccer_epl": {m}}}

	insight := &mockInsightProvider{}
	insight.On("Analyze", mock.Anything, mock.Anything).
		Return(analysis.Report{}, errors.New("upstream timeout"))

	svc := NewAnalysisService(insight, matchRepo, nil, cache.NewStore(time.Minute), nil)

	_, err := svc.MatchAnalysis(context.Background(), "m1")
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}

func TestAnalysisService_TeamForm(t *testing.T) {
	formLookup := &mockFormLookup{}
	formLookup.On("TeamForm", mock.Anything, "Arsenal").
		Return(TeamFormData{
			Entries: []FormEntry{
				{Result: "W"}, {Result: "W"}, {Result: "D"}, {Result: "L"},
			},
			Stats: &form.TeamStats{
				GoalsScored:    9,
				GoalsConceded:  4,
				CleanSheets:    2,
				MatchesPlayed:  4,
				AvgGoalsScored: 2.25,
			},
		}, nil)
	formLookup.On("TeamForm", mock.Anything, "Chelsea").
		Return(TeamFormData{Entries: []FormEntry{{Result: "L"}}}, nil)

	svc := NewAnalysisService(&mockInsightProvider{}, &fakeMatchRepo{}, formLookup, cache.NewStore(time.Minute), nil)

	got, err := svc.TeamForm(context.Background(), "Arsenal")
	require.NoError(t, err)
	require.Equal(t, "W2", got.Streak)
	// round(100 × (3×2 + 1) / (3×4)) = 58.
	require.Equal(t, 58, got.Rating)
	require.Equal(t, 9.0, got.Stats[form.StatGoalsScored])
	require.Equal(t, 2.25, got.Stats[form.StatAvgGoalsScored])
	require.Len(t, got.Stats, len(teamStatKeys))

	// No aggregate block from the provider: streak and rating still derive,
	// the stats map stays absent.
	noStats, err := svc.TeamForm(context.Background(), "Chelsea")
	require.NoError(t, err)
	require.Equal(t, "L1", noStats.Streak)
	require.Nil(t, noStats.Stats)

	// Form data entirely unavailable degrades to an empty view.
	unconfigured := NewAnalysisService(&mockInsightProvider{}, &fakeMatchRepo{}, nil, cache.NewStore(time.Minute), nil)
	empty, err := unconfigured.TeamForm(context.Background(), "Arsenal")
	require.NoError(t, err)
	require.Equal(t, TeamFormView{}, empty)
}

func TestAnalysisService_LeagueCountsPartialFailure(t *testing.T) {
	matchRepo := &countingMatchRepo{
		fakeMatchRepo: fakeMatchRepo{byLeague: map[string][]match.Match{
			"soccer_epl":    {analyzedMatch(), analyzedMatch()},
			"soccer_laliga": {analyzedMatch()},
			"soccer_broken": nil,
		}},
		failing: map[string]bool{"soccer_broken": true},
	}

	svc := NewAnalysisService(&mockInsightProvider{}, matchRepo, nil, cache.NewStore(time.Minute), nil)

	counts := svc.LeagueCounts(context.Background(), []string{"soccer_epl", "soccer_laliga", "soccer_broken"})
	require.Equal(t, map[string]int{
		"soccer_epl":    2,
		"soccer_laliga": 1,
		"soccer_broken": 0,
	}, counts)
}

type countingMatchRepo struct {
	fakeMatchRepo
	failing map[string]bool
}

func (r *countingMatchRepo) ListByLeague(ctx context.Context, league string) ([]match.Match, error) {
	if r.failing[league] {
		return nil, errors.New("league fetch failed")
	}
	return r.fakeMatchRepo.ListByLeague(ctx, league)
}
