package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

type fakeOddsProvider struct {
	byLeague map[string][]match.Match
	failing  map[string]bool
}

func (p *fakeOddsProvider) ListMatches(_ context.Context, league string) ([]match.Match, error) {
	if p.failing[league] {
		return nil, errors.New("odds provider unavailable")
	}
	return p.byLeague[league], nil
}

type fakeInsightProvider struct {
	picksByLeague map[string]AIPicksResult
}

func (p *fakeInsightProvider) Analyze(context.Context, AnalyzeRequest) (analysis.Report, error) {
	return analysis.Report{}, errors.New("not used")
}

func (p *fakeInsightProvider) AIPicks(_ context.Context, league string) (AIPicksResult, error) {
	return p.picksByLeague[league], nil
}

func TestRefreshService_RefreshReplacesSnapshotsAndPicks(t *testing.T) {
	epl := []match.Match{
		{ID: "m1", League: "soccer_epl", CommenceTime: time.Date(2026, 5, 2, 16, 0, 0, 0, time.UTC)},
		{ID: "m2", League: "soccer_epl", CommenceTime: time.Date(2026, 5, 2, 18, 0, 0, 0, time.UTC)},
	}

	odds := &fakeOddsProvider{
		byLeague: map[string][]match.Match{"soccer_epl": epl},
		failing:  map[string]bool{"soccer_broken": true},
	}
	insight := &fakeInsightProvider{picksByLeague: map[string]AIPicksResult{
		"soccer_epl": {
			Picks:           []analysis.AIPick{{MatchID: "m1", Edge: 5, Conviction: 7}},
			FlaggedMatchIDs: []string{"m1"},
		},
	}}
	matchRepo := &fakeMatchRepo{}
	pickRepo := &fakePickRepo{}

	svc := NewRefreshService(odds, insight, matchRepo, pickRepo, nil)

	result, err := svc.Refresh(context.Background(), RefreshInput{
		Leagues:    []string{"soccer_epl", "SOCCER_EPL", "soccer_broken"},
		MaxWorkers: 2,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if result.LeagueCount != 2 {
		t.Fatalf("duplicate leagues must collapse, got %d", result.LeagueCount)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected counts %+v", result)
	}

	stored, err := matchRepo.ListByLeague(context.Background(), "soccer_epl")
	if err != nil {
		t.Fatalf("ListByLeague: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("snapshot not replaced, got %d matches", len(stored))
	}

	flagged, err := pickRepo.FlaggedIDsByLeague(context.Background(), "soccer_epl")
	if err != nil {
		t.Fatalf("FlaggedIDsByLeague: %v", err)
	}
	if len(flagged) != 1 || flagged[0] != "m1" {
		t.Fatalf("picks not synced, got %v", flagged)
	}
}

func TestRefreshService_RefreshRequiresLeagues(t *testing.T) {
	svc := NewRefreshService(&fakeOddsProvider{}, nil, &fakeMatchRepo{}, nil, nil)

	if _, err := svc.Refresh(context.Background(), RefreshInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
