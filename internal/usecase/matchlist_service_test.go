package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

type fakeMatchRepo struct {
	byLeague map[string][]match.Match
}

func (r *fakeMatchRepo) ListByLeague(_ context.Context, league string) ([]match.Match, error) {
	return r.byLeague[league], nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	for _, matches := range r.byLeague {
		for _, m := range matches {
			if m.ID == id {
				return m, true, nil
			}
		}
	}
	return match.Match{}, false, nil
}

func (r *fakeMatchRepo) ReplaceLeague(_ context.Context, league string, matches []match.Match) error {
	if r.byLeague == nil {
		r.byLeague = make(map[string][]match.Match)
	}
	r.byLeague[league] = matches
	return nil
}

func (r *fakeMatchRepo) Leagues(context.Context) ([]string, error) {
	out := make([]string, 0, len(r.byLeague))
	for league := range r.byLeague {
		out = append(out, league)
	}
	return out, nil
}

type fakePickRepo struct {
	picks   map[string][]analysis.AIPick
	flagged map[string][]string
}

func (r *fakePickRepo) ListByLeague(_ context.Context, league string) ([]analysis.AIPick, error) {
	return r.picks[league], nil
}

func (r *fakePickRepo) FlaggedIDsByLeague(_ context.Context, league string) ([]string, error) {
	return r.flagged[league], nil
}

func (r *fakePickRepo) ReplaceLeague(_ context.Context, league string, picks []analysis.AIPick, flaggedIDs []string) error {
	if r.picks == nil {
		r.picks = make(map[string][]analysis.AIPick)
	}
	if r.flagged == nil {
		r.flagged = make(map[string][]string)
	}
	r.picks[league] = picks
	r.flagged[league] = flaggedIDs
	return nil
}

func newBrowseService(matchRepo *fakeMatchRepo, pickRepo *fakePickRepo, now time.Time) *MatchListService {
	svc := NewMatchListService(matchRepo, pickRepo, time.UTC)
	svc.now = func() time.Time { return now }
	return svc
}

func kickoff(t time.Time, id string, signals match.Signals) match.Match {
	return match.Match{
		ID:           id,
		SportKey:     "soccer",
		League:       "soccer_epl",
		CommenceTime: t,
		Signals:      signals,
	}
}

func TestMatchListService_ClassifyWindowBoundaries(t *testing.T) {
	svc := newBrowseService(&fakeMatchRepo{}, &fakePickRepo{}, time.Time{})
	now := time.Date(2026, 5, 2, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		commence time.Time
		want     TimeFilter
	}{
		{
			name:     "late tonight is today",
			commence: time.Date(2026, 5, 2, 23, 59, 59, 0, time.UTC),
			want:     TimeFilterToday,
		},
		{
			name:     "exactly midnight tomorrow is tomorrow",
			commence: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC),
			want:     TimeFilterTomorrow,
		},
		{
			name:     "exactly midnight the day after is later",
			commence: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC),
			want:     TimeFilterLater,
		},
		{
			name:     "already kicked off stays today",
			commence: time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC),
			want:     TimeFilterToday,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := svc.ClassifyWindow(tc.commence, now); got != tc.want {
				t.Fatalf("ClassifyWindow(%v) = %s, want %s", tc.commence, got, tc.want)
			}
		})
	}
}

func TestMatchListService_BrowseRanksFlaggedPicksByEdgeAndConviction(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	today := func(hour int) time.Time {
		return time.Date(2026, 5, 2, hour, 0, 0, 0, time.UTC)
	}

	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{
		"soccer_epl": {
			kickoff(today(14), "m1", match.Signals{}),
			kickoff(today(16), "m2", match.Signals{}),
			kickoff(today(18), "m3", match.Signals{}),
		},
	}}
	pickRepo := &fakePickRepo{
		picks: map[string][]analysis.AIPick{
			"soccer_epl": {
				{MatchID: "m1", Edge: 4, Conviction: 5},  // 4.5
				{MatchID: "m2", Edge: 6, Conviction: 2},  // 6.2
				{MatchID: "m3", Edge: 6, Conviction: 9},  // 6.9
			},
		},
		flagged: map[string][]string{"soccer_epl": {"m1", "m2", "m3"}},
	}

	svc := newBrowseService(matchRepo, pickRepo, now)
	got, err := svc.Browse(context.Background(), BrowseState{
		League:     "soccer_epl",
		TimeFilter: TimeFilterToday,
		ViewMode:   ViewModeAIPicks,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}

	if got.FallbackUsed || got.WidenedToAll {
		t.Fatalf("no degradation expected, got %+v", got)
	}
	wantOrder := []string{"m3", "m2", "m1"}
	if len(got.Matches) != len(wantOrder) {
		t.Fatalf("got %d matches, want %d", len(got.Matches), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got.Matches[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, got.Matches[i].ID, id)
		}
	}
}

func TestMatchListService_BrowseFallsBackToHeuristicWhenNoFlags(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	today := func(hour int) time.Time {
		return time.Date(2026, 5, 2, hour, 0, 0, 0, time.UTC)
	}

	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{
		"soccer_epl": {
			kickoff(today(14), "quiet", match.Signals{MarketScore: 1}),
			kickoff(today(16), "derby", match.Signals{DerbyScore: 8, LeagueScore: 2}),
		},
	}}
	pickRepo := &fakePickRepo{}

	svc := newBrowseService(matchRepo, pickRepo, now)
	got, err := svc.Browse(context.Background(), BrowseState{
		League:     "soccer_epl",
		TimeFilter: TimeFilterToday,
		ViewMode:   ViewModeAIPicks,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}

	if !got.FallbackUsed {
		t.Fatal("expected heuristic fallback to fire")
	}
	if got.WidenedToAll {
		t.Fatal("fallback and widening must not both fire")
	}
	if len(got.Matches) != 2 {
		t.Fatalf("fallback must populate results, got %d matches", len(got.Matches))
	}
	if got.Matches[0].ID != "derby" {
		t.Fatalf("hottest match first, got %s", got.Matches[0].ID)
	}
}

func TestMatchListService_BrowseWidensWhenNoFlaggedMatchInWindow(t *testing.T) {
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{
		"soccer_epl": {
			kickoff(time.Date(2026, 5, 2, 16, 0, 0, 0, time.UTC), "today1", match.Signals{}),
			kickoff(time.Date(2026, 5, 2, 19, 0, 0, 0, time.UTC), "today2", match.Signals{}),
			kickoff(time.Date(2026, 5, 3, 16, 0, 0, 0, time.UTC), "tomorrow1", match.Signals{}),
		},
	}}
	pickRepo := &fakePickRepo{
		picks: map[string][]analysis.AIPick{
			"soccer_epl": {{MatchID: "tomorrow1", Edge: 7, Conviction: 8}},
		},
		flagged: map[string][]string{"soccer_epl": {"tomorrow1"}},
	}

	svc := newBrowseService(matchRepo, pickRepo, now)
	got, err := svc.Browse(context.Background(), BrowseState{
		League:     "soccer_epl",
		TimeFilter: TimeFilterToday,
		ViewMode:   ViewModeAIPicks,
	})
	if err != nil {
		t.Fatalf("Browse: %v", err)
	}

	if !got.WidenedToAll {
		t.Fatal("expected ai-picks view to widen to all matches")
	}
	if got.FallbackUsed {
		t.Fatal("widening must not report heuristic fallback")
	}
	if len(got.Matches) != 2 {
		t.Fatalf("expected both today matches, got %d", len(got.Matches))
	}

	// The flagged match is inside its own window, so tomorrow must not widen.
	tomorrowView, err := svc.Browse(context.Background(), BrowseState{
		League:     "soccer_epl",
		TimeFilter: TimeFilterTomorrow,
		ViewMode:   ViewModeAIPicks,
	})
	if err != nil {
		t.Fatalf("Browse tomorrow: %v", err)
	}
	if tomorrowView.WidenedToAll || len(tomorrowView.Matches) != 1 || tomorrowView.Matches[0].ID != "tomorrow1" {
		t.Fatalf("unexpected tomorrow view %+v", tomorrowView)
	}
}

func TestMatchListService_ChangeSportResetsForeignLeague(t *testing.T) {
	svc := newBrowseService(&fakeMatchRepo{}, &fakePickRepo{}, time.Time{})

	state := BrowseState{Sport: "soccer", League: "soccer_epl"}

	kept := svc.ChangeSport(state, "soccer")
	if kept.League != "soccer_epl" {
		t.Fatalf("league should survive same-sport change, got %q", kept.League)
	}

	reset := svc.ChangeSport(state, "basketball")
	if reset.League != "" {
		t.Fatalf("league should reset on foreign sport, got %q", reset.League)
	}
	if reset.Sport != "basketball" {
		t.Fatalf("sport not applied, got %q", reset.Sport)
	}
}
