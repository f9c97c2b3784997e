package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/infrastructure/repository/memory"
	"github.com/matchsight/analysis-api/internal/usecase"
)

func newMatchListRouter(t *testing.T, matches []match.Match) http.Handler {
	t.Helper()

	matchRepo := memory.NewMatchRepository()
	if err := matchRepo.ReplaceLeague(context.Background(), "soccer_epl", matches); err != nil {
		t.Fatalf("seed match repository: %v", err)
	}
	pickRepo := memory.NewAIPickRepository()

	matchListService := usecase.NewMatchListService(matchRepo, pickRepo, time.UTC)
	handler := NewHandler(matchListService, nil, nil, nil, nil, matchRepo, true, nil)

	return NewRouter(handler, nil, nil, "")
}

func TestListSportMatches(t *testing.T) {
	// A kickoff in the past always classifies as today, so the fixture is
	// insensitive to the wall clock crossing midnight mid-test.
	kickoff := time.Now().Add(-time.Hour)
	router := newMatchListRouter(t, []match.Match{
		{
			ID:           "epl-1",
			SportKey:     "soccer",
			League:       "soccer_epl",
			HomeTeam:     "Arsenal",
			AwayTeam:     "Chelsea",
			CommenceTime: kickoff,
			Signals:      match.Signals{DerbyScore: 5},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/sports/soccer_epl/matches?time_filter=today", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data matchListResponse `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if len(body.Data.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(body.Data.Matches))
	}
	if body.Data.Matches[0].ID != "epl-1" {
		t.Fatalf("unexpected match id: %q", body.Data.Matches[0].ID)
	}
	if body.Data.TimeFilter != "today" {
		t.Fatalf("unexpected time filter: %q", body.Data.TimeFilter)
	}
	if body.Data.Matches[0].Hotness != 5 {
		t.Fatalf("unexpected hotness: %v", body.Data.Matches[0].Hotness)
	}
}

func TestListSportMatches_SportSwitchDropsForeignLeague(t *testing.T) {
	kickoff := time.Now().Add(-time.Hour)
	router := newMatchListRouter(t, []match.Match{
		{ID: "epl-1", SportKey: "soccer", League: "soccer_epl", HomeTeam: "Arsenal", AwayTeam: "Chelsea", CommenceTime: kickoff},
	})

	// The league belongs to soccer, so browsing basketball must not keep it.
	req := httptest.NewRequest(http.MethodGet, "/v1/sports/basketball_nba/matches?league=soccer_epl", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data matchListResponse `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data.Matches) != 0 {
		t.Fatalf("foreign league must be dropped on sport switch, got %d matches", len(body.Data.Matches))
	}

	// Same league query under its own sport keeps the selection.
	req = httptest.NewRequest(http.MethodGet, "/v1/sports/soccer/matches?league=soccer_epl", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data.Matches) != 1 || body.Data.Matches[0].ID != "epl-1" {
		t.Fatalf("league of the selected sport must survive, got %+v", body.Data.Matches)
	}
}

func TestListSportMatches_AIPicksFallback(t *testing.T) {
	kickoff := time.Now().Add(-time.Hour)
	router := newMatchListRouter(t, []match.Match{
		{ID: "epl-1", SportKey: "soccer", League: "soccer_epl", HomeTeam: "Arsenal", AwayTeam: "Chelsea", CommenceTime: kickoff},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/sports/soccer_epl/matches?view_mode=ai-picks", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data matchListResponse `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if !body.Data.FallbackUsed {
		t.Fatalf("expected heuristic fallback flag when no picks exist")
	}
	if body.Data.ViewMode != "ai-picks" {
		t.Fatalf("unexpected view mode: %q", body.Data.ViewMode)
	}
}

func TestGetSystemMode_ManualEntry(t *testing.T) {
	router := newMatchListRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/system/mode", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body.Data["mode"].(string); got != "manual-entry" {
		t.Fatalf("unexpected mode: %v", body.Data["mode"])
	}
}

func TestHealthz(t *testing.T) {
	router := newMatchListRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}
