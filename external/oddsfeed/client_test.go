package oddsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const listingPayload = `[
  {
    "id": "evt1",
    "sport_key": "soccer_epl",
    "sport_title": "EPL",
    "commence_time": "2026-05-02T16:00:00Z",
    "home_team": "Manchester United",
    "away_team": "Manchester City",
    "bookmakers": [
      {
        "key": "book_a",
        "title": "Book A",
        "last_update": "2026-05-02T10:00:00Z",
        "markets": [
          {
            "key": "h2h",
            "outcomes": [
              {"name": "Manchester United", "price": 3.1},
              {"name": "Draw", "price": 3.4},
              {"name": "Manchester City", "price": 2.2}
            ]
          }
        ]
      }
    ]
  },
  {
    "id": "",
    "commence_time": "2026-05-02T16:00:00Z",
    "home_team": "No ID",
    "away_team": "Dropped"
  }
]`

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "secret-key",
		Timeout: 2 * time.Second,
	}), server
}

func TestClient_ListMatchesMapsEvents(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listingPayload))
	}))

	matches, err := client.ListMatches(context.Background(), "SOCCER_EPL")
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}

	if gotPath != "/sports/soccer_epl/odds" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if !strings.Contains(gotQuery, "apiKey=secret-key") {
		t.Fatalf("api key missing from query %q", gotQuery)
	}

	if len(matches) != 1 {
		t.Fatalf("expected malformed event dropped, got %d matches", len(matches))
	}

	m := matches[0]
	if m.ID != "evt1" || m.League != "soccer_epl" || m.SportKey != "soccer" {
		t.Fatalf("unexpected identity mapping %+v", m)
	}
	if m.HomeTeam != "Manchester United" || m.AwayTeam != "Manchester City" {
		t.Fatalf("unexpected teams %+v", m)
	}
	if len(m.Bookmakers) != 1 || len(m.Bookmakers[0].Markets) != 1 {
		t.Fatalf("unexpected bookmaker mapping %+v", m.Bookmakers)
	}
	if m.Signals.DerbyScore == 0 {
		t.Fatal("shared-city fixture should carry a derby signal")
	}
	if m.Signals.BookmakerScore != 1 || m.Signals.MarketScore != 1 {
		t.Fatalf("unexpected count signals %+v", m.Signals)
	}
}

func TestClient_ListMatchesRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		MaxRetries: 2,
		Timeout:    2 * time.Second,
	})

	if _, err := client.ListMatches(context.Background(), "soccer_epl"); err != nil {
		t.Fatalf("expected retry to recover: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_ListMatchesFailsFastOnAuthError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad key"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(ClientConfig{
		BaseURL:    server.URL,
		APIKey:     "secret-key",
		MaxRetries: 3,
		Timeout:    2 * time.Second,
	})

	_, err := client.ListMatches(context.Background(), "soccer_epl")
	if err == nil {
		t.Fatal("expected auth failure")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("non-retryable status must not retry, got %d attempts", got)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("api key leaked into error: %v", err)
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	got := sanitizeSensitiveText(`Get "https://api.example/v4/sports?apiKey=secret-key": timeout`, "secret-key")
	if strings.Contains(got, "secret-key") {
		t.Fatalf("key not redacted: %q", got)
	}
	if !strings.Contains(got, "apiKey=REDACTED") {
		t.Fatalf("expected redaction marker, got %q", got)
	}
}
