package match

import (
	"strings"
	"time"
)

// Match represents one upcoming or live fixture as returned by the odds
// provider. Instances are immutable once fetched; a refresh replaces the
// whole league snapshot rather than mutating rows in place.
type Match struct {
	ID           string
	SportKey     string
	League       string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Bookmakers   []Bookmaker
	Signals      Signals
}

// Bookmaker carries one book's markets for a match.
type Bookmaker struct {
	Key        string
	Title      string
	LastUpdate time.Time
	Markets    []MarketOdds
}

// MarketOdds holds the outcomes of a single market (h2h, totals).
type MarketOdds struct {
	Key      string
	Outcomes []Outcome
}

// Outcome is a single priced selection. Price is decimal odds.
type Outcome struct {
	Name  string
	Price float64
}

// Signals are the raw inputs of the heuristic "hotness" ranking used when no
// server-side AI picks exist for a league.
type Signals struct {
	DerbyScore     float64
	ProximityScore float64
	MarketScore    float64
	BookmakerScore float64
	LeagueScore    float64
}

// Hotness is the composite ranking score of the heuristic fallback.
func (s Signals) Hotness() float64 {
	return s.DerbyScore + s.ProximityScore + s.MarketScore + s.BookmakerScore + s.LeagueScore
}

func NormalizeSportKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// LeagueOfSport reports whether the league identifier belongs to the given
// sport key. League identifiers are provider keys prefixed by the sport,
// e.g. "soccer_epl" belongs to "soccer".
func LeagueOfSport(league, sportKey string) bool {
	league = NormalizeSportKey(league)
	sportKey = NormalizeSportKey(sportKey)
	if league == "" || sportKey == "" {
		return false
	}
	return league == sportKey || strings.HasPrefix(league, sportKey+"_")
}
