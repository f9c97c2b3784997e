package form

import (
	"strings"
	"time"
)

const (
	ResultWin  = "W"
	ResultDraw = "D"
	ResultLoss = "L"
)

// FormMatch is one prior result for a team, supplied by the stats provider.
// PlayedAt is zero when the provider date was missing or unparseable; absence
// of data is never surfaced as a fault.
type FormMatch struct {
	Result   string
	Opponent string
	Score    string
	PlayedAt time.Time
}

// TeamStats holds aggregate counters per team per analysis window.
type TeamStats struct {
	GoalsScored     int
	GoalsConceded   int
	CleanSheets     int
	MatchesPlayed   int
	AvgGoalsScored  float64
	AvgGoalsAgainst float64
}

// StatKey enumerates the stat fields addressable by name. Lookups go through
// an explicit accessor table instead of reflection so a bad key is a
// compile-visible miss, not a silent zero of the wrong field.
type StatKey string

const (
	StatGoalsScored     StatKey = "goals_scored"
	StatGoalsConceded   StatKey = "goals_conceded"
	StatCleanSheets     StatKey = "clean_sheets"
	StatMatchesPlayed   StatKey = "matches_played"
	StatAvgGoalsScored  StatKey = "avg_goals_scored"
	StatAvgGoalsAgainst StatKey = "avg_goals_against"
)

var statAccessors = map[StatKey]func(TeamStats) float64{
	StatGoalsScored:     func(s TeamStats) float64 { return float64(s.GoalsScored) },
	StatGoalsConceded:   func(s TeamStats) float64 { return float64(s.GoalsConceded) },
	StatCleanSheets:     func(s TeamStats) float64 { return float64(s.CleanSheets) },
	StatMatchesPlayed:   func(s TeamStats) float64 { return float64(s.MatchesPlayed) },
	StatAvgGoalsScored:  func(s TeamStats) float64 { return s.AvgGoalsScored },
	StatAvgGoalsAgainst: func(s TeamStats) float64 { return s.AvgGoalsAgainst },
}

// Stat returns the named stat value; ok is false for unknown keys.
func Stat(stats TeamStats, key StatKey) (float64, bool) {
	accessor, ok := statAccessors[key]
	if !ok {
		return 0, false
	}
	return accessor(stats), true
}

// NormalizeResult maps provider result strings to the W/D/L alphabet.
// Unknown values normalize to empty, which every scorer treats as "skip".
func NormalizeResult(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case ResultWin, "WIN", "WON":
		return ResultWin
	case ResultDraw, "DRAW", "DRAWN", "T", "TIE":
		return ResultDraw
	case ResultLoss, "LOSS", "LOST", "DEFEAT":
		return ResultLoss
	default:
		return ""
	}
}

// ParsePlayedAt parses the provider date formats. A blank or unparseable
// value yields a zero time, never an error.
func ParsePlayedAt(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}
