package usecase

import (
	"sort"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/form"
)

type FatigueLevel string

const (
	FatigueFresh     FatigueLevel = "fresh"
	FatigueNormal    FatigueLevel = "normal"
	FatigueTired     FatigueLevel = "tired"
	FatigueExhausted FatigueLevel = "exhausted"
)

type AdvantageSide string

const (
	AdvantageHome    AdvantageSide = "home"
	AdvantageAway    AdvantageSide = "away"
	AdvantageEven    AdvantageSide = "even"
	AdvantageUnknown AdvantageSide = "unknown"
)

// Schedule is the derived rest/workload view for one team ahead of a match.
// RestDays is nil when no prior match has a usable date.
type Schedule struct {
	RestDays        *int         `json:"restDays"`
	GamesLast7Days  int          `json:"gamesLast7Days"`
	GamesLast14Days int          `json:"gamesLast14Days"`
	BackToBack      bool         `json:"backToBack"`
	Fatigue         FatigueLevel `json:"fatigue"`
}

// FatigueService derives rest and fixture-density signals from a team's
// recent results. Missing or unparseable dates degrade to neutral values,
// never to errors.
type FatigueService struct{}

func NewFatigueService() *FatigueService {
	return &FatigueService{}
}

func (s *FatigueService) TeamSchedule(matches []form.FormMatch, target time.Time) Schedule {
	dated := make([]form.FormMatch, 0, len(matches))
	for _, m := range matches {
		if !m.PlayedAt.IsZero() {
			dated = append(dated, m)
		}
	}

	if len(dated) == 0 || target.IsZero() {
		return Schedule{Fatigue: FatigueNormal}
	}

	sort.Slice(dated, func(i, j int) bool {
		return dated[i].PlayedAt.After(dated[j].PlayedAt)
	})

	rest := elapsedDays(dated[0].PlayedAt, target)
	games7 := countWithin(dated, target, 7)
	games14 := countWithin(dated, target, 14)

	return Schedule{
		RestDays:        &rest,
		GamesLast7Days:  games7,
		GamesLast14Days: games14,
		BackToBack:      rest <= 1,
		Fatigue:         fatigueLevel(rest, games7),
	}
}

// RestAdvantage compares the two sides' rest. An edge needs at least two
// full days of difference; unknown rest on either side means no verdict.
func (s *FatigueService) RestAdvantage(home, away Schedule) AdvantageSide {
	if home.RestDays == nil || away.RestDays == nil {
		return AdvantageUnknown
	}

	diff := *home.RestDays - *away.RestDays
	switch {
	case diff >= 2:
		return AdvantageHome
	case diff <= -2:
		return AdvantageAway
	default:
		return AdvantageEven
	}
}

func fatigueLevel(restDays, gamesLast7 int) FatigueLevel {
	switch {
	case restDays >= 5:
		return FatigueFresh
	case restDays <= 1 || gamesLast7 >= 4:
		return FatigueExhausted
	case restDays <= 2 || gamesLast7 >= 3:
		return FatigueTired
	default:
		return FatigueNormal
	}
}

// elapsedDays is the whole-day gap between two instants, direction-agnostic.
func elapsedDays(a, b time.Time) int {
	diff := b.Sub(a)
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

func countWithin(dated []form.FormMatch, target time.Time, days int) int {
	cutoff := target.Add(-time.Duration(days) * 24 * time.Hour)
	count := 0
	for _, m := range dated {
		if !m.PlayedAt.Before(cutoff) && !m.PlayedAt.After(target) {
			count++
		}
	}
	return count
}
