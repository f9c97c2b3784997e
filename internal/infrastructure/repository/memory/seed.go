package memory

import (
	"time"

	"github.com/matchsight/analysis-api/internal/domain/match"
)

const (
	SeedLeagueEPL    = "soccer_epl"
	SeedLeagueLaLiga = "soccer_spain_la_liga"
)

// SeedMatches provides a small fixture set for manual-entry mode, where no
// odds provider key is configured and nothing can be fetched live.
func SeedMatches(now time.Time) map[string][]match.Match {
	kickoffToday := now.Add(6 * time.Hour)
	kickoffTomorrow := now.Add(30 * time.Hour)

	return map[string][]match.Match{
		SeedLeagueEPL: {
			{
				ID:           "seed-epl-1",
				SportKey:     "soccer",
				League:       SeedLeagueEPL,
				HomeTeam:     "Arsenal",
				AwayTeam:     "Chelsea",
				CommenceTime: kickoffToday,
				Bookmakers: []match.Bookmaker{
					{
						Key:   "seedbook",
						Title: "Seed Book",
						Markets: []match.MarketOdds{
							{
								Key: "h2h",
								Outcomes: []match.Outcome{
									{Name: "Arsenal", Price: 2.1},
									{Name: "Draw", Price: 3.5},
									{Name: "Chelsea", Price: 3.4},
								},
							},
						},
					},
				},
				Signals: match.Signals{LeagueScore: 3, MarketScore: 1, BookmakerScore: 1},
			},
			{
				ID:           "seed-epl-2",
				SportKey:     "soccer",
				League:       SeedLeagueEPL,
				HomeTeam:     "Manchester United",
				AwayTeam:     "Manchester City",
				CommenceTime: kickoffTomorrow,
				Signals:      match.Signals{DerbyScore: 8, LeagueScore: 3},
			},
		},
		SeedLeagueLaLiga: {
			{
				ID:           "seed-liga-1",
				SportKey:     "soccer",
				League:       SeedLeagueLaLiga,
				HomeTeam:     "Real Madrid",
				AwayTeam:     "Barcelona",
				CommenceTime: kickoffToday,
				Signals:      match.Signals{LeagueScore: 3},
			},
		},
	}
}
