package usecase

import (
	"math"
	"strings"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

const (
	OutcomeHome = "home"
	OutcomeDraw = "draw"
	OutcomeAway = "away"
)

// OutcomeEdge is the signed gap between the AI estimate and the
// market-implied probability for one outcome, in percentage points.
type OutcomeEdge struct {
	Outcome string  `json:"outcome"`
	AI      float64 `json:"ai"`
	Market  float64 `json:"market"`
	Diff    float64 `json:"diff"`
}

// ValueService compares AI probabilities with market-implied ones.
type ValueService struct{}

func NewValueService() *ValueService {
	return &ValueService{}
}

// Edges computes the per-outcome differences. Outcomes missing on either
// side are skipped, not zeroed. The slice is ordered home, draw, away.
func (s *ValueService) Edges(ai, market *analysis.Probabilities) []OutcomeEdge {
	if ai == nil || market == nil {
		return nil
	}

	edges := make([]OutcomeEdge, 0, 3)
	edges = append(edges, OutcomeEdge{
		Outcome: OutcomeHome,
		AI:      ai.HomeWin,
		Market:  market.HomeWin,
		Diff:    ai.HomeWin - market.HomeWin,
	})
	if ai.Draw != nil && market.Draw != nil {
		edges = append(edges, OutcomeEdge{
			Outcome: OutcomeDraw,
			AI:      *ai.Draw,
			Market:  *market.Draw,
			Diff:    *ai.Draw - *market.Draw,
		})
	}
	edges = append(edges, OutcomeEdge{
		Outcome: OutcomeAway,
		AI:      ai.AwayWin,
		Market:  market.AwayWin,
		Diff:    ai.AwayWin - market.AwayWin,
	})

	return edges
}

// LargestEdge picks the outcome with the biggest absolute difference. Exact
// ties resolve by fixed priority home > draw > away so repeated calls agree.
func (s *ValueService) LargestEdge(edges []OutcomeEdge) (OutcomeEdge, bool) {
	best := OutcomeEdge{}
	found := false

	for _, e := range edges {
		if !found {
			best = e
			found = true
			continue
		}

		abs, bestAbs := math.Abs(e.Diff), math.Abs(best.Diff)
		if abs > bestAbs {
			best = e
			continue
		}
		if abs == bestAbs && outcomePriority(e.Outcome) < outcomePriority(best.Outcome) {
			best = e
		}
	}

	return best, found
}

// Tier buckets an edge magnitude into the display tier the frontend uses.
func (s *ValueService) Tier(diff float64) string {
	abs := math.Abs(diff)
	switch {
	case abs < 3:
		return "neutral"
	case abs < 6:
		return "info"
	default:
		return "accent"
	}
}

func outcomePriority(outcome string) int {
	switch outcome {
	case OutcomeHome:
		return 0
	case OutcomeDraw:
		return 1
	case OutcomeAway:
		return 2
	default:
		return 3
	}
}

// ImpliedProbabilities derives market percentages from a match's decimal
// odds: 1/price averaged across bookmakers' head-to-head markets, then
// normalized by the overround so the set sums to 100.
func ImpliedProbabilities(m match.Match) *analysis.Probabilities {
	var homeSum, drawSum, awaySum float64
	var homeN, drawN, awayN int

	for _, bm := range m.Bookmakers {
		for _, mkt := range bm.Markets {
			if mkt.Key != "h2h" {
				continue
			}
			for _, outcome := range mkt.Outcomes {
				if outcome.Price <= 1 {
					continue
				}
				p := 1 / outcome.Price
				switch {
				case strings.EqualFold(outcome.Name, m.HomeTeam):
					homeSum += p
					homeN++
				case strings.EqualFold(outcome.Name, m.AwayTeam):
					awaySum += p
					awayN++
				case strings.EqualFold(outcome.Name, "Draw"):
					drawSum += p
					drawN++
				}
			}
		}
	}

	if homeN == 0 || awayN == 0 {
		return nil
	}

	home := homeSum / float64(homeN)
	away := awaySum / float64(awayN)
	total := home + away

	var draw float64
	if drawN > 0 {
		draw = drawSum / float64(drawN)
		total += draw
	}
	if total <= 0 {
		return nil
	}

	probs := &analysis.Probabilities{
		HomeWin: 100 * home / total,
		AwayWin: 100 * away / total,
	}
	if drawN > 0 {
		d := 100 * draw / total
		probs.Draw = &d
	}
	return probs
}
