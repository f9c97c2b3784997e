package usecase

import (
	"fmt"
	"math"

	"github.com/matchsight/analysis-api/internal/domain/form"
)

// formRatingWindow caps how many recent results feed the rating.
const formRatingWindow = 5

// FormService turns a W/D/L sequence (most recent first) into a streak label
// and a 0-100 rating.
type FormService struct{}

func NewFormService() *FormService {
	return &FormService{}
}

// Streak is the leading run of identical results, e.g. "W3" for a team whose
// three most recent games were all wins. Unknown results end the run.
func (s *FormService) Streak(results []string) string {
	if len(results) == 0 {
		return ""
	}

	first := form.NormalizeResult(results[0])
	if first == "" {
		return ""
	}

	run := 1
	for _, raw := range results[1:] {
		if form.NormalizeResult(raw) != first {
			break
		}
		run++
	}

	return fmt.Sprintf("%s%d", first, run)
}

// FormRating scores recent results as a share of the maximum points
// available: 100×(3×wins + draws)/(3×n) over at most the five most recent
// games. Results that don't normalize to W/D/L are ignored.
func (s *FormService) FormRating(results []string) int {
	points := 0
	counted := 0

	for _, raw := range results {
		if counted == formRatingWindow {
			break
		}
		switch form.NormalizeResult(raw) {
		case form.ResultWin:
			points += 3
		case form.ResultDraw:
			points++
		case form.ResultLoss:
		default:
			continue
		}
		counted++
	}

	if counted == 0 {
		return 0
	}

	return int(math.Round(100 * float64(points) / float64(3*counted)))
}
