package usecase

import (
	"github.com/matchsight/analysis-api/internal/domain/analysis"
)

const (
	confidenceBaseline = 50
	confidenceFloor    = 20
	confidenceCeiling  = 95

	// Callers hide the confidence widget entirely below this score instead
	// of showing a weak number. Product decision, keep it.
	confidenceDisplayThreshold = 65
)

// Confidence is the derived data-confidence view for one analysis report.
type Confidence struct {
	Score   int      `json:"score"`
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
	Display bool     `json:"display"`
}

// ConfidenceService grades how much the analysis can be trusted, based on
// the provenance signals attached to the report. It is stateless and pure.
type ConfidenceService struct{}

func NewConfidenceService() *ConfidenceService {
	return &ConfidenceService{}
}

// Score starts from a neutral baseline and applies a fixed delta per signal
// that is actually present. A missing signal contributes nothing, positive
// or negative.
func (s *ConfidenceService) Score(report analysis.Report) Confidence {
	score := confidenceBaseline
	factors := make([]string, 0, 6)

	if report.Meta.DataQuality != nil {
		if *report.Meta.DataQuality {
			score += 15
			factors = append(factors, "Verified data sources")
		} else {
			score -= 15
			factors = append(factors, "Unverified data sources")
		}
	}

	switch report.Meta.FormSource {
	case analysis.FormSourceLive:
		score += 10
		factors = append(factors, "Form from live provider data")
	case analysis.FormSourceEstimated:
		score -= 10
		factors = append(factors, "Form estimated by model")
	}

	if spread, ok := probabilitySpread(report.Probabilities); ok {
		if spread >= 20 {
			score += 10
			factors = append(factors, "Clear favorite")
		} else if spread < 8 {
			score -= 5
			factors = append(factors, "Tight match")
		}
	}

	if report.Meta.H2HSampleSize != nil && *report.Meta.H2HSampleSize >= 3 {
		score += 5
		factors = append(factors, "Head-to-head history available")
	}

	if report.Meta.MarketStability != nil {
		if *report.Meta.MarketStability {
			score += 10
			factors = append(factors, "Stable market")
		} else {
			score -= 10
			factors = append(factors, "Volatile market")
		}
	}

	switch report.Risk {
	case analysis.RiskLow:
		score += 5
		factors = append(factors, "Low overall risk")
	case analysis.RiskHigh:
		score -= 5
		factors = append(factors, "High overall risk")
	}

	if score < confidenceFloor {
		score = confidenceFloor
	}
	if score > confidenceCeiling {
		score = confidenceCeiling
	}

	return Confidence{
		Score:   score,
		Level:   confidenceLevel(score),
		Factors: factors,
		Display: score >= confidenceDisplayThreshold,
	}
}

func confidenceLevel(score int) string {
	switch {
	case score >= 80:
		return "Strong Data"
	case score >= 65:
		return "Good Data"
	case score >= 50:
		return "Moderate Data"
	case score >= 35:
		return "Limited Data"
	default:
		return "Incomplete"
	}
}

// probabilitySpread is the gap between the top two 1X2 estimates. It is the
// "how clear is the favorite" signal.
func probabilitySpread(probs *analysis.Probabilities) (float64, bool) {
	if probs == nil {
		return 0, false
	}

	values := []float64{probs.HomeWin, probs.AwayWin}
	if probs.Draw != nil {
		values = append(values, *probs.Draw)
	}

	top, second := 0.0, 0.0
	for _, v := range values {
		if v > top {
			second = top
			top = v
		} else if v > second {
			second = v
		}
	}

	return top - second, true
}
