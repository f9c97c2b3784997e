package analysis

import (
	"strings"
	"time"
)

// RiskLevel classifies the overall uncertainty of a report.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskUnknown RiskLevel = ""
)

// ValueFlag grades the divergence between AI and market probability for one
// outcome.
type ValueFlag string

const (
	ValueNone   ValueFlag = "NONE"
	ValueLow    ValueFlag = "LOW"
	ValueMedium ValueFlag = "MEDIUM"
	ValueHigh   ValueFlag = "HIGH"
)

// Trend describes recent momentum.
type Trend string

const (
	TrendRising  Trend = "RISING"
	TrendFalling Trend = "FALLING"
	TrendStable  Trend = "STABLE"
	TrendUnknown Trend = "UNKNOWN"
)

// Probabilities are percentage estimates for the 1X2 set plus optional
// totals. Draw is nil for sports without draws; when it is non-nil the 1X2
// values are expected to sum to roughly 100.
type Probabilities struct {
	HomeWin float64  `json:"homeWin"`
	Draw    *float64 `json:"draw"`
	AwayWin float64  `json:"awayWin"`
	Over    *float64 `json:"over,omitempty"`
	Under   *float64 `json:"under,omitempty"`
}

// Known FormSource values. Anything else counts as "source unknown".
const (
	FormSourceLive      = "live"
	FormSourceEstimated = "estimated"
)

// Meta carries the data-provenance signals the confidence scorer reads.
// Every field is optional; a missing signal skips its scoring delta.
type Meta struct {
	DataQuality     *bool  `json:"dataQuality"`
	FormSource      string `json:"formSource"`
	H2HSampleSize   *int   `json:"h2hSampleSize"`
	MarketStability *bool  `json:"marketStability"`
}

// Momentum summarizes each side's recent direction.
type Momentum struct {
	Home Trend `json:"home"`
	Away Trend `json:"away"`
}

// ValueAssessment is the insight provider's own value verdict per outcome.
type ValueAssessment struct {
	Flag    ValueFlag `json:"flag"`
	Outcome string    `json:"outcome"`
	Edge    float64   `json:"edge"`
}

// Report is the full per-match analysis aggregate returned by the insight
// provider. It is a value object: components derive from it and never write
// back.
type Report struct {
	MatchID       string          `json:"matchId"`
	Probabilities *Probabilities  `json:"probabilities"`
	Risk          RiskLevel       `json:"risk"`
	Value         ValueAssessment `json:"value"`
	Momentum      *Momentum       `json:"momentum"`
	Tactical      string          `json:"tactical"`
	Meta          Meta            `json:"meta"`
	Warnings      []string        `json:"warnings,omitempty"`
	GeneratedAt   time.Time       `json:"generatedAt"`
}

// AIPick is a match flagged as noteworthy by the upstream analysis cron,
// with its value edge and conviction score.
type AIPick struct {
	MatchID    string
	League     string
	Reason     string
	Edge       float64
	Conviction float64
}

// RankScore orders picks: edge dominates, conviction breaks near-ties.
func (p AIPick) RankScore() float64 {
	return p.Edge + p.Conviction/10
}

func NormalizeRisk(value string) RiskLevel {
	switch RiskLevel(strings.ToUpper(strings.TrimSpace(value))) {
	case RiskLow:
		return RiskLow
	case RiskMedium:
		return RiskMedium
	case RiskHigh:
		return RiskHigh
	default:
		return RiskUnknown
	}
}
