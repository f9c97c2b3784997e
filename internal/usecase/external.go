package usecase

import (
	"context"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

// OddsProvider lists upcoming matches with bookmaker odds for one league.
type OddsProvider interface {
	ListMatches(ctx context.Context, league string) ([]match.Match, error)
}

// AnalyzeRequest identifies the match the insight provider should analyze.
type AnalyzeRequest struct {
	MatchID  string
	HomeTeam string
	AwayTeam string
	League   string
}

// AIPicksResult is the insight provider's pick listing for one league.
type AIPicksResult struct {
	Picks           []analysis.AIPick
	FlaggedMatchIDs []string
}

// InsightProvider is the AI analysis backend.
type InsightProvider interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (analysis.Report, error)
	AIPicks(ctx context.Context, league string) (AIPicksResult, error)
}

// SpeechClip is a synthesized audio payload.
type SpeechClip struct {
	AudioBase64 string
	ContentType string
}

// SpeechProvider converts analysis narratives to audio.
type SpeechProvider interface {
	Synthesize(ctx context.Context, text string) (SpeechClip, error)
}
