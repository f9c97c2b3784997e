package memory

import (
	"context"
	"sync"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

// AIPickRepository stores the published pick set per league, together with
// the flagged match IDs the browse fallback rules key on.
type AIPickRepository struct {
	mu      sync.RWMutex
	picks   map[string][]analysis.AIPick
	flagged map[string][]string
}

func NewAIPickRepository() *AIPickRepository {
	return &AIPickRepository{
		picks:   make(map[string][]analysis.AIPick),
		flagged: make(map[string][]string),
	}
}

func (r *AIPickRepository) ListByLeague(_ context.Context, league string) ([]analysis.AIPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.picks[match.NormalizeSportKey(league)]
	out := make([]analysis.AIPick, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *AIPickRepository) FlaggedIDsByLeague(_ context.Context, league string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.flagged[match.NormalizeSportKey(league)]
	out := make([]string, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *AIPickRepository) ReplaceLeague(_ context.Context, league string, picks []analysis.AIPick, flaggedIDs []string) error {
	league = match.NormalizeSportKey(league)

	storedPicks := make([]analysis.AIPick, len(picks))
	copy(storedPicks, picks)
	storedFlagged := make([]string, len(flaggedIDs))
	copy(storedFlagged, flaggedIDs)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.picks[league] = storedPicks
	r.flagged[league] = storedFlagged
	return nil
}
