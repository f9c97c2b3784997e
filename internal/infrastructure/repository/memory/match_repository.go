package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchsight/analysis-api/internal/domain/match"
)

// MatchRepository keeps per-league match snapshots in memory. A refresh swaps
// the whole league slice; readers always see a complete snapshot.
type MatchRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]match.Match
	byID     map[string]match.Match
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		byLeague: make(map[string][]match.Match),
		byID:     make(map[string]match.Match),
	}
}

func (r *MatchRepository) ListByLeague(_ context.Context, league string) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byLeague[match.NormalizeSportKey(league)]
	out := make([]match.Match, len(stored))
	copy(out, stored)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	return m, ok, nil
}

func (r *MatchRepository) ReplaceLeague(_ context.Context, league string, matches []match.Match) error {
	league = match.NormalizeSportKey(league)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, old := range r.byLeague[league] {
		delete(r.byID, old.ID)
	}

	stored := make([]match.Match, len(matches))
	copy(stored, matches)
	r.byLeague[league] = stored
	for _, m := range stored {
		r.byID[m.ID] = m
	}
	return nil
}

func (r *MatchRepository) Leagues(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byLeague))
	for league := range r.byLeague {
		out = append(out, league)
	}
	sort.Strings(out)
	return out, nil
}
