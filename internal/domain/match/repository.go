package match

import "context"

// Repository is the per-league match snapshot store. Matches for a league are
// fetched once and every filter change recomputes from the snapshot without a
// provider round trip.
type Repository interface {
	ListByLeague(ctx context.Context, league string) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	ReplaceLeague(ctx context.Context, league string, matches []Match) error
	Leagues(ctx context.Context) ([]string, error)
}
