package analysis

import "context"

// PickRepository stores the AI picks published by the upstream cron.
type PickRepository interface {
	ListByLeague(ctx context.Context, league string) ([]AIPick, error)
	FlaggedIDsByLeague(ctx context.Context, league string) ([]string, error)
	ReplaceLeague(ctx context.Context, league string, picks []AIPick, flaggedIDs []string) error
}
