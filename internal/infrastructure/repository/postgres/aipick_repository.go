package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/match"
)

// AIPickRepository persists the published pick set and the flagged match IDs
// per league. A replace swaps both inside one transaction so readers never
// see a pick set without its flag list.
type AIPickRepository struct {
	db *sqlx.DB
}

func NewAIPickRepository(db *sqlx.DB) *AIPickRepository {
	return &AIPickRepository{db: db}
}

func (r *AIPickRepository) ListByLeague(ctx context.Context, league string) ([]analysis.AIPick, error) {
	const query = `SELECT * FROM ai_picks WHERE league = $1 ORDER BY edge DESC, match_id`

	var rows []aiPickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, match.NormalizeSportKey(league)); err != nil {
		return nil, fmt.Errorf("select ai picks: %w", err)
	}

	out := make([]analysis.AIPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, analysis.AIPick{
			MatchID:    row.MatchID,
			League:     row.League,
			Reason:     row.Reason,
			Edge:       row.Edge,
			Conviction: row.Conviction,
		})
	}
	return out, nil
}

func (r *AIPickRepository) FlaggedIDsByLeague(ctx context.Context, league string) ([]string, error) {
	const query = `SELECT match_id FROM ai_flagged_matches WHERE league = $1 ORDER BY match_id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, match.NormalizeSportKey(league)); err != nil {
		return nil, fmt.Errorf("select flagged match ids: %w", err)
	}
	return ids, nil
}

func (r *AIPickRepository) ReplaceLeague(ctx context.Context, league string, picks []analysis.AIPick, flaggedIDs []string) error {
	league = match.NormalizeSportKey(league)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace ai picks: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ai_picks WHERE league = $1`, league); err != nil {
		return fmt.Errorf("delete ai picks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ai_flagged_matches WHERE league = $1`, league); err != nil {
		return fmt.Errorf("delete flagged match ids: %w", err)
	}

	const insertPick = `INSERT INTO ai_picks (league, match_id, reason, edge, conviction)
		VALUES (:league, :match_id, :reason, :edge, :conviction)`
	for _, pick := range picks {
		pickLeague := match.NormalizeSportKey(pick.League)
		if pickLeague == "" {
			pickLeague = league
		}
		row := aiPickTableModel{
			League:     pickLeague,
			MatchID:    pick.MatchID,
			Reason:     pick.Reason,
			Edge:       pick.Edge,
			Conviction: pick.Conviction,
		}
		if _, err := tx.NamedExecContext(ctx, insertPick, row); err != nil {
			return fmt.Errorf("insert ai pick match=%s: %w", pick.MatchID, err)
		}
	}

	const insertFlagged = `INSERT INTO ai_flagged_matches (league, match_id) VALUES ($1, $2)`
	for _, matchID := range flaggedIDs {
		if _, err := tx.ExecContext(ctx, insertFlagged, league, matchID); err != nil {
			return fmt.Errorf("insert flagged match id=%s: %w", matchID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace ai picks: %w", err)
	}
	return nil
}
