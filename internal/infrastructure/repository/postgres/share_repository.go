package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchsight/analysis-api/internal/domain/share"
)

type ShareRepository struct {
	db *sqlx.DB
}

func NewShareRepository(db *sqlx.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

func (r *ShareRepository) Insert(ctx context.Context, link share.Link) error {
	const query = `INSERT INTO share_links (token, match_id, url, created_at)
		VALUES (:token, :match_id, :url, :created_at)`

	row := shareLinkTableModel{
		Token:     link.Token,
		MatchID:   link.MatchID,
		URL:       link.URL,
		CreatedAt: link.CreatedAt,
	}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("insert share link: %w", err)
	}
	return nil
}

func (r *ShareRepository) GetByToken(ctx context.Context, token string) (share.Link, bool, error) {
	const query = `SELECT * FROM share_links WHERE token = $1`

	var row shareLinkTableModel
	if err := r.db.GetContext(ctx, &row, query, token); err != nil {
		if isNotFound(err) {
			return share.Link{}, false, nil
		}
		return share.Link{}, false, fmt.Errorf("get share link by token: %w", err)
	}

	return share.Link{
		Token:     row.Token,
		MatchID:   row.MatchID,
		URL:       row.URL,
		CreatedAt: row.CreatedAt,
	}, true, nil
}
