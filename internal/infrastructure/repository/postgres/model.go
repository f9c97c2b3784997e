package postgres

import "time"

type aiPickTableModel struct {
	ID         int64     `db:"id"`
	League     string    `db:"league"`
	MatchID    string    `db:"match_id"`
	Reason     string    `db:"reason"`
	Edge       float64   `db:"edge"`
	Conviction float64   `db:"conviction"`
	CreatedAt  time.Time `db:"created_at"`
}

type shareLinkTableModel struct {
	ID        int64     `db:"id"`
	Token     string    `db:"token"`
	MatchID   string    `db:"match_id"`
	URL       string    `db:"url"`
	CreatedAt time.Time `db:"created_at"`
}
