package share

import "time"

// Link is a public share reference to one match analysis.
type Link struct {
	Token     string
	MatchID   string
	URL       string
	CreatedAt time.Time
}
