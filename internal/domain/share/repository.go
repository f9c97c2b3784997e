package share

import "context"

// Repository persists share links.
type Repository interface {
	Insert(ctx context.Context, link Link) error
	GetByToken(ctx context.Context, token string) (Link, bool, error)
}
