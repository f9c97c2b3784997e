package memory

import (
	"context"
	"sync"

	"github.com/matchsight/analysis-api/internal/domain/share"
)

type ShareRepository struct {
	mu    sync.RWMutex
	items map[string]share.Link
}

func NewShareRepository() *ShareRepository {
	return &ShareRepository{items: make(map[string]share.Link)}
}

func (r *ShareRepository) Insert(_ context.Context, link share.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[link.Token] = link
	return nil
}

func (r *ShareRepository) GetByToken(_ context.Context, token string) (share.Link, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.items[token]
	return link, ok, nil
}
