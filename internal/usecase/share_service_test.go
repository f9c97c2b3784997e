package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/domain/share"
)

type fakeShareRepo struct {
	byToken map[string]share.Link
}

func (r *fakeShareRepo) Insert(_ context.Context, link share.Link) error {
	if r.byToken == nil {
		r.byToken = make(map[string]share.Link)
	}
	r.byToken[link.Token] = link
	return nil
}

func (r *fakeShareRepo) GetByToken(_ context.Context, token string) (share.Link, bool, error) {
	link, ok := r.byToken[token]
	return link, ok, nil
}

type fixedIDGen struct{ value string }

func (g fixedIDGen) NewID() (string, error) { return g.value, nil }

func TestShareService_CreateAndResolve(t *testing.T) {
	matchRepo := &fakeMatchRepo{byLeague: map[string][]match.Match{
		"soccer_epl": {{ID: "m1", League: "soccer_epl", CommenceTime: time.Now()}},
	}}
	shareRepo := &fakeShareRepo{}

	svc := NewShareService(shareRepo, matchRepo, fixedIDGen{value: "abc123"}, "https://matchsight.example/")

	link, err := svc.Create(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if link.URL != "https://matchsight.example/share/abc123" {
		t.Fatalf("unexpected url %q", link.URL)
	}

	resolved, err := svc.Resolve(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if resolved.MatchID != "m1" {
		t.Fatalf("unexpected match id %q", resolved.MatchID)
	}
}

func TestShareService_CreateUnknownMatch(t *testing.T) {
	svc := NewShareService(&fakeShareRepo{}, &fakeMatchRepo{}, fixedIDGen{value: "t"}, "https://matchsight.example")

	if _, err := svc.Create(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShareService_ResolveUnknownToken(t *testing.T) {
	svc := NewShareService(&fakeShareRepo{}, &fakeMatchRepo{}, fixedIDGen{value: "t"}, "https://matchsight.example")

	if _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
