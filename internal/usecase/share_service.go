package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/domain/share"
	"github.com/matchsight/analysis-api/internal/platform/id"
)

// ShareService mints public share links for match analyses.
type ShareService struct {
	shareRepo share.Repository
	matchRepo match.Repository
	idGen     id.Generator
	baseURL   string
	now       func() time.Time
}

func NewShareService(shareRepo share.Repository, matchRepo match.Repository, idGen id.Generator, baseURL string) *ShareService {
	return &ShareService{
		shareRepo: shareRepo,
		matchRepo: matchRepo,
		idGen:     idGen,
		baseURL:   strings.TrimRight(baseURL, "/"),
		now:       time.Now,
	}
}

func (s *ShareService) Create(ctx context.Context, matchID string) (share.Link, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ShareService.Create")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return share.Link{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	if _, found, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return share.Link{}, fmt.Errorf("get match %s: %w", matchID, err)
	} else if !found {
		return share.Link{}, fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}

	token, err := s.idGen.NewID()
	if err != nil {
		return share.Link{}, fmt.Errorf("generate share token: %w", err)
	}

	link := share.Link{
		Token:     token,
		MatchID:   matchID,
		URL:       fmt.Sprintf("%s/share/%s", s.baseURL, token),
		CreatedAt: s.now().UTC(),
	}
	if err := s.shareRepo.Insert(ctx, link); err != nil {
		return share.Link{}, fmt.Errorf("insert share link: %w", err)
	}

	return link, nil
}

func (s *ShareService) Resolve(ctx context.Context, token string) (share.Link, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ShareService.Resolve")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return share.Link{}, fmt.Errorf("%w: token is required", ErrInvalidInput)
	}

	link, found, err := s.shareRepo.GetByToken(ctx, token)
	if err != nil {
		return share.Link{}, fmt.Errorf("get share link: %w", err)
	}
	if !found {
		return share.Link{}, fmt.Errorf("%w: share link %s", ErrNotFound, token)
	}
	return link, nil
}
