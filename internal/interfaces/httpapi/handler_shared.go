package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/domain/form"
	"github.com/matchsight/analysis-api/internal/domain/match"
	"github.com/matchsight/analysis-api/internal/domain/share"
	"github.com/matchsight/analysis-api/internal/platform/logging"
	"github.com/matchsight/analysis-api/internal/usecase"
)

type Handler struct {
	matchListService *usecase.MatchListService
	analysisService  *usecase.AnalysisService
	audioService     *usecase.AudioService
	shareService     *usecase.ShareService
	refreshService   *usecase.RefreshService
	matchRepo        match.Repository
	manualEntry      bool
	logger           *logging.Logger
	validator        *validator.Validate
}

func NewHandler(
	matchListService *usecase.MatchListService,
	analysisService *usecase.AnalysisService,
	audioService *usecase.AudioService,
	shareService *usecase.ShareService,
	refreshService *usecase.RefreshService,
	matchRepo match.Repository,
	manualEntry bool,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		matchListService: matchListService,
		analysisService:  analysisService,
		audioService:     audioService,
		shareService:     shareService,
		refreshService:   refreshService,
		matchRepo:        matchRepo,
		manualEntry:      manualEntry,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type generateAudioRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

type createShareLinkRequest struct {
	MatchID string `json:"match_id" validate:"required"`
}

type refreshMatchesRequest struct {
	Leagues    []string `json:"leagues" validate:"required,min=1,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"gte=0"`
}

type matchItem struct {
	ID           string        `json:"id"`
	SportKey     string        `json:"sportKey"`
	League       string        `json:"league"`
	HomeTeam     string        `json:"homeTeam"`
	AwayTeam     string        `json:"awayTeam"`
	CommenceTime string        `json:"commenceTime"`
	Hotness      float64       `json:"hotness"`
	AIPick       *aiPickDetail `json:"aiPick,omitempty"`
}

type aiPickDetail struct {
	Reason     string  `json:"reason"`
	Edge       float64 `json:"edge"`
	Conviction float64 `json:"conviction"`
}

type matchListResponse struct {
	Matches      []matchItem `json:"matches"`
	TimeFilter   string      `json:"timeFilter"`
	ViewMode     string      `json:"viewMode"`
	FallbackUsed bool        `json:"fallbackUsed"`
	WidenedToAll bool        `json:"widenedToAll"`
}

type teamFormDetail struct {
	Streak string                   `json:"streak"`
	Rating int                      `json:"rating"`
	Stats  map[form.StatKey]float64 `json:"stats,omitempty"`
}

type matchAnalysisResponse struct {
	Match       matchItem                  `json:"match"`
	Report      analysis.Report            `json:"report"`
	Confidence  usecase.Confidence         `json:"confidence"`
	Edges       []usecase.OutcomeEdge      `json:"edges,omitempty"`
	TopEdge     *usecase.OutcomeEdge       `json:"topEdge,omitempty"`
	TopEdgeTier string                     `json:"topEdgeTier,omitempty"`
	Schedule    usecase.ScheduleComparison `json:"schedule"`
	HomeForm    *teamFormDetail            `json:"homeForm,omitempty"`
	AwayForm    *teamFormDetail            `json:"awayForm,omitempty"`
}

type shareLinkResponse struct {
	Token     string `json:"token"`
	MatchID   string `json:"matchId"`
	URL       string `json:"url"`
	CreatedAt string `json:"createdAt"`
}

func toMatchItem(m match.Match, pick *analysis.AIPick) matchItem {
	item := matchItem{
		ID:           m.ID,
		SportKey:     m.SportKey,
		League:       m.League,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		CommenceTime: m.CommenceTime.UTC().Format(time.RFC3339),
		Hotness:      m.Signals.Hotness(),
	}
	if pick != nil {
		item.AIPick = &aiPickDetail{
			Reason:     pick.Reason,
			Edge:       pick.Edge,
			Conviction: pick.Conviction,
		}
	}
	return item
}

func toShareLinkResponse(link share.Link) shareLinkResponse {
	return shareLinkResponse{
		Token:     link.Token,
		MatchID:   link.MatchID,
		URL:       link.URL,
		CreatedAt: link.CreatedAt.UTC().Format(time.RFC3339),
	}
}
