package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/matchsight/analysis-api/internal/domain/analysis"
	"github.com/matchsight/analysis-api/internal/usecase"
)

func (h *Handler) ListSportMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSportMatches")
	defer span.End()

	if h.matchListService == nil {
		writeError(ctx, w, fmt.Errorf("%w: match list service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	query := r.URL.Query()
	// ChangeSport drops a league query that belongs to a different sport, so
	// switching sports never shows the previous sport's matches.
	state := h.matchListService.ChangeSport(usecase.BrowseState{
		League:     query.Get("league"),
		TimeFilter: usecase.NormalizeTimeFilter(query.Get("time_filter")),
		ViewMode:   usecase.NormalizeViewMode(query.Get("view_mode")),
	}, r.PathValue("sportKey"))

	result, err := h.matchListService.Browse(ctx, state)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]matchItem, 0, len(result.Matches))
	for _, m := range result.Matches {
		var pick *analysis.AIPick
		if p, ok := result.Picks[m.ID]; ok {
			pick = &p
		}
		items = append(items, toMatchItem(m, pick))
	}

	writeSuccess(ctx, w, http.StatusOK, matchListResponse{
		Matches:      items,
		TimeFilter:   string(result.TimeFilter),
		ViewMode:     string(result.ViewMode),
		FallbackUsed: result.FallbackUsed,
		WidenedToAll: result.WidenedToAll,
	})
}

// GetLeagueCounts reports match counts per league. With no explicit leagues
// query it covers every league present in the snapshot store.
func (h *Handler) GetLeagueCounts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeagueCounts")
	defer span.End()

	if h.analysisService == nil {
		writeError(ctx, w, fmt.Errorf("%w: analysis service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	leagues := splitLeaguesParam(r.URL.Query().Get("leagues"))
	if len(leagues) == 0 {
		stored, err := h.matchRepo.Leagues(ctx)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("list leagues: %w", err))
			return
		}
		leagues = stored
	}

	counts := h.analysisService.LeagueCounts(ctx, leagues)
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"counts": counts})
}

func splitLeaguesParam(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
