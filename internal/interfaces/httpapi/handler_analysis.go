package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/matchsight/analysis-api/internal/usecase"
)

func (h *Handler) GetMatchAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchAnalysis")
	defer span.End()

	if h.analysisService == nil {
		writeError(ctx, w, fmt.Errorf("%w: analysis service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.analysisService.MatchAnalysis(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	response := matchAnalysisResponse{
		Match:       toMatchItem(result.Match, nil),
		Report:      result.Report,
		Confidence:  result.Confidence,
		Edges:       result.Edges,
		TopEdge:     result.TopEdge,
		TopEdgeTier: result.TopEdgeTier,
		Schedule:    result.Schedule,
		HomeForm:    h.teamForm(r, result.Match.HomeTeam),
		AwayForm:    h.teamForm(r, result.Match.AwayTeam),
	}

	writeSuccess(ctx, w, http.StatusOK, response)
}

// teamForm is best-effort: a failed form lookup drops the widget rather than
// failing the whole analysis view.
func (h *Handler) teamForm(r *http.Request, team string) *teamFormDetail {
	ctx := r.Context()

	view, err := h.analysisService.TeamForm(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "team form lookup failed", "team", team, "error", err)
		return nil
	}
	if view.Streak == "" && view.Rating == 0 && len(view.Stats) == 0 {
		return nil
	}
	return &teamFormDetail{Streak: view.Streak, Rating: view.Rating, Stats: view.Stats}
}

func (h *Handler) GetMatchConfidence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchConfidence")
	defer span.End()

	if h.analysisService == nil {
		writeError(ctx, w, fmt.Errorf("%w: analysis service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.analysisService.MatchAnalysis(ctx, r.PathValue("matchID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result.Confidence)
}

func (h *Handler) GenerateMatchAudio(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GenerateMatchAudio")
	defer span.End()

	if h.audioService == nil {
		writeError(ctx, w, fmt.Errorf("%w: audio service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req generateAudioRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	clip, err := h.audioService.Generate(ctx, req.Text)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"matchId":     r.PathValue("matchID"),
		"audioBase64": clip.AudioBase64,
		"contentType": clip.ContentType,
	})
}
