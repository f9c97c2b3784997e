package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/matchsight/analysis-api/internal/usecase"
)

func (h *Handler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateShareLink")
	defer span.End()

	if h.shareService == nil {
		writeError(ctx, w, fmt.Errorf("%w: share service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req createShareLinkRequest
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	link, err := h.shareService.Create(ctx, req.MatchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, toShareLinkResponse(link))
}

func (h *Handler) ResolveShareLink(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveShareLink")
	defer span.End()

	if h.shareService == nil {
		writeError(ctx, w, fmt.Errorf("%w: share service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	link, err := h.shareService.Resolve(ctx, r.PathValue("token"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toShareLinkResponse(link))
}
