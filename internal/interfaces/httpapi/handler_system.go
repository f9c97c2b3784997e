package httpapi

import "net/http"

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetSystemMode tells clients whether the service runs from live provider
// data or from manually entered snapshots (no odds API key configured).
func (h *Handler) GetSystemMode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSystemMode")
	defer span.End()

	mode := "live"
	if h.manualEntry {
		mode = "manual-entry"
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"mode":        mode,
		"manualEntry": h.manualEntry,
	})
}
