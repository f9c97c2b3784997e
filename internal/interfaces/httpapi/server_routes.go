package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /v1/system/mode", handler.GetSystemMode)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sports/{sportKey}/matches", handler.ListSportMatches)
	mux.HandleFunc("GET /v1/leagues/counts", handler.GetLeagueCounts)
	mux.HandleFunc("GET /v1/matches/{matchID}/analysis", handler.GetMatchAnalysis)
	mux.HandleFunc("GET /v1/matches/{matchID}/confidence", handler.GetMatchConfidence)
	mux.HandleFunc("POST /v1/matches/{matchID}/audio", handler.GenerateMatchAudio)
	mux.HandleFunc("POST /v1/share", handler.CreateShareLink)
	mux.HandleFunc("GET /v1/share/{token}", handler.ResolveShareLink)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-matches", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshMatchesJob)))
}
