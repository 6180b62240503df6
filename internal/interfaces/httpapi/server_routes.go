package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerReportRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues/{leagueID}/table", handler.GetLeagueTable)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/results", handler.ListRecentResults)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/goal-stats", handler.GetGoalStats)
	mux.HandleFunc("GET /v1/teams/{teamID}/form", handler.GetTeamForm)
	mux.HandleFunc("GET /v1/predictions/picks", handler.ListRecommendedPicks)
}
