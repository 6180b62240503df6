package httpapi

import (
	"context"
	"net/http"
	"net/url"
)

type tableQuery struct {
	Season int64 `query:"season" validate:"min=0"`
}

func (q *tableQuery) decode(values url.Values) (err error) {
	q.Season, err = queryInt64(values, "season")
	return err
}

type limitQuery struct {
	Limit int `query:"limit" validate:"min=0,max=200"`
}

func (q *limitQuery) decode(values url.Values) (err error) {
	q.Limit, err = queryInt(values, "limit")
	return err
}

type picksQuery struct {
	League        int64   `query:"league" validate:"min=0"`
	MinConfidence float64 `query:"min_confidence" validate:"min=0,max=1"`
}

func (q *picksQuery) decode(values url.Values) error {
	league, err := queryInt64(values, "league")
	if err != nil {
		return err
	}
	minConfidence, err := queryFloat(values, "min_confidence")
	if err != nil {
		return err
	}
	q.League, q.MinConfidence = league, minConfidence
	return nil
}

func (h *Handler) GetLeagueTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetLeagueTable")
	defer span.End()

	leagueID, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var q tableQuery
	if err := h.decodeQuery(ctx, r.URL.Query(), &q); err != nil {
		writeError(ctx, w, err)
		return
	}

	table, err := h.reports.LeagueTable(ctx, leagueID, q.Season)
	if err != nil {
		h.writeServiceError(ctx, w, "league table failed", err, "league_id", leagueID, "season_id", q.Season)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, table)
}

func (h *Handler) ListRecentResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListRecentResults")
	defer span.End()

	leagueID, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var q limitQuery
	if err := h.decodeQuery(ctx, r.URL.Query(), &q); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.reports.RecentResults(ctx, leagueID, q.Limit)
	if err != nil {
		h.writeServiceError(ctx, w, "recent results failed", err, "league_id", leagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, listResponse(results))
}

func (h *Handler) GetGoalStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetGoalStats")
	defer span.End()

	leagueID, err := pathID(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	stats, err := h.reports.GoalStats(ctx, leagueID)
	if err != nil {
		h.writeServiceError(ctx, w, "goal stats failed", err, "league_id", leagueID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, stats)
}

func (h *Handler) GetTeamForm(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetTeamForm")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	var q limitQuery
	if err := h.decodeQuery(ctx, r.URL.Query(), &q); err != nil {
		writeError(ctx, w, err)
		return
	}

	form, err := h.reports.TeamForm(ctx, teamID, q.Limit)
	if err != nil {
		h.writeServiceError(ctx, w, "team form failed", err, "team_id", teamID)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, form)
}

func (h *Handler) ListRecommendedPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "ListRecommendedPicks")
	defer span.End()

	var q picksQuery
	if err := h.decodeQuery(ctx, r.URL.Query(), &q); err != nil {
		writeError(ctx, w, err)
		return
	}

	picks, err := h.reports.RecommendedPicks(ctx, q.League, q.MinConfidence)
	if err != nil {
		h.writeServiceError(ctx, w, "recommended picks failed", err, "league_id", q.League)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, listResponse(picks))
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listResponse[T any](items []T) itemsResponse[T] {
	if items == nil {
		items = []T{}
	}
	return itemsResponse[T]{Items: items, Count: len(items)}
}

// writeServiceError writes err and logs it when it maps to a 5xx status.
func (h *Handler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error, args ...any) {
	if classify(err).httpStatus >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, append(args, "error", err)...)
	}
	writeError(ctx, w, err)
}
