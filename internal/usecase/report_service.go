package usecase

import (
	"context"
	"sort"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/report"
)

const (
	DefaultFormMatches    = 5
	DefaultRecentResults  = 20
	DefaultPickConfidence = 0.6
	maxReportLimit        = 200
)

// ReportService computes read-only views from stored fixtures.
type ReportService struct {
	repo report.Repository
}

func NewReportService(repo report.Repository) *ReportService {
	return &ReportService{repo: repo}
}

// LeagueTable ranks teams by points (3 for a win, 1 for a draw), then goal
// difference, goals scored and name. seasonID 0 means every season.
func (s *ReportService) LeagueTable(ctx context.Context, leagueID, seasonID int64) (_ report.LeagueTable, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.LeagueTable")
	defer func() { endSpan(span, err) }()

	if leagueID <= 0 {
		return report.LeagueTable{}, crerr.Wrap(ErrInvalidInput, "league_id is required")
	}
	if seasonID < 0 {
		return report.LeagueTable{}, crerr.Wrap(ErrInvalidInput, "season_id must not be negative")
	}

	matches, err := s.repo.ListMatches(ctx, report.MatchFilter{LeagueID: leagueID, SeasonID: seasonID})
	if err != nil {
		return report.LeagueTable{}, crerr.Wrapf(err, "list matches league_id=%d", leagueID)
	}

	rows := map[int64]*report.TableRow{}
	row := func(teamID int64, name string) *report.TableRow {
		r, ok := rows[teamID]
		if !ok {
			r = &report.TableRow{TeamID: teamID}
			rows[teamID] = r
		}
		if r.TeamName == "" {
			r.TeamName = name
		}
		return r
	}

	for _, m := range matches {
		if !isFinished(m) {
			continue
		}
		home := row(m.HomeTeamID, m.HomeTeamName)
		away := row(m.AwayTeamID, m.AwayTeamName)
		home.HomePlayed++
		away.AwayPlayed++
		addResult(home, *m.HomeGoals, *m.AwayGoals)
		addResult(away, *m.AwayGoals, *m.HomeGoals)
		switch {
		case *m.HomeGoals > *m.AwayGoals:
			home.HomeWon++
		case *m.AwayGoals > *m.HomeGoals:
			away.AwayWon++
		}
	}

	table := report.LeagueTable{LeagueID: leagueID, SeasonID: seasonID, Rows: make([]report.TableRow, 0, len(rows))}
	for _, r := range rows {
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		table.Rows = append(table.Rows, *r)
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		a, b := table.Rows[i], table.Rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		if a.TeamName != b.TeamName {
			return a.TeamName < b.TeamName
		}
		return a.TeamID < b.TeamID
	})
	for i := range table.Rows {
		table.Rows[i].Position = i + 1
	}
	return table, nil
}

func addResult(r *report.TableRow, scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Won++
		r.Points += 3
	case scored == conceded:
		r.Drawn++
		r.Points++
	default:
		r.Lost++
	}
}

// TeamForm returns the team's last n finished matches, newest first.
func (s *ReportService) TeamForm(ctx context.Context, teamID int64, n int) (_ report.TeamForm, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.TeamForm")
	defer func() { endSpan(span, err) }()

	if teamID <= 0 {
		return report.TeamForm{}, crerr.Wrap(ErrInvalidInput, "team_id is required")
	}
	n, err = normalizeLimit(n, DefaultFormMatches)
	if err != nil {
		return report.TeamForm{}, err
	}

	matches, err := s.repo.ListMatches(ctx, report.MatchFilter{TeamID: teamID})
	if err != nil {
		return report.TeamForm{}, crerr.Wrapf(err, "list matches team_id=%d", teamID)
	}
	if len(matches) == 0 {
		return report.TeamForm{}, crerr.Wrapf(ErrNotFound, "no fixtures for team_id=%d", teamID)
	}

	form := report.TeamForm{TeamID: teamID, Matches: []report.FormMatch{}}
	var code strings.Builder
	for _, m := range newestFinished(matches, n) {
		fm := report.FormMatch{FixtureID: m.FixtureID, StartingAt: m.StartingAt}
		if m.HomeTeamID == teamID {
			fm.Home = true
			fm.OpponentID, fm.OpponentName = m.AwayTeamID, m.AwayTeamName
			fm.GoalsFor, fm.GoalsAgainst = *m.HomeGoals, *m.AwayGoals
		} else {
			fm.OpponentID, fm.OpponentName = m.HomeTeamID, m.HomeTeamName
			fm.GoalsFor, fm.GoalsAgainst = *m.AwayGoals, *m.HomeGoals
		}
		switch {
		case fm.GoalsFor > fm.GoalsAgainst:
			fm.Outcome = report.OutcomeWin
			form.Points += 3
		case fm.GoalsFor == fm.GoalsAgainst:
			fm.Outcome = report.OutcomeDraw
			form.Points++
		default:
			fm.Outcome = report.OutcomeLoss
		}
		code.WriteString(fm.Outcome)
		form.Matches = append(form.Matches, fm)
	}
	form.Form = code.String()
	return form, nil
}

// RecentResults returns the league's last n finished matches, newest first.
func (s *ReportService) RecentResults(ctx context.Context, leagueID int64, n int) (_ []report.Result, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.RecentResults")
	defer func() { endSpan(span, err) }()

	if leagueID <= 0 {
		return nil, crerr.Wrap(ErrInvalidInput, "league_id is required")
	}
	n, err = normalizeLimit(n, DefaultRecentResults)
	if err != nil {
		return nil, err
	}

	matches, err := s.repo.ListMatches(ctx, report.MatchFilter{LeagueID: leagueID})
	if err != nil {
		return nil, crerr.Wrapf(err, "list matches league_id=%d", leagueID)
	}

	out := make([]report.Result, 0, n)
	for _, m := range newestFinished(matches, n) {
		out = append(out, report.Result{
			FixtureID:    m.FixtureID,
			StartingAt:   m.StartingAt,
			HomeTeamID:   m.HomeTeamID,
			HomeTeamName: m.HomeTeamName,
			AwayTeamID:   m.AwayTeamID,
			AwayTeamName: m.AwayTeamName,
			HomeGoals:    *m.HomeGoals,
			AwayGoals:    *m.AwayGoals,
		})
	}
	return out, nil
}

// GoalStats aggregates goals over the league's finished matches. Percentages
// are in the range 0..100.
func (s *ReportService) GoalStats(ctx context.Context, leagueID int64) (_ report.GoalStats, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.GoalStats")
	defer func() { endSpan(span, err) }()

	if leagueID <= 0 {
		return report.GoalStats{}, crerr.Wrap(ErrInvalidInput, "league_id is required")
	}

	matches, err := s.repo.ListMatches(ctx, report.MatchFilter{LeagueID: leagueID})
	if err != nil {
		return report.GoalStats{}, crerr.Wrapf(err, "list matches league_id=%d", leagueID)
	}

	stats := report.GoalStats{LeagueID: leagueID}
	var home, away, over, under, btts int
	for _, m := range matches {
		if !isFinished(m) {
			continue
		}
		h, a := *m.HomeGoals, *m.AwayGoals
		stats.Matches++
		home += h
		away += a
		if h+a > 2 {
			over++
		} else {
			under++
		}
		if h > 0 && a > 0 {
			btts++
		}
	}
	if stats.Matches == 0 {
		return stats, nil
	}

	n := float64(stats.Matches)
	stats.AvgHomeGoals = float64(home) / n
	stats.AvgAwayGoals = float64(away) / n
	stats.AvgTotalGoals = float64(home+away) / n
	stats.Over25Percent = float64(over) * 100 / n
	stats.Under25Percent = float64(under) * 100 / n
	stats.BothTeamsScorePc = float64(btts) * 100 / n
	return stats, nil
}

// RecommendedPicks returns, for every fixture without a final result, the
// most likely outcome when its probability reaches minConfidence.
// leagueID 0 means every league.
func (s *ReportService) RecommendedPicks(ctx context.Context, leagueID int64, minConfidence float64) (_ []report.Pick, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.RecommendedPicks")
	defer func() { endSpan(span, err) }()

	if minConfidence == 0 {
		minConfidence = DefaultPickConfidence
	}
	if minConfidence < 0 || minConfidence > 1 {
		return nil, crerr.Wrapf(ErrInvalidInput, "min confidence must be within 0..1, got %v", minConfidence)
	}
	if leagueID < 0 {
		return nil, crerr.Wrap(ErrInvalidInput, "league_id must not be negative")
	}

	matches, err := s.repo.ListMatches(ctx, report.MatchFilter{LeagueID: leagueID})
	if err != nil {
		return nil, crerr.Wrap(err, "list matches")
	}

	picks := []report.Pick{}
	for _, m := range matches {
		if isFinished(m) || fixture.IsVoidState(m.StateCode) {
			continue
		}
		outcome, prob, ok := bestOutcome(m)
		if !ok || prob < minConfidence {
			continue
		}
		picks = append(picks, report.Pick{
			FixtureID:    m.FixtureID,
			StartingAt:   m.StartingAt,
			HomeTeamName: m.HomeTeamName,
			AwayTeamName: m.AwayTeamName,
			Outcome:      outcome,
			Probability:  prob,
		})
	}
	return picks, nil
}

// bestOutcome returns the argmax of the prediction. Ties prefer home, then
// draw.
func bestOutcome(m report.MatchRow) (string, float64, bool) {
	candidates := []struct {
		outcome string
		prob    *float64
	}{
		{report.PickHome, m.ProbHome},
		{report.PickDraw, m.ProbDraw},
		{report.PickAway, m.ProbAway},
	}

	best, bestProb, found := "", 0.0, false
	for _, c := range candidates {
		if c.prob == nil {
			continue
		}
		if !found || *c.prob > bestProb {
			best, bestProb, found = c.outcome, *c.prob, true
		}
	}
	return best, bestProb, found
}

// isFinished reports whether both sides have a score and the state marks a
// completed match. Scored fixtures with an unknown state count as finished;
// pending and void states never do.
func isFinished(m report.MatchRow) bool {
	if m.HomeGoals == nil || m.AwayGoals == nil {
		return false
	}
	switch {
	case fixture.IsFinishedState(m.StateCode):
		return true
	case fixture.IsPendingState(m.StateCode), fixture.IsVoidState(m.StateCode):
		return false
	default:
		return true
	}
}

// newestFinished returns up to n finished matches, newest first. matches
// must be ordered oldest first.
func newestFinished(matches []report.MatchRow, n int) []report.MatchRow {
	out := make([]report.MatchRow, 0, n)
	for i := len(matches) - 1; i >= 0 && len(out) < n; i-- {
		if isFinished(matches[i]) {
			out = append(out, matches[i])
		}
	}
	return out
}

func normalizeLimit(n, fallback int) (int, error) {
	switch {
	case n == 0:
		return fallback, nil
	case n < 0 || n > maxReportLimit:
		return 0, crerr.Wrapf(ErrInvalidInput, "limit must be within 1..%d, got %d", maxReportLimit, n)
	default:
		return n, nil
	}
}
