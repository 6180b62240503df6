package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/report"
	qb "github.com/riskibarqy/football-etl/internal/platform/querybuilder"
)

const scoreLookupChunk = 500

const matchFrom = `fixtures f
JOIN fixture_participants hp ON hp.fixture_id = f.id AND hp.location = 'home'
JOIN fixture_participants ap ON ap.fixture_id = f.id AND ap.location = 'away'
LEFT JOIN teams ht ON ht.id = hp.team_id
LEFT JOIN teams awt ON awt.id = ap.team_id
LEFT JOIN states st ON st.id = f.state_id
LEFT JOIN predictions pr ON pr.fixture_id = f.id`

var matchColumns = []string{
	"f.id AS fixture_id",
	"f.league_id AS league_id",
	"f.season_id AS season_id",
	"f.starting_at AS starting_at",
	"COALESCE(st.developer_name, st.short_name, st.state) AS state_code",
	"hp.team_id AS home_team_id",
	"ht.name AS home_team_name",
	"ap.team_id AS away_team_id",
	"awt.name AS away_team_name",
	"pr.prob_home AS prob_home",
	"pr.prob_draw AS prob_draw",
	"pr.prob_away AS prob_away",
}

// ReportRepository reads fixtures joined with their sides and the most final
// score of each side.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(store *Store) *ReportRepository {
	return &ReportRepository{db: store.db}
}

func (r *ReportRepository) ListMatches(ctx context.Context, filter report.MatchFilter) ([]report.MatchRow, error) {
	var conds []qb.Condition
	if filter.LeagueID > 0 {
		conds = append(conds, qb.Eq("f.league_id", filter.LeagueID))
	}
	if filter.SeasonID > 0 {
		conds = append(conds, qb.Eq("f.season_id", filter.SeasonID))
	}
	if filter.TeamID > 0 {
		conds = append(conds, qb.Expr("(hp.team_id = ? OR ap.team_id = ?)", filter.TeamID, filter.TeamID))
	}
	if filter.From != nil {
		conds = append(conds, qb.Expr("f.starting_at >= ?", filter.From.UTC().Format(startingAtLayout)))
	}
	if filter.To != nil {
		conds = append(conds, qb.Expr("f.starting_at <= ?", filter.To.UTC().Format(startingAtLayout)))
	}

	query, args, err := qb.Select(matchColumns...).From(matchFrom).
		Where(conds...).
		OrderBy("f.starting_at", "f.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches query: %w", err)
	}

	var rows []matchRowModel
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, entity.WrapStorage(err, "list matches", entity.Fixtures)
	}

	out := make([]report.MatchRow, 0, len(rows))
	ids := make([]any, 0, len(rows))
	for _, row := range rows {
		out = append(out, report.MatchRow{
			FixtureID:    row.FixtureID,
			LeagueID:     row.LeagueID.Int64,
			SeasonID:     row.SeasonID.Int64,
			StartingAt:   parseStartingAt(row.StartingAt),
			StateCode:    strings.TrimSpace(row.StateCode.String),
			HomeTeamID:   row.HomeTeamID,
			HomeTeamName: strings.TrimSpace(row.HomeTeamName.String),
			AwayTeamID:   row.AwayTeamID,
			AwayTeamName: strings.TrimSpace(row.AwayTeamName.String),
			ProbHome:     nullFloatPtr(row.ProbHome),
			ProbDraw:     nullFloatPtr(row.ProbDraw),
			ProbAway:     nullFloatPtr(row.ProbAway),
		})
		ids = append(ids, row.FixtureID)
	}

	scores, err := r.listScores(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		applyFinalScores(&out[i], scores[out[i].FixtureID])
	}
	return out, nil
}

func (r *ReportRepository) listScores(ctx context.Context, ids []any) (map[int64][]scoreRowModel, error) {
	out := make(map[int64][]scoreRowModel, len(ids))
	for start := 0; start < len(ids); start += scoreLookupChunk {
		end := min(start+scoreLookupChunk, len(ids))
		query, args, err := qb.Select("id", "fixture_id", "participant_id", "participant", "goals", "description").
			From(entity.Scores).
			Where(qb.In("fixture_id", ids[start:end])).
			OrderBy("fixture_id", "id").
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build list scores query: %w", err)
		}

		var rows []scoreRowModel
		if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
			return nil, entity.WrapStorage(err, "list scores", entity.Scores)
		}
		for _, row := range rows {
			out[row.FixtureID] = append(out[row.FixtureID], row)
		}
	}
	return out, nil
}

// applyFinalScores picks, per side, the score row with the highest
// description weight. A side is matched by the participant label first and
// by team id otherwise.
func applyFinalScores(match *report.MatchRow, scores []scoreRowModel) {
	homeWeight, awayWeight := 0, 0
	for _, s := range scores {
		if !s.Goals.Valid {
			continue
		}
		weight := fixture.ScoreWeight(s.Description.String)
		goals := int(s.Goals.Int64)

		switch scoreSide(*match, s) {
		case "home":
			if weight > homeWeight {
				homeWeight = weight
				match.HomeGoals = &goals
			}
		case "away":
			if weight > awayWeight {
				awayWeight = weight
				match.AwayGoals = &goals
			}
		}
	}
}

func scoreSide(match report.MatchRow, s scoreRowModel) string {
	switch strings.ToLower(strings.TrimSpace(s.Participant.String)) {
	case "home":
		return "home"
	case "away":
		return "away"
	}
	if s.ParticipantID.Valid {
		switch s.ParticipantID.Int64 {
		case match.HomeTeamID:
			return "home"
		case match.AwayTeamID:
			return "away"
		}
	}
	return ""
}
