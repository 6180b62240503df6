package sqlstore

import (
	"database/sql"
	"strings"
	"time"
)

type matchRowModel struct {
	FixtureID    int64           `db:"fixture_id"`
	LeagueID     sql.NullInt64   `db:"league_id"`
	SeasonID     sql.NullInt64   `db:"season_id"`
	StartingAt   sql.NullString  `db:"starting_at"`
	StateCode    sql.NullString  `db:"state_code"`
	HomeTeamID   int64           `db:"home_team_id"`
	HomeTeamName sql.NullString  `db:"home_team_name"`
	AwayTeamID   int64           `db:"away_team_id"`
	AwayTeamName sql.NullString  `db:"away_team_name"`
	ProbHome     sql.NullFloat64 `db:"prob_home"`
	ProbDraw     sql.NullFloat64 `db:"prob_draw"`
	ProbAway     sql.NullFloat64 `db:"prob_away"`
}

type scoreRowModel struct {
	ID            int64          `db:"id"`
	FixtureID     int64          `db:"fixture_id"`
	ParticipantID sql.NullInt64  `db:"participant_id"`
	Participant   sql.NullString `db:"participant"`
	Goals         sql.NullInt64  `db:"goals"`
	Description   sql.NullString `db:"description"`
}

// startingAtLayout is the provider's fixture timestamp format.
const startingAtLayout = "2006-01-02 15:04:05"

func parseStartingAt(v sql.NullString) *time.Time {
	if !v.Valid {
		return nil
	}
	raw := strings.TrimSpace(v.String)
	for _, layout := range []string{startingAtLayout, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func nullFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	out := v.Float64
	return &out
}
