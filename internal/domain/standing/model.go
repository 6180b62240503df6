package standing

import (
	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
)

// Standing is one team's table row for a season stage. Rows of a season are
// cleared and reinserted together.
type Standing struct {
	SeasonID       int64   `db:"season_id"`
	StageID        int64   `db:"stage_id"`
	TeamID         int64   `db:"team_id"`
	LeagueID       *int64  `db:"league_id"`
	GroupID        *int64  `db:"group_id"`
	RoundID        *int64  `db:"round_id"`
	Position       *int64  `db:"position"`
	Points         *int64  `db:"points"`
	Played         *int64  `db:"played"`
	Won            *int64  `db:"won"`
	Drawn          *int64  `db:"drawn"`
	Lost           *int64  `db:"lost"`
	GoalsFor       *int64  `db:"goals_for"`
	GoalsAgainst   *int64  `db:"goals_against"`
	GoalDifference *int64  `db:"goal_difference"`
	Result         *string `db:"result"`
}

func (Standing) EntityName() string { return entity.Standings }

// Entry pairs a standing row with the team stub it references.
type Entry struct {
	Team     *reference.Team
	Standing Standing
}

// Document holds a full season table.
type Document struct {
	SeasonID int64
	Entries  []Entry
}
