package squad

import (
	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
)

// Member is a player registered to a team for a season.
type Member struct {
	TeamID       int64  `db:"team_id"`
	SeasonID     int64  `db:"season_id"`
	PlayerID     int64  `db:"player_id"`
	JerseyNumber *int64 `db:"jersey_number"`
	OnLoan       *bool  `db:"on_loan"`
}

func (Member) EntityName() string { return entity.TeamSquads }

// PlayerSeasonStat is one season aggregate for a player.
type PlayerSeasonStat struct {
	PlayerID   int64    `db:"player_id"`
	SeasonID   int64    `db:"season_id"`
	StatTypeID int64    `db:"stat_type_id"`
	Value      *float64 `db:"value"`
}

func (PlayerSeasonStat) EntityName() string { return entity.PlayerStatDetails }

// TopPerformer ranks a player within a season category such as goals.
type TopPerformer struct {
	SeasonID int64    `db:"season_id"`
	Category string   `db:"category"`
	PlayerID int64    `db:"player_id"`
	TeamID   *int64   `db:"team_id"`
	Value    *float64 `db:"value"`
	Rank     *int64   `db:"rank"`
}

func (TopPerformer) EntityName() string { return entity.TopPerformers }

type StatEntry struct {
	Type *reference.Type
	Stat PlayerSeasonStat
}

type MemberEntry struct {
	Player *reference.Player
	Member Member
	Stats  []StatEntry
}

// Document is the squad of one team in one season.
type Document struct {
	TeamID   int64
	SeasonID int64
	Members  []MemberEntry
}

type PerformerEntry struct {
	Player    *reference.Player
	Performer TopPerformer
}

// TopPerformersDocument is a ranked list for one season category.
type TopPerformersDocument struct {
	SeasonID int64
	Category string
	Entries  []PerformerEntry
}
