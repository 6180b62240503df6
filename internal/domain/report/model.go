package report

import "time"

// MatchRow is a fixture joined with its home and away sides. Scores are nil
// until the provider has reported a current score for that side.
type MatchRow struct {
	FixtureID    int64
	LeagueID     int64
	SeasonID     int64
	StartingAt   *time.Time
	StateCode    string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	HomeGoals    *int
	AwayGoals    *int
	ProbHome     *float64
	ProbDraw     *float64
	ProbAway     *float64
}

// MatchFilter narrows the fixtures a report is built from. Zero values mean
// no restriction.
type MatchFilter struct {
	LeagueID int64
	SeasonID int64
	TeamID   int64
	From     *time.Time
	To       *time.Time
}

type TableRow struct {
	Position       int    `json:"position"`
	TeamID         int64  `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	HomePlayed     int    `json:"home_played"`
	HomeWon        int    `json:"home_won"`
	AwayPlayed     int    `json:"away_played"`
	AwayWon        int    `json:"away_won"`
}

type LeagueTable struct {
	LeagueID int64      `json:"league_id"`
	SeasonID int64      `json:"season_id,omitempty"`
	Rows     []TableRow `json:"rows"`
}

// Result is a finished fixture seen from no side in particular.
type Result struct {
	FixtureID    int64      `json:"fixture_id"`
	StartingAt   *time.Time `json:"starting_at,omitempty"`
	HomeTeamID   int64      `json:"home_team_id"`
	HomeTeamName string     `json:"home_team_name"`
	AwayTeamID   int64      `json:"away_team_id"`
	AwayTeamName string     `json:"away_team_name"`
	HomeGoals    int        `json:"home_goals"`
	AwayGoals    int        `json:"away_goals"`
}

// FormMatch is a finished fixture seen from one team.
type FormMatch struct {
	FixtureID    int64      `json:"fixture_id"`
	StartingAt   *time.Time `json:"starting_at,omitempty"`
	OpponentID   int64      `json:"opponent_id"`
	OpponentName string     `json:"opponent_name"`
	Home         bool       `json:"home"`
	GoalsFor     int        `json:"goals_for"`
	GoalsAgainst int        `json:"goals_against"`
	Outcome      string     `json:"outcome"`
}

type TeamForm struct {
	TeamID  int64       `json:"team_id"`
	Form    string      `json:"form"`
	Points  int         `json:"points"`
	Matches []FormMatch `json:"matches"`
}

type GoalStats struct {
	LeagueID         int64   `json:"league_id"`
	Matches          int     `json:"matches"`
	AvgTotalGoals    float64 `json:"avg_total_goals"`
	AvgHomeGoals     float64 `json:"avg_home_goals"`
	AvgAwayGoals     float64 `json:"avg_away_goals"`
	Over25Percent    float64 `json:"over_2_5_percent"`
	Under25Percent   float64 `json:"under_2_5_percent"`
	BothTeamsScorePc float64 `json:"btts_percent"`
}

// Pick is a suggested outcome for an upcoming fixture.
type Pick struct {
	FixtureID    int64      `json:"fixture_id"`
	StartingAt   *time.Time `json:"starting_at,omitempty"`
	HomeTeamName string     `json:"home_team_name"`
	AwayTeamName string     `json:"away_team_name"`
	Outcome      string     `json:"outcome"`
	Probability  float64    `json:"probability"`
}

const (
	OutcomeWin  = "W"
	OutcomeDraw = "D"
	OutcomeLoss = "L"

	PickHome = "home"
	PickDraw = "draw"
	PickAway = "away"
)
