package fixture

import (
	"strings"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

// Fixture is one scheduled or played match.
type Fixture struct {
	ID                  int64   `db:"id"`
	SportID             *int64  `db:"sport_id"`
	LeagueID            *int64  `db:"league_id"`
	SeasonID            *int64  `db:"season_id"`
	StageID             *int64  `db:"stage_id"`
	GroupID             *int64  `db:"group_id"`
	AggregateID         *int64  `db:"aggregate_id"`
	RoundID             *int64  `db:"round_id"`
	StateID             *int64  `db:"state_id"`
	VenueID             *int64  `db:"venue_id"`
	Name                *string `db:"name"`
	StartingAt          *string `db:"starting_at"`
	ResultInfo          *string `db:"result_info"`
	Leg                 *string `db:"leg"`
	Details             *string `db:"details"`
	Length              *int64  `db:"length"`
	Placeholder         *bool   `db:"placeholder"`
	HasOdds             *bool   `db:"has_odds"`
	StartingAtTimestamp *int64  `db:"starting_at_timestamp"`
}

func (Fixture) EntityName() string { return entity.Fixtures }

// Participant links a team to a fixture.
type Participant struct {
	FixtureID int64   `db:"fixture_id"`
	TeamID    int64   `db:"team_id"`
	Location  *string `db:"location"`
	Winner    *bool   `db:"winner"`
	Position  *int64  `db:"position"`
}

func (Participant) EntityName() string { return entity.FixtureParticipants }

// Score is one side's goals for one score type (CURRENT, 1ST_HALF, ...).
type Score struct {
	ID            int64   `db:"id"`
	FixtureID     int64   `db:"fixture_id"`
	TypeID        *int64  `db:"type_id"`
	ParticipantID *int64  `db:"participant_id"`
	Goals         *int64  `db:"goals"`
	Participant   *string `db:"participant"`
	Description   *string `db:"description"`
}

func (Score) EntityName() string { return entity.Scores }

type Period struct {
	ID           int64   `db:"id"`
	FixtureID    int64   `db:"fixture_id"`
	TypeID       *int64  `db:"type_id"`
	Started      *int64  `db:"started"`
	Ended        *int64  `db:"ended"`
	CountsFrom   *int64  `db:"counts_from"`
	Ticking      *bool   `db:"ticking"`
	SortOrder    *int64  `db:"sort_order"`
	Description  *string `db:"description"`
	TimeAdded    *int64  `db:"time_added"`
	PeriodLength *int64  `db:"period_length"`
	Minutes      *int64  `db:"minutes"`
	Seconds      *int64  `db:"seconds"`
	HasTimer     *bool   `db:"has_timer"`
}

func (Period) EntityName() string { return entity.Periods }

type Event struct {
	ID                int64   `db:"id"`
	FixtureID         int64   `db:"fixture_id"`
	PeriodID          *int64  `db:"period_id"`
	ParticipantID     *int64  `db:"participant_id"`
	TypeID            *int64  `db:"type_id"`
	Section           *string `db:"section"`
	PlayerID          *int64  `db:"player_id"`
	RelatedPlayerID   *int64  `db:"related_player_id"`
	PlayerName        *string `db:"player_name"`
	RelatedPlayerName *string `db:"related_player_name"`
	Result            *string `db:"result"`
	Info              *string `db:"info"`
	Addition          *string `db:"addition"`
	Minute            *int64  `db:"minute"`
	ExtraMinute       *int64  `db:"extra_minute"`
	Injured           *bool   `db:"injured"`
	OnBench           *bool   `db:"on_bench"`
	CoachID           *int64  `db:"coach_id"`
	SubTypeID         *int64  `db:"sub_type_id"`
	DetailedPeriodID  *int64  `db:"detailed_period_id"`
	SortOrder         *int64  `db:"sort_order"`
}

func (Event) EntityName() string { return entity.Events }

// TeamStatistic is a (fixture, team, stat type) numeric fact.
type TeamStatistic struct {
	ID         int64    `db:"id"`
	FixtureID  int64    `db:"fixture_id"`
	TeamID     *int64   `db:"team_id"`
	StatTypeID *int64   `db:"stat_type_id"`
	Value      *float64 `db:"value"`
	Location   *string  `db:"location"`
}

func (TeamStatistic) EntityName() string { return entity.FixtureTeamStats }

// Sideline is an injury or suspension record for a player.
type Sideline struct {
	ID          int64   `db:"id"`
	PlayerID    *int64  `db:"player_id"`
	TypeID      *int64  `db:"type_id"`
	Category    *string `db:"category"`
	TeamID      *int64  `db:"team_id"`
	SeasonID    *int64  `db:"season_id"`
	StartDate   *string `db:"start_date"`
	EndDate     *string `db:"end_date"`
	GamesMissed *int64  `db:"games_missed"`
	Completed   *bool   `db:"completed"`
}

func (Sideline) EntityName() string { return entity.Sidelines }

// FixtureSideline links a sideline to the fixture that reported it.
type FixtureSideline struct {
	ID            int64  `db:"id"`
	FixtureID     int64  `db:"fixture_id"`
	SidelineID    *int64 `db:"sideline_id"`
	ParticipantID *int64 `db:"participant_id"`
}

func (FixtureSideline) EntityName() string { return entity.FixtureSidelines }

// WeatherReport flattens the provider's nested temperature, feels_like, wind
// and current blocks into scalar columns.
type WeatherReport struct {
	ID                 int64    `db:"id"`
	FixtureID          int64    `db:"fixture_id"`
	VenueID            *int64   `db:"venue_id"`
	TemperatureDay     *float64 `db:"temperature_day"`
	TemperatureMorning *float64 `db:"temperature_morning"`
	TemperatureEvening *float64 `db:"temperature_evening"`
	TemperatureNight   *float64 `db:"temperature_night"`
	FeelsLikeDay       *float64 `db:"feels_like_day"`
	FeelsLikeMorning   *float64 `db:"feels_like_morning"`
	FeelsLikeEvening   *float64 `db:"feels_like_evening"`
	FeelsLikeNight     *float64 `db:"feels_like_night"`
	WindSpeed          *float64 `db:"wind_speed"`
	WindDirection      *float64 `db:"wind_direction"`
	Humidity           *string  `db:"humidity"`
	Pressure           *float64 `db:"pressure"`
	Clouds             *string  `db:"clouds"`
	Description        *string  `db:"description"`
	Icon               *string  `db:"icon"`
	Type               *string  `db:"type"`
	Metric             *string  `db:"metric"`
	CurrentTemp        *float64 `db:"current_temp"`
	CurrentWind        *float64 `db:"current_wind"`
	CurrentClouds      *string  `db:"current_clouds"`
	CurrentHumidity    *string  `db:"current_humidity"`
	CurrentPressure    *float64 `db:"current_pressure"`
	CurrentDirection   *float64 `db:"current_direction"`
	CurrentFeelsLike   *float64 `db:"current_feels_like"`
	CurrentDescription *string  `db:"current_description"`
}

func (WeatherReport) EntityName() string { return entity.WeatherReports }

// IsFinishedState reports whether a state developer name or short code marks
// a completed match.
func IsFinishedState(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "FT", "AET", "FT_PEN", "PEN", "FINISHED", "AWARDED", "WO":
		return true
	default:
		return false
	}
}

// IsVoidState reports whether a state marks a match that will never produce a
// result, even when the provider still carries a partial score.
func IsVoidState(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "CANCELLED", "CANCELED", "ABANDONED", "DELETED":
		return true
	default:
		return false
	}
}

// IsPendingState reports whether a state marks a match that has not produced
// a final result yet.
func IsPendingState(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "NS", "TBA", "POSTPONED", "DELAYED", "INPLAY_1ST_HALF", "INPLAY_2ND_HALF", "HT",
		"INPLAY_ET", "INPLAY_PENALTIES", "BREAK", "EXTRA_TIME_BREAK", "PEN_BREAK", "SUSPENDED", "INTERRUPTED":
		return true
	default:
		return false
	}
}
