package reference

import "github.com/riskibarqy/football-etl/internal/domain/entity"

type Continent struct {
	ID   int64   `db:"id"`
	Name *string `db:"name"`
	Code *string `db:"code"`
}

func (Continent) EntityName() string { return entity.Continents }

type Country struct {
	ID          int64   `db:"id"`
	Name        *string `db:"name"`
	Code        *string `db:"code"`
	ContinentID *int64  `db:"continent_id"`
	ImagePath   *string `db:"image_path"`
}

func (Country) EntityName() string { return entity.Countries }

type Region struct {
	ID        int64   `db:"id"`
	Name      *string `db:"name"`
	CountryID *int64  `db:"country_id"`
}

func (Region) EntityName() string { return entity.Regions }

type City struct {
	ID        int64    `db:"id"`
	Name      *string  `db:"name"`
	RegionID  *int64   `db:"region_id"`
	CountryID *int64   `db:"country_id"`
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`
}

func (City) EntityName() string { return entity.Cities }

type Venue struct {
	ID           int64    `db:"id"`
	Name         *string  `db:"name"`
	CountryID    *int64   `db:"country_id"`
	CityID       *int64   `db:"city_id"`
	Address      *string  `db:"address"`
	Zipcode      *string  `db:"zipcode"`
	Latitude     *float64 `db:"latitude"`
	Longitude    *float64 `db:"longitude"`
	Capacity     *int64   `db:"capacity"`
	ImagePath    *string  `db:"image_path"`
	CityName     *string  `db:"city_name"`
	Surface      *string  `db:"surface"`
	NationalTeam *bool    `db:"national_team"`
}

func (Venue) EntityName() string { return entity.Venues }

// State is a fixture lifecycle state such as NS, INPLAY_1ST_HALF or FT.
type State struct {
	ID            int64   `db:"id"`
	State         *string `db:"state"`
	Name          *string `db:"name"`
	ShortName     *string `db:"short_name"`
	DeveloperName *string `db:"developer_name"`
}

func (State) EntityName() string { return entity.States }

type League struct {
	ID           int64   `db:"id"`
	SportID      *int64  `db:"sport_id"`
	CountryID    *int64  `db:"country_id"`
	Name         *string `db:"name"`
	Active       *bool   `db:"active"`
	ShortCode    *string `db:"short_code"`
	ImagePath    *string `db:"image_path"`
	Type         *string `db:"type"`
	SubType      *string `db:"sub_type"`
	LastPlayedAt *string `db:"last_played_at"`
	Category     *int64  `db:"category"`
	HasJerseys   *bool   `db:"has_jerseys"`
}

func (League) EntityName() string { return entity.Leagues }

type Season struct {
	ID         int64   `db:"id"`
	SportID    *int64  `db:"sport_id"`
	LeagueID   *int64  `db:"league_id"`
	Name       *string `db:"name"`
	Finished   *bool   `db:"finished"`
	IsCurrent  *bool   `db:"is_current"`
	StartingAt *string `db:"starting_at"`
	EndingAt   *string `db:"ending_at"`
}

func (Season) EntityName() string { return entity.Seasons }

type Stage struct {
	ID         int64   `db:"id"`
	LeagueID   *int64  `db:"league_id"`
	SeasonID   *int64  `db:"season_id"`
	TypeID     *int64  `db:"type_id"`
	Name       *string `db:"name"`
	SortOrder  *int64  `db:"sort_order"`
	Finished   *bool   `db:"finished"`
	IsCurrent  *bool   `db:"is_current"`
	StartingAt *string `db:"starting_at"`
	EndingAt   *string `db:"ending_at"`
}

func (Stage) EntityName() string { return entity.Stages }

type Round struct {
	ID         int64   `db:"id"`
	LeagueID   *int64  `db:"league_id"`
	SeasonID   *int64  `db:"season_id"`
	StageID    *int64  `db:"stage_id"`
	Name       *string `db:"name"`
	Finished   *bool   `db:"finished"`
	IsCurrent  *bool   `db:"is_current"`
	StartingAt *string `db:"starting_at"`
	EndingAt   *string `db:"ending_at"`
}

func (Round) EntityName() string { return entity.Rounds }

// Team may be written as a stub (id and name only) from fixture, standing or
// squad payloads and later overwritten by the full team record.
type Team struct {
	ID           int64   `db:"id"`
	SportID      *int64  `db:"sport_id"`
	CountryID    *int64  `db:"country_id"`
	VenueID      *int64  `db:"venue_id"`
	Gender       *string `db:"gender"`
	Name         *string `db:"name"`
	ShortCode    *string `db:"short_code"`
	ImagePath    *string `db:"image_path"`
	Founded      *int64  `db:"founded"`
	Type         *string `db:"type"`
	Placeholder  *bool   `db:"placeholder"`
	LastPlayedAt *string `db:"last_played_at"`
}

func (Team) EntityName() string { return entity.Teams }

type Player struct {
	ID                 int64   `db:"id"`
	SportID            *int64  `db:"sport_id"`
	CountryID          *int64  `db:"country_id"`
	NationalityID      *int64  `db:"nationality_id"`
	CityID             *int64  `db:"city_id"`
	PositionID         *int64  `db:"position_id"`
	DetailedPositionID *int64  `db:"detailed_position_id"`
	TypeID             *int64  `db:"type_id"`
	CommonName         *string `db:"common_name"`
	Firstname          *string `db:"firstname"`
	Lastname           *string `db:"lastname"`
	Name               *string `db:"name"`
	DisplayName        *string `db:"display_name"`
	ImagePath          *string `db:"image_path"`
	Height             *int64  `db:"height"`
	Weight             *int64  `db:"weight"`
	DateOfBirth        *string `db:"date_of_birth"`
	Gender             *string `db:"gender"`
}

func (Player) EntityName() string { return entity.Players }

// TypeKind selects which type table a Type row belongs to.
type TypeKind string

const (
	TypeKindEvent    TypeKind = "event"
	TypeKindStat     TypeKind = "stat"
	TypeKindSideline TypeKind = "sideline"
)

// Type is a provider type definition. Event, statistic and sideline types
// share the same columns but live in separate tables.
type Type struct {
	Kind          TypeKind `db:"-"`
	ID            int64    `db:"id"`
	Name          *string  `db:"name"`
	Code          *string  `db:"code"`
	DeveloperName *string  `db:"developer_name"`
	ModelType     *string  `db:"model_type"`
	StatGroup     *string  `db:"stat_group"`
}

func (t Type) EntityName() string {
	switch t.Kind {
	case TypeKindEvent:
		return entity.EventTypes
	case TypeKindSideline:
		return entity.SidelineTypes
	default:
		return entity.StatTypes
	}
}
