package sportmonks

import (
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/market"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
)

// Field sets below carry the scalar members of each provider object. Nested
// objects are read separately through node so their shape can be checked.

type continentFields struct {
	ID   optInt    `json:"id"`
	Name optString `json:"name"`
	Code optString `json:"code"`
}

func (f continentFields) record() reference.Continent {
	return reference.Continent{ID: f.ID.ID(), Name: f.Name.Ptr(), Code: f.Code.Ptr()}
}

type countryFields struct {
	ID          optInt    `json:"id"`
	Name        optString `json:"name"`
	Code        optString `json:"code"`
	ISO2        optString `json:"iso2"`
	ContinentID optInt    `json:"continent_id"`
	ImagePath   optString `json:"image_path"`
}

func (f countryFields) record() reference.Country {
	code := f.Code
	if !code.Set {
		code = f.ISO2
	}
	return reference.Country{
		ID:          f.ID.ID(),
		Name:        f.Name.Ptr(),
		Code:        code.Ptr(),
		ContinentID: f.ContinentID.Ptr(),
		ImagePath:   f.ImagePath.Ptr(),
	}
}

type regionFields struct {
	ID        optInt    `json:"id"`
	Name      optString `json:"name"`
	CountryID optInt    `json:"country_id"`
}

func (f regionFields) record() reference.Region {
	return reference.Region{ID: f.ID.ID(), Name: f.Name.Ptr(), CountryID: f.CountryID.Ptr()}
}

type cityFields struct {
	ID        optInt    `json:"id"`
	Name      optString `json:"name"`
	RegionID  optInt    `json:"region_id"`
	CountryID optInt    `json:"country_id"`
	Latitude  optFloat  `json:"latitude"`
	Longitude optFloat  `json:"longitude"`
}

func (f cityFields) record() reference.City {
	return reference.City{
		ID:        f.ID.ID(),
		Name:      f.Name.Ptr(),
		RegionID:  f.RegionID.Ptr(),
		CountryID: f.CountryID.Ptr(),
		Latitude:  f.Latitude.Ptr(),
		Longitude: f.Longitude.Ptr(),
	}
}

type venueFields struct {
	ID           optInt    `json:"id"`
	Name         optString `json:"name"`
	CountryID    optInt    `json:"country_id"`
	CityID       optInt    `json:"city_id"`
	Address      optString `json:"address"`
	Zipcode      optString `json:"zipcode"`
	Latitude     optFloat  `json:"latitude"`
	Longitude    optFloat  `json:"longitude"`
	Capacity     optInt    `json:"capacity"`
	ImagePath    optString `json:"image_path"`
	CityName     optString `json:"city_name"`
	Surface      optString `json:"surface"`
	NationalTeam optBool   `json:"national_team"`
}

func (f venueFields) record() reference.Venue {
	return reference.Venue{
		ID:           f.ID.ID(),
		Name:         f.Name.Ptr(),
		CountryID:    f.CountryID.Ptr(),
		CityID:       f.CityID.Ptr(),
		Address:      f.Address.Ptr(),
		Zipcode:      f.Zipcode.Ptr(),
		Latitude:     f.Latitude.Ptr(),
		Longitude:    f.Longitude.Ptr(),
		Capacity:     f.Capacity.Ptr(),
		ImagePath:    f.ImagePath.Ptr(),
		CityName:     f.CityName.Ptr(),
		Surface:      f.Surface.Ptr(),
		NationalTeam: f.NationalTeam.Ptr(),
	}
}

type stateFields struct {
	ID            optInt    `json:"id"`
	State         optString `json:"state"`
	Name          optString `json:"name"`
	ShortName     optString `json:"short_name"`
	DeveloperName optString `json:"developer_name"`
}

func (f stateFields) record() reference.State {
	return reference.State{
		ID:            f.ID.ID(),
		State:         f.State.Ptr(),
		Name:          f.Name.Ptr(),
		ShortName:     f.ShortName.Ptr(),
		DeveloperName: f.DeveloperName.Ptr(),
	}
}

type leagueFields struct {
	ID           optInt    `json:"id"`
	SportID      optInt    `json:"sport_id"`
	CountryID    optInt    `json:"country_id"`
	Name         optString `json:"name"`
	Active       optBool   `json:"active"`
	ShortCode    optString `json:"short_code"`
	ImagePath    optString `json:"image_path"`
	LogoPath     optString `json:"logo_path"`
	Type         optString `json:"type"`
	SubType      optString `json:"sub_type"`
	LastPlayedAt optString `json:"last_played_at"`
	Category     optInt    `json:"category"`
	HasJerseys   optBool   `json:"has_jerseys"`
}

func (f leagueFields) record() reference.League {
	image := f.ImagePath
	if !image.Set {
		image = f.LogoPath
	}
	return reference.League{
		ID:           f.ID.ID(),
		SportID:      f.SportID.Ptr(),
		CountryID:    f.CountryID.Ptr(),
		Name:         f.Name.Ptr(),
		Active:       f.Active.Ptr(),
		ShortCode:    f.ShortCode.Ptr(),
		ImagePath:    image.Ptr(),
		Type:         f.Type.Ptr(),
		SubType:      f.SubType.Ptr(),
		LastPlayedAt: f.LastPlayedAt.Ptr(),
		Category:     f.Category.Ptr(),
		HasJerseys:   f.HasJerseys.Ptr(),
	}
}

// periodBounds covers seasons, stages and rounds, which share their
// lifecycle columns. Older payloads spell the bounds start_date/end_date.
type periodBounds struct {
	Finished   optBool   `json:"finished"`
	IsCurrent  optBool   `json:"is_current"`
	StartingAt optString `json:"starting_at"`
	EndingAt   optString `json:"ending_at"`
	StartDate  optString `json:"start_date"`
	EndDate    optString `json:"end_date"`
}

func (b periodBounds) start() *string {
	if b.StartingAt.Set {
		return b.StartingAt.Ptr()
	}
	return b.StartDate.Ptr()
}

func (b periodBounds) end() *string {
	if b.EndingAt.Set {
		return b.EndingAt.Ptr()
	}
	return b.EndDate.Ptr()
}

type seasonFields struct {
	periodBounds
	ID       optInt    `json:"id"`
	SportID  optInt    `json:"sport_id"`
	LeagueID optInt    `json:"league_id"`
	Name     optString `json:"name"`
}

func (f seasonFields) record() reference.Season {
	return reference.Season{
		ID:         f.ID.ID(),
		SportID:    f.SportID.Ptr(),
		LeagueID:   f.LeagueID.Ptr(),
		Name:       f.Name.Ptr(),
		Finished:   f.Finished.Ptr(),
		IsCurrent:  f.IsCurrent.Ptr(),
		StartingAt: f.start(),
		EndingAt:   f.end(),
	}
}

type stageFields struct {
	periodBounds
	ID        optInt    `json:"id"`
	LeagueID  optInt    `json:"league_id"`
	SeasonID  optInt    `json:"season_id"`
	TypeID    optInt    `json:"type_id"`
	Name      optString `json:"name"`
	SortOrder optInt    `json:"sort_order"`
}

func (f stageFields) record() reference.Stage {
	return reference.Stage{
		ID:         f.ID.ID(),
		LeagueID:   f.LeagueID.Ptr(),
		SeasonID:   f.SeasonID.Ptr(),
		TypeID:     f.TypeID.Ptr(),
		Name:       f.Name.Ptr(),
		SortOrder:  f.SortOrder.Ptr(),
		Finished:   f.Finished.Ptr(),
		IsCurrent:  f.IsCurrent.Ptr(),
		StartingAt: f.start(),
		EndingAt:   f.end(),
	}
}

type roundFields struct {
	periodBounds
	ID       optInt    `json:"id"`
	LeagueID optInt    `json:"league_id"`
	SeasonID optInt    `json:"season_id"`
	StageID  optInt    `json:"stage_id"`
	Name     optString `json:"name"`
}

func (f roundFields) record() reference.Round {
	return reference.Round{
		ID:         f.ID.ID(),
		LeagueID:   f.LeagueID.Ptr(),
		SeasonID:   f.SeasonID.Ptr(),
		StageID:    f.StageID.Ptr(),
		Name:       f.Name.Ptr(),
		Finished:   f.Finished.Ptr(),
		IsCurrent:  f.IsCurrent.Ptr(),
		StartingAt: f.start(),
		EndingAt:   f.end(),
	}
}

type teamFields struct {
	ID           optInt    `json:"id"`
	SportID      optInt    `json:"sport_id"`
	CountryID    optInt    `json:"country_id"`
	VenueID      optInt    `json:"venue_id"`
	Gender       optString `json:"gender"`
	Name         optString `json:"name"`
	ShortCode    optString `json:"short_code"`
	ImagePath    optString `json:"image_path"`
	LogoPath     optString `json:"logo_path"`
	Founded      optInt    `json:"founded"`
	Type         optString `json:"type"`
	Placeholder  optBool   `json:"placeholder"`
	LastPlayedAt optString `json:"last_played_at"`
}

func (f teamFields) record() reference.Team {
	image := f.ImagePath
	if !image.Set {
		image = f.LogoPath
	}
	return reference.Team{
		ID:           f.ID.ID(),
		SportID:      f.SportID.Ptr(),
		CountryID:    f.CountryID.Ptr(),
		VenueID:      f.VenueID.Ptr(),
		Gender:       f.Gender.Ptr(),
		Name:         f.Name.Ptr(),
		ShortCode:    f.ShortCode.Ptr(),
		ImagePath:    image.Ptr(),
		Founded:      f.Founded.Ptr(),
		Type:         f.Type.Ptr(),
		Placeholder:  f.Placeholder.Ptr(),
		LastPlayedAt: f.LastPlayedAt.Ptr(),
	}
}

type playerFields struct {
	ID                 optInt    `json:"id"`
	SportID            optInt    `json:"sport_id"`
	CountryID          optInt    `json:"country_id"`
	NationalityID      optInt    `json:"nationality_id"`
	CityID             optInt    `json:"city_id"`
	PositionID         optInt    `json:"position_id"`
	DetailedPositionID optInt    `json:"detailed_position_id"`
	TypeID             optInt    `json:"type_id"`
	CommonName         optString `json:"common_name"`
	Firstname          optString `json:"firstname"`
	Lastname           optString `json:"lastname"`
	Name               optString `json:"name"`
	DisplayName        optString `json:"display_name"`
	ImagePath          optString `json:"image_path"`
	Height             optInt    `json:"height"`
	Weight             optInt    `json:"weight"`
	DateOfBirth        optString `json:"date_of_birth"`
	Gender             optString `json:"gender"`
}

func (f playerFields) record() reference.Player {
	return reference.Player{
		ID:                 f.ID.ID(),
		SportID:            f.SportID.Ptr(),
		CountryID:          f.CountryID.Ptr(),
		NationalityID:      f.NationalityID.Ptr(),
		CityID:             f.CityID.Ptr(),
		PositionID:         f.PositionID.Ptr(),
		DetailedPositionID: f.DetailedPositionID.Ptr(),
		TypeID:             f.TypeID.Ptr(),
		CommonName:         f.CommonName.Ptr(),
		Firstname:          f.Firstname.Ptr(),
		Lastname:           f.Lastname.Ptr(),
		Name:               f.Name.Ptr(),
		DisplayName:        f.DisplayName.Ptr(),
		ImagePath:          f.ImagePath.Ptr(),
		Height:             f.Height.Ptr(),
		Weight:             f.Weight.Ptr(),
		DateOfBirth:        f.DateOfBirth.Ptr(),
		Gender:             f.Gender.Ptr(),
	}
}

type typeFields struct {
	ID            optInt    `json:"id"`
	Name          optString `json:"name"`
	Code          optString `json:"code"`
	DeveloperName optString `json:"developer_name"`
	ModelType     optString `json:"model_type"`
	StatGroup     optString `json:"stat_group"`
}

func (f typeFields) record(kind reference.TypeKind) reference.Type {
	return reference.Type{
		Kind:          kind,
		ID:            f.ID.ID(),
		Name:          f.Name.Ptr(),
		Code:          f.Code.Ptr(),
		DeveloperName: f.DeveloperName.Ptr(),
		ModelType:     f.ModelType.Ptr(),
		StatGroup:     f.StatGroup.Ptr(),
	}
}

// kindForModel routes a /core/types row by its model_type.
func kindForModel(modelType string) reference.TypeKind {
	switch modelType {
	case "event":
		return reference.TypeKindEvent
	case "sideline":
		return reference.TypeKindSideline
	default:
		return reference.TypeKindStat
	}
}

type bookmakerFields struct {
	ID       optInt    `json:"id"`
	Name     optString `json:"name"`
	Logo     optString `json:"logo"`
	LogoPath optString `json:"logo_path"`
}

func (f bookmakerFields) record() market.Bookmaker {
	logo := f.Logo
	if !logo.Set {
		logo = f.LogoPath
	}
	return market.Bookmaker{ID: f.ID.ID(), Name: f.Name.Ptr(), Logo: logo.Ptr()}
}

type marketFields struct {
	ID           optInt    `json:"id"`
	Name         optString `json:"name"`
	OutcomeCount optInt    `json:"outcome_count"`
}

func (f marketFields) record() market.Market {
	return market.Market{ID: f.ID.ID(), Name: f.Name.Ptr(), OutcomeCount: f.OutcomeCount.Ptr()}
}

type fixtureFields struct {
	ID                  optInt    `json:"id"`
	SportID             optInt    `json:"sport_id"`
	LeagueID            optInt    `json:"league_id"`
	SeasonID            optInt    `json:"season_id"`
	StageID             optInt    `json:"stage_id"`
	GroupID             optInt    `json:"group_id"`
	AggregateID         optInt    `json:"aggregate_id"`
	RoundID             optInt    `json:"round_id"`
	StateID             optInt    `json:"state_id"`
	VenueID             optInt    `json:"venue_id"`
	Name                optString `json:"name"`
	StartingAt          optString `json:"starting_at"`
	ResultInfo          optString `json:"result_info"`
	Leg                 optString `json:"leg"`
	Details             optString `json:"details"`
	Length              optInt    `json:"length"`
	Placeholder         optBool   `json:"placeholder"`
	HasOdds             optBool   `json:"has_odds"`
	StartingAtTimestamp optInt    `json:"starting_at_timestamp"`
}

func (f fixtureFields) record() fixture.Fixture {
	return fixture.Fixture{
		ID:                  f.ID.ID(),
		SportID:             f.SportID.Ptr(),
		LeagueID:            f.LeagueID.Ptr(),
		SeasonID:            f.SeasonID.Ptr(),
		StageID:             f.StageID.Ptr(),
		GroupID:             f.GroupID.Ptr(),
		AggregateID:         f.AggregateID.Ptr(),
		RoundID:             f.RoundID.Ptr(),
		StateID:             f.StateID.Ptr(),
		VenueID:             f.VenueID.Ptr(),
		Name:                f.Name.Ptr(),
		StartingAt:          f.StartingAt.Ptr(),
		ResultInfo:          f.ResultInfo.Ptr(),
		Leg:                 f.Leg.Ptr(),
		Details:             f.Details.Ptr(),
		Length:              f.Length.Ptr(),
		Placeholder:         f.Placeholder.Ptr(),
		HasOdds:             f.HasOdds.Ptr(),
		StartingAtTimestamp: f.StartingAtTimestamp.Ptr(),
	}
}

type participantMeta struct {
	Location optString `json:"location"`
	Winner   optBool   `json:"winner"`
	Position optInt    `json:"position"`
}

type scoreFields struct {
	ID            optInt    `json:"id"`
	FixtureID     optInt    `json:"fixture_id"`
	TypeID        optInt    `json:"type_id"`
	ParticipantID optInt    `json:"participant_id"`
	Description   optString `json:"description"`
}

type scoreValue struct {
	Goals       optInt    `json:"goals"`
	Participant optString `json:"participant"`
}

type periodFields struct {
	ID           optInt    `json:"id"`
	FixtureID    optInt    `json:"fixture_id"`
	TypeID       optInt    `json:"type_id"`
	Started      optInt    `json:"started"`
	Ended        optInt    `json:"ended"`
	CountsFrom   optInt    `json:"counts_from"`
	Ticking      optBool   `json:"ticking"`
	SortOrder    optInt    `json:"sort_order"`
	Description  optString `json:"description"`
	TimeAdded    optInt    `json:"time_added"`
	PeriodLength optInt    `json:"period_length"`
	Minutes      optInt    `json:"minutes"`
	Seconds      optInt    `json:"seconds"`
	HasTimer     optBool   `json:"has_timer"`
}

func (f periodFields) record() fixture.Period {
	return fixture.Period{
		ID:           f.ID.ID(),
		FixtureID:    f.FixtureID.ID(),
		TypeID:       f.TypeID.Ptr(),
		Started:      f.Started.Ptr(),
		Ended:        f.Ended.Ptr(),
		CountsFrom:   f.CountsFrom.Ptr(),
		Ticking:      f.Ticking.Ptr(),
		SortOrder:    f.SortOrder.Ptr(),
		Description:  f.Description.Ptr(),
		TimeAdded:    f.TimeAdded.Ptr(),
		PeriodLength: f.PeriodLength.Ptr(),
		Minutes:      f.Minutes.Ptr(),
		Seconds:      f.Seconds.Ptr(),
		HasTimer:     f.HasTimer.Ptr(),
	}
}

type eventFields struct {
	ID                optInt    `json:"id"`
	FixtureID         optInt    `json:"fixture_id"`
	PeriodID          optInt    `json:"period_id"`
	ParticipantID     optInt    `json:"participant_id"`
	TypeID            optInt    `json:"type_id"`
	Section           optString `json:"section"`
	PlayerID          optInt    `json:"player_id"`
	RelatedPlayerID   optInt    `json:"related_player_id"`
	PlayerName        optString `json:"player_name"`
	RelatedPlayerName optString `json:"related_player_name"`
	Result            optString `json:"result"`
	Info              optString `json:"info"`
	Addition          optString `json:"addition"`
	Minute            optInt    `json:"minute"`
	ExtraMinute       optInt    `json:"extra_minute"`
	Injured           optBool   `json:"injured"`
	OnBench           optBool   `json:"on_bench"`
	CoachID           optInt    `json:"coach_id"`
	SubTypeID         optInt    `json:"sub_type_id"`
	DetailedPeriodID  optInt    `json:"detailed_period_id"`
	SortOrder         optInt    `json:"sort_order"`
}

func (f eventFields) record() fixture.Event {
	return fixture.Event{
		ID:                f.ID.ID(),
		FixtureID:         f.FixtureID.ID(),
		PeriodID:          f.PeriodID.Ptr(),
		ParticipantID:     f.ParticipantID.Ptr(),
		TypeID:            f.TypeID.Ptr(),
		Section:           f.Section.Ptr(),
		PlayerID:          f.PlayerID.Ptr(),
		RelatedPlayerID:   f.RelatedPlayerID.Ptr(),
		PlayerName:        f.PlayerName.Ptr(),
		RelatedPlayerName: f.RelatedPlayerName.Ptr(),
		Result:            f.Result.Ptr(),
		Info:              f.Info.Ptr(),
		Addition:          f.Addition.Ptr(),
		Minute:            f.Minute.Ptr(),
		ExtraMinute:       f.ExtraMinute.Ptr(),
		Injured:           f.Injured.Ptr(),
		OnBench:           f.OnBench.Ptr(),
		CoachID:           f.CoachID.Ptr(),
		SubTypeID:         f.SubTypeID.Ptr(),
		DetailedPeriodID:  f.DetailedPeriodID.Ptr(),
		SortOrder:         f.SortOrder.Ptr(),
	}
}

type statisticFields struct {
	ID            optInt    `json:"id"`
	FixtureID     optInt    `json:"fixture_id"`
	TypeID        optInt    `json:"type_id"`
	ParticipantID optInt    `json:"participant_id"`
	Location      optString `json:"location"`
}

type statisticValue struct {
	Value optFloat `json:"value"`
}

type fixtureSidelineFields struct {
	ID            optInt `json:"id"`
	FixtureID     optInt `json:"fixture_id"`
	SidelineID    optInt `json:"sideline_id"`
	ParticipantID optInt `json:"participant_id"`
}

type sidelineFields struct {
	ID          optInt    `json:"id"`
	PlayerID    optInt    `json:"player_id"`
	TypeID      optInt    `json:"type_id"`
	Category    optString `json:"category"`
	TeamID      optInt    `json:"team_id"`
	SeasonID    optInt    `json:"season_id"`
	StartDate   optString `json:"start_date"`
	EndDate     optString `json:"end_date"`
	GamesMissed optInt    `json:"games_missed"`
	Completed   optBool   `json:"completed"`
}

func (f sidelineFields) record() fixture.Sideline {
	return fixture.Sideline{
		ID:          f.ID.ID(),
		PlayerID:    f.PlayerID.Ptr(),
		TypeID:      f.TypeID.Ptr(),
		Category:    f.Category.Ptr(),
		TeamID:      f.TeamID.Ptr(),
		SeasonID:    f.SeasonID.Ptr(),
		StartDate:   f.StartDate.Ptr(),
		EndDate:     f.EndDate.Ptr(),
		GamesMissed: f.GamesMissed.Ptr(),
		Completed:   f.Completed.Ptr(),
	}
}

type weatherFields struct {
	ID          optInt    `json:"id"`
	FixtureID   optInt    `json:"fixture_id"`
	VenueID     optInt    `json:"venue_id"`
	Humidity    optString `json:"humidity"`
	Pressure    optFloat  `json:"pressure"`
	Clouds      optString `json:"clouds"`
	Description optString `json:"description"`
	Icon        optString `json:"icon"`
	Type        optString `json:"type"`
	Metric      optString `json:"metric"`
}

type dayParts struct {
	Day     optFloat `json:"day"`
	Morning optFloat `json:"morning"`
	Evening optFloat `json:"evening"`
	Night   optFloat `json:"night"`
}

type windFields struct {
	Speed     optFloat `json:"speed"`
	Direction optFloat `json:"direction"`
}

type currentWeather struct {
	Temp        optFloat  `json:"temp"`
	Wind        optFloat  `json:"wind"`
	Clouds      optString `json:"clouds"`
	Humidity    optString `json:"humidity"`
	Pressure    optFloat  `json:"pressure"`
	Direction   optFloat  `json:"direction"`
	FeelsLike   optFloat  `json:"feels_like"`
	Description optString `json:"description"`
}
