package entity

// Entity names double as table names.
const (
	Continents          = "continents"
	Countries           = "countries"
	Regions             = "regions"
	Cities              = "cities"
	Venues              = "venues"
	States              = "states"
	Leagues             = "leagues"
	Seasons             = "seasons"
	Stages              = "stages"
	Rounds              = "rounds"
	Teams               = "teams"
	Players             = "players"
	EventTypes          = "event_types"
	StatTypes           = "stat_types"
	SidelineTypes       = "sideline_types"
	Fixtures            = "fixtures"
	FixtureParticipants = "fixture_participants"
	Scores              = "scores"
	Periods             = "periods"
	Events              = "events"
	FixtureTeamStats    = "fixture_team_stats"
	Sidelines           = "sidelines"
	FixtureSidelines    = "fixture_sidelines"
	WeatherReports      = "weather_reports"
	TeamSquads          = "team_squad"
	PlayerStatDetails   = "player_stat_detail"
	TopPerformers       = "top_performers"
	Standings           = "standings"
	Bookmakers          = "bookmakers"
	Markets             = "markets"
	Odds                = "odds"
	Predictions         = "predictions"
	Metadata            = "metadata"
)
