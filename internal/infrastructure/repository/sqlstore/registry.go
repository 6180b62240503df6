package sqlstore

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/market"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
	"github.com/riskibarqy/football-etl/internal/domain/squad"
	"github.com/riskibarqy/football-etl/internal/domain/standing"
	"github.com/riskibarqy/football-etl/internal/domain/watermark"
	qb "github.com/riskibarqy/football-etl/internal/platform/querybuilder"
)

// Reference is a logical foreign key. Only the ones the ingestion order
// guarantees are declared in the DDL.
type Reference struct {
	Column string
	Table  string
}

// Table describes how one entity is stored.
type Table struct {
	Name       string
	Columns    []string
	Key        []string
	Required   []string
	Clearable  []string
	References []Reference
}

func (t Table) canClear(column string) bool {
	for _, c := range t.Clearable {
		if c == column {
			return true
		}
	}
	return false
}

type Registry struct {
	tables map[string]Table
}

func NewRegistry(tables ...Table) *Registry {
	r := &Registry{tables: make(map[string]Table, len(tables))}
	for _, t := range tables {
		r.tables[t.Name] = t
	}
	return r
}

func (r *Registry) Lookup(entityName string) (Table, bool) {
	t, ok := r.tables[entityName]
	return t, ok
}

func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.tables))
	for name := range r.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

type tableOption func(*Table)

func required(columns ...string) tableOption {
	return func(t *Table) { t.Required = columns }
}

func clearable(columns ...string) tableOption {
	return func(t *Table) { t.Clearable = columns }
}

func refs(pairs ...string) tableOption {
	return func(t *Table) {
		for i := 0; i+1 < len(pairs); i += 2 {
			t.References = append(t.References, Reference{Column: pairs[i], Table: pairs[i+1]})
		}
	}
}

// describe derives a table from a zero record. Required defaults to the
// whole key.
func describe(proto entity.Record, key []string, opts ...tableOption) Table {
	cols, _, err := qb.ModelColumns(proto)
	if err != nil {
		panic(fmt.Sprintf("describe %s: %v", proto.EntityName(), err))
	}
	t := Table{Name: proto.EntityName(), Columns: cols, Key: key, Required: key}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

var idKey = []string{"id"}

// DefaultRegistry lists every table the ingestion pipeline writes.
func DefaultRegistry() *Registry {
	return NewRegistry(
		describe(reference.Continent{}, idKey),
		describe(reference.Country{}, idKey, refs("continent_id", entity.Continents)),
		describe(reference.Region{}, idKey, refs("country_id", entity.Countries)),
		describe(reference.City{}, idKey, refs("region_id", entity.Regions, "country_id", entity.Countries)),
		describe(reference.Venue{}, idKey, refs("country_id", entity.Countries, "city_id", entity.Cities)),
		describe(reference.State{}, idKey),
		describe(reference.League{}, idKey, refs("country_id", entity.Countries)),
		describe(reference.Season{}, idKey, refs("league_id", entity.Leagues)),
		describe(reference.Stage{}, idKey, refs("league_id", entity.Leagues, "season_id", entity.Seasons)),
		describe(reference.Round{}, idKey, refs("league_id", entity.Leagues, "season_id", entity.Seasons, "stage_id", entity.Stages)),
		describe(reference.Team{}, idKey, refs("country_id", entity.Countries, "venue_id", entity.Venues)),
		describe(reference.Player{}, idKey, refs("country_id", entity.Countries)),
		describe(reference.Type{Kind: reference.TypeKindEvent}, idKey),
		describe(reference.Type{Kind: reference.TypeKindStat}, idKey),
		describe(reference.Type{Kind: reference.TypeKindSideline}, idKey),

		describe(fixture.Fixture{}, idKey, refs(
			"league_id", entity.Leagues,
			"season_id", entity.Seasons,
			"stage_id", entity.Stages,
			"round_id", entity.Rounds,
			"state_id", entity.States,
			"venue_id", entity.Venues,
		)),
		describe(fixture.Participant{}, []string{"fixture_id", "team_id"}, refs("fixture_id", entity.Fixtures, "team_id", entity.Teams)),
		describe(fixture.Score{}, idKey, refs("fixture_id", entity.Fixtures, "participant_id", entity.Teams)),
		describe(fixture.Period{}, idKey, refs("fixture_id", entity.Fixtures)),
		describe(fixture.Event{}, idKey, refs(
			"fixture_id", entity.Fixtures,
			"period_id", entity.Periods,
			"participant_id", entity.Teams,
			"type_id", entity.EventTypes,
			"player_id", entity.Players,
		)),
		describe(fixture.TeamStatistic{}, idKey, refs("fixture_id", entity.Fixtures, "team_id", entity.Teams, "stat_type_id", entity.StatTypes)),
		describe(fixture.Sideline{}, idKey, refs("player_id", entity.Players, "type_id", entity.SidelineTypes, "team_id", entity.Teams)),
		describe(fixture.FixtureSideline{}, idKey, refs("fixture_id", entity.Fixtures, "sideline_id", entity.Sidelines)),
		describe(fixture.WeatherReport{}, idKey, refs("fixture_id", entity.Fixtures, "venue_id", entity.Venues)),

		describe(standing.Standing{}, []string{"season_id", "stage_id", "team_id"},
			required("season_id", "team_id"),
			clearable("season_id"),
			refs("season_id", entity.Seasons, "team_id", entity.Teams),
		),
		describe(market.Bookmaker{}, idKey),
		describe(market.Market{}, idKey),
		describe(market.Odd{}, []string{"fixture_id", "bookmaker_id", "market_id", "outcome"},
			clearable("fixture_id"),
			refs("fixture_id", entity.Fixtures, "bookmaker_id", entity.Bookmakers, "market_id", entity.Markets),
		),
		describe(market.Prediction{}, []string{"fixture_id"}, refs("fixture_id", entity.Fixtures)),
		describe(squad.Member{}, []string{"team_id", "season_id", "player_id"},
			refs("team_id", entity.Teams, "season_id", entity.Seasons, "player_id", entity.Players),
		),
		describe(squad.PlayerSeasonStat{}, []string{"player_id", "season_id", "stat_type_id"},
			refs("player_id", entity.Players, "stat_type_id", entity.StatTypes),
		),
		describe(squad.TopPerformer{}, []string{"season_id", "category", "player_id"},
			refs("player_id", entity.Players, "team_id", entity.Teams),
		),
		describe(watermark.Entry{}, []string{"key"}),
	)
}
