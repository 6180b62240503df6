package sportmonks

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

const (
	// IncludeFixtureDetail pulls every section the fixture ingestor writes.
	IncludeFixtureDetail = "participants;league;venue;state;scores;events.type;events.period;events.player;" +
		"statistics.type;sidelined.sideline.player;sidelined.sideline.type;weatherReport"
	includeStanding    = "participant;details.type"
	includeTopScorer   = "player;type"
	includeSquad       = "player;details.type"
	includeOdds        = "bookmaker;market"
	includePredictions = "type"

	fixtureIDChunkSize = 50
	fixtureRangeDays   = 100
	providerDateLayout = "2006-01-02"
)

// ReferenceTypes names the /core/types feed, which fans out into the event,
// statistic and sideline type tables.
const ReferenceTypes = "types"

var referencePaths = map[string]string{
	entity.Continents: "/core/continents",
	entity.Countries:  "/core/countries",
	entity.Regions:    "/core/regions",
	entity.Cities:     "/core/cities",
	ReferenceTypes:    "/core/types",
	entity.States:     "/football/states",
	entity.Venues:     "/football/venues",
	entity.Leagues:    "/football/leagues",
	entity.Seasons:    "/football/seasons",
	entity.Stages:     "/football/stages",
	entity.Rounds:     "/football/rounds",
	entity.Teams:      "/football/teams",
	entity.Players:    "/football/players",
	entity.Bookmakers: "/odds/bookmakers",
	entity.Markets:    "/odds/markets",
}

// ReferenceKinds lists the reference feeds in dependency order.
func ReferenceKinds() []string {
	return []string{
		entity.Continents,
		entity.Countries,
		entity.Regions,
		entity.Cities,
		ReferenceTypes,
		entity.States,
		entity.Venues,
		entity.Leagues,
		entity.Seasons,
		entity.Stages,
		entity.Rounds,
		entity.Teams,
		entity.Players,
		entity.Bookmakers,
		entity.Markets,
	}
}

// FetchFixturesBetween returns detailed fixture payloads starting within
// [from, to]. Ranges longer than the provider's window are split.
func (c *Client) FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	if to.Before(from) {
		return nil, crerr.Newf("invalid fixture range %s..%s", from.Format(providerDateLayout), to.Format(providerDateLayout))
	}

	var out []json.RawMessage
	for start := from; !start.After(to); start = start.AddDate(0, 0, fixtureRangeDays) {
		end := start.AddDate(0, 0, fixtureRangeDays-1)
		if end.After(to) {
			end = to
		}
		path := "/football/fixtures/between/" + start.Format(providerDateLayout) + "/" + end.Format(providerDateLayout)
		items, err := c.FetchPaged(ctx, path, map[string]string{"include": IncludeFixtureDetail})
		if err != nil {
			return nil, crerr.Wrapf(err, "fetch fixtures between %s and %s", start.Format(providerDateLayout), end.Format(providerDateLayout))
		}
		out = append(out, items...)
	}
	return out, nil
}

// FetchFixturesByIDs fetches detailed fixtures through the multi endpoint in
// chunks the provider accepts.
func (c *Client) FetchFixturesByIDs(ctx context.Context, ids []int64) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for start := 0; start < len(ids); start += fixtureIDChunkSize {
		end := min(start+fixtureIDChunkSize, len(ids))
		parts := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		items, err := c.FetchPaged(ctx, "/football/fixtures/multi/"+strings.Join(parts, ","), map[string]string{"include": IncludeFixtureDetail})
		if err != nil {
			return nil, crerr.Wrapf(err, "fetch fixtures chunk %d", start/fixtureIDChunkSize)
		}
		out = append(out, items...)
	}
	return out, nil
}

func (c *Client) FetchFixture(ctx context.Context, fixtureID int64) (json.RawMessage, error) {
	raw, err := c.FetchOne(ctx, "/football/fixtures/"+strconv.FormatInt(fixtureID, 10), map[string]string{"include": IncludeFixtureDetail})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch fixture %d", fixtureID)
	}
	return raw, nil
}

// FetchReference pages through one reference feed. kind is an entity name
// from ReferenceKinds.
func (c *Client) FetchReference(ctx context.Context, kind string) ([]json.RawMessage, error) {
	path, ok := referencePaths[kind]
	if !ok {
		return nil, crerr.Newf("unknown reference kind %q", kind)
	}
	items, err := c.FetchPaged(ctx, path, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch %s", kind)
	}
	return items, nil
}

func (c *Client) FetchStandings(ctx context.Context, seasonID int64) ([]json.RawMessage, error) {
	items, err := c.FetchPaged(ctx, "/football/standings/seasons/"+strconv.FormatInt(seasonID, 10), map[string]string{"include": includeStanding})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch standings for season %d", seasonID)
	}
	return items, nil
}

func (c *Client) FetchTopScorers(ctx context.Context, seasonID int64) ([]json.RawMessage, error) {
	items, err := c.FetchPaged(ctx, "/football/topscorers/seasons/"+strconv.FormatInt(seasonID, 10), map[string]string{"include": includeTopScorer})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch top scorers for season %d", seasonID)
	}
	return items, nil
}

func (c *Client) FetchSquad(ctx context.Context, seasonID, teamID int64) ([]json.RawMessage, error) {
	path := "/football/squads/seasons/" + strconv.FormatInt(seasonID, 10) + "/teams/" + strconv.FormatInt(teamID, 10)
	items, err := c.FetchPaged(ctx, path, map[string]string{"include": includeSquad})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch squad for team %d season %d", teamID, seasonID)
	}
	return items, nil
}

func (c *Client) FetchOdds(ctx context.Context, fixtureID int64) ([]json.RawMessage, error) {
	items, err := c.FetchPaged(ctx, "/football/odds/pre-match/fixtures/"+strconv.FormatInt(fixtureID, 10), map[string]string{"include": includeOdds})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch odds for fixture %d", fixtureID)
	}
	return items, nil
}

func (c *Client) FetchPredictions(ctx context.Context, fixtureID int64) ([]json.RawMessage, error) {
	items, err := c.FetchPaged(ctx, "/football/predictions/probabilities/fixtures/"+strconv.FormatInt(fixtureID, 10), map[string]string{"include": includePredictions})
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch predictions for fixture %d", fixtureID)
	}
	return items, nil
}
