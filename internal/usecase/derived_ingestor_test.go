package usecase

import (
	"context"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/domain/market"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
	"github.com/riskibarqy/football-etl/internal/domain/squad"
	"github.com/riskibarqy/football-etl/internal/domain/standing"
)

func ptr[T any](v T) *T {
	return &v
}

func TestDerivedIngestor_SquadCompositeKeyKeepsLastWrite(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ingestor := NewDerivedIngestor(store, testLogger())
	ctx := context.Background()

	for _, jersey := range []int64{7, 11} {
		_, err := ingestor.ApplySquad(ctx, squad.Document{
			TeamID:   10,
			SeasonID: 2024,
			Members: []squad.MemberEntry{{
				Player: &reference.Player{ID: 55, Name: ptr("Winger")},
				Member: squad.Member{TeamID: 10, SeasonID: 2024, PlayerID: 55, JerseyNumber: ptr(jersey)},
				Stats: []squad.StatEntry{{
					Type: &reference.Type{Kind: reference.TypeKindStat, ID: 52, Name: ptr("Goals")},
					Stat: squad.PlayerSeasonStat{PlayerID: 55, SeasonID: 2024, StatTypeID: 52, Value: ptr(float64(jersey))},
				}},
			}},
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 1, countRows(t, store, "SELECT COUNT(1) FROM team_squad WHERE team_id = ? AND season_id = ? AND player_id = ?", 10, 2024, 55))
	var jersey int64
	require.NoError(t, store.DB().Get(&jersey, store.DB().Rebind(
		"SELECT jersey_number FROM team_squad WHERE team_id = ? AND season_id = ? AND player_id = ?"), 10, 2024, 55))
	assert.Equal(t, int64(11), jersey)

	var value float64
	require.NoError(t, store.DB().Get(&value, store.DB().Rebind(
		"SELECT value FROM player_stat_detail WHERE player_id = ? AND season_id = ? AND stat_type_id = ?"), 55, 2024, 52))
	assert.Equal(t, 11.0, value)
}

func TestDerivedIngestor_SquadMemberWithoutPlayerIsSkipped(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	result, err := NewDerivedIngestor(store, testLogger()).ApplySquad(context.Background(), squad.Document{
		TeamID:   10,
		SeasonID: 2024,
		Members: []squad.MemberEntry{
			{Member: squad.Member{TeamID: 10, SeasonID: 2024}},
			{Member: squad.Member{TeamID: 10, SeasonID: 2024, PlayerID: 56}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "team_squad", result.Skipped[0].Entity)
}

func TestDerivedIngestor_ReplaceStandingsClearsSeason(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ingestor := NewDerivedIngestor(store, testLogger())
	ctx := context.Background()

	row := func(teamID, points int64) standing.Entry {
		return standing.Entry{
			Team:     &reference.Team{ID: teamID, Name: ptr("Team")},
			Standing: standing.Standing{SeasonID: 2024, StageID: 1, TeamID: teamID, Points: ptr(points)},
		}
	}

	_, err := ingestor.ReplaceStandings(ctx, standing.Document{SeasonID: 2024, Entries: []standing.Entry{row(1, 10), row(2, 9), row(3, 8)}})
	require.NoError(t, err)
	_, err = ingestor.ReplaceStandings(ctx, standing.Document{SeasonID: 2023, Entries: []standing.Entry{
		{Standing: standing.Standing{SeasonID: 2023, StageID: 1, TeamID: 1, Points: ptr(int64(50))}},
	}})
	require.NoError(t, err)

	result, err := ingestor.ReplaceStandings(ctx, standing.Document{SeasonID: 2024, Entries: []standing.Entry{row(1, 13), row(2, 12)}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Cleared)
	assert.Equal(t, 4, result.Written)

	assert.Equal(t, 2, countRows(t, store, "SELECT COUNT(1) FROM standings WHERE season_id = ?", 2024))
	assert.Equal(t, 1, countRows(t, store, "SELECT COUNT(1) FROM standings WHERE season_id = ?", 2023), "other seasons are kept")
	assert.Zero(t, countRows(t, store, "SELECT COUNT(1) FROM standings WHERE team_id = ? AND season_id = ?", 3, 2024))
}

func TestDerivedIngestor_ReplaceOddsClearsFixture(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ingestor := NewDerivedIngestor(store, testLogger())
	ctx := context.Background()

	doc := func(outcomes ...string) market.OddsDocument {
		entry := market.OddsEntry{
			Bookmaker: &market.Bookmaker{ID: 2, Name: ptr("bet365")},
			Market:    &market.Market{ID: 1, Name: ptr("Fulltime Result")},
		}
		for i, o := range outcomes {
			entry.Odds = append(entry.Odds, market.Odd{FixtureID: 77, BookmakerID: 2, MarketID: 1, Outcome: o, OddValue: ptr(1.5 + float64(i))})
		}
		return market.OddsDocument{FixtureID: 77, Entries: []market.OddsEntry{entry}}
	}

	_, err := ingestor.ReplaceOdds(ctx, doc("Home", "Draw", "Away"))
	require.NoError(t, err)
	result, err := ingestor.ReplaceOdds(ctx, doc("Home", "Away"))
	require.NoError(t, err)

	assert.Equal(t, int64(3), result.Cleared)
	assert.Equal(t, 2, countRows(t, store, "SELECT COUNT(1) FROM odds WHERE fixture_id = ?", 77))
	assert.Equal(t, 1, countRows(t, store, "SELECT COUNT(1) FROM bookmakers"))
}

func TestDerivedIngestor_ReplaysWithoutEmbeddedParents(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	_, err := store.DB().Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	ingestor := NewDerivedIngestor(store, testLogger())
	ctx := context.Background()

	result, err := ingestor.ReplaceStandings(ctx, standing.Document{SeasonID: 2024, Entries: []standing.Entry{
		{Standing: standing.Standing{SeasonID: 2024, StageID: 1, TeamID: 19, Points: ptr(int64(7))}},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written)

	result, err = ingestor.ReplaceOdds(ctx, market.OddsDocument{FixtureID: 77, Entries: []market.OddsEntry{{
		Odds: []market.Odd{{FixtureID: 77, BookmakerID: 2, MarketID: 1, Outcome: "Home", OddValue: ptr(1.8)}},
	}}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Written)

	assert.Zero(t, countRows(t, store, "SELECT COUNT(1) FROM teams"))
	assert.Zero(t, countRows(t, store, "SELECT COUNT(1) FROM bookmakers"))
}

func TestDerivedIngestor_PredictionOverwrites(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ingestor := NewDerivedIngestor(store, testLogger())
	ctx := context.Background()

	_, err := ingestor.ApplyPrediction(ctx, market.Prediction{FixtureID: 5, ProbHome: ptr(0.5), ProbDraw: ptr(0.3), ProbAway: ptr(0.2)})
	require.NoError(t, err)
	_, err = ingestor.ApplyPrediction(ctx, market.Prediction{FixtureID: 5, ProbHome: ptr(0.7)})
	require.NoError(t, err)

	var draw *float64
	require.NoError(t, store.DB().Get(&draw, store.DB().Rebind("SELECT prob_draw FROM predictions WHERE fixture_id = ?"), 5))
	assert.Nil(t, draw, "absent fields are written as NULL")
}

func TestDerivedIngestor_TopPerformers(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	result, err := NewDerivedIngestor(store, testLogger()).ApplyTopPerformers(context.Background(), []squad.TopPerformersDocument{{
		SeasonID: 2024,
		Category: "goals",
		Entries: []squad.PerformerEntry{
			{Player: &reference.Player{ID: 9, Name: ptr("Striker")}, Performer: squad.TopPerformer{SeasonID: 2024, Category: "goals", PlayerID: 9, Value: ptr(12.0), Rank: ptr(int64(1))}},
			{Performer: squad.TopPerformer{SeasonID: 2024, Category: "goals", PlayerID: 10, Rank: ptr(int64(2))}},
		},
	}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Written)
	assert.Equal(t, 2, countRows(t, store, "SELECT COUNT(1) FROM top_performers WHERE season_id = ? AND category = ?", 2024, "goals"))
}

func TestDerivedIngestor_RejectsMissingScope(t *testing.T) {
	t.Parallel()

	ingestor := NewDerivedIngestor(&txRunnerMock{}, testLogger())
	ctx := context.Background()

	_, err := ingestor.ReplaceStandings(ctx, standing.Document{})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	_, err = ingestor.ReplaceOdds(ctx, market.OddsDocument{})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	_, err = ingestor.ApplyPrediction(ctx, market.Prediction{})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	_, err = ingestor.ApplySquad(ctx, squad.Document{TeamID: 1})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	_, err = ingestor.ApplyTopPerformers(ctx, []squad.TopPerformersDocument{{SeasonID: 1}})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
}
