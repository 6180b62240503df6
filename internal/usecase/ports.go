package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/market"
	"github.com/riskibarqy/football-etl/internal/domain/squad"
	"github.com/riskibarqy/football-etl/internal/domain/standing"
)

// FixtureDecoder maps one raw fixture payload. On failure it still returns
// whatever fixture id it could read so the caller can report it.
type FixtureDecoder interface {
	DecodeFixture(raw []byte) (fixture.Document, error)
}

type ReferenceDecoder interface {
	DecodeReference(kind string, items []json.RawMessage) ([]entity.Record, error)
}

type DerivedDecoder interface {
	DecodeStandings(seasonID int64, items []json.RawMessage) (standing.Document, error)
	DecodeOdds(fixtureID int64, items []json.RawMessage) (market.OddsDocument, error)
	DecodePrediction(fixtureID int64, items []json.RawMessage) (market.Prediction, bool, error)
	DecodeSquad(teamID, seasonID int64, items []json.RawMessage) (squad.Document, error)
	DecodeTopPerformers(seasonID int64, fallbackCategory string, items []json.RawMessage) ([]squad.TopPerformersDocument, error)
}

// Decoder is the full payload mapping surface of a sport data provider.
type Decoder interface {
	FixtureDecoder
	ReferenceDecoder
	DerivedDecoder
}

// SportDataProvider fetches raw provider payloads. Retries and rate limits
// are handled by the implementation.
type SportDataProvider interface {
	FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]json.RawMessage, error)
	FetchFixturesByIDs(ctx context.Context, ids []int64) ([]json.RawMessage, error)
	FetchReference(ctx context.Context, kind string) ([]json.RawMessage, error)
	FetchStandings(ctx context.Context, seasonID int64) ([]json.RawMessage, error)
	FetchTopScorers(ctx context.Context, seasonID int64) ([]json.RawMessage, error)
	FetchSquad(ctx context.Context, seasonID, teamID int64) ([]json.RawMessage, error)
	FetchOdds(ctx context.Context, fixtureID int64) ([]json.RawMessage, error)
	FetchPredictions(ctx context.Context, fixtureID int64) ([]json.RawMessage, error)
}
