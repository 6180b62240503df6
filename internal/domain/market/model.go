package market

import (
	"github.com/riskibarqy/football-etl/internal/domain/entity"
)

type Bookmaker struct {
	ID   int64   `db:"id"`
	Name *string `db:"name"`
	Logo *string `db:"logo"`
}

func (Bookmaker) EntityName() string { return entity.Bookmakers }

type Market struct {
	ID           int64   `db:"id"`
	Name         *string `db:"name"`
	OutcomeCount *int64  `db:"outcome_count"`
}

func (Market) EntityName() string { return entity.Markets }

// Odd is one priced outcome of a market offered by a bookmaker for a fixture.
type Odd struct {
	FixtureID   int64    `db:"fixture_id"`
	BookmakerID int64    `db:"bookmaker_id"`
	MarketID    int64    `db:"market_id"`
	Outcome     string   `db:"outcome"`
	OddValue    *float64 `db:"odd_value"`
	Probability *string  `db:"probability"`
	LastUpdated *string  `db:"last_updated"`
}

func (Odd) EntityName() string { return entity.Odds }

// Prediction stores the provider's full-time result probabilities, each in
// the range 0..1.
type Prediction struct {
	FixtureID int64    `db:"fixture_id"`
	ProbHome  *float64 `db:"prob_home"`
	ProbDraw  *float64 `db:"prob_draw"`
	ProbAway  *float64 `db:"prob_away"`
}

func (Prediction) EntityName() string { return entity.Predictions }

// OddsEntry groups the outcomes of one bookmaker market.
type OddsEntry struct {
	Bookmaker *Bookmaker
	Market    *Market
	Odds      []Odd
}

// OddsDocument holds every odd of one fixture. Existing odds of the fixture
// are cleared before these are written.
type OddsDocument struct {
	FixtureID int64
	Entries   []OddsEntry
}
