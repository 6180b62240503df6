package usecase

import (
	"context"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

// FixtureOutcome reports what one fixture write did.
type FixtureOutcome struct {
	FixtureID int64           `json:"fixture_id"`
	Written   int             `json:"written"`
	Skipped   []SkippedRecord `json:"skipped,omitempty"`
}

// FixtureIngestor writes one decoded fixture and everything embedded in it
// inside a single transaction.
type FixtureIngestor struct {
	tx     entity.TxRunner
	logger *logging.Logger
}

func NewFixtureIngestor(tx entity.TxRunner, logger *logging.Logger) *FixtureIngestor {
	if logger == nil {
		logger = logging.Default()
	}
	return &FixtureIngestor{tx: tx, logger: logger}
}

// Apply writes doc in dependency order: reference stubs, the fixture row,
// participant links, scores, events, statistics, sidelines and weather.
// Sub-records without identity are skipped along with their dependents. Any
// other error rolls the whole fixture back.
func (s *FixtureIngestor) Apply(ctx context.Context, doc fixture.Document) (_ FixtureOutcome, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureIngestor.Apply")
	defer func() { endSpan(span, err) }()

	fixtureID := doc.Fixture.ID
	outcome := FixtureOutcome{FixtureID: fixtureID}
	if fixtureID == 0 {
		return outcome, entity.NewMissingKey(entity.Fixtures, "id")
	}

	var applied *recordApplier
	err = s.tx.WithinTx(ctx, func(ctx context.Context, w entity.Writer) error {
		applied = newRecordApplier(w, fixtureID, s.logger)
		return applyFixtureDocument(ctx, applied, doc)
	})
	if err != nil {
		return outcome, crerr.Wrapf(err, "ingest fixture id=%d", fixtureID)
	}

	outcome.Written = applied.written
	outcome.Skipped = applied.skipped
	return outcome, nil
}

func applyFixtureDocument(ctx context.Context, a *recordApplier, doc fixture.Document) error {
	if _, err := putOptional(ctx, a, doc.League); err != nil {
		return err
	}
	if _, err := putOptional(ctx, a, doc.Venue); err != nil {
		return err
	}
	if _, err := putOptional(ctx, a, doc.State); err != nil {
		return err
	}
	teamWritten := make([]bool, len(doc.Participants))
	for i, p := range doc.Participants {
		ok, err := a.put(ctx, p.Team)
		if err != nil {
			return err
		}
		teamWritten[i] = ok
	}

	// The fixture id was checked before the transaction opened, so any error
	// here fails the fixture.
	if err := a.w.Upsert(ctx, doc.Fixture); err != nil {
		return err
	}
	a.written++

	for i, p := range doc.Participants {
		if _, err := a.putIf(ctx, teamWritten[i], p.Link); err != nil {
			return err
		}
	}

	for _, score := range doc.Scores {
		if _, err := a.put(ctx, score); err != nil {
			return err
		}
	}

	for _, e := range doc.Events {
		typeOK, err := putOptional(ctx, a, e.Type)
		if err != nil {
			return err
		}
		periodOK, err := putOptional(ctx, a, e.Period)
		if err != nil {
			return err
		}
		playerOK, err := putOptional(ctx, a, e.Player)
		if err != nil {
			return err
		}
		if _, err := a.putIf(ctx, typeOK && periodOK && playerOK, e.Event); err != nil {
			return err
		}
	}

	for _, st := range doc.Statistics {
		typeOK, err := putOptional(ctx, a, st.Type)
		if err != nil {
			return err
		}
		if _, err := a.putIf(ctx, typeOK, st.Statistic); err != nil {
			return err
		}
	}

	for _, sd := range doc.Sidelines {
		typeOK, err := putOptional(ctx, a, sd.Type)
		if err != nil {
			return err
		}
		playerOK, err := putOptional(ctx, a, sd.Player)
		if err != nil {
			return err
		}
		sidelineOK := typeOK && playerOK
		if sd.Sideline != nil {
			sidelineOK, err = a.putIf(ctx, sidelineOK, *sd.Sideline)
			if err != nil {
				return err
			}
		}
		if _, err := a.putIf(ctx, sidelineOK, sd.Link); err != nil {
			return err
		}
	}

	if _, err := putOptional(ctx, a, doc.Weather); err != nil {
		return err
	}
	return nil
}
