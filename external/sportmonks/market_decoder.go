package sportmonks

import (
	"encoding/json"
	"strings"

	"github.com/riskibarqy/football-etl/internal/domain/market"
)

func (Decoder) DecodeOdds(fixtureID int64, items []json.RawMessage) (market.OddsDocument, error) {
	return DecodeOdds(fixtureID, items)
}

func (Decoder) DecodePrediction(fixtureID int64, items []json.RawMessage) (market.Prediction, bool, error) {
	return DecodePrediction(fixtureID, items)
}

type oddFields struct {
	FixtureID             optInt    `json:"fixture_id"`
	BookmakerID           optInt    `json:"bookmaker_id"`
	MarketID              optInt    `json:"market_id"`
	Label                 optString `json:"label"`
	Name                  optString `json:"name"`
	Total                 optString `json:"total"`
	Handicap              optString `json:"handicap"`
	Value                 optFloat  `json:"value"`
	Probability           optString `json:"probability"`
	LatestBookmakerUpdate optString `json:"latest_bookmaker_update"`
	LastUpdated           optString `json:"last_updated"`
}

type outcomeFields struct {
	Name  optString `json:"name"`
	Label optString `json:"label"`
	Value optFloat  `json:"value"`
}

// DecodeOdds maps pre-match odds of one fixture. Both the flat v3 rows (one
// outcome per item) and the older grouped form with an outcomes list are
// accepted. Bookmaker and market stubs are emitted only when embedded.
func DecodeOdds(fixtureID int64, items []json.RawMessage) (market.OddsDocument, error) {
	doc := market.OddsDocument{FixtureID: fixtureID}
	for i, item := range items {
		path := indexPath("odds", i)
		n, err := parseNode(path, item)
		if err != nil {
			return doc, err
		}
		var f oddFields
		if err := decodeInto(path, item, &f); err != nil {
			return doc, err
		}

		entry := market.OddsEntry{}
		bookmaker, err := decodeObject[bookmakerFields](n, path, "bookmaker")
		if err != nil {
			return doc, err
		}
		if bookmaker != nil {
			rec := bookmaker.record()
			entry.Bookmaker = &rec
		}
		mkt, err := decodeObject[marketFields](n, path, "market")
		if err != nil {
			return doc, err
		}
		if mkt != nil {
			rec := mkt.record()
			entry.Market = &rec
		}

		base := market.Odd{
			FixtureID:   orID(f.FixtureID, fixtureID),
			BookmakerID: f.BookmakerID.ID(),
			MarketID:    f.MarketID.ID(),
			Probability: f.Probability.Ptr(),
			LastUpdated: f.LatestBookmakerUpdate.Ptr(),
		}
		if base.LastUpdated == nil {
			base.LastUpdated = f.LastUpdated.Ptr()
		}
		if base.BookmakerID == 0 && entry.Bookmaker != nil {
			base.BookmakerID = entry.Bookmaker.ID
		}
		if base.MarketID == 0 && entry.Market != nil {
			base.MarketID = entry.Market.ID
		}

		if n.has("outcomes") {
			outcomes, err := n.list(path, "outcomes")
			if err != nil {
				return doc, err
			}
			for j, raw := range outcomes {
				outPath := indexPath(joinPath(path, "outcomes"), j)
				if _, err := parseNode(outPath, raw); err != nil {
					return doc, err
				}
				var of outcomeFields
				if err := decodeInto(outPath, raw, &of); err != nil {
					return doc, err
				}
				odd := base
				odd.Outcome = strings.TrimSpace(firstNonEmpty(of.Name.Value, of.Label.Value))
				odd.OddValue = of.Value.Ptr()
				entry.Odds = append(entry.Odds, odd)
			}
		} else {
			odd := base
			odd.Outcome = outcomeLabel(f)
			odd.OddValue = f.Value.Ptr()
			entry.Odds = append(entry.Odds, odd)
		}

		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

// outcomeLabel keeps lines apart within one market: "Over 2.5" and
// "Over 3.5" are distinct outcomes of the same over/under market.
func outcomeLabel(f oddFields) string {
	label := strings.TrimSpace(firstNonEmpty(f.Label.Value, f.Name.Value))
	line := strings.TrimSpace(firstNonEmpty(f.Total.Value, f.Handicap.Value))
	if line == "" || strings.Contains(label, line) {
		return label
	}
	if label == "" {
		return line
	}
	return label + " " + line
}

type predictionFields struct {
	FixtureID optInt `json:"fixture_id"`
	TypeID    optInt `json:"type_id"`
}

type predictionValues struct {
	Home optFloat `json:"home"`
	Draw optFloat `json:"draw"`
	Away optFloat `json:"away"`
}

// fullTimeResultTypeID is the v3 prediction type for home/draw/away
// probabilities.
const fullTimeResultTypeID = 237

// DecodePrediction picks the full-time result probabilities from a fixture's
// predictions feed. ok is false when the feed carries none. Percentages are
// scaled to 0..1.
func DecodePrediction(fixtureID int64, items []json.RawMessage) (market.Prediction, bool, error) {
	var fallback *market.Prediction
	for i, item := range items {
		path := indexPath("predictions", i)
		n, err := parseNode(path, item)
		if err != nil {
			return market.Prediction{}, false, err
		}
		var f predictionFields
		if err := decodeInto(path, item, &f); err != nil {
			return market.Prediction{}, false, err
		}
		values, err := decodeObject[predictionValues](n, path, "predictions")
		if err != nil {
			return market.Prediction{}, false, err
		}
		if values == nil || (!values.Home.Set && !values.Draw.Set && !values.Away.Set) {
			continue
		}
		typ, err := decodeObject[typeFields](n, path, "type")
		if err != nil {
			return market.Prediction{}, false, err
		}

		prediction := market.Prediction{
			FixtureID: orID(f.FixtureID, fixtureID),
			ProbHome:  values.Home.Ptr(),
			ProbDraw:  values.Draw.Ptr(),
			ProbAway:  values.Away.Ptr(),
		}
		normalizeProbabilities(&prediction)

		if isFullTimeResult(f.TypeID.ID(), typ) {
			return prediction, true, nil
		}
		if fallback == nil {
			fallback = &prediction
		}
	}
	if fallback == nil {
		return market.Prediction{}, false, nil
	}
	return *fallback, true, nil
}

func isFullTimeResult(typeID int64, typ *typeFields) bool {
	if typeID == fullTimeResultTypeID {
		return true
	}
	if typ == nil {
		return false
	}
	if typ.ID.ID() == fullTimeResultTypeID {
		return true
	}
	name := strings.ToUpper(firstNonEmpty(typ.DeveloperName.Value, typ.Code.Value))
	return strings.Contains(name, "FULLTIME_RESULT") || strings.Contains(name, "FULLTIME-RESULT")
}

func normalizeProbabilities(p *market.Prediction) {
	fields := []*float64{p.ProbHome, p.ProbDraw, p.ProbAway}
	percent := false
	for _, v := range fields {
		if v != nil && *v > 1 {
			percent = true
		}
	}
	if !percent {
		return
	}
	for _, v := range fields {
		if v != nil {
			*v /= 100
		}
	}
}
