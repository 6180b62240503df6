package sportmonks

import (
	"encoding/json"
	"strings"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
)

func (Decoder) DecodeReference(kind string, items []json.RawMessage) ([]entity.Record, error) {
	return DecodeReference(kind, items)
}

// DecodeReference maps the items of one reference feed to records in write
// order. Venues emit their embedded city first; rows of the types feed are
// routed to their table by model_type.
func DecodeReference(kind string, items []json.RawMessage) ([]entity.Record, error) {
	out := make([]entity.Record, 0, len(items))
	for i, item := range items {
		path := indexPath(kind, i)
		records, err := decodeReferenceItem(kind, path, item)
		if err != nil {
			return nil, err
		}
		out = append(out, records...)
	}
	return out, nil
}

func decodeReferenceItem(kind, path string, raw []byte) ([]entity.Record, error) {
	switch kind {
	case entity.Continents:
		return decodeOne[continentFields](path, raw, continentFields.record)
	case entity.Countries:
		return decodeOne[countryFields](path, raw, countryFields.record)
	case entity.Regions:
		return decodeOne[regionFields](path, raw, regionFields.record)
	case entity.Cities:
		return decodeOne[cityFields](path, raw, cityFields.record)
	case entity.States:
		return decodeOne[stateFields](path, raw, stateFields.record)
	case entity.Venues:
		return decodeVenue(path, raw)
	case entity.Leagues:
		return decodeOne[leagueFields](path, raw, leagueFields.record)
	case entity.Seasons:
		return decodeOne[seasonFields](path, raw, seasonFields.record)
	case entity.Stages:
		return decodeOne[stageFields](path, raw, stageFields.record)
	case entity.Rounds:
		return decodeOne[roundFields](path, raw, roundFields.record)
	case entity.Teams:
		return decodeOne[teamFields](path, raw, teamFields.record)
	case entity.Players:
		return decodeOne[playerFields](path, raw, playerFields.record)
	case entity.Bookmakers:
		return decodeOne[bookmakerFields](path, raw, bookmakerFields.record)
	case entity.Markets:
		return decodeOne[marketFields](path, raw, marketFields.record)
	case ReferenceTypes, entity.EventTypes, entity.StatTypes, entity.SidelineTypes:
		if _, err := parseNode(path, raw); err != nil {
			return nil, err
		}
		var f typeFields
		if err := decodeInto(path, raw, &f); err != nil {
			return nil, err
		}
		return []entity.Record{f.record(typeKindFor(kind, f.ModelType.Value))}, nil
	default:
		return nil, crerr.Newf("unknown reference kind %q", kind)
	}
}

func decodeOne[F any, R entity.Record](path string, raw []byte, mapFn func(F) R) ([]entity.Record, error) {
	if _, err := parseNode(path, raw); err != nil {
		return nil, err
	}
	var f F
	if err := decodeInto(path, raw, &f); err != nil {
		return nil, err
	}
	return []entity.Record{mapFn(f)}, nil
}

func decodeVenue(path string, raw []byte) ([]entity.Record, error) {
	n, err := parseNode(path, raw)
	if err != nil {
		return nil, err
	}
	var f venueFields
	if err := decodeInto(path, raw, &f); err != nil {
		return nil, err
	}
	venue := f.record()

	city, err := decodeObject[cityFields](n, path, "city")
	if err != nil {
		return nil, err
	}
	if city == nil {
		return []entity.Record{venue}, nil
	}
	cityRecord := city.record()
	venue.CityID = fillID(venue.CityID, cityRecord.ID)
	if venue.CityName == nil {
		venue.CityName = cityRecord.Name
	}
	return []entity.Record{cityRecord, venue}, nil
}

func typeKindFor(kind, modelType string) reference.TypeKind {
	switch kind {
	case entity.EventTypes:
		return kindForModel("event")
	case entity.SidelineTypes:
		return kindForModel("sideline")
	case entity.StatTypes:
		return kindForModel("statistic")
	default:
		return kindForModel(strings.ToLower(strings.TrimSpace(modelType)))
	}
}
