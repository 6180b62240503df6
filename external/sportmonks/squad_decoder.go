package sportmonks

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/football-etl/internal/domain/reference"
	"github.com/riskibarqy/football-etl/internal/domain/squad"
)

func (Decoder) DecodeSquad(teamID, seasonID int64, items []json.RawMessage) (squad.Document, error) {
	return DecodeSquad(teamID, seasonID, items)
}

func (Decoder) DecodeTopPerformers(seasonID int64, fallbackCategory string, items []json.RawMessage) ([]squad.TopPerformersDocument, error) {
	return DecodeTopPerformers(seasonID, fallbackCategory, items)
}

type squadMemberFields struct {
	PlayerID     optInt  `json:"player_id"`
	TeamID       optInt  `json:"team_id"`
	SeasonID     optInt  `json:"season_id"`
	JerseyNumber optInt  `json:"jersey_number"`
	OnLoan       optBool `json:"on_loan"`
}

type seasonStatFields struct {
	TypeID   optInt          `json:"type_id"`
	SeasonID optInt          `json:"season_id"`
	Value    json.RawMessage `json:"value"`
}

// DecodeSquad maps a team's squad for one season. Per-player season totals
// come from the v3 details list or, in older payloads, from
// player.statistics.
func DecodeSquad(teamID, seasonID int64, items []json.RawMessage) (squad.Document, error) {
	doc := squad.Document{TeamID: teamID, SeasonID: seasonID}
	for i, item := range items {
		path := indexPath("squad", i)
		n, err := parseNode(path, item)
		if err != nil {
			return doc, err
		}
		var f squadMemberFields
		if err := decodeInto(path, item, &f); err != nil {
			return doc, err
		}

		entry := squad.MemberEntry{Member: squad.Member{
			TeamID:       orID(f.TeamID, teamID),
			SeasonID:     orID(f.SeasonID, seasonID),
			PlayerID:     f.PlayerID.ID(),
			JerseyNumber: f.JerseyNumber.Ptr(),
			OnLoan:       f.OnLoan.Ptr(),
		}}

		playerNode, hasPlayer, err := n.object(path, "player")
		if err != nil {
			return doc, err
		}
		var statItems []json.RawMessage
		statPath := joinPath(path, "details")
		if hasPlayer {
			playerPath := joinPath(path, "player")
			var pf playerFields
			if err := playerNode.into(playerPath, &pf); err != nil {
				return doc, err
			}
			rec := pf.record()
			entry.Player = &rec
			if entry.Member.PlayerID == 0 {
				entry.Member.PlayerID = rec.ID
			}
			if !n.has("details") {
				statItems, err = playerNode.list(playerPath, "statistics")
				if err != nil {
					return doc, err
				}
				statPath = joinPath(playerPath, "statistics")
			}
		}
		if n.has("details") {
			statItems, err = n.list(path, "details")
			if err != nil {
				return doc, err
			}
		}

		for j, raw := range statItems {
			stat, err := decodeSeasonStat(indexPath(statPath, j), raw, entry.Member)
			if err != nil {
				return doc, err
			}
			if stat != nil {
				entry.Stats = append(entry.Stats, *stat)
			}
		}

		doc.Members = append(doc.Members, entry)
	}
	return doc, nil
}

func decodeSeasonStat(path string, raw []byte, member squad.Member) (*squad.StatEntry, error) {
	n, err := parseNode(path, raw)
	if err != nil {
		return nil, err
	}
	var f seasonStatFields
	if err := decodeInto(path, raw, &f); err != nil {
		return nil, err
	}
	typ, err := decodeObject[typeFields](n, path, "type")
	if err != nil {
		return nil, err
	}
	entry := squad.StatEntry{Stat: squad.PlayerSeasonStat{
		PlayerID:   member.PlayerID,
		SeasonID:   orID(f.SeasonID, member.SeasonID),
		StatTypeID: f.TypeID.ID(),
	}}
	if typ != nil {
		rec := typ.record(reference.TypeKindStat)
		entry.Type = &rec
		if entry.Stat.StatTypeID == 0 {
			entry.Stat.StatTypeID = rec.ID
		}
	}
	if v, ok := statValue(f.Value); ok {
		entry.Stat.Value = &v
	}
	return &entry, nil
}

// statValue reads a season total that is a number or an object such as
// {"total": 12} or {"all": {"count": 3}}.
func statValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0, false
	}
	if raw[0] != '{' {
		var v optFloat
		if err := v.UnmarshalJSON(raw); err != nil || !v.Set {
			return 0, false
		}
		return v.Value, true
	}
	var obj map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &obj); err != nil {
		return 0, false
	}
	for _, key := range []string{"total", "all", "count", "value", "average"} {
		if v, ok := statValue(obj[key]); ok {
			return v, true
		}
	}
	return 0, false
}

type performerFields struct {
	PlayerID      optInt   `json:"player_id"`
	ParticipantID optInt   `json:"participant_id"`
	TeamID        optInt   `json:"team_id"`
	SeasonID      optInt   `json:"season_id"`
	TypeID        optInt   `json:"type_id"`
	Position      optInt   `json:"position"`
	Total         optFloat `json:"total"`
	Goals         optFloat `json:"goals"`
	Assists       optFloat `json:"assists"`
	Cards         optFloat `json:"cards"`
}

// topScorerCategoryByType maps v3 top scorer types to category names.
var topScorerCategoryByType = map[int64]string{
	208: "goals",
	209: "assists",
	83:  "redcards",
	84:  "yellowcards",
}

// DecodeTopPerformers groups a season's top scorer feed by category. v3
// rows carry their category as a type; older per-category lists use
// fallbackCategory and rank by list order.
func DecodeTopPerformers(seasonID int64, fallbackCategory string, items []json.RawMessage) ([]squad.TopPerformersDocument, error) {
	var out []squad.TopPerformersDocument
	index := map[string]int{}
	for i, item := range items {
		path := indexPath("topscorers", i)
		n, err := parseNode(path, item)
		if err != nil {
			return nil, err
		}
		var f performerFields
		if err := decodeInto(path, item, &f); err != nil {
			return nil, err
		}
		typ, err := decodeObject[typeFields](n, path, "type")
		if err != nil {
			return nil, err
		}
		player, err := decodeObject[playerFields](n, path, "player")
		if err != nil {
			return nil, err
		}

		category := performerCategory(f.TypeID.ID(), typ, fallbackCategory)
		idx, ok := index[category]
		if !ok {
			idx = len(out)
			index[category] = idx
			out = append(out, squad.TopPerformersDocument{SeasonID: seasonID, Category: category})
		}
		doc := &out[idx]

		entry := squad.PerformerEntry{Performer: squad.TopPerformer{
			SeasonID: orID(f.SeasonID, seasonID),
			Category: category,
			PlayerID: f.PlayerID.ID(),
			TeamID:   f.ParticipantID.Ptr(),
			Value:    performerValue(f, category),
			Rank:     f.Position.Ptr(),
		}}
		if entry.Performer.TeamID == nil {
			entry.Performer.TeamID = f.TeamID.Ptr()
		}
		if entry.Performer.Rank == nil {
			rank := int64(len(doc.Entries) + 1)
			entry.Performer.Rank = &rank
		}
		if player != nil {
			rec := player.record()
			entry.Player = &rec
			if entry.Performer.PlayerID == 0 {
				entry.Performer.PlayerID = rec.ID
			}
		}
		doc.Entries = append(doc.Entries, entry)
	}
	return out, nil
}

func performerCategory(typeID int64, typ *typeFields, fallback string) string {
	if typ != nil && typeID == 0 {
		typeID = typ.ID.ID()
	}
	if category, ok := topScorerCategoryByType[typeID]; ok {
		return category
	}
	if typ != nil {
		name := strings.ToUpper(firstNonEmpty(typ.DeveloperName.Value, typ.Code.Value, typ.Name.Value))
		switch {
		case strings.Contains(name, "GOAL"):
			return "goals"
		case strings.Contains(name, "ASSIST"):
			return "assists"
		case strings.Contains(name, "RED"):
			return "redcards"
		case strings.Contains(name, "YELLOW"), strings.Contains(name, "CARD"):
			return "yellowcards"
		case name != "":
			return strings.ToLower(name)
		}
	}
	if fallback = strings.TrimSpace(fallback); fallback != "" {
		return fallback
	}
	if typeID != 0 {
		return "type_" + strconv.FormatInt(typeID, 10)
	}
	return "goals"
}

func performerValue(f performerFields, category string) *float64 {
	if f.Total.Set {
		return f.Total.Ptr()
	}
	switch category {
	case "goals":
		return f.Goals.Ptr()
	case "assists":
		return f.Assists.Ptr()
	case "cards", "yellowcards", "redcards":
		return f.Cards.Ptr()
	default:
		return nil
	}
}
