package sportmonks

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/football-etl/internal/domain/standing"
)

func (Decoder) DecodeStandings(seasonID int64, items []json.RawMessage) (standing.Document, error) {
	return DecodeStandings(seasonID, items)
}

// DecodeStandings maps a season's standings feed. Rows nested under stage
// or group wrappers are flattened; totals come from v3 details when present
// and from the legacy overall block otherwise.
func DecodeStandings(seasonID int64, items []json.RawMessage) (standing.Document, error) {
	doc := standing.Document{SeasonID: seasonID}

	rows, err := collectStandingRows("standings", items)
	if err != nil {
		return doc, err
	}
	seen := make(map[[3]int64]int, len(rows))
	for _, row := range rows {
		entry, err := decodeStandingRow(seasonID, row.path, row.raw)
		if err != nil {
			return doc, err
		}
		key := [3]int64{entry.Standing.SeasonID, entry.Standing.StageID, entry.Standing.TeamID}
		if idx, ok := seen[key]; ok && entry.Standing.TeamID != 0 {
			doc.Entries[idx] = entry
			continue
		}
		seen[key] = len(doc.Entries)
		doc.Entries = append(doc.Entries, entry)
	}
	return doc, nil
}

type standingRow struct {
	path string
	raw  json.RawMessage
}

// collectStandingRows unwraps {"standings": [...]} groupings down to team
// rows. A row is any object carrying a participant or team reference.
func collectStandingRows(path string, items []json.RawMessage) ([]standingRow, error) {
	var out []standingRow
	for i, item := range items {
		itemPath := indexPath(path, i)
		n, err := parseNode(itemPath, item)
		if err != nil {
			return nil, err
		}
		if isStandingRow(n) {
			out = append(out, standingRow{path: itemPath, raw: item})
			continue
		}
		nested, err := n.list(itemPath, "standings")
		if err != nil {
			return nil, err
		}
		rows, err := collectStandingRows(joinPath(itemPath, "standings"), nested)
		if err != nil {
			return nil, err
		}
		out = append(out, rows...)
	}
	return out, nil
}

func isStandingRow(n node) bool {
	return n.has("participant_id") || n.has("team_id") || n.has("participant") || n.has("team")
}

type standingFields struct {
	ParticipantID optInt    `json:"participant_id"`
	TeamID        optInt    `json:"team_id"`
	LeagueID      optInt    `json:"league_id"`
	SeasonID      optInt    `json:"season_id"`
	StageID       optInt    `json:"stage_id"`
	GroupID       optInt    `json:"group_id"`
	RoundID       optInt    `json:"round_id"`
	Position      optInt    `json:"position"`
	Points        optInt    `json:"points"`
	Result        optString `json:"result"`
}

type standingOverall struct {
	GamesPlayed    optInt `json:"games_played"`
	Won            optInt `json:"won"`
	Draw           optInt `json:"draw"`
	Lost           optInt `json:"lost"`
	GoalsScored    optInt `json:"goals_scored"`
	GoalsAgainst   optInt `json:"goals_against"`
	GoalDifference optInt `json:"goal_difference"`
	Points         optInt `json:"points"`
}

type standingDetailFields struct {
	TypeID optInt          `json:"type_id"`
	Value  json.RawMessage `json:"value"`
	Total  json.RawMessage `json:"total"`
}

func decodeStandingRow(seasonID int64, path string, raw []byte) (standing.Entry, error) {
	var entry standing.Entry

	n, err := parseNode(path, raw)
	if err != nil {
		return entry, err
	}
	var f standingFields
	if err := decodeInto(path, raw, &f); err != nil {
		return entry, err
	}

	teamKey := n.first("participant", "team")
	team, err := decodeObject[teamFields](n, path, teamKey)
	if err != nil {
		return entry, err
	}

	row := standing.Standing{
		SeasonID: orID(f.SeasonID, seasonID),
		StageID:  f.StageID.ID(),
		TeamID:   f.ParticipantID.ID(),
		LeagueID: f.LeagueID.Ptr(),
		GroupID:  f.GroupID.Ptr(),
		RoundID:  f.RoundID.Ptr(),
		Position: f.Position.Ptr(),
		Points:   f.Points.Ptr(),
		Result:   f.Result.Ptr(),
	}
	if row.TeamID == 0 {
		row.TeamID = f.TeamID.ID()
	}
	if team != nil {
		rec := team.record()
		entry.Team = &rec
		if row.TeamID == 0 {
			row.TeamID = rec.ID
		}
	}

	metrics := newStandingMetrics()
	if n.has("details") {
		details, err := n.list(path, "details")
		if err != nil {
			return entry, err
		}
		for i, item := range details {
			if err := metrics.applyDetail(indexPath(joinPath(path, "details"), i), item); err != nil {
				return entry, err
			}
		}
	}
	overall, err := decodeObject[standingOverall](n, path, "overall")
	if err != nil {
		return entry, err
	}
	if overall != nil {
		metrics.applyOverall(*overall)
	}
	metrics.fill(&row)

	entry.Standing = row
	return entry, nil
}

const (
	metricPlayed         = "played"
	metricWon            = "won"
	metricDraw           = "draw"
	metricLost           = "lost"
	metricGoalsFor       = "goals_for"
	metricGoalsAgainst   = "goals_against"
	metricGoalDifference = "goal_difference"
	metricPoints         = "points"
)

var standingMetricTypeByID = map[int64]string{
	117: metricGoalsFor,
	118: metricGoalsAgainst,
	119: metricPlayed,
	120: metricPlayed,
	121: metricWon,
	122: metricWon,
	123: metricDraw,
	124: metricDraw,
	125: metricLost,
	126: metricLost,
	127: metricPoints,
	128: metricPoints,
	129: metricPlayed,
	130: metricWon,
	131: metricDraw,
	132: metricLost,
	133: metricGoalsFor,
	134: metricGoalsAgainst,
	179: metricGoalDifference,
	187: metricPoints,
}

// standingMetrics collects table totals from detail rows that may repeat a
// metric for home, away and overall scopes. Overall scopes win; within the
// same scope the larger magnitude wins.
type standingMetrics struct {
	values   map[string]int64
	priority map[string]int
}

func newStandingMetrics() *standingMetrics {
	return &standingMetrics{values: map[string]int64{}, priority: map[string]int{}}
}

func (m *standingMetrics) applyDetail(path string, raw []byte) error {
	n, err := parseNode(path, raw)
	if err != nil {
		return err
	}
	var f standingDetailFields
	if err := decodeInto(path, raw, &f); err != nil {
		return err
	}
	typ, err := decodeObject[typeFields](n, path, "type")
	if err != nil {
		return err
	}

	candidate := ""
	typeID := f.TypeID.ID()
	if typ != nil {
		candidate = normalizeStandingDetailType(firstNonEmpty(typ.DeveloperName.Value, typ.Code.Value, typ.Name.Value))
		if typeID == 0 {
			typeID = typ.ID.ID()
		}
	}
	if strings.Contains(candidate, "percent") || strings.Contains(candidate, "rate") {
		return nil
	}

	value := f.Value
	if isNull(bytes.TrimSpace(value)) {
		value = f.Total
	}
	numeric, ok := standingValue(value)
	if !ok {
		return nil
	}

	metric, ok := standingMetricFromType(typeID, candidate)
	if !ok {
		return nil
	}
	m.set(metric, numeric, standingMetricPriority(typeID, candidate))
	return nil
}

func (m *standingMetrics) applyOverall(o standingOverall) {
	for metric, v := range map[string]optInt{
		metricPlayed:         o.GamesPlayed,
		metricWon:            o.Won,
		metricDraw:           o.Draw,
		metricLost:           o.Lost,
		metricGoalsFor:       o.GoalsScored,
		metricGoalsAgainst:   o.GoalsAgainst,
		metricGoalDifference: o.GoalDifference,
		metricPoints:         o.Points,
	} {
		if v.Set {
			m.set(metric, v.Value, 3)
		}
	}
}

func (m *standingMetrics) set(metric string, value int64, priority int) {
	current, ok := m.priority[metric]
	switch {
	case !ok || priority > current:
		m.priority[metric] = priority
		m.values[metric] = value
	case priority == current && magnitude(value) > magnitude(m.values[metric]):
		m.values[metric] = value
	}
}

func (m *standingMetrics) fill(row *standing.Standing) {
	take := func(dst **int64, metric string) {
		if *dst != nil {
			return
		}
		if v, ok := m.values[metric]; ok {
			*dst = &v
		}
	}
	take(&row.Played, metricPlayed)
	take(&row.Won, metricWon)
	take(&row.Drawn, metricDraw)
	take(&row.Lost, metricLost)
	take(&row.GoalsFor, metricGoalsFor)
	take(&row.GoalsAgainst, metricGoalsAgainst)
	take(&row.GoalDifference, metricGoalDifference)
	take(&row.Points, metricPoints)

	if row.GoalDifference == nil && row.GoalsFor != nil && row.GoalsAgainst != nil {
		gd := *row.GoalsFor - *row.GoalsAgainst
		row.GoalDifference = &gd
	}
}

func normalizeStandingDetailType(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "_", " ")
	raw = strings.ReplaceAll(raw, "-", " ")
	return strings.Join(strings.Fields(raw), " ")
}

func standingMetricFromType(typeID int64, candidate string) (string, bool) {
	if metric, ok := standingMetricTypeByID[typeID]; ok {
		return metric, true
	}
	switch {
	case candidate == "":
		return "", false
	case strings.Contains(candidate, "goal difference"):
		return metricGoalDifference, true
	case strings.Contains(candidate, "goals against") || strings.Contains(candidate, "conceded"):
		return metricGoalsAgainst, true
	case strings.Contains(candidate, "goals for") || strings.Contains(candidate, "goals scored"):
		return metricGoalsFor, true
	case strings.Contains(candidate, "matches played") || strings.Contains(candidate, "games played") || candidate == "played":
		return metricPlayed, true
	case strings.Contains(candidate, "won") || candidate == "wins":
		return metricWon, true
	case strings.Contains(candidate, "draw"):
		return metricDraw, true
	case strings.Contains(candidate, "lost") || candidate == "losses":
		return metricLost, true
	case candidate == "points" || strings.HasSuffix(candidate, " points"):
		return metricPoints, true
	default:
		return "", false
	}
}

func standingMetricPriority(typeID int64, candidate string) int {
	switch typeID {
	case 129, 130, 131, 132, 133, 134, 179, 187:
		return 3
	case 117, 118, 119, 120, 121, 122, 123, 124, 125, 126, 127, 128:
		return 1
	}
	switch {
	case strings.Contains(candidate, "overall") || strings.Contains(candidate, "total"):
		return 3
	case strings.Contains(candidate, "home") || strings.Contains(candidate, "away"):
		return 1
	default:
		return 2
	}
}

// standingValue reads a detail value that is either a number or an object
// of totals such as {"total": 10} or {"home": 6, "away": 4}.
func standingValue(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if isNull(raw) {
		return 0, false
	}
	if raw[0] != '{' {
		var v optFloat
		if err := v.UnmarshalJSON(raw); err != nil || !v.Set {
			return 0, false
		}
		return int64(math.Round(v.Value)), true
	}

	var obj map[string]json.RawMessage
	if err := sonic.Unmarshal(raw, &obj); err != nil {
		return 0, false
	}
	for _, key := range []string{"total", "all", "overall", "value"} {
		if v, ok := standingValue(obj[key]); ok {
			return v, true
		}
	}
	home, homeOK := standingValue(obj["home"])
	away, awayOK := standingValue(obj["away"])
	if homeOK || awayOK {
		return home + away, true
	}
	return 0, false
}

func magnitude(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
