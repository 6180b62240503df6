package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
)

func openTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()

	store, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver:        sqlstore.DriverSQLite,
		URL:           filepath.Join(t.TempDir(), "football.db"),
		MigrateOnOpen: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func countRows(t *testing.T, store *sqlstore.Store, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, store.DB().Get(&n, store.DB().Rebind(query), args...))
	return n
}

func testLogger() *logging.Logger {
	return logging.NewNop()
}

// matchPayload builds a finished fixture between two teams with current
// scores, one goal event and one possession statistic.
func matchPayload(id, homeID, awayID int64, homeGoals, awayGoals int) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(`{
		"id": %[1]d, "league_id": 8, "season_id": 2024, "state_id": 5, "venue_id": 204,
		"name": "Match %[1]d", "starting_at": "2024-10-05 14:00:00",
		"league": {"id": 8, "name": "Premier League"},
		"venue": {"id": 204, "name": "Emirates Stadium"},
		"state": {"id": 5, "state": "FT", "developer_name": "FT"},
		"participants": [
			{"id": %[2]d, "name": "Home %[2]d", "meta": {"location": "home", "winner": true}},
			{"id": %[3]d, "name": "Away %[3]d", "meta": {"location": "away", "winner": false}}
		],
		"scores": [
			{"id": %[1]d1, "type_id": 1525, "participant_id": %[2]d, "score": {"goals": %[4]d, "participant": "home"}, "description": "CURRENT"},
			{"id": %[1]d2, "type_id": 1525, "participant_id": %[3]d, "score": {"goals": %[5]d, "participant": "away"}, "description": "CURRENT"}
		],
		"events": [
			{"id": %[1]d3, "participant_id": %[2]d, "minute": 10, "type": {"id": 14, "name": "Goal"}, "player": {"id": 7001, "name": "Scorer"}}
		],
		"statistics": [
			{"id": %[1]d4, "type_id": 45, "participant_id": %[2]d, "location": "home", "data": {"value": 55}, "type": {"id": 45, "name": "Ball Possession %%"}}
		]
	}`, id, homeID, awayID, homeGoals, awayGoals))
}

// withSection adds a top level key to a payload built by matchPayload.
func withSection(payload json.RawMessage, key, value string) json.RawMessage {
	trimmed := payload[:len(payload)-1]
	for len(trimmed) > 0 && (trimmed[len(trimmed)-1] == '\n' || trimmed[len(trimmed)-1] == '\t' || trimmed[len(trimmed)-1] == ' ') {
		trimmed = trimmed[:len(trimmed)-1]
	}
	return json.RawMessage(fmt.Sprintf(`%s, %q: %s}`, trimmed, key, value))
}
