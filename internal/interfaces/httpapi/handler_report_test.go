package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/domain/report"
	"github.com/riskibarqy/football-etl/internal/platform/logging"
	"github.com/riskibarqy/football-etl/internal/usecase"
)

type matchRepositoryMock struct {
	mock.Mock
}

func (m *matchRepositoryMock) ListMatches(ctx context.Context, filter report.MatchFilter) ([]report.MatchRow, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]report.MatchRow)
	return rows, args.Error(1)
}

func newTestRouter(repo report.Repository) http.Handler {
	logger := logging.NewNop()
	return NewRouter(NewHandler(usecase.NewReportService(repo), logger), logger, []string{"*"})
}

func scored(id, home, away int64, homeGoals, awayGoals, day int) report.MatchRow {
	at := time.Date(2024, 8, day, 15, 0, 0, 0, time.UTC)
	return report.MatchRow{
		FixtureID:    id,
		LeagueID:     8,
		SeasonID:     23614,
		StartingAt:   &at,
		StateCode:    "FT",
		HomeTeamID:   home,
		HomeTeamName: map[int64]string{1: "Arsenal", 2: "Brentford"}[home],
		AwayTeamID:   away,
		AwayTeamName: map[int64]string{1: "Arsenal", 2: "Brentford"}[away],
		HomeGoals:    &homeGoals,
		AwayGoals:    &awayGoals,
	}
}

func serve(t *testing.T, router http.Handler, target string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandler_GetLeagueTable(t *testing.T) {
	t.Parallel()

	repo := &matchRepositoryMock{}
	repo.On("ListMatches", mock.Anything, report.MatchFilter{LeagueID: 8, SeasonID: 23614}).Return([]report.MatchRow{
		scored(1, 1, 2, 2, 0, 1),
		scored(2, 2, 1, 1, 1, 8),
	}, nil).Once()

	rec, body := serve(t, newTestRouter(repo), "/v1/leagues/8/table?season=23614")
	require.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	rows, ok := data["rows"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)

	first := rows[0].(map[string]any)
	assert.Equal(t, "Arsenal", first["team_name"])
	assert.EqualValues(t, 4, first["points"])
	assert.EqualValues(t, 1, first["position"])
}

func TestHandler_RejectsBadPathAndQuery(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"non numeric league":    "/v1/leagues/premier/table",
		"zero team":             "/v1/teams/0/form",
		"season not a number":   "/v1/leagues/8/table?season=latest",
		"limit above max":       "/v1/leagues/8/results?limit=500",
		"confidence above one":  "/v1/predictions/picks?min_confidence=1.5",
		"negative league picks": "/v1/predictions/picks?league=-3",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			repo := &matchRepositoryMock{}
			rec, body := serve(t, newTestRouter(repo), target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400 for %s, got %d", target, rec.Code)
			}
			errorObj, ok := body["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "INVALID_ARGUMENT", errorObj["status"])
			repo.AssertNotCalled(t, "ListMatches", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_LimitValidationNamesQueryKey(t *testing.T) {
	t.Parallel()

	_, body := serve(t, newTestRouter(&matchRepositoryMock{}), "/v1/leagues/8/results?limit=500")
	errorObj := body["error"].(map[string]any)
	assert.Contains(t, errorObj["message"], "limit failed max=200")
}

func TestHandler_GetTeamFormNotFound(t *testing.T) {
	t.Parallel()

	repo := &matchRepositoryMock{}
	repo.On("ListMatches", mock.Anything, report.MatchFilter{TeamID: 77}).Return([]report.MatchRow{}, nil).Once()

	rec, body := serve(t, newTestRouter(repo), "/v1/teams/77/form")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", body["error"].(map[string]any)["status"])
}

func TestHandler_ListRecentResultsWrapsItems(t *testing.T) {
	t.Parallel()

	repo := &matchRepositoryMock{}
	repo.On("ListMatches", mock.Anything, report.MatchFilter{LeagueID: 8}).Return([]report.MatchRow{
		scored(1, 1, 2, 2, 0, 1),
		scored(2, 2, 1, 1, 1, 8),
	}, nil).Once()

	rec, body := serve(t, newTestRouter(repo), "/v1/leagues/8/results?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 1, data["count"])
	items := data["items"].([]any)
	require.Len(t, items, 1)
	assert.EqualValues(t, 2, items[0].(map[string]any)["fixture_id"])
}

func TestHandler_ListRecommendedPicksEmptyIsArray(t *testing.T) {
	t.Parallel()

	repo := &matchRepositoryMock{}
	repo.On("ListMatches", mock.Anything, report.MatchFilter{}).Return([]report.MatchRow{scored(1, 1, 2, 2, 0, 1)}, nil).Once()

	rec, body := serve(t, newTestRouter(repo), "/v1/predictions/picks")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.EqualValues(t, 0, data["count"])
	assert.Equal(t, []any{}, data["items"])
}

func TestHandler_StorageFailureIsMasked(t *testing.T) {
	t.Parallel()

	repo := &matchRepositoryMock{}
	repo.On("ListMatches", mock.Anything, report.MatchFilter{LeagueID: 8}).
		Return(nil, crerr.New("pq: relation \"fixtures\" does not exist")).Once()

	rec, body := serve(t, newTestRouter(repo), "/v1/leagues/8/goal-stats")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	errorObj := body["error"].(map[string]any)
	assert.Equal(t, "internal server error", errorObj["message"])
	assert.NotContains(t, rec.Body.String(), "relation")
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	rec, body := serve(t, newTestRouter(&matchRepositoryMock{}), "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["data"].(map[string]any)["status"])
}
