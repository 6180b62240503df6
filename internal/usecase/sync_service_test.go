package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/external/sportmonks"
	"github.com/riskibarqy/football-etl/internal/domain/entity"
	"github.com/riskibarqy/football-etl/internal/infrastructure/repository/sqlstore"
	"github.com/riskibarqy/football-etl/internal/platform/resilience"
)

type providerMock struct {
	mock.Mock
}

func (m *providerMock) rawList(args mock.Arguments) ([]json.RawMessage, error) {
	items, _ := args.Get(0).([]json.RawMessage)
	return items, args.Error(1)
}

func (m *providerMock) FetchFixturesBetween(ctx context.Context, from, to time.Time) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, from, to))
}

func (m *providerMock) FetchFixturesByIDs(ctx context.Context, ids []int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, ids))
}

func (m *providerMock) FetchReference(ctx context.Context, kind string) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, kind))
}

func (m *providerMock) FetchStandings(ctx context.Context, seasonID int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, seasonID))
}

func (m *providerMock) FetchTopScorers(ctx context.Context, seasonID int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, seasonID))
}

func (m *providerMock) FetchSquad(ctx context.Context, seasonID, teamID int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, seasonID, teamID))
}

func (m *providerMock) FetchOdds(ctx context.Context, fixtureID int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, fixtureID))
}

func (m *providerMock) FetchPredictions(ctx context.Context, fixtureID int64) ([]json.RawMessage, error) {
	return m.rawList(m.Called(ctx, fixtureID))
}

type syncFixture struct {
	store    *sqlstore.Store
	provider *providerMock
	svc      *SyncService
	now      time.Time
}

func newSyncFixture(t *testing.T) syncFixture {
	t.Helper()

	store := openTestStore(t)
	provider := &providerMock{}
	decoder := sportmonks.Decoder{}
	logger := testLogger()

	svc := NewSyncService(
		provider,
		decoder,
		NewBatchIngestor(decoder, NewFixtureIngestor(store, logger), logger),
		NewReferenceIngestor(store, decoder, logger),
		NewDerivedIngestor(store, logger),
		NewWatermarkService(sqlstore.NewWatermarkRepository(store)),
		SyncConfig{FetchWorkers: 3},
		logger,
	)
	now := time.Date(2024, 10, 6, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return syncFixture{store: store, provider: provider, svc: svc, now: now}
}

func rawJSON(items ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item))
	}
	return out
}

func TestSyncService_SyncFixturesMovesWatermark(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()
	from := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	f.provider.On("FetchFixturesBetween", ctx, from, f.now).
		Return([]json.RawMessage{matchPayload(1001, 19, 18, 2, 1), json.RawMessage(`{"id": 1002, "venue": []}`)}, nil).
		Once()

	result, err := f.svc.SyncFixtures(ctx, SyncFixturesInput{From: &from})
	require.NoError(t, err)
	f.provider.AssertExpectations(t)

	assert.Equal(t, 2, result.Fetched)
	assert.Equal(t, 1, result.Summary.Succeeded)
	assert.Equal(t, 1, result.Summary.Failed)
	assert.True(t, result.WatermarkUpdated)

	at, ok, err := f.svc.watermarks.Get(ctx, WatermarkFixtures)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, at.Equal(f.now))

	// The next run starts from the stored watermark.
	f.provider.On("FetchFixturesBetween", ctx, f.now, f.now).Return([]json.RawMessage{}, nil).Once()
	_, err = f.svc.SyncFixtures(ctx, SyncFixturesInput{})
	require.NoError(t, err)
	f.provider.AssertExpectations(t)
}

func TestSyncService_SyncFixturesPastRangeStopsWatermarkAtRangeEnd(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	f.provider.On("FetchFixturesBetween", ctx, from, to).
		Return([]json.RawMessage{matchPayload(1001, 19, 18, 2, 1)}, nil).
		Once()

	result, err := f.svc.SyncFixtures(ctx, SyncFixturesInput{From: &from, To: &to})
	require.NoError(t, err)
	assert.True(t, result.WatermarkUpdated)

	at, ok, err := f.svc.watermarks.Get(ctx, WatermarkFixtures)
	require.NoError(t, err)
	require.True(t, ok)
	if !at.Equal(to) {
		t.Fatalf("expected watermark %s, got %s", to, at)
	}

	// The incremental run picks up the gap between the range end and now.
	f.provider.On("FetchFixturesBetween", ctx, to, f.now).Return([]json.RawMessage{}, nil).Once()
	_, err = f.svc.SyncFixtures(ctx, SyncFixturesInput{})
	require.NoError(t, err)
	f.provider.AssertExpectations(t)
}

func TestSyncService_SyncFixturesRequiresStartWithoutWatermark(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	_, err := f.svc.SyncFixtures(context.Background(), SyncFixturesInput{})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
	f.provider.AssertNotCalled(t, "FetchFixturesBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncService_SyncFixturesByIDsLeavesWatermark(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()
	f.provider.On("FetchFixturesByIDs", ctx, []int64{1001}).
		Return([]json.RawMessage{matchPayload(1001, 19, 18, 2, 1)}, nil).
		Once()

	result, err := f.svc.SyncFixtures(ctx, SyncFixturesInput{FixtureIDs: []int64{1001}})
	require.NoError(t, err)
	assert.False(t, result.WatermarkUpdated)
	assert.Equal(t, 1, countRows(t, f.store, "SELECT COUNT(1) FROM fixtures"))

	_, ok, err := f.svc.watermarks.Get(ctx, WatermarkFixtures)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSyncService_ProviderOutageIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()

	f.provider.On("FetchStandings", ctx, int64(2024)).
		Return(nil, crerr.Mark(crerr.New("status 503"), sportmonks.ErrTransientFetch)).Once()
	_, err := f.svc.SyncStandings(ctx, 2024)
	assert.True(t, crerr.Is(err, ErrDependencyUnavailable))

	f.provider.On("FetchOdds", ctx, int64(77)).
		Return(nil, crerr.Wrap(resilience.ErrCircuitOpen, "sport data provider is temporarily unavailable")).Once()
	_, err = f.svc.SyncOdds(ctx, 77)
	assert.True(t, crerr.Is(err, ErrDependencyUnavailable))

	f.provider.On("FetchPredictions", ctx, int64(77)).Return(nil, crerr.New("status 401")).Once()
	_, err = f.svc.SyncPredictions(ctx, 77)
	require.Error(t, err)
	assert.False(t, crerr.Is(err, ErrDependencyUnavailable))
}

func TestSyncService_SyncReferenceAppliesInDependencyOrder(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()

	f.provider.On("FetchReference", mock.Anything, entity.Countries).
		Return(rawJSON(`{"id": 462, "continent_id": 1, "name": "United Kingdom", "iso2": "GB"}`), nil).Once()
	f.provider.On("FetchReference", mock.Anything, entity.Continents).
		Return(rawJSON(`{"id": 1, "name": "Europe", "code": "EU"}`), nil).Once()
	f.provider.On("FetchReference", mock.Anything, entity.Leagues).
		Return(rawJSON(`{"id": 8, "country_id": 462, "name": "Premier League"}`), nil).Once()

	result, err := f.svc.SyncReference(ctx, []string{"leagues", "Countries", "continents"})
	require.NoError(t, err)
	f.provider.AssertExpectations(t)

	require.Len(t, result.Kinds, 3)
	assert.Equal(t, entity.Continents, result.Kinds[0].Entity)
	assert.Equal(t, entity.Countries, result.Kinds[1].Entity)
	assert.Equal(t, entity.Leagues, result.Kinds[2].Entity)
	assert.Zero(t, result.Failed)
	assert.True(t, result.WatermarkUpdated)
	assert.Equal(t, 1, countRows(t, f.store, "SELECT COUNT(1) FROM leagues WHERE country_id = ?", 462))
}

func TestSyncService_SyncReferenceFailedFeedKeepsWatermark(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()

	f.provider.On("FetchReference", mock.Anything, entity.States).
		Return(rawJSON(`{"id": 5, "state": "FT", "developer_name": "FT"}`), nil).Once()
	f.provider.On("FetchReference", mock.Anything, entity.Venues).
		Return(nil, crerr.Mark(crerr.New("status 502"), sportmonks.ErrTransientFetch)).Once()

	result, err := f.svc.SyncReference(ctx, []string{entity.States, entity.Venues})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.False(t, result.WatermarkUpdated)
	assert.NotEmpty(t, result.Kinds[1].Error)
	assert.Equal(t, 1, countRows(t, f.store, "SELECT COUNT(1) FROM states"))
}

func TestSyncService_SyncReferenceRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	_, err := f.svc.SyncReference(context.Background(), []string{"weather"})
	assert.True(t, crerr.Is(err, ErrInvalidInput))
}

func TestSyncService_SyncPredictionsWithoutFullTimePick(t *testing.T) {
	t.Parallel()

	f := newSyncFixture(t)
	ctx := context.Background()
	f.provider.On("FetchPredictions", ctx, int64(77)).Return([]json.RawMessage{}, nil).Once()

	result, err := f.svc.SyncPredictions(ctx, 77)
	require.NoError(t, err)
	assert.Zero(t, result.Written)
	assert.Zero(t, countRows(t, f.store, "SELECT COUNT(1) FROM predictions"))
}
