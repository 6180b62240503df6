package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/football-etl/internal/domain/report"
	basecache "github.com/riskibarqy/football-etl/internal/platform/cache"
)

type countingReportRepo struct {
	calls int
	err   error
}

func (r *countingReportRepo) ListMatches(_ context.Context, filter report.MatchFilter) ([]report.MatchRow, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []report.MatchRow{{FixtureID: filter.LeagueID*100 + int64(r.calls)}}, nil
}

func TestReportRepository_CachesPerFilter(t *testing.T) {
	t.Parallel()

	next := &countingReportRepo{}
	repo := NewReportRepository(next, basecache.NewStore[[]report.MatchRow](time.Minute))
	ctx := context.Background()

	first, err := repo.ListMatches(ctx, report.MatchFilter{LeagueID: 8})
	require.NoError(t, err)
	second, err := repo.ListMatches(ctx, report.MatchFilter{LeagueID: 8})
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)

	first[0].FixtureID = -1
	again, err := repo.ListMatches(ctx, report.MatchFilter{LeagueID: 8})
	require.NoError(t, err)
	assert.Equal(t, int64(801), again[0].FixtureID, "callers get their own copy")

	_, err = repo.ListMatches(ctx, report.MatchFilter{LeagueID: 8, SeasonID: 2024})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestReportRepository_ExpiredEntriesReload(t *testing.T) {
	t.Parallel()

	next := &countingReportRepo{}
	repo := NewReportRepository(next, basecache.NewStore[[]report.MatchRow](time.Nanosecond))
	ctx := context.Background()

	_, err := repo.ListMatches(ctx, report.MatchFilter{TeamID: 1})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	rows, err := repo.ListMatches(ctx, report.MatchFilter{TeamID: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, int64(2), rows[0].FixtureID)
}

func TestReportRepository_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	next := &countingReportRepo{err: errors.New("database is locked")}
	repo := NewReportRepository(next, basecache.NewStore[[]report.MatchRow](time.Minute))
	ctx := context.Background()

	_, err := repo.ListMatches(ctx, report.MatchFilter{})
	require.Error(t, err)
	next.err = nil
	_, err = repo.ListMatches(ctx, report.MatchFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestMatchFilterKey_DistinguishesRanges(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 8, 1, 0, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	withRange := matchFilterKey(report.MatchFilter{LeagueID: 8, From: &from})
	assert.NotEqual(t, matchFilterKey(report.MatchFilter{LeagueID: 8}), withRange)
	assert.Contains(t, withRange, "2024-07-31T17:00:00Z")
}
