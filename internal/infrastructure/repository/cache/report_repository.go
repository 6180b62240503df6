package cache

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-etl/internal/domain/report"
	basecache "github.com/riskibarqy/football-etl/internal/platform/cache"
)

const reportKeyPrefix = "report:matches:"

// ReportRepository caches match rows per filter for the store's TTL.
// Concurrent misses for the same filter share one load. Writes made by the
// ingest process show up once the TTL runs out.
type ReportRepository struct {
	next  report.Repository
	cache *basecache.Store[[]report.MatchRow]
}

func NewReportRepository(next report.Repository, cache *basecache.Store[[]report.MatchRow]) *ReportRepository {
	return &ReportRepository{next: next, cache: cache}
}

func (r *ReportRepository) ListMatches(ctx context.Context, filter report.MatchFilter) ([]report.MatchRow, error) {
	items, err := r.cache.GetOrLoad(ctx, matchFilterKey(filter), func(ctx context.Context) ([]report.MatchRow, error) {
		items, err := r.next.ListMatches(ctx, filter)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func matchFilterKey(filter report.MatchFilter) string {
	var b strings.Builder
	b.WriteString(reportKeyPrefix)
	b.WriteString("league=")
	b.WriteString(strconv.FormatInt(filter.LeagueID, 10))
	b.WriteString(":season=")
	b.WriteString(strconv.FormatInt(filter.SeasonID, 10))
	b.WriteString(":team=")
	b.WriteString(strconv.FormatInt(filter.TeamID, 10))
	b.WriteString(":from=")
	b.WriteString(formatKeyTime(filter.From))
	b.WriteString(":to=")
	b.WriteString(formatKeyTime(filter.To))
	return b.String()
}

func formatKeyTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}
