package report

import "context"

// Repository reads joined fixture rows. Finished-ness and aggregation are
// decided by the caller.
type Repository interface {
	ListMatches(ctx context.Context, filter MatchFilter) ([]MatchRow, error)
}
