package analytics

import (
	"errors"
	"sort"
	"time"

	"github.com/davideorlandi/habitpulse/internal/core/domain"
)

var (
	ErrInvalidWindow      = errors.New("window length must be at least 1 day")
	ErrInvalidGranularity = errors.New("invalid granularity (must be daily or weekly)")
)

const (
	GranularityDaily  = "daily"
	GranularityWeekly = "weekly"
)

// Bucket is one unit of a chronological aggregation series: the bucket's
// start date, how many of the considered habits were completed at least once
// within the bucket span, and the resulting completion rate as a percentage.
type Bucket struct {
	StartDate time.Time `json:"start_date"`
	Completed int       `json:"completed"`
	Total     int       `json:"total"`
	Rate      float64   `json:"completion_rate"`
}

func bucketSize(granularity string) (int, error) {
	switch granularity {
	case GranularityDaily:
		return 1, nil
	case GranularityWeekly:
		return 7, nil
	default:
		return 0, ErrInvalidGranularity
	}
}

// ComputeTrend produces a fixed-length chronological series over a window of
// windowDays days ending at asOf. The result is always exactly
// ceil(windowDays / bucketSize) buckets, oldest first, even when every bucket
// is empty. A weekly bucket counts a habit once if any of its seven days has
// a completion.
func ComputeTrend(indexes map[string]*CompletionIndex, asOf time.Time, windowDays int, granularity string) ([]Bucket, error) {
	if windowDays < 1 {
		return nil, ErrInvalidWindow
	}
	size, err := bucketSize(granularity)
	if err != nil {
		return nil, err
	}

	end := domain.DateOnly(asOf)
	windowStart := end.AddDate(0, 0, -(windowDays - 1))
	numBuckets := (windowDays + size - 1) / size
	total := len(indexes)

	// Deterministic habit order keeps repeated calls byte-identical.
	habitIDs := make([]string, 0, total)
	for id := range indexes {
		habitIDs = append(habitIDs, id)
	}
	sort.Strings(habitIDs)

	buckets := make([]Bucket, 0, numBuckets)

	for i := 0; i < numBuckets; i++ {
		start := windowStart.AddDate(0, 0, i*size)
		spanEnd := start.AddDate(0, 0, size-1)
		if spanEnd.After(end) {
			spanEnd = end
		}

		completed := 0
		for _, id := range habitIDs {
			if indexes[id].CompletedInRange(start, spanEnd) {
				completed++
			}
		}

		rate := 0.0
		if total > 0 {
			rate = float64(completed) / float64(total) * 100
		}

		buckets = append(buckets, Bucket{
			StartDate: start,
			Completed: completed,
			Total:     total,
			Rate:      rate,
		})
	}

	return buckets, nil
}
