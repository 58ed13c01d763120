package analytics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// SortMode orders the admin submission list.
type SortMode string

const (
	// SortMostRecent orders by timestamp, newest first.
	SortMostRecent SortMode = "recent"
	// SortHighestFirst orders by rating, 5 first.
	SortHighestFirst SortMode = "highest"
	// SortLowestFirst orders by rating, 1 first.
	SortLowestFirst SortMode = "lowest"
)

// ParseSortMode maps query-string spellings to a SortMode. An empty string
// selects SortMostRecent.
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "recent", "most_recent", "most recent", "newest":
		return SortMostRecent, nil
	case "highest", "highest_first", "highest rating", "highest_rating":
		return SortHighestFirst, nil
	case "lowest", "lowest_first", "lowest rating", "lowest_rating":
		return SortLowestFirst, nil
	}
	return "", fmt.Errorf("unknown sort mode %q", s)
}

// RatingSet is the set of ratings kept by FilterAndSort.
type RatingSet map[int]struct{}

// AllRatings returns {1,2,3,4,5}.
func AllRatings() RatingSet {
	return NewRatingSet(1, 2, 3, 4, 5)
}

// NewRatingSet builds a set from the given ratings.
func NewRatingSet(ratings ...int) RatingSet {
	s := make(RatingSet, len(ratings))
	for _, r := range ratings {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether r is in the set.
func (s RatingSet) Has(r int) bool {
	_, ok := s[r]
	return ok
}

// FilterAndSort returns the records whose rating is in allowed, ordered by
// mode. The sort is stable: records with equal keys keep their input order.
// The input slice is not modified.
func FilterAndSort(records []domain.FeedbackRecord, allowed RatingSet, mode SortMode) []domain.FeedbackRecord {
	out := make([]domain.FeedbackRecord, 0, len(records))
	for _, r := range records {
		if allowed.Has(r.Rating) {
			out = append(out, r)
		}
	}

	switch mode {
	case SortHighestFirst:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortLowestFirst:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating < out[j].Rating })
	default:
		// TimestampLayout is fixed-width and zero-padded.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	}
	return out
}
