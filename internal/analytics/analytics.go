// Package analytics computes the derived views of the admin dashboard over a
// loaded feedback collection: totals, averages, sentiment split, rating
// histogram, per-day trend, and the filtered/sorted submission list.
//
// Every function is pure. Callers pass the collection returned by a
// repo.RecordStore and get plain values back; nothing here performs I/O.
//
// Empty collections: AverageRating and BuildDashboard return
// ErrEmptyCollection. The count-based functions return zero values, and
// Percent returns 0 when the total is 0.
package analytics

import (
	"errors"
	"sort"

	"github.com/tbourn/go-feedback-backend/internal/domain"
)

// ErrEmptyCollection is returned by mean-based metrics over zero records.
var ErrEmptyCollection = errors.New("empty feedback collection")

// Sentiment bands by star rating.
const (
	positiveMin = 4 // rating >= 4
	negativeMax = 2 // rating <= 2
	neutral     = 3
)

// Count returns the number of records.
func Count(records []domain.FeedbackRecord) int { return len(records) }

// AverageRating returns the arithmetic mean of all ratings.
func AverageRating(records []domain.FeedbackRecord) (float64, error) {
	if len(records) == 0 {
		return 0, ErrEmptyCollection
	}
	sum := 0
	for _, r := range records {
		sum += r.Rating
	}
	return float64(sum) / float64(len(records)), nil
}

// PositiveCount counts records rated 4 or 5.
func PositiveCount(records []domain.FeedbackRecord) int {
	return countWhere(records, func(r int) bool { return r >= positiveMin })
}

// NegativeCount counts records rated 1 or 2.
func NegativeCount(records []domain.FeedbackRecord) int {
	return countWhere(records, func(r int) bool { return r <= negativeMax })
}

// Percent returns part/total*100, or 0 when total is 0.
func Percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func countWhere(records []domain.FeedbackRecord, pred func(rating int) bool) int {
	n := 0
	for _, r := range records {
		if pred(r.Rating) {
			n++
		}
	}
	return n
}

// RatingCount is one bar of the rating histogram.
type RatingCount struct {
	Rating int `json:"rating" example:"5"`
	Count  int `json:"count"  example:"12"`
}

// RatingHistogram returns exactly five entries, ratings 1..5 ascending,
// including zero counts. Out-of-range ratings are not counted.
func RatingHistogram(records []domain.FeedbackRecord) []RatingCount {
	out := make([]RatingCount, 0, domain.MaxRating)
	for r := domain.MinRating; r <= domain.MaxRating; r++ {
		out = append(out, RatingCount{Rating: r})
	}
	for _, rec := range records {
		if domain.ValidRating(rec.Rating) {
			out[rec.Rating-domain.MinRating].Count++
		}
	}
	return out
}

// DailyAverage is one point of the rating trend.
type DailyAverage struct {
	Date          string  `json:"date"           example:"2025-01-31"`
	AverageRating float64 `json:"average_rating" example:"4.25"`
	Count         int     `json:"count"          example:"4"`
}

// DailyAverageTrend groups records by the calendar date of their timestamp
// and returns the mean rating per date, ascending by date. Records whose
// timestamp cannot be parsed are skipped.
func DailyAverageTrend(records []domain.FeedbackRecord) []DailyAverage {
	type acc struct{ sum, n int }
	byDate := map[string]*acc{}
	for _, r := range records {
		d, err := r.Date()
		if err != nil {
			continue
		}
		a, ok := byDate[d]
		if !ok {
			a = &acc{}
			byDate[d] = a
		}
		a.sum += r.Rating
		a.n++
	}

	out := make([]DailyAverage, 0, len(byDate))
	for d, a := range byDate {
		out = append(out, DailyAverage{Date: d, AverageRating: float64(a.sum) / float64(a.n), Count: a.n})
	}
	// DateLayout is fixed-width, so string order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Sentiment names a rating band.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// SentimentBucket is the size of one sentiment band.
type SentimentBucket struct {
	Sentiment Sentiment `json:"sentiment" example:"positive"`
	Label     string    `json:"label"     example:"Positive (4-5★)"`
	Count     int       `json:"count"     example:"7"`
}

// SentimentOf classifies a rating.
func SentimentOf(rating int) Sentiment {
	switch {
	case rating >= positiveMin:
		return SentimentPositive
	case rating == neutral:
		return SentimentNeutral
	default:
		return SentimentNegative
	}
}

// SentimentBuckets partitions the collection into Positive, Neutral and
// Negative, in that order. The counts always sum to Count(records).
func SentimentBuckets(records []domain.FeedbackRecord) []SentimentBucket {
	out := []SentimentBucket{
		{Sentiment: SentimentPositive, Label: "Positive (4-5★)"},
		{Sentiment: SentimentNeutral, Label: "Neutral (3★)"},
		{Sentiment: SentimentNegative, Label: "Negative (1-2★)"},
	}
	for _, r := range records {
		switch SentimentOf(r.Rating) {
		case SentimentPositive:
			out[0].Count++
		case SentimentNeutral:
			out[1].Count++
		default:
			out[2].Count++
		}
	}
	return out
}
