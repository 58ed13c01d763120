package analytics

import "github.com/tbourn/go-feedback-backend/internal/domain"

// Dashboard is the aggregate view rendered by the admin dashboard.
type Dashboard struct {
	Total           int               `json:"total"            example:"20"`
	AverageRating   float64           `json:"average_rating"   example:"3.85"`
	PositiveCount   int               `json:"positive_count"   example:"12"`
	PositivePercent float64           `json:"positive_percent" example:"60"`
	NegativeCount   int               `json:"negative_count"   example:"5"`
	NegativePercent float64           `json:"negative_percent" example:"25"`
	Histogram       []RatingCount     `json:"histogram"`
	Trend           []DailyAverage    `json:"trend"`
	Sentiment       []SentimentBucket `json:"sentiment"`
}

// BuildDashboard computes every dashboard metric for records.
// It returns ErrEmptyCollection when there are no records.
func BuildDashboard(records []domain.FeedbackRecord) (Dashboard, error) {
	avg, err := AverageRating(records)
	if err != nil {
		return Dashboard{}, err
	}
	total := Count(records)
	pos := PositiveCount(records)
	neg := NegativeCount(records)
	return Dashboard{
		Total:           total,
		AverageRating:   avg,
		PositiveCount:   pos,
		PositivePercent: Percent(pos, total),
		NegativeCount:   neg,
		NegativePercent: Percent(neg, total),
		Histogram:       RatingHistogram(records),
		Trend:           DailyAverageTrend(records),
		Sentiment:       SentimentBuckets(records),
	}, nil
}
