// Package domain defines the persisted models of the feedback service. The
// same types are serialized to the flat JSON store and mapped with GORM when
// the SQLite store is selected.
package domain

import (
	"fmt"
	"time"
)

// Layouts for the string-typed time fields of a FeedbackRecord. Both are
// fixed-width and zero-padded, so lexicographic order equals chronological
// order.
const (
	// TimestampLayout is the wall-clock format of FeedbackRecord.Timestamp.
	TimestampLayout = "2006-01-02 15:04:05"
	// DateLayout is the calendar-date prefix of TimestampLayout.
	DateLayout = "2006-01-02"
	// idSecondsLayout is the seconds part of a record id; microseconds follow.
	idSecondsLayout = "20060102150405"
)

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackRecord is one customer submission. Records are created once and
// never updated or deleted.
//
// Fields:
//   - ID: submission time at microsecond precision (YYYYMMDDHHMMSSffffff).
//   - Timestamp: submission wall-clock time at second precision.
//   - Rating: star rating in [1,5].
//   - Review: customer free text (never blank).
//   - AIResponse: customer-facing generated reply or its fallback.
//   - AdminSummary: internal generated summary or its fallback.
//   - RecommendedActions: bulleted generated actions or their fallback.
//   - Seq: insertion order in SQL stores; not part of the JSON document.
type FeedbackRecord struct {
	Seq                uint64 `json:"-"                   gorm:"primaryKey;autoIncrement"`
	ID                 string `json:"id"                  gorm:"type:varchar(32);not null;uniqueIndex:ux_feedback_records_id"`
	Timestamp          string `json:"timestamp"           gorm:"type:varchar(19);not null;index:idx_feedback_records_ts"`
	Rating             int    `json:"rating"              gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Review             string `json:"review"              gorm:"type:text;not null"`
	AIResponse         string `json:"ai_response"         gorm:"type:text;not null"`
	AdminSummary       string `json:"admin_summary"       gorm:"type:text;not null"`
	RecommendedActions string `json:"recommended_actions" gorm:"type:text;not null"`
}

// TableName returns the database table name for FeedbackRecord.
func (FeedbackRecord) TableName() string { return "feedback_records" }

// ValidRating reports whether r is an allowed star rating.
func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string { return t.Format(TimestampLayout) }

// FormatRecordID renders t as a record id: seconds followed by six
// microsecond digits, e.g. 20250131235959123456.
func FormatRecordID(t time.Time) string {
	return fmt.Sprintf("%s%06d", t.Format(idSecondsLayout), t.Nanosecond()/int(time.Microsecond))
}

// Date returns the calendar-date part of the record timestamp.
func (r FeedbackRecord) Date() (string, error) {
	t, err := time.ParseInLocation(TimestampLayout, r.Timestamp, time.Local)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}
