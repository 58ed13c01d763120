// Package services defines the business logic for feedback submission and
// the admin views. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrEmptyReview is returned when the review text is empty or only
	// whitespace. Nothing is generated or stored.
	ErrEmptyReview = errors.New("review is empty")

	// ErrInvalidRating is returned when the rating is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrTooLong is returned when the review exceeds the configured rune limit.
	ErrTooLong = errors.New("review too long")

	// ErrStorageUnavailable reports that the record store could not be read
	// or written. It wraps the underlying repo error.
	ErrStorageUnavailable = errors.New("feedback storage unavailable")

	// ErrRecordNotFound indicates that no record has the requested id.
	ErrRecordNotFound = errors.New("feedback record not found")
)
