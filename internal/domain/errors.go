package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidRating is returned when a review rating is outside the
	// four recognized buckets. Ratings are never silently clamped: a
	// clamped rating would desynchronize preview intervals from the
	// committed schedule.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrInvalidQuality is returned when a raw quality score is outside
	// the 0..5 scale.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
