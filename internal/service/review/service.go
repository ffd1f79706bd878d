// Package review implements the review submission workflow: applying a
// rating to a word's card state, recording daily statistics, and flagging
// leeches, all within a single transaction.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/domain/srs"
)

// ReviewService provides methods for submitting and previewing word reviews.
type ReviewService interface {
	// SubmitReview applies a rating to the word's card state and persists
	// the outcome. It performs several operations within one transaction:
	//
	//  1. Verifies the word exists and belongs to the user.
	//  2. Loads the card state, treating a missing row as a new card.
	//  3. Runs the scheduler to compute the next state.
	//  4. Upserts the new state and increments the user's daily stats.
	//  5. On an Again answer, checks the lapse count against the user's
	//     leech threshold and flags the word if reached.
	//
	// Returns ErrWordNotFound, ErrWordNotOwned or ErrInvalidRating on
	// the corresponding failures.
	SubmitReview(
		ctx context.Context,
		userID uuid.UUID,
		wordID uuid.UUID,
		rating domain.Rating,
	) (*ReviewResult, error)

	// Preview returns the formatted next-review interval for each rating
	// choice without committing anything. A missing card state previews
	// from the new-card baseline.
	Preview(ctx context.Context, userID, wordID uuid.UUID) (*srs.Preview, error)
}

// ReviewResult is the outcome of a submitted review.
type ReviewResult struct {
	// State is the card state after applying the rating.
	State *domain.CardState `json:"state"`

	// LeechFlagged is true when this review pushed the word over the
	// leech threshold. False on reviews of already-flagged words.
	LeechFlagged bool `json:"leech_flagged"`

	// Intervals previews the next review for each rating choice from the
	// updated state.
	Intervals *srs.Preview `json:"intervals"`
}

// Common error types for ReviewService
var (
	// ErrWordNotFound indicates that the word does not exist.
	ErrWordNotFound = errors.New("word not found")

	// ErrWordNotOwned indicates that the user does not own the word.
	ErrWordNotOwned = errors.New("unauthorized access: word not owned by user")

	// ErrInvalidRating indicates an invalid rating was provided.
	ErrInvalidRating = domain.ErrInvalidRating
)

// ServiceError wraps errors from the review service with additional
// context, so consumers can differentiate failures with errors.As instead
// of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a new ServiceError for the submit_review
// operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "submit_review", Message: message, Err: err}
}

// NewPreviewError returns a new ServiceError for the preview operation.
func NewPreviewError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "preview", Message: message, Err: err}
}
