package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/tango-api/internal/domain"
)

// Common errors
var (
	ErrNilState      = errors.New("card state cannot be nil")
	ErrInvalidRating = domain.ErrInvalidRating
)

// Service defines the interface for scheduling operations.
type Service interface {
	// ReviewCard computes the new card state produced by applying a
	// rating at the given time. The input state is not modified.
	ReviewCard(
		state *domain.CardState,
		rating domain.Rating,
		now time.Time,
	) (*domain.CardState, error)

	// PreviewIntervals runs the scheduler once per rating against the
	// same input state, without committing anything, and returns the four
	// formatted intervals for display.
	PreviewIntervals(
		state *domain.CardState,
		now time.Time,
	) (*Preview, error)
}

// Preview holds the formatted next-review interval for each rating choice.
type Preview struct {
	Again string `json:"again"`
	Hard  string `json:"hard"`
	Good  string `json:"good"`
	Easy  string `json:"easy"`
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
// Returns an error if the parameters fail validation.
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.New("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scheduler params: %w", err)
	}
	return &defaultService{params: params}, nil
}

// ReviewCard implements the Service interface.
func (s *defaultService) ReviewCard(
	state *domain.CardState,
	rating domain.Rating,
	now time.Time,
) (*domain.CardState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if !rating.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}

	return calculateNextState(state, rating, now, s.params), nil
}

// PreviewIntervals implements the Service interface. It is side-effect
// free and safe to call arbitrarily often.
func (s *defaultService) PreviewIntervals(
	state *domain.CardState,
	now time.Time,
) (*Preview, error) {
	if state == nil {
		return nil, ErrNilState
	}

	preview := &Preview{}
	for _, branch := range []struct {
		rating domain.Rating
		out    *string
	}{
		{domain.RatingAgain, &preview.Again},
		{domain.RatingHard, &preview.Hard},
		{domain.RatingGood, &preview.Good},
		{domain.RatingEasy, &preview.Easy},
	} {
		next := calculateNextState(state, branch.rating, now, s.params)
		*branch.out = FormatInterval(next.NextReview.Sub(now))
	}

	return preview, nil
}
