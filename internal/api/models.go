package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/domain/srs"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
	Timezone string `json:"timezone" validate:"omitempty,max=64"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateWordRequest defines the payload for creating a word.
type CreateWordRequest struct {
	Term      string `json:"term"       validate:"required,max=255"`
	Reading   string `json:"reading"    validate:"max=255"`
	Meaning   string `json:"meaning"    validate:"max=1024"`
	JLPTLevel int    `json:"jlpt_level" validate:"gte=0,lte=5"`
	Priority  int    `json:"priority"   validate:"gte=0"`
}

// UpdateWordRequest defines the payload for updating a word.
type UpdateWordRequest struct {
	Term      string `json:"term"       validate:"required,max=255"`
	Reading   string `json:"reading"    validate:"max=255"`
	Meaning   string `json:"meaning"    validate:"max=1024"`
	JLPTLevel int    `json:"jlpt_level" validate:"gte=0,lte=5"`
	Priority  int    `json:"priority"   validate:"gte=0"`
	Mastered  bool   `json:"mastered"`
}

// SubmitReviewRequest defines the payload for submitting a review.
// Either a rating name or a raw quality score (0..5) must be provided;
// quality is mapped onto the four rating buckets.
type SubmitReviewRequest struct {
	Rating  string `json:"rating"  validate:"omitempty,oneof=again hard good easy"`
	Quality *int   `json:"quality" validate:"omitempty,gte=0,lte=5"`
}

// SubmitReviewResponse defines the response for a submitted review.
type SubmitReviewResponse struct {
	State        *domain.CardState `json:"state"`
	LeechFlagged bool              `json:"leech_flagged"`
	Intervals    *srs.Preview      `json:"intervals"`
}

// StudyQueueResponse defines the response for the study queue endpoint.
type StudyQueueResponse struct {
	Words []*domain.Word `json:"words"`
	Count int            `json:"count"`
}

// RecordPracticeRequest defines the payload for recording practiced words.
type RecordPracticeRequest struct {
	Count int `json:"count" validate:"required,gt=0"`
}

// UpdateSettingsRequest defines the payload for updating quiz settings.
type UpdateSettingsRequest struct {
	NewPerDay        int    `json:"new_per_day"         validate:"gte=0"`
	MaxReviewsPerDay int    `json:"max_reviews_per_day" validate:"gt=0"`
	JLPTFilter       int    `json:"jlpt_filter"         validate:"gte=0,lte=5"`
	PriorityFilter   int    `json:"priority_filter"     validate:"gte=0"`
	CardDirection    string `json:"card_direction"      validate:"required,oneof=term_to_meaning meaning_to_term mixed"`
	SessionSize      int    `json:"session_size"        validate:"gt=0"`
	LeechThreshold   int    `json:"leech_threshold"     validate:"gt=0"`
}
