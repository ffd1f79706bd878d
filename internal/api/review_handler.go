package api

import (
	"net/http"

	"github.com/phrazzld/tango-api/internal/api/shared"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/service/review"
)

// ReviewHandler handles review submission and preview API requests.
type ReviewHandler struct {
	reviewService review.ReviewService
}

// NewReviewHandler creates a new ReviewHandler with the given dependencies.
func NewReviewHandler(reviewService review.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Submit handles POST /words/{id}/review.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	rating, err := resolveRating(req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.reviewService.SubmitReview(r.Context(), userID, wordID, rating)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SubmitReviewResponse{
		State:        result.State,
		LeechFlagged: result.LeechFlagged,
		Intervals:    result.Intervals,
	})
}

// Preview handles GET /words/{id}/preview.
func (h *ReviewHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	preview, err := h.reviewService.Preview(r.Context(), userID, wordID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, preview)
}

// resolveRating maps the request onto a rating: an explicit rating name
// wins, otherwise the raw quality score is bucketed. One of the two must
// be present.
func resolveRating(req SubmitReviewRequest) (domain.Rating, error) {
	if req.Rating != "" {
		rating := domain.Rating(req.Rating)
		if !rating.IsValid() {
			return "", domain.ErrInvalidRating
		}
		return rating, nil
	}
	if req.Quality != nil {
		return domain.RatingFromQuality(*req.Quality)
	}
	return "", domain.ErrInvalidRating
}
