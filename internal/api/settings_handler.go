package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tango-api/internal/api/shared"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/store"
)

// SettingsHandler handles quiz settings API requests.
type SettingsHandler struct {
	settingsStore store.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler with the given
// dependencies.
func NewSettingsHandler(settingsStore store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{
		settingsStore: settingsStore,
	}
}

// Get handles GET /settings. Users who have never saved settings get the
// defaults rather than a 404.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	settings, err := h.settingsStore.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrSettingsNotFound) {
			shared.RespondWithJSON(w, r, http.StatusOK, domain.DefaultQuizSettings(userID))
			return
		}
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// Update handles PUT /settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req UpdateSettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	settings := &domain.QuizSettings{
		UserID:           userID,
		NewPerDay:        req.NewPerDay,
		MaxReviewsPerDay: req.MaxReviewsPerDay,
		JLPTFilter:       req.JLPTFilter,
		PriorityFilter:   req.PriorityFilter,
		CardDirection:    domain.CardDirection(req.CardDirection),
		SessionSize:      req.SessionSize,
		LeechThreshold:   req.LeechThreshold,
	}
	if err := settings.Validate(); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid settings: "+err.Error())
		return
	}

	if err := h.settingsStore.Save(r.Context(), settings); err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
