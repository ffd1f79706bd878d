package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/api/shared"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/redact"
	"github.com/phrazzld/tango-api/internal/store"
)

// WordHandler handles word CRUD API requests.
type WordHandler struct {
	wordStore  store.WordStore
	userStore  store.UserStore
	statsStore store.StatsStore
}

// NewWordHandler creates a new WordHandler with the given dependencies.
func NewWordHandler(
	wordStore store.WordStore,
	userStore store.UserStore,
	statsStore store.StatsStore,
) *WordHandler {
	return &WordHandler{
		wordStore:  wordStore,
		userStore:  userStore,
		statsStore: statsStore,
	}
}

// Create handles POST /words.
func (h *WordHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req CreateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	word, err := domain.NewWord(userID, req.Term, req.Reading, req.Meaning, req.JLPTLevel, req.Priority)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid word data: "+err.Error())
		return
	}

	if err := h.wordStore.Create(r.Context(), word); err != nil {
		slog.Error("failed to create word", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to create word")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, word)
}

// List handles GET /words.
func (h *WordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	words, err := h.wordStore.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list words", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to list words")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, words)
}

// Get handles GET /words/{id}.
func (h *WordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	word, err := h.loadOwnedWord(w, r, userID, wordID)
	if err != nil {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Update handles PUT /words/{id}.
func (h *WordHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateWordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	word, err := h.loadOwnedWord(w, r, userID, wordID)
	if err != nil {
		return
	}

	newlyMastered := req.Mastered && !word.Mastered

	word.Term = req.Term
	word.Reading = req.Reading
	word.Meaning = req.Meaning
	word.JLPTLevel = req.JLPTLevel
	word.Priority = req.Priority
	word.Mastered = req.Mastered
	word.UpdatedAt = time.Now().UTC()

	if err := h.wordStore.Update(r.Context(), word); err != nil {
		slog.Error("failed to update word", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to update word")
		return
	}
	if newlyMastered {
		h.recordMastered(r.Context(), userID)
	}

	shared.RespondWithJSON(w, r, http.StatusOK, word)
}

// Delete handles DELETE /words/{id}. Card state rows cascade with the word.
func (h *WordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	if _, err := h.loadOwnedWord(w, r, userID, wordID); err != nil {
		return
	}

	if err := h.wordStore.Delete(r.Context(), wordID); err != nil {
		slog.Error("failed to delete word", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to delete word")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetMastered handles POST /words/{id}/mastered.
func (h *WordHandler) SetMastered(w http.ResponseWriter, r *http.Request) {
	userID, wordID, ok := requireUserAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Mastered bool `json:"mastered"`
	}
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	word, err := h.loadOwnedWord(w, r, userID, wordID)
	if err != nil {
		return
	}

	if err := h.wordStore.SetMastered(r.Context(), wordID, req.Mastered); err != nil {
		slog.Error("failed to set mastered flag", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to update word")
		return
	}
	if req.Mastered && !word.Mastered {
		h.recordMastered(r.Context(), userID)
	}

	w.WriteHeader(http.StatusNoContent)
}

// recordMastered bumps the daily mastered counter for the user's local
// calendar day, only when the flag flips from false to true. The counter
// is advisory: a failed increment is logged, not surfaced to the client.
func (h *WordHandler) recordMastered(ctx context.Context, userID uuid.UUID) {
	user, err := h.userStore.GetByID(ctx, userID)
	if err != nil {
		slog.Error("failed to load user for mastered stats", "error", redact.Error(err), "user_id", userID)
		return
	}
	date := domain.LocalDateKey(time.Now().UTC(), user.Location())
	if err := h.statsStore.IncrementMastered(ctx, userID, date); err != nil {
		slog.Error("failed to record mastered stat", "error", redact.Error(err), "user_id", userID)
	}
}

// loadOwnedWord loads the word and enforces ownership, writing the error
// response itself on failure. Ownership failures return 404 rather than
// 403 so word IDs are not probeable.
func (h *WordHandler) loadOwnedWord(w http.ResponseWriter, r *http.Request, userID, wordID uuid.UUID) (*domain.Word, error) {
	word, err := h.wordStore.GetByID(r.Context(), wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Word not found")
			return nil, err
		}
		slog.Error("failed to get word", "error", redact.Error(err), "user_id", userID)
		HandleAPIError(w, r, err, "Failed to get word")
		return nil, err
	}
	if word.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Word not found")
		return nil, domain.ErrUnauthorized
	}
	return word, nil
}
