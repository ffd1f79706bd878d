package api

import (
	"net/http"
	"strconv"

	"github.com/phrazzld/tango-api/internal/api/shared"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/service/study"
)

// StudyHandler handles study session API requests.
type StudyHandler struct {
	studyService study.StudyService
}

// NewStudyHandler creates a new StudyHandler with the given dependencies.
func NewStudyHandler(studyService study.StudyService) *StudyHandler {
	return &StudyHandler{
		studyService: studyService,
	}
}

// Queue handles GET /study/queue. An optional ?limit= overrides the
// configured session size; caps from quiz settings still apply.
func (h *StudyHandler) Queue(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	words, err := h.studyService.GetStudyQueue(r.Context(), userID, queryInt(r, "limit"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to build study queue")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StudyQueueResponse{
		Words: words,
		Count: len(words),
	})
}

// Practice handles GET /study/practice.
func (h *StudyHandler) Practice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	words, err := h.studyService.GetPracticeWords(r.Context(), userID, queryInt(r, "count"))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to select practice words")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StudyQueueResponse{
		Words: words,
		Count: len(words),
	})
}

// RecordPractice handles POST /study/practice.
func (h *StudyHandler) RecordPractice(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	var req RecordPracticeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.studyService.RecordPractice(r.Context(), userID, req.Count); err != nil {
		HandleAPIError(w, r, err, "Failed to record practice")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// TodayStats handles GET /stats/today.
func (h *StudyHandler) TodayStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return
	}

	stats, err := h.studyService.TodayStats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load daily stats")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// queryInt parses an optional positive integer query parameter, returning
// zero when absent or malformed.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
