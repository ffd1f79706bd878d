package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/api/middleware"
	"github.com/phrazzld/tango-api/internal/config"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/domain/srs"
	"github.com/phrazzld/tango-api/internal/platform/sqlite"
	"github.com/phrazzld/tango-api/internal/service/auth"
	"github.com/phrazzld/tango-api/internal/service/review"
	"github.com/phrazzld/tango-api/internal/service/study"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// gooseMu serializes migrations: goose's BaseFS and dialect are globals.
var gooseMu sync.Mutex

// newTestServer assembles the full API over an in-memory database, with
// the same routes the server wires.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "Failed to open in-memory database")
	t.Cleanup(func() { _ = db.Close() })

	gooseMu.Lock()
	goose.SetBaseFS(sqlite.MigrationsFS)
	dialectErr := goose.SetDialect("sqlite3")
	upErr := goose.Up(db, sqlite.MigrationsDir)
	goose.SetBaseFS(nil)
	gooseMu.Unlock()
	require.NoError(t, dialectErr)
	require.NoError(t, upErr, "Failed to apply migrations")

	userStore := sqlite.NewSQLiteUserStore(db, nil)
	wordStore := sqlite.NewSQLiteWordStore(db, nil)
	progressStore := sqlite.NewSQLiteProgressStore(db, nil)
	statsStore := sqlite.NewSQLiteStatsStore(db, nil)
	settingsStore := sqlite.NewSQLiteSettingsStore(db, nil)

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:           "test-secret-key-thats-32-characters-long",
		TokenLifetimeMins:   60,
		RefreshLifetimeMins: 60 * 24,
	})
	require.NoError(t, err)

	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	srsService := srs.NewDefaultService()
	reviewService := review.NewReviewService(
		db, wordStore, progressStore, statsStore, settingsStore, userStore, srsService, nil)
	studyService := study.NewStudyService(
		wordStore, progressStore, statsStore, settingsStore, userStore, nil)

	authHandler := NewAuthHandler(userStore, jwtService, hasher)
	authMW := middleware.NewAuthMiddleware(jwtService)
	wordHandler := NewWordHandler(wordStore, userStore, statsStore)
	reviewHandler := NewReviewHandler(reviewService)
	studyHandler := NewStudyHandler(studyService)
	settingsHandler := NewSettingsHandler(settingsStore)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.Post("/words", wordHandler.Create)
			r.Get("/words", wordHandler.List)
			r.Get("/words/{id}", wordHandler.Get)
			r.Put("/words/{id}", wordHandler.Update)
			r.Delete("/words/{id}", wordHandler.Delete)
			r.Post("/words/{id}/mastered", wordHandler.SetMastered)

			r.Post("/words/{id}/review", reviewHandler.Submit)
			r.Get("/words/{id}/preview", reviewHandler.Preview)

			r.Get("/study/queue", studyHandler.Queue)
			r.Get("/study/practice", studyHandler.Practice)
			r.Post("/study/practice", studyHandler.RecordPractice)
			r.Get("/stats/today", studyHandler.TodayStats)

			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// doJSON sends a JSON request and decodes the JSON response into out
// when out is non-nil.
func doJSON(t *testing.T, server *httptest.Server, method, path, token string, body, out interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// registerUser registers a fresh user and returns the auth response.
func registerUser(t *testing.T, server *httptest.Server) *AuthResponse {
	t.Helper()
	var authResp AuthResponse
	resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    uuid.NewString() + "@example.com",
		"password": "a-long-enough-password",
	}, &authResp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, authResp.AccessToken)
	return &authResp
}

func createWord(t *testing.T, server *httptest.Server, token, term string) *domain.Word {
	t.Helper()
	var word domain.Word
	resp := doJSON(t, server, http.MethodPost, "/api/words", token, map[string]interface{}{
		"term":       term,
		"reading":    "",
		"meaning":    term + " meaning",
		"jlpt_level": 5,
		"priority":   1,
	}, &word)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return &word
}

func TestAuthEndpoints(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)

	email := uuid.NewString() + "@example.com"
	const password = "a-long-enough-password"

	var registered AuthResponse
	resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
		map[string]string{"email": email, "password": password}, &registered)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, registered.AccessToken)
	assert.NotEmpty(t, registered.RefreshToken)

	t.Run("duplicate email", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
			map[string]string{"email": email, "password": password}, nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("short password rejected", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/auth/register", "",
			map[string]string{"email": uuid.NewString() + "@example.com", "password": "short"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login", func(t *testing.T) {
		var loggedIn AuthResponse
		resp := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": email, "password": password}, &loggedIn)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, registered.UserID, loggedIn.UserID)
		assert.NotEmpty(t, loggedIn.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": email, "password": "wrong-password-entirely"}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "nobody@example.com", "password": password}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("refresh", func(t *testing.T) {
		var refreshed RefreshTokenResponse
		resp := doJSON(t, server, http.MethodPost, "/api/auth/refresh", "",
			map[string]string{"refresh_token": registered.RefreshToken}, &refreshed)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("refresh with access token rejected", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/auth/refresh", "",
			map[string]string{"refresh_token": registered.AccessToken}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)

	t.Run("missing token", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/api/words", "", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/api/words", "not-a-jwt", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestWordEndpoints(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)
	user := registerUser(t, server)
	token := user.AccessToken

	word := createWord(t, server, token, "辞書")

	t.Run("get", func(t *testing.T) {
		var found domain.Word
		resp := doJSON(t, server, http.MethodGet, "/api/words/"+word.ID.String(), token, nil, &found)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "辞書", found.Term)
	})

	t.Run("list", func(t *testing.T) {
		var words []*domain.Word
		resp := doJSON(t, server, http.MethodGet, "/api/words", token, nil, &words)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, words, 1)
	})

	t.Run("update", func(t *testing.T) {
		var updated domain.Word
		resp := doJSON(t, server, http.MethodPut, "/api/words/"+word.ID.String(), token,
			map[string]interface{}{
				"term":       "辞書",
				"meaning":    "dictionary",
				"jlpt_level": 4,
				"priority":   2,
			}, &updated)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "dictionary", updated.Meaning)
		assert.Equal(t, 4, updated.JLPTLevel)
	})

	t.Run("set mastered", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/mastered", token,
			map[string]bool{"mastered": true}, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})

	t.Run("invalid word rejected", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/words", token,
			map[string]interface{}{"term": "", "jlpt_level": 5}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("malformed id", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/api/words/not-a-uuid", token, nil, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing word", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodGet, "/api/words/"+uuid.NewString(), token, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("other user's word looks missing", func(t *testing.T) {
		stranger := registerUser(t, server)
		resp := doJSON(t, server, http.MethodGet, "/api/words/"+word.ID.String(),
			stranger.AccessToken, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode,
			"foreign word IDs must not be probeable")
	})

	t.Run("delete", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodDelete, "/api/words/"+word.ID.String(), token, nil, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, server, http.MethodGet, "/api/words/"+word.ID.String(), token, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestMasteredDailyStat(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)
	user := registerUser(t, server)
	token := user.AccessToken

	first := createWord(t, server, token, "犬")
	second := createWord(t, server, token, "鳥")

	masteredToday := func(t *testing.T) int {
		t.Helper()
		var stats domain.DailyStats
		resp := doJSON(t, server, http.MethodGet, "/api/stats/today", token, nil, &stats)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return stats.MasteredCount
	}

	require.Equal(t, 0, masteredToday(t))

	// Flipping the flag on counts once.
	resp := doJSON(t, server, http.MethodPost, "/api/words/"+first.ID.String()+"/mastered", token,
		map[string]bool{"mastered": true}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, masteredToday(t))

	// Re-mastering an already mastered word does not double count.
	resp = doJSON(t, server, http.MethodPost, "/api/words/"+first.ID.String()+"/mastered", token,
		map[string]bool{"mastered": true}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, masteredToday(t))

	// Unmastering never decrements the counter.
	resp = doJSON(t, server, http.MethodPost, "/api/words/"+first.ID.String()+"/mastered", token,
		map[string]bool{"mastered": false}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, masteredToday(t))

	// Mastering through a full word update counts the same way.
	var updated domain.Word
	resp = doJSON(t, server, http.MethodPut, "/api/words/"+second.ID.String(), token,
		map[string]interface{}{
			"term":       "鳥",
			"meaning":    "bird",
			"jlpt_level": 5,
			"priority":   1,
			"mastered":   true,
		}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, updated.Mastered)
	assert.Equal(t, 2, masteredToday(t))
}

func TestReviewEndpoints(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)
	user := registerUser(t, server)
	token := user.AccessToken
	word := createWord(t, server, token, "復習")

	t.Run("preview before first review", func(t *testing.T) {
		var preview srs.Preview
		resp := doJSON(t, server, http.MethodGet, "/api/words/"+word.ID.String()+"/preview", token, nil, &preview)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "1m", preview.Again)
		assert.Equal(t, "10m", preview.Good)
	})

	t.Run("submit with rating name", func(t *testing.T) {
		var result SubmitReviewResponse
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/review", token,
			map[string]interface{}{"rating": "good"}, &result)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NotNil(t, result.State)
		assert.Equal(t, 1, result.State.ReviewCount)
		assert.False(t, result.LeechFlagged)
		require.NotNil(t, result.Intervals)
	})

	t.Run("submit with quality score", func(t *testing.T) {
		var result SubmitReviewResponse
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/review", token,
			map[string]interface{}{"quality": 5}, &result)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, result.State.ReviewCount)
	})

	t.Run("neither rating nor quality", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/review", token,
			map[string]interface{}{}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown rating name", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/review", token,
			map[string]interface{}{"rating": "perfect"}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("foreign word forbidden", func(t *testing.T) {
		stranger := registerUser(t, server)
		resp := doJSON(t, server, http.MethodPost, "/api/words/"+word.ID.String()+"/review",
			stranger.AccessToken, map[string]interface{}{"rating": "good"}, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestStudyEndpoints(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)
	user := registerUser(t, server)
	token := user.AccessToken

	createWord(t, server, token, "単語一")
	createWord(t, server, token, "単語二")

	t.Run("queue", func(t *testing.T) {
		var queue StudyQueueResponse
		resp := doJSON(t, server, http.MethodGet, "/api/study/queue", token, nil, &queue)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 2, queue.Count)
		assert.Len(t, queue.Words, 2)
	})

	t.Run("queue with limit", func(t *testing.T) {
		var queue StudyQueueResponse
		resp := doJSON(t, server, http.MethodGet, "/api/study/queue?limit=1", token, nil, &queue)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, queue.Count)
	})

	t.Run("practice words", func(t *testing.T) {
		var queue StudyQueueResponse
		resp := doJSON(t, server, http.MethodGet, "/api/study/practice?count=1", token, nil, &queue)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 1, queue.Count)
	})

	t.Run("record practice and stats", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/study/practice", token,
			map[string]interface{}{"count": 4}, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var stats domain.DailyStats
		resp = doJSON(t, server, http.MethodGet, "/api/stats/today", token, nil, &stats)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 4, stats.PracticeCount)
	})

	t.Run("record practice rejects zero", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPost, "/api/study/practice", token,
			map[string]interface{}{"count": 0}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestSettingsEndpoints(t *testing.T) {
	t.Parallel() // Enable parallel execution
	server := newTestServer(t)
	user := registerUser(t, server)
	token := user.AccessToken

	t.Run("defaults before first save", func(t *testing.T) {
		var settings domain.QuizSettings
		resp := doJSON(t, server, http.MethodGet, "/api/settings", token, nil, &settings)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 10, settings.NewPerDay)
		assert.Equal(t, domain.DirectionTermToMeaning, settings.CardDirection)
	})

	t.Run("update and read back", func(t *testing.T) {
		var updated domain.QuizSettings
		resp := doJSON(t, server, http.MethodPut, "/api/settings", token,
			map[string]interface{}{
				"new_per_day":         5,
				"max_reviews_per_day": 50,
				"jlpt_filter":         5,
				"priority_filter":     0,
				"card_direction":      "mixed",
				"session_size":        15,
				"leech_threshold":     4,
			}, &updated)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 5, updated.NewPerDay)
		assert.Equal(t, domain.DirectionMixed, updated.CardDirection)

		var settings domain.QuizSettings
		resp = doJSON(t, server, http.MethodGet, "/api/settings", token, nil, &settings)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, 5, settings.NewPerDay)
		assert.Equal(t, 15, settings.SessionSize)
	})

	t.Run("invalid direction rejected", func(t *testing.T) {
		resp := doJSON(t, server, http.MethodPut, "/api/settings", token,
			map[string]interface{}{
				"new_per_day":         5,
				"max_reviews_per_day": 50,
				"card_direction":      "sideways",
				"session_size":        15,
				"leech_threshold":     4,
			}, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
