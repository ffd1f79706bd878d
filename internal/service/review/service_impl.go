package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/domain/srs"
	"github.com/phrazzld/tango-api/internal/platform/logger"
	"github.com/phrazzld/tango-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db         *sql.DB
	words      store.WordStore
	progress   store.ProgressStore
	stats      store.StatsStore
	settings   store.SettingsStore
	users      store.UserStore
	srsService srs.Service
	timeFunc   func() time.Time // injectable for testing
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	db *sql.DB,
	words store.WordStore,
	progress store.ProgressStore,
	stats store.StatsStore,
	settings store.SettingsStore,
	users store.UserStore,
	srsService srs.Service,
	logger *slog.Logger,
) ReviewService {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if words == nil || progress == nil || stats == nil || settings == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stores cannot be nil")
	}
	if srsService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("srsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		db:         db,
		words:      words,
		progress:   progress,
		stats:      stats,
		settings:   settings,
		users:      users,
		srsService: srsService,
		timeFunc:   func() time.Time { return time.Now().UTC() },
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	wordID uuid.UUID,
	rating domain.Rating,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", string(rating)))

	if !rating.IsValid() {
		log.Warn("invalid review rating",
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()),
			slog.String("rating", string(rating)))
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, rating)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewSubmitReviewError("failed to load user", err)
	}

	settings := s.loadSettings(ctx, userID, log)
	now := s.timeFunc()
	dateKey := domain.LocalDateKey(now, user.Location())

	result := &ReviewResult{}
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		words := s.words.WithTx(tx)
		progress := s.progress.WithTx(tx)
		stats := s.stats.WithTx(tx)

		word, err := words.GetByID(ctx, wordID)
		if err != nil {
			if errors.Is(err, store.ErrWordNotFound) {
				return ErrWordNotFound
			}
			return fmt.Errorf("failed to get word: %w", err)
		}
		if word.UserID != userID {
			log.Warn("user does not own word",
				slog.String("user_id", userID.String()),
				slog.String("word_id", wordID.String()))
			return ErrWordNotOwned
		}

		state, err := progress.Get(ctx, userID, wordID)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get card state: %w", err)
			}
			// First review of this word.
			state, err = domain.NewCardState(userID, wordID)
			if err != nil {
				return fmt.Errorf("failed to create card state: %w", err)
			}
		}
		wasNew := state.ReviewCount == 0

		newState, err := s.srsService.ReviewCard(state, rating, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next state: %w", err)
		}

		if err := progress.Upsert(ctx, newState); err != nil {
			return fmt.Errorf("failed to persist card state: %w", err)
		}

		if err := stats.Increment(ctx, userID, dateKey, wasNew, rating); err != nil {
			return fmt.Errorf("failed to record daily stats: %w", err)
		}

		if rating == domain.RatingAgain {
			flagged, err := srs.CheckLeech(newState, word, settings.LeechThreshold)
			if err != nil {
				return fmt.Errorf("failed to check leech threshold: %w", err)
			}
			if flagged {
				if err := words.SetLeech(ctx, wordID, now); err != nil {
					return fmt.Errorf("failed to flag leech: %w", err)
				}
				result.LeechFlagged = true
				log.Info("word flagged as leech",
					slog.String("user_id", userID.String()),
					slog.String("word_id", wordID.String()),
					slog.Int("lapses", newState.Lapses))
			}
		}

		result.State = newState
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrWordNotFound) || errors.Is(err, ErrWordNotOwned) {
			return nil, err
		}
		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("word_id", wordID.String()))
		return nil, NewSubmitReviewError("transaction failed", err)
	}

	intervals, err := s.srsService.PreviewIntervals(result.State, now)
	if err != nil {
		return nil, NewSubmitReviewError("failed to preview intervals", err)
	}
	result.Intervals = intervals

	log.Debug("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()),
		slog.String("rating", string(rating)),
		slog.Int("state", int(result.State.State)),
		slog.Time("next_review", result.State.NextReview))

	return result, nil
}

// Preview implements ReviewService.Preview.
func (s *reviewServiceImpl) Preview(
	ctx context.Context,
	userID uuid.UUID,
	wordID uuid.UUID,
) (*srs.Preview, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	word, err := s.words.GetByID(ctx, wordID)
	if err != nil {
		if errors.Is(err, store.ErrWordNotFound) {
			return nil, ErrWordNotFound
		}
		return nil, NewPreviewError("failed to get word", err)
	}
	if word.UserID != userID {
		return nil, ErrWordNotOwned
	}

	state, err := s.progress.Get(ctx, userID, wordID)
	if err != nil {
		if !errors.Is(err, store.ErrProgressNotFound) {
			return nil, NewPreviewError("failed to get card state", err)
		}
		state, err = domain.NewCardState(userID, wordID)
		if err != nil {
			return nil, NewPreviewError("failed to create card state", err)
		}
	}

	preview, err := s.srsService.PreviewIntervals(state, s.timeFunc())
	if err != nil {
		return nil, NewPreviewError("failed to preview intervals", err)
	}

	log.Debug("preview computed",
		slog.String("user_id", userID.String()),
		slog.String("word_id", wordID.String()))

	return preview, nil
}

// loadSettings returns the user's quiz settings, falling back to defaults
// when none have been saved or the read fails. A settings read failure
// must not block a review submission.
func (s *reviewServiceImpl) loadSettings(ctx context.Context, userID uuid.UUID, log *slog.Logger) *domain.QuizSettings {
	settings, err := s.settings.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrSettingsNotFound) {
			log.Warn("failed to load quiz settings, using defaults",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return domain.DefaultQuizSettings(userID)
	}
	return settings
}
