package study

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tango-api/internal/domain"
	"github.com/phrazzld/tango-api/internal/platform/logger"
	"github.com/phrazzld/tango-api/internal/store"
)

// StudyService assembles study sessions and exposes the daily counters.
type StudyService interface {
	// GetStudyQueue builds today's review queue for the user. A limit of
	// zero or less falls back to the user's configured session size.
	GetStudyQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Word, error)

	// GetPracticeWords returns up to count words for a non-graded
	// practice round. A count of zero or less falls back to the user's
	// configured session size.
	GetPracticeWords(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Word, error)

	// RecordPractice adds count practiced words to today's stats.
	RecordPractice(ctx context.Context, userID uuid.UUID, count int) error

	// TodayStats returns today's daily stats for the user, zero-valued
	// when nothing has been recorded yet.
	TodayStats(ctx context.Context, userID uuid.UUID) (*domain.DailyStats, error)
}

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	words    store.WordStore
	progress store.ProgressStore
	stats    store.StatsStore
	settings store.SettingsStore
	users    store.UserStore
	timeFunc func() time.Time // injectable for testing
	logger   *slog.Logger
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	words store.WordStore,
	progress store.ProgressStore,
	stats store.StatsStore,
	settings store.SettingsStore,
	users store.UserStore,
	logger *slog.Logger,
) StudyService {
	if words == nil || progress == nil || stats == nil || settings == nil || users == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("stores cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		words:    words,
		progress: progress,
		stats:    stats,
		settings: settings,
		users:    users,
		timeFunc: func() time.Time { return time.Now().UTC() },
		logger:   logger.With(slog.String("component", "study_service")),
	}
}

// GetStudyQueue implements StudyService.GetStudyQueue.
func (s *studyServiceImpl) GetStudyQueue(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings := s.loadSettings(ctx, userID, log)
	if limit <= 0 {
		limit = settings.SessionSize
	}

	words, err := s.words.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	states, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.timeFunc()
	stats, err := s.todayStats(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	queue := SelectDueWords(words, states, settings, stats, now, limit)

	log.Debug("study queue built",
		slog.String("user_id", userID.String()),
		slog.Int("candidates", len(words)),
		slog.Int("queue_size", len(queue)))

	return queue, nil
}

// GetPracticeWords implements StudyService.GetPracticeWords.
func (s *studyServiceImpl) GetPracticeWords(ctx context.Context, userID uuid.UUID, count int) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	settings := s.loadSettings(ctx, userID, log)
	if count <= 0 {
		count = settings.SessionSize
	}

	words, err := s.words.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	picked := SelectPracticeWords(words, count, settings.JLPTFilter)

	log.Debug("practice words selected",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(picked)))

	return picked, nil
}

// RecordPractice implements StudyService.RecordPractice.
func (s *studyServiceImpl) RecordPractice(ctx context.Context, userID uuid.UUID, count int) error {
	if count <= 0 {
		return nil
	}

	date, err := s.localDateKey(ctx, userID)
	if err != nil {
		return err
	}

	return s.stats.IncrementPractice(ctx, userID, date, count)
}

// TodayStats implements StudyService.TodayStats.
func (s *studyServiceImpl) TodayStats(ctx context.Context, userID uuid.UUID) (*domain.DailyStats, error) {
	return s.todayStats(ctx, userID, s.timeFunc())
}

func (s *studyServiceImpl) todayStats(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DailyStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	date := domain.LocalDateKey(now, user.Location())

	stats, err := s.stats.Get(ctx, userID, date)
	if err != nil {
		if errors.Is(err, store.ErrStatsNotFound) {
			return domain.NewDailyStats(userID, date)
		}
		return nil, err
	}

	return stats, nil
}

func (s *studyServiceImpl) localDateKey(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return domain.LocalDateKey(s.timeFunc(), user.Location()), nil
}

// loadSettings returns the user's quiz settings, falling back to defaults
// when none have been saved.
func (s *studyServiceImpl) loadSettings(ctx context.Context, userID uuid.UUID, log *slog.Logger) *domain.QuizSettings {
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
