package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tango-api/internal/config"
	"github.com/phrazzld/tango-api/internal/domain/srs"
	"github.com/phrazzld/tango-api/internal/platform/postgres"
	"github.com/phrazzld/tango-api/internal/platform/sqlite"
	"github.com/phrazzld/tango-api/internal/service/auth"
	"github.com/phrazzld/tango-api/internal/service/review"
	"github.com/phrazzld/tango-api/internal/service/study"
	"github.com/phrazzld/tango-api/internal/store"
)

// application holds the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (interfaces, backed by the configured driver)
	userStore     store.UserStore
	wordStore     store.WordStore
	progressStore store.ProgressStore
	statsStore    store.StatsStore
	settingsStore store.SettingsStore

	// Services
	jwtService    auth.JWTService
	hasher        auth.PasswordHasher
	srsService    srs.Service
	reviewService review.ReviewService
	studyService  study.StudyService
}

// newApplication creates an application instance with all dependencies
// initialized. The store set is chosen by the configured database driver;
// both backends satisfy the same interfaces.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_mins", cfg.Auth.TokenLifetimeMins)

	app.hasher = auth.NewBcryptHasher(0)

	switch cfg.Database.Driver {
	case "postgres":
		app.userStore = postgres.NewPostgresUserStore(db, logger)
		app.wordStore = postgres.NewPostgresWordStore(db, logger)
		app.progressStore = postgres.NewPostgresProgressStore(db, logger)
		app.statsStore = postgres.NewPostgresStatsStore(db, logger)
		app.settingsStore = store.NewCachedSettingsStore(
			postgres.NewPostgresSettingsStore(db, logger), 0)
	case "sqlite":
		app.userStore = sqlite.NewSQLiteUserStore(db, logger)
		app.wordStore = sqlite.NewSQLiteWordStore(db, logger)
		app.progressStore = sqlite.NewSQLiteProgressStore(db, logger)
		app.statsStore = sqlite.NewSQLiteStatsStore(db, logger)
		app.settingsStore = store.NewCachedSettingsStore(
			sqlite.NewSQLiteSettingsStore(db, logger), 0)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Database.Driver)
	}

	app.srsService, err = schedulerFromConfig(cfg.Study)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	app.reviewService = review.NewReviewService(
		db,
		app.wordStore,
		app.progressStore,
		app.statsStore,
		app.settingsStore,
		app.userStore,
		app.srsService,
		logger,
	)

	app.studyService = study.NewStudyService(
		app.wordStore,
		app.progressStore,
		app.statsStore,
		app.settingsStore,
		app.userStore,
		logger,
	)

	logger.Info("Application initialized successfully")
	return app, nil
}

// schedulerFromConfig builds the scheduling service, applying any tuning
// overrides from configuration on top of the default parameter set.
func schedulerFromConfig(cfg config.StudyConfig) (srs.Service, error) {
	params := srs.NewDefaultParams()
	if cfg.DesiredRetention > 0 {
		params.DesiredRetention = cfg.DesiredRetention
	}
	if cfg.MaximumIntervalDay > 0 {
		params.MaximumInterval = cfg.MaximumIntervalDay
	}
	return srs.NewServiceWithParams(params)
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
