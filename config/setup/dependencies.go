package setup

import (
	"context"
	"log/slog"
	"os"

	"nepal-reforms/app"
	"nepal-reforms/config"
	"nepal-reforms/database"
	"nepal-reforms/i18n"
	"nepal-reforms/notify"
	"nepal-reforms/session"
	"nepal-reforms/utils"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// InitApp initializes the application with all dependencies. Background
// workers are started here and stopped by Shutdown.
func InitApp(ctx context.Context, db *database.DB, cfg *config.Config, logger *slog.Logger) (*app.App, error) {
	repo := database.NewRepository(db)

	sessionStore := session.NewStore(db.DB, cfg.SessionTTL)

	bundle := i18n.NewBundle(cfg.FallbackLanguage, cfg.SupportedLanguages...)
	loader := i18n.NewLoader(os.DirFS(cfg.LocalesDir), bundle, logger)
	if _, err := loader.LoadLanguage(ctx, cfg.FallbackLanguage); err != nil {
		return nil, err
	}
	logger.Info("translations loaded", "language", cfg.FallbackLanguage, "dir", cfg.LocalesDir)

	renderer, err := notify.NewRenderer()
	if err != nil {
		return nil, err
	}

	var sender notify.Sender
	if cfg.ResendAPIKey != "" {
		sender = notify.NewResendSender(cfg.ResendAPIKey, cfg.NotifyFrom, cfg.NotifyFromName)
		logger.Info("email delivery configured", "provider", "resend")
	} else {
		sender = notify.NewLogSender(logger)
		logger.Warn("RESEND_API_KEY not set, emails are only logged")
	}

	notifier := notify.NewNotifier(repo, sender, renderer, cfg.NotifyTo, logger)
	worker := notify.NewWorker(notifier)

	// Nothing below can fail, so background goroutines start here.
	sessionStore.StartCleanupRoutine(logger, session.Sweeper{
		Name:  "auth_tokens",
		Sweep: repo.DeleteExpiredAuthTokens,
	})
	logger.Info("cleanup routine started")
	worker.Start()

	application := app.New(app.Deps{
		Config:       cfg,
		Repo:         repo,
		SessionStore: sessionStore,
		Loader:       loader,
		Notifier:     notifier,
		Assets:       utils.NewManifest(os.DirFS(cfg.StaticDir), "manifest.json", "/static", logger),
		Logger:       logger,
	})
	application.NotifyWorker = worker

	watcher, err := i18n.NewWatcher(cfg.LocalesDir, cfg.SupportedLanguages, loader, logger)
	if err != nil {
		logger.Warn("translation hot reload disabled", "error", err)
	} else if err := watcher.Start(ctx); err != nil {
		logger.Warn("translation hot reload disabled", "error", err)
	} else {
		application.Watcher = watcher
	}

	logger.Info("application initialized with dependency injection")
	return application, nil
}

// Shutdown performs graceful shutdown of all services
func Shutdown(application *app.App, db *database.DB, logger *slog.Logger) {
	logger.Info("shutting down services...")

	if application != nil {
		if application.Watcher != nil {
			application.Watcher.Stop()
		}
		if application.NotifyWorker != nil {
			application.NotifyWorker.Stop()
			logger.Info("notification worker stopped")
		}
		if application.Notifier != nil {
			application.Notifier.Wait()
		}
		if application.SessionStore != nil {
			application.SessionStore.Stop()
		}
	}

	if db != nil {
		db.Close()
		logger.Info("database closed")
	}
}
