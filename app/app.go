package app

import (
	"log/slog"

	"nepal-reforms/config"
	"nepal-reforms/database"
	"nepal-reforms/i18n"
	"nepal-reforms/notify"
	"nepal-reforms/services"
	"nepal-reforms/session"
	"nepal-reforms/utils"
	"nepal-reforms/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Config       *config.Config
	Repo         *database.Repository
	SessionStore *session.Store
	Validator    *validator.Validator
	Logger       *slog.Logger

	AuthService    *services.AuthService
	OpinionService *services.OpinionService
	VoteService    *services.VoteService

	Loader  *i18n.Loader
	Matcher *i18n.Matcher
	Catalog *i18n.Catalog
	Watcher *i18n.Watcher

	Notifier     *notify.Notifier
	NotifyWorker *notify.Worker

	Assets *utils.Manifest
}

// Deps are the infrastructure pieces App is assembled from
type Deps struct {
	Config       *config.Config
	Repo         *database.Repository
	SessionStore *session.Store
	Loader       *i18n.Loader
	Notifier     *notify.Notifier
	Assets       *utils.Manifest
	Logger       *slog.Logger
}

// New creates a new App instance with all dependencies
func New(d Deps) *App {
	cfg := d.Config
	catalog := i18n.NewCatalog(d.Loader)

	v := validator.New(cfg.SupportedLanguages...)
	v.SetKnownValues("category", catalog.AllCategories)
	v.SetKnownValues("priority", catalog.AllPriorityLevels)

	authService := services.NewAuthService(d.Repo, d.SessionStore, d.Notifier, services.AuthOptions{
		SiteURL:                  cfg.SiteURL,
		SignupEnabled:            cfg.SignupEnabled,
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		GoogleClientID:           cfg.GoogleClientID,
		GoogleClientSecret:       cfg.GoogleClientSecret,
		GoogleRedirectURL:        cfg.GoogleRedirectURL,
	}, d.Logger)

	return &App{
		Config:         cfg,
		Repo:           d.Repo,
		SessionStore:   d.SessionStore,
		Validator:      v,
		Logger:         d.Logger,
		AuthService:    authService,
		OpinionService: services.NewOpinionService(d.Repo, d.Notifier, catalog, cfg.SiteURL, d.Logger),
		VoteService:    services.NewVoteService(d.Repo),
		Loader:         d.Loader,
		Matcher:        i18n.NewMatcher(cfg.SupportedLanguages...),
		Catalog:        catalog,
		Notifier:       d.Notifier,
		Assets:         d.Assets,
	}
}
