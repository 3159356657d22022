package setup

import (
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/handlers"
	"nepal-reforms/middleware"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	cfg := application.Config

	// Static assets with aggressive caching
	fiberApp.Static("/static", cfg.StaticDir, fiber.Static{
		Compress:      true,
		CacheDuration: 365 * 24 * time.Hour, // 1 year for versioned assets
		MaxAge:        31536000,             // 1 year in seconds
	})
	fiberApp.Get("/robots.txt", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(cfg.StaticDir, "robots.txt"))
	})
	fiberApp.Get("/locales/:lng/:ns", handlers.LocaleFile(application))

	// Public routes
	fiberApp.Get("/", handlers.HomePage(application))
	fiberApp.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	fiberApp.Get("/agendas/:id", handlers.AgendaPage(application))

	// Auth pages
	guest := middleware.RedirectIfAuthenticated("/")
	fiberApp.Get("/auth/sign-up", guest, handlers.SignUpPage(application))
	fiberApp.Post("/auth/sign-up", guest, handlers.SignUpSubmit(application))
	fiberApp.Get("/auth/sign-up-success", handlers.SignUpSuccessPage(application))
	fiberApp.Get("/auth/login", guest, handlers.LoginPage(application))
	fiberApp.Post("/auth/login", guest, handlers.LoginSubmit(application))
	fiberApp.Post("/auth/logout", handlers.LogoutPage(application))
	fiberApp.Post("/auth/resend-confirmation", handlers.ResendConfirmation(application))
	fiberApp.Get("/auth/forgot-password", handlers.ForgotPasswordPage(application))
	fiberApp.Post("/auth/forgot-password", handlers.ForgotPasswordSubmit(application))
	fiberApp.Get("/auth/reset-password", handlers.ResetPasswordPage(application))
	fiberApp.Post("/auth/reset-password", handlers.ResetPasswordSubmit(application))
	fiberApp.Get("/auth/confirm", handlers.ConfirmEmail(application))
	fiberApp.Get("/auth/google", handlers.GoogleLogin(application))
	fiberApp.Get("/auth/google/callback", handlers.GoogleCallback(application))

	// Signed-in pages
	signedIn := middleware.PageAuthRequired("/auth/login")
	fiberApp.Get("/create-opinion", signedIn, handlers.CreateOpinionPage(application))
	fiberApp.Post("/create-opinion", signedIn, handlers.CreateOpinionSubmit(application))
	fiberApp.Post("/agendas/:id/submit", signedIn, handlers.SubmitAgendaPage(application))
	fiberApp.Post("/agendas/:id/delete", signedIn, handlers.DeleteAgendaPage(application))

	// Public API
	api := fiberApp.Group("/api")
	api.Post("/auth/signup", handlers.SignUp(application))
	api.Post("/auth/login", handlers.Login(application))
	api.Post("/auth/logout", handlers.Logout(application))
	api.Get("/auth/me", handlers.Me(application))
	api.Post("/auth/forgot-password", handlers.ForgotPassword(application))
	api.Post("/auth/reset-password", handlers.ResetPassword(application))
	api.Post("/auth/google", handlers.GoogleOneTap(application))
	api.Get("/agendas", handlers.ListAgendas(application))
	api.Get("/agendas/:id", handlers.GetAgenda(application))
	api.Get("/agendas/:id/votes", handlers.GetVotes(application))
	api.Get("/i18n/:lng/:ns", handlers.Translations(application))
	api.Post("/language", handlers.SetLanguage(application))

	// Protected API routes
	authRequired := middleware.AuthRequired()
	perUser := userLimiter()
	api.Put("/auth/password", authRequired, perUser, handlers.UpdatePassword(application))
	api.Post("/agendas", authRequired, perUser, handlers.CreateAgenda(application))
	api.Patch("/agendas/:id/status", authRequired, perUser, handlers.UpdateAgendaStatus(application))
	api.Delete("/agendas/:id", authRequired, perUser, handlers.DeleteAgenda(application))
	api.Post("/agendas/:id/votes", authRequired, perUser, handlers.CastVote(application))

	fiberApp.Use(handlers.NotFoundPage(application))
}
