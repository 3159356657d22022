package handlers

import (
	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
)

// SetLanguage stores the language choice in the cookie and, for signed-in
// users, on their account.
func SetLanguage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LanguageRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if lang, ok := a.Matcher.Normalize(req.Language); ok {
			req.Language = lang
		}
		if err := a.Validator.Validate(&req); err != nil {
			return validationError(c, err)
		}

		if err := a.Loader.Ensure(c.UserContext(), req.Language); err != nil {
			a.Logger.Warn("failed to load language", "language", req.Language, "error", err)
		}

		middleware.SetLanguageCookie(c, req.Language, a.Config.IsProduction())

		if userID := middleware.GetUserID(c); userID != "" {
			if err := a.AuthService.UpdateLanguage(userID, req.Language); err != nil {
				a.Logger.Error("failed to store preferred language", "user_id", userID, "error", err)
			}
		}

		return success(c, fiber.Map{"language": req.Language})
	}
}
