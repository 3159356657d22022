package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/i18n"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
	"nepal-reforms/templates/components"
	"nepal-reforms/validator"
)

func success(c *fiber.Ctx, data fiber.Map) error {
	return c.JSON(data)
}

func created(c *fiber.Ctx, data fiber.Map) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": message})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}

func serverError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

func serverErrorWithDetails(c *fiber.Ctx, message string, err error) error {
	requestID := ""
	if id, ok := c.Locals("requestID").(string); ok {
		requestID = id
	}

	slog.Error("server error",
		"request_id", requestID,
		"method", c.Method(),
		"path", c.Path(),
		"message", message,
		"error", err,
	)

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

// validationError reports struct validation failures as a field list
func validationError(c *fiber.Ctx, err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "Validation failed",
			"errors": errs,
		})
	}
	return badRequest(c, err.Error())
}

// formErrors reports form validation failures as field -> translated message
func formErrors(c *fiber.Ctx, a *app.App, errs validator.FormErrors) error {
	l := localizer(c, a)
	fields := make(fiber.Map, len(errs))
	for field, key := range errs {
		fields[field] = l.T(key)
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation failed",
		"fields": fields,
	})
}

// localizer returns the request localizer, or the fallback language when the
// language middleware did not run.
func localizer(c *fiber.Ctx, a *app.App) *i18n.Localizer {
	if l := middleware.GetLocalizer(c); l != nil {
		return l
	}
	bundle := a.Loader.Bundle()
	return i18n.NewLocalizer(bundle, bundle.Fallback())
}

func newPage(c *fiber.Ctx, a *app.App, titleKey string) components.Page {
	var flash *components.Flash
	if f := middleware.GetFlash(c); f != nil {
		flash = &components.Flash{Kind: f.Kind, Message: f.Message}
	}

	clientID := ""
	if a.AuthService.GoogleEnabled() {
		clientID = a.Config.GoogleClientID
	}

	return components.Page{
		L:              localizer(c, a),
		TitleKey:       titleKey,
		User:           middleware.GetSession(c),
		Flash:          flash,
		Languages:      a.Config.SupportedLanguages,
		Path:           c.OriginalURL(),
		Script:         a.Assets.Script(),
		Stylesheet:     a.Assets.Stylesheet(),
		GoogleClientID: clientID,
		Year:           time.Now().Year(),
	}
}

func render(c *fiber.Ctx, component templ.Component) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.UserContext(), c.Response().BodyWriter())
}

func renderStatus(c *fiber.Ctx, status int, component templ.Component) error {
	c.Status(status)
	return render(c, component)
}

func setSessionCookie(c *fiber.Ctx, a *app.App, sess *models.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.ID,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		Secure:   a.Config.IsProduction(),
		SameSite: "Lax",
		Path:     "/",
	})
}

func userJSON(sess *models.Session) fiber.Map {
	return fiber.Map{
		"id":        sess.UserID,
		"email":     sess.Email,
		"full_name": sess.FullName,
		"provider":  sess.Provider,
	}
}
