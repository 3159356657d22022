package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/middleware"
	"nepal-reforms/models"
	"nepal-reforms/services"
	"nepal-reforms/templates/pages"
	"nepal-reforms/validator"
)

const (
	oauthStateCookie = "oauth_state"
	oauthNextCookie  = "oauth_next"
)

// authError writes an auth failure as JSON with the translated message and
// the form field it belongs to.
func authError(c *fiber.Ctx, a *app.App, err error, flow string) error {
	field, key := services.AuthErrorField(err, flow)

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, services.ErrUserAlreadyRegistered):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmailNotConfirmed), errors.Is(err, services.ErrSignupDisabled):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrResetTokenInvalid),
		errors.Is(err, services.ErrConfirmTokenInvalid):
	default:
		status = fiber.StatusInternalServerError
		a.Logger.Error("auth request failed", "flow", flow, "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"error": localizer(c, a).T(key),
		"field": field,
		"code":  key,
	})
}

// SignUp registers an email/password account
func SignUp(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.SignUpRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.SignUpMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		user, err := a.AuthService.SignUp(&req, middleware.GetLanguage(c))
		if err != nil {
			return authError(c, a, err, "signup")
		}

		if user.Confirmed() {
			sess, err := a.AuthService.Login(user.Email, req.Password)
			if err != nil {
				return authError(c, a, err, "signup")
			}
			setSessionCookie(c, a, sess)
			return created(c, fiber.Map{
				"success":               true,
				"confirmation_required": false,
				"user":                  userJSON(sess),
			})
		}

		return created(c, fiber.Map{
			"success":               true,
			"confirmation_required": true,
		})
	}
}

// Login handles email/password authentication
func Login(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.LoginMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		sess, err := a.AuthService.Login(strings.TrimSpace(req.Email), req.Password)
		if err != nil {
			return authError(c, a, err, "login")
		}

		setSessionCookie(c, a, sess)
		a.Logger.Info("user logged in", "user_id", sess.UserID, "provider", sess.Provider)

		return success(c, fiber.Map{
			"success": true,
			"user":    userJSON(sess),
		})
	}
}

// Logout handles user logout
func Logout(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		endSession(c, a)
		return success(c, fiber.Map{"success": true})
	}
}

// LogoutPage ends the session from the navigation form
func LogoutPage(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		endSession(c, a)
		middleware.SetFlash(c, "info", "common:toast.signedOut")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

func endSession(c *fiber.Ctx, a *app.App) {
	if sessionID := c.Cookies(middleware.SessionCookie); sessionID != "" {
		if err := a.AuthService.Logout(sessionID); err != nil {
			a.Logger.Warn("failed to delete session", "error", err)
		}
	}
	middleware.ExpireCookie(c, middleware.SessionCookie)
}

// Me returns the current user's session information
func Me(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := middleware.GetSession(c)
		if sess == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"authenticated": false,
			})
		}

		return c.JSON(fiber.Map{
			"authenticated": true,
			"user":          userJSON(sess),
		})
	}
}

// ForgotPassword emails a recovery link. The response is the same whether or
// not the address has an account.
func ForgotPassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ForgotPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.ForgotPasswordMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		if err := a.AuthService.RequestPasswordReset(req.Email); err != nil {
			return authError(c, a, err, "forgotPassword")
		}

		return success(c, fiber.Map{"success": true})
	}
}

// ResetPassword sets a new password from a recovery link and signs the user in
func ResetPassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.ResetPasswordMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		sess, err := a.AuthService.ResetPassword(req.Token, req.Password)
		if err != nil {
			return authError(c, a, err, "resetPassword")
		}

		setSessionCookie(c, a, sess)
		return success(c, fiber.Map{
			"success": true,
			"user":    userJSON(sess),
		})
	}
}

// UpdatePassword changes the signed-in user's password
func UpdatePassword(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.ResetPasswordRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		if errs := a.Validator.ValidateForm(&req, validator.ResetPasswordMessages); errs != nil {
			return formErrors(c, a, errs)
		}

		sess := middleware.GetSession(c)
		if err := a.AuthService.UpdatePassword(sess.UserID, sess.ID, req.Password); err != nil {
			return authError(c, a, err, "resetPassword")
		}

		return success(c, fiber.Map{"success": true})
	}
}

// GoogleOneTap signs in with a Google credential (One Tap) or authorization code
func GoogleOneTap(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.GoogleLoginRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		var sess *models.Session
		var err error

		switch {
		case req.Credential != "":
			sess, err = a.AuthService.LoginWithIDToken(c.UserContext(), req.Credential)
		case req.Code != "":
			sess, err = a.AuthService.LoginWithGoogle(c.UserContext(), req.Code)
		default:
			return badRequest(c, "Either credential or code is required")
		}

		if errors.Is(err, services.ErrGoogleDisabled) {
			return notFound(c, "Google sign-in is not configured")
		}
		if err != nil {
			a.Logger.Warn("google login failed", "error", err)
			return unauthorized(c, "Authentication failed")
		}

		setSessionCookie(c, a, sess)
		return success(c, fiber.Map{
			"success": true,
			"user":    userJSON(sess),
		})
	}
}

// GoogleLogin redirects to the Google consent screen
func GoogleLogin(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := generateStateToken()
		if err != nil {
			return err
		}

		authURL, err := a.AuthService.GoogleAuthURL(state)
		if err != nil {
			middleware.SetFlash(c, "error", "login.errors.googleUnavailable")
			return c.Redirect("/auth/login", fiber.StatusSeeOther)
		}

		// Store state in a short-lived cookie (expires in 10 minutes)
		expires := time.Now().Add(10 * time.Minute)
		c.Cookie(&fiber.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Expires:  expires,
			HTTPOnly: true,
			Secure:   a.Config.IsProduction(),
			SameSite: "Lax",
			Path:     "/",
		})
		if next := middleware.SafeNext(c.Query("next"), ""); next != "" {
			c.Cookie(&fiber.Cookie{
				Name:     oauthNextCookie,
				Value:    next,
				Expires:  expires,
				HTTPOnly: true,
				Secure:   a.Config.IsProduction(),
				SameSite: "Lax",
				Path:     "/",
			})
		}

		return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
	}
}

// GoogleCallback handles the OAuth callback from Google
func GoogleCallback(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		expectedState := c.Cookies(oauthStateCookie)
		next := middleware.SafeNext(c.Cookies(oauthNextCookie), "/")
		middleware.ExpireCookie(c, oauthStateCookie)
		middleware.ExpireCookie(c, oauthNextCookie)

		fail := func(reason string, attrs ...any) error {
			a.Logger.Warn("google callback failed", append([]any{"reason", reason}, attrs...)...)
			middleware.SetFlash(c, "error", "login.errors.googleFailed")
			return c.Redirect("/auth/login", fiber.StatusSeeOther)
		}

		if errParam := c.Query("error"); errParam != "" {
			return fail("provider error", "error", errParam)
		}
		if expectedState == "" || c.Query("state") != expectedState {
			return fail("state mismatch")
		}

		code := c.Query("code")
		if code == "" {
			return fail("missing code")
		}

		sess, err := a.AuthService.LoginWithGoogle(c.UserContext(), code)
		if err != nil {
			return fail("login failed", "error", err)
		}

		setSessionCookie(c, a, sess)
		middleware.SetFlash(c, "success", "common:toast.signedIn")
		a.Logger.Info("user logged in", "user_id", sess.UserID, "provider", sess.Provider)

		return c.Redirect(next, fiber.StatusSeeOther)
	}
}

// ConfirmEmail consumes the link from the confirmation email and signs the user in
func ConfirmEmail(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := a.AuthService.ConfirmEmail(c.Query("token"))
		if err != nil {
			if !errors.Is(err, services.ErrConfirmTokenInvalid) {
				a.Logger.Error("email confirmation failed", "error", err)
			}
			return renderStatus(c, fiber.StatusBadRequest, pages.ConfirmFailed(newPage(c, a, "confirm.title")))
		}

		setSessionCookie(c, a, sess)
		middleware.SetFlash(c, "success", "common:toast.emailConfirmed")
		return c.Redirect("/", fiber.StatusSeeOther)
	}
}

// ResendConfirmation mails a new confirmation link from the login form
func ResendConfirmation(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
		if validator.ValidateEmail(email) {
			if err := a.AuthService.ResendConfirmation(email); err != nil {
				a.Logger.Error("failed to resend confirmation", "error", err)
			}
		}

		middleware.SetFlash(c, "info", "common:toast.confirmationResent")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
}

// generateStateToken returns a random state value for CSRF protection
func generateStateToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
