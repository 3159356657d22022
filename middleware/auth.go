package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/models"
)

const SessionCookie = "session_id"

// SessionLoader loads a session by ID and records its use. Missing or expired
// sessions return nil.
type SessionLoader interface {
	Get(sessionID string) (*models.Session, error)
	Touch(sessionID string) error
}

// touchInterval limits last_used_at writes to one per session per interval
const touchInterval = time.Minute

// LoadSession attaches the session behind the session cookie, if any, to the
// request. It never rejects a request; stale cookies are cleared.
func LoadSession(store SessionLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookie)
		if sessionID == "" {
			return c.Next()
		}

		sess, err := store.Get(sessionID)
		if err == nil && sess != nil {
			c.Locals("userID", sess.UserID)
			c.Locals("userEmail", sess.Email)
			c.Locals("session", sess)
			if time.Since(sess.LastUsedAt) >= touchInterval {
				// A failed touch only loses the activity timestamp.
				_ = store.Touch(sess.ID)
			}
			return c.Next()
		}

		ExpireCookie(c, SessionCookie)
		return c.Next()
	}
}

// AuthRequired rejects API requests without a valid session
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		return c.Next()
	}
}

// PageAuthRequired redirects anonymous visitors to loginPath, remembering where
// they were going.
func PageAuthRequired(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) == "" {
			return c.Redirect(loginPath+"?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in users away from the sign-up and login pages
func RedirectIfAuthenticated(target string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetUserID(c) != "" {
			return c.Redirect(target, fiber.StatusSeeOther)
		}
		return c.Next()
	}
}

// SafeNext returns next when it is a local path, otherwise fallback.
func SafeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals("userID").(string)
	if !ok {
		return ""
	}
	return userID
}

func GetUserEmail(c *fiber.Ctx) string {
	email, ok := c.Locals("userEmail").(string)
	if !ok {
		return ""
	}
	return email
}

func GetSession(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals("session").(*models.Session)
	return sess
}
