package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ExpireCookie removes a cookie that was set on the root path. c.ClearCookie
// leaves the path empty, which browsers scope to the current directory.
func ExpireCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}
