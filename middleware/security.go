package middleware

import "github.com/gofiber/fiber/v2"

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://accounts.google.com https://www.gstatic.com; " +
	"style-src 'self' 'unsafe-inline' https://accounts.google.com; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self' https://accounts.google.com; " +
	"frame-src https://accounts.google.com; " +
	"font-src 'self' data:; " +
	"form-action 'self' https://accounts.google.com"

// Security sets the response hardening headers. HSTS is only sent in production.
func Security(production bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Set("Content-Security-Policy", contentSecurityPolicy)
		if production {
			c.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		return c.Next()
	}
}
