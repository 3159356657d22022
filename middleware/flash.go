package middleware

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "flash"

// Flash is a one-shot toast message. Message is a translation key.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SetFlash stores a toast to show on the next rendered page
func SetFlash(c *fiber.Ctx, kind, message string) {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// Flashes moves a pending toast from its cookie into the request and clears
// the cookie so it is rendered once.
func Flashes() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(flashCookie)
		if raw == "" {
			return c.Next()
		}
		ExpireCookie(c, flashCookie)

		data, err := base64.RawURLEncoding.DecodeString(raw)
		if err != nil {
			return c.Next()
		}
		var f Flash
		if err := json.Unmarshal(data, &f); err == nil && f.Message != "" {
			c.Locals("flash", &f)
		}
		return c.Next()
	}
}

func GetFlash(c *fiber.Ctx) *Flash {
	f, _ := c.Locals("flash").(*Flash)
	return f
}
