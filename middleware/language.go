package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/i18n"
)

const LanguageCookie = "i18nextLng"

// LanguageConfig configures language resolution
type LanguageConfig struct {
	Loader  *i18n.Loader
	Matcher *i18n.Matcher
	Secure  bool
}

// Language picks the request language from ?lng=, then the i18nextLng cookie,
// then Accept-Language, then the fallback. The choice is stored in the cookie
// and its translations are loaded on first use.
func Language(cfg LanguageConfig) fiber.Handler {
	fallback := cfg.Loader.Bundle().Fallback()

	return func(c *fiber.Ctx) error {
		lang := ""
		fromQuery := false

		if q, ok := cfg.Matcher.Normalize(c.Query("lng")); ok {
			lang = q
			fromQuery = true
		} else if cookie, ok := cfg.Matcher.Normalize(c.Cookies(LanguageCookie)); ok {
			lang = cookie
		} else if matched, ok := cfg.Matcher.Match(c.Get(fiber.HeaderAcceptLanguage)); ok {
			lang = matched
		} else {
			lang = fallback
		}

		if fromQuery || c.Cookies(LanguageCookie) != lang {
			SetLanguageCookie(c, lang, cfg.Secure)
		}

		if err := cfg.Loader.Ensure(c.UserContext(), lang); err != nil {
			return err
		}

		c.Locals("lang", lang)
		c.Locals("localizer", i18n.NewLocalizer(cfg.Loader.Bundle(), lang))
		return c.Next()
	}
}

// SetLanguageCookie persists the language choice for a year
func SetLanguageCookie(c *fiber.Ctx, lang string, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     LanguageCookie,
		Value:    lang,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		Secure:   secure,
		SameSite: "Lax",
		Path:     "/",
	})
}

// GetLanguage returns the language resolved for the request
func GetLanguage(c *fiber.Ctx) string {
	lang, _ := c.Locals("lang").(string)
	return lang
}

// GetLocalizer returns the request's localizer
func GetLocalizer(c *fiber.Ctx) *i18n.Localizer {
	l, _ := c.Locals("localizer").(*i18n.Localizer)
	return l
}
