package handlers

import (
	"io/fs"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"nepal-reforms/app"
	"nepal-reforms/i18n"
)

func isNamespace(ns string) bool {
	for _, known := range i18n.Namespaces {
		if ns == known {
			return true
		}
	}
	return false
}

// LocaleFile serves /locales/:lng/:ns.json verbatim from the locales directory
func LocaleFile(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Params("lng")
		ns := strings.TrimSuffix(c.Params("ns"), ".json")

		if !a.Loader.Bundle().IsSupported(lang) || !isNamespace(ns) {
			return notFound(c, "Unknown locale resource")
		}

		data, err := fs.ReadFile(a.Loader.FS(), path.Join(lang, ns+".json"))
		if err != nil {
			a.Logger.Warn("locale file unavailable", "language", lang, "namespace", ns, "error", err)
			return notFound(c, "Unknown locale resource")
		}

		c.Set("Cache-Control", "public, max-age=300")
		c.Type("json", "utf-8")
		return c.Send(data)
	}
}

// Translations returns the merged namespace held in memory for a language,
// loading the language first if needed.
func Translations(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Params("lng")
		ns := c.Params("ns")

		if !a.Loader.Bundle().IsSupported(lang) || !isNamespace(ns) {
			return notFound(c, "Unknown locale resource")
		}

		if err := a.Loader.Ensure(c.UserContext(), lang); err != nil {
			return serverErrorWithDetails(c, "Failed to load translations", err)
		}

		if ns == i18n.NamespaceManifesto {
			items := a.Loader.Bundle().Items(lang)
			if items == nil {
				items = []map[string]interface{}{}
			}
			return c.JSON(items)
		}

		data := a.Loader.Bundle().Namespace(lang, ns)
		if data == nil {
			data = map[string]interface{}{}
		}
		return c.JSON(data)
	}
}
