package i18n

import "context"

const (
	categoriesKey     = "opinionCreation.categories"
	priorityLevelsKey = "opinionCreation.priorityLevels"
)

// Catalog exposes the opinion form's category and priority lists from the
// translation namespace.
type Catalog struct {
	loader *Loader
}

func NewCatalog(loader *Loader) *Catalog {
	return &Catalog{loader: loader}
}

func (c *Catalog) Categories(lang string) []string {
	return c.array(lang, categoriesKey)
}

func (c *Catalog) PriorityLevels(lang string) []string {
	return c.array(lang, priorityLevelsKey)
}

// AllCategories returns the categories of every supported language. A stored
// category is whatever label the author saw, so any language's label is valid.
func (c *Catalog) AllCategories() []string {
	return c.union(categoriesKey)
}

func (c *Catalog) AllPriorityLevels() []string {
	return c.union(priorityLevelsKey)
}

func (c *Catalog) array(lang, key string) []string {
	if err := c.loader.Ensure(context.Background(), lang); err != nil {
		c.loader.logger.Warn("Translations unavailable", "language", lang, "error", err)
	}
	return c.loader.Bundle().Array(lang, NamespaceTranslation, key)
}

func (c *Catalog) union(key string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, lang := range c.loader.Bundle().Languages() {
		for _, v := range c.array(lang, key) {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}
