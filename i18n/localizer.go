package i18n

import (
	"strings"
	"time"
)

// Localizer binds a bundle to one language. Keys may carry an i18next style
// namespace prefix ("common:nav.home"); without one the translation namespace
// is used.
type Localizer struct {
	bundle *Bundle
	lang   string
}

func NewLocalizer(bundle *Bundle, lang string) *Localizer {
	return &Localizer{bundle: bundle, lang: lang}
}

func (l *Localizer) Lang() string {
	return l.lang
}

// T translates key in the active language.
func (l *Localizer) T(key string) string {
	return l.Tv(key, nil)
}

// Tv translates key with interpolation variables.
func (l *Localizer) Tv(key string, vars map[string]interface{}) string {
	ns, k := splitKey(key)
	return l.bundle.T(l.lang, ns, k, vars)
}

// Array returns a list of strings, such as the category options.
func (l *Localizer) Array(key string) []string {
	ns, k := splitKey(key)
	return l.bundle.Array(l.lang, ns, k)
}

// Items returns the manifesto entries.
func (l *Localizer) Items() []map[string]interface{} {
	return l.bundle.Items(l.lang)
}

// Number formats n with the language's digits.
func (l *Localizer) Number(n int) string {
	return FormatNumber(int64(n), l.lang)
}

func (l *Localizer) Date(t time.Time) string {
	return FormatDate(t, l.lang)
}

func splitKey(key string) (string, string) {
	if i := strings.Index(key, ":"); i > 0 {
		switch ns := key[:i]; ns {
		case NamespaceCommon, NamespaceTranslation, NamespaceManifesto:
			return ns, key[i+1:]
		}
	}
	return NamespaceTranslation, key
}
