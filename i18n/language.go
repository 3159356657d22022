package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Matcher picks a supported language from an Accept-Language header.
type Matcher struct {
	codes   []string
	matcher language.Matcher
}

// languageTag maps the app's language codes onto BCP 47. "np" is the code the
// site uses for Nepali, whose standard tag is "ne".
func languageTag(code string) language.Tag {
	if code == "np" {
		return language.Nepali
	}
	return language.Make(code)
}

// NewMatcher builds a matcher over codes; the first code is the default.
func NewMatcher(codes ...string) *Matcher {
	tags := make([]language.Tag, len(codes))
	for i, c := range codes {
		tags[i] = languageTag(c)
	}
	return &Matcher{codes: codes, matcher: language.NewMatcher(tags)}
}

// Match returns the best supported code for an Accept-Language header and
// whether anything matched with at least low confidence.
func (m *Matcher) Match(acceptLanguage string) (string, bool) {
	if len(m.codes) == 0 {
		return "", false
	}
	if strings.TrimSpace(acceptLanguage) == "" {
		return m.codes[0], false
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return m.codes[0], false
	}

	_, index, confidence := m.matcher.Match(tags...)
	if confidence == language.No {
		return m.codes[0], false
	}
	return m.codes[index], true
}

// Normalize maps loose inputs such as "NP", "ne" or "en-GB" to a supported code.
func (m *Matcher) Normalize(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "", false
	}
	for _, c := range m.codes {
		if c == code {
			return c, true
		}
	}
	if code == "ne" || strings.HasPrefix(code, "ne-") || strings.HasPrefix(code, "np-") {
		for _, c := range m.codes {
			if c == "np" {
				return c, true
			}
		}
	}
	base := strings.SplitN(code, "-", 2)[0]
	for _, c := range m.codes {
		if c == base {
			return c, true
		}
	}
	return "", false
}
