package components

import (
	"net/url"

	"nepal-reforms/i18n"
	"nepal-reforms/models"
)

// Flash is a toast rendered once at the top of the page. Message is a translation key.
type Flash struct {
	Kind    string
	Message string
}

// Page carries what every page needs besides its own content.
type Page struct {
	L              *i18n.Localizer
	TitleKey       string
	User           *models.Session
	Flash          *Flash
	Languages      []string
	Path           string
	Script         string
	Stylesheet     string
	GoogleClientID string
	Year           int
}

func (p Page) SignedIn() bool {
	return p.User != nil
}

// T translates key in the page language.
func (p Page) T(key string) string {
	return p.L.T(key)
}

// DocumentTitle is "<page title> | <app name>", or just the app name.
func (p Page) DocumentTitle() string {
	if p.TitleKey == "" {
		return p.T("common:appName")
	}
	return p.T(p.TitleKey) + " | " + p.T("common:appName")
}

func (p Page) footerRights() string {
	return p.L.Tv("common:footer.rights", map[string]interface{}{"year": p.L.Number(p.Year)})
}

// languageLink keeps the current path and query, replacing lng.
func languageLink(path, lang string) string {
	u, err := url.Parse(path)
	if err != nil || path == "" {
		return "/?lng=" + url.QueryEscape(lang)
	}
	q := u.Query()
	q.Set("lng", lang)
	u.RawQuery = q.Encode()
	return u.String()
}

// htmlLang maps the site's "np" code to the BCP 47 tag for Nepali.
func htmlLang(code string) string {
	if code == "np" {
		return "ne"
	}
	return code
}
