package pages

import (
	"fmt"
	"net/url"

	"nepal-reforms/templates/components"
)

// HomeData is the content of the landing page below the hero.
type HomeData struct {
	Agendas    []components.AgendaView
	Categories []string
	Category   string
	NextOffset int
	HasMore    bool
}

func categoryHref(category string) string {
	return "/?category=" + url.QueryEscape(category) + "#agendas"
}

// moreHref pages forward while keeping the category filter.
func (d HomeData) moreHref() string {
	href := fmt.Sprintf("/?offset=%d", d.NextOffset)
	if d.Category != "" {
		href += "&category=" + url.QueryEscape(d.Category)
	}
	return href + "#agendas"
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}
