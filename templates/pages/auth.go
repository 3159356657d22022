package pages

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// googleAuthPath starts the OAuth redirect flow, carrying next through it.
func googleAuthPath(next string) string {
	if next == "" {
		return "/auth/google"
	}
	return "/auth/google?next=" + url.QueryEscape(next)
}

func strengthWidth(score int) templ.SafeCSS {
	return templ.SafeCSS("width:" + strconv.Itoa(score*20) + "%;")
}
