package i18n

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var devanagariDigits = strings.NewReplacer(
	"0", "०", "1", "१", "2", "२", "3", "३", "4", "४",
	"5", "५", "6", "६", "7", "७", "8", "८", "9", "९",
)

var enPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatNumber renders n for display. Nepali replaces each ASCII digit with its
// Devanagari counterpart without grouping; everything else uses en-US grouping.
func FormatNumber(n int64, lang string) string {
	if strings.HasPrefix(lang, "np") {
		return devanagariDigits.Replace(strconv.FormatInt(n, 10))
	}
	return enPrinter.Sprintf("%d", n)
}

// FormatDate renders a calendar date. Nepali uses ISO order with Devanagari digits.
func FormatDate(t time.Time, lang string) string {
	if strings.HasPrefix(lang, "np") {
		return devanagariDigits.Replace(t.Format("2006-01-02"))
	}
	return t.Format("January 2, 2006")
}
