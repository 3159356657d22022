package components

import (
	"nepal-reforms/models"
)

// AgendaView pairs an agenda with its vote tally for listing.
type AgendaView struct {
	Agenda models.Agenda
	Votes  models.VoteData
}

func excerpt(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
