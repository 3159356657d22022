package notify

import (
	"time"

	"nepal-reforms/models"
)

// filterRecent drops notifications touched within minAge so the worker never
// races an immediate send that is still in flight.
func filterRecent(notifications []models.Notification, minAge time.Duration, now time.Time) []models.Notification {
	var due []models.Notification
	for _, n := range notifications {
		last := n.CreatedAt
		if n.LastAttemptAt != nil {
			last = *n.LastAttemptAt
		}
		if now.Sub(last) >= minAge {
			due = append(due, n)
		}
	}
	return due
}
