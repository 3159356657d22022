package models

import "time"

type NotificationKind string

const (
	NotificationOpinion       NotificationKind = "opinion"
	NotificationConfirmEmail  NotificationKind = "confirm_email"
	NotificationPasswordReset NotificationKind = "password_reset"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSending NotificationStatus = "sending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is a row in the email outbox.
type Notification struct {
	ID            string             `json:"id"`
	Kind          NotificationKind   `json:"kind"`
	Recipient     string             `json:"recipient"`
	Subject       string             `json:"subject"`
	Payload       map[string]string  `json:"payload"`
	Status        NotificationStatus `json:"status"`
	Attempts      int                `json:"attempts"`
	LastError     string             `json:"last_error,omitempty"`
	LastAttemptAt *time.Time         `json:"last_attempt_at,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	SentAt        *time.Time         `json:"sent_at,omitempty"`
}
