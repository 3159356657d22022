package database

import (
	"database/sql"
	"encoding/json"
	"nepal-reforms/models"
	"time"
)

// ==================== NOTIFICATION OUTBOX ====================

const notificationColumns = `id, kind, recipient, subject, payload, status, attempts,
	last_error, last_attempt_at, sent_at, created_at`

func scanNotification(row interface{ Scan(...any) error }) (*models.Notification, error) {
	var n models.Notification
	var kind, status, payload string
	var lastError sql.NullString
	var lastAttemptAt, sentAt sql.NullTime

	if err := row.Scan(
		&n.ID, &kind, &n.Recipient, &n.Subject, &payload, &status, &n.Attempts,
		&lastError, &lastAttemptAt, &sentAt, &n.CreatedAt,
	); err != nil {
		return nil, err
	}

	n.Kind = models.NotificationKind(kind)
	n.Status = models.NotificationStatus(status)
	n.LastError = lastError.String
	n.Payload = map[string]string{}
	if payload != "" {
		_ = json.Unmarshal([]byte(payload), &n.Payload)
	}
	if lastAttemptAt.Valid {
		t := lastAttemptAt.Time
		n.LastAttemptAt = &t
	}
	if sentAt.Valid {
		t := sentAt.Time
		n.SentAt = &t
	}
	return &n, nil
}

// EnqueueNotification stores a pending notification
func (r *Repository) EnqueueNotification(n *models.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}
	if n.Status == "" {
		n.Status = models.NotificationPending
	}

	_, err = r.db.Exec(`
		INSERT INTO notifications (id, kind, recipient, subject, payload, status, attempts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`, n.ID, string(n.Kind), n.Recipient, n.Subject, string(payload), string(n.Status), n.CreatedAt.UTC())
	return err
}

// GetNotification retrieves a notification by ID
func (r *Repository) GetNotification(id string) (*models.Notification, error) {
	n, err := scanNotification(r.db.QueryRow(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return n, err
}

// GetDeliverableNotifications returns pending notifications and failed ones that still have attempts left
func (r *Repository) GetDeliverableNotifications(maxAttempts, limit int) ([]models.Notification, error) {
	rows, err := r.db.Query(`
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE status IN ('pending', 'failed') AND attempts < ?
		ORDER BY created_at ASC
		LIMIT ?
	`, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}

	return notifications, rows.Err()
}

// ClaimNotification moves a deliverable notification to sending and counts the attempt.
// It returns false if another goroutine already claimed it.
func (r *Repository) ClaimNotification(id string, maxAttempts int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE notifications SET
			status = ?,
			attempts = attempts + 1,
			last_attempt_at = ?
		WHERE id = ? AND status IN ('pending', 'failed') AND attempts < ?
	`, string(models.NotificationSending), time.Now().UTC(), id, maxAttempts)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// MarkNotificationSent records a successful delivery
func (r *Repository) MarkNotificationSent(id string) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET status = ?, last_error = NULL, sent_at = ? WHERE id = ?
	`, string(models.NotificationSent), time.Now().UTC(), id)
	return err
}

// MarkNotificationFailed records a failed delivery attempt
func (r *Repository) MarkNotificationFailed(id, errorMsg string) error {
	_, err := r.db.Exec(`
		UPDATE notifications SET status = ?, last_error = ? WHERE id = ?
	`, string(models.NotificationFailed), errorMsg, id)
	return err
}

// ResetStuckNotifications returns notifications left in sending (e.g. by a crash) to failed
func (r *Repository) ResetStuckNotifications(olderThan time.Duration) (int64, error) {
	res, err := r.db.Exec(`
		UPDATE notifications SET status = ?, last_error = 'interrupted'
		WHERE status = ? AND last_attempt_at < ?
	`, string(models.NotificationFailed), string(models.NotificationSending), time.Now().UTC().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
