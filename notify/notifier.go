// Package notify keeps an email outbox. Notifications are stored first and then
// delivered in the background; delivery failures never reach the caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nepal-reforms/models"
)

// MaxAttempts is how many times a notification is tried before it stays failed.
const MaxAttempts = 5

// Store is the outbox persistence used by the notifier and worker.
type Store interface {
	EnqueueNotification(n *models.Notification) error
	GetDeliverableNotifications(maxAttempts, limit int) ([]models.Notification, error)
	ClaimNotification(id string, maxAttempts int) (bool, error)
	MarkNotificationSent(id string) error
	MarkNotificationFailed(id, errorMsg string) error
	ResetStuckNotifications(olderThan time.Duration) (int64, error)
}

// Notifier enqueues notifications and attempts an immediate send.
type Notifier struct {
	store    Store
	sender   Sender
	renderer *Renderer
	admins   []string
	logger   *slog.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewNotifier creates a notifier. admins receive the opinion notifications.
func NewNotifier(store Store, sender Sender, renderer *Renderer, admins []string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		store:    store,
		sender:   sender,
		renderer: renderer,
		admins:   admins,
		logger:   logger,
		timeout:  15 * time.Second,
	}
}

// Enqueue stores a notification and starts delivering it in the background.
func (n *Notifier) Enqueue(kind models.NotificationKind, recipient, subject string, payload map[string]string) (*models.Notification, error) {
	notification := &models.Notification{
		ID:        uuid.New().String(),
		Kind:      kind,
		Recipient: recipient,
		Subject:   subject,
		Payload:   payload,
		Status:    models.NotificationPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := n.store.EnqueueNotification(notification); err != nil {
		return nil, fmt.Errorf("failed to enqueue notification: %w", err)
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		n.deliver(ctx, *notification)
	}()

	return notification, nil
}

// Wait blocks until every immediate send started by Enqueue has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// deliver claims, renders and sends one notification. It reports whether the
// notification was sent.
func (n *Notifier) deliver(ctx context.Context, notification models.Notification) bool {
	claimed, err := n.store.ClaimNotification(notification.ID, MaxAttempts)
	if err != nil {
		n.logger.Error("Failed to claim notification", "id", notification.ID, "error", err)
		return false
	}
	if !claimed {
		return false
	}

	attempt := notification.Attempts + 1

	body, err := n.renderer.Render(notification.Kind, notification.Payload)
	if err != nil {
		n.markFailed(notification, attempt, err)
		return false
	}

	msg := Message{To: notification.Recipient, Subject: notification.Subject, HTML: body}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.markFailed(notification, attempt, err)
		return false
	}

	if err := n.store.MarkNotificationSent(notification.ID); err != nil {
		n.logger.Error("Failed to mark notification sent", "id", notification.ID, "error", err)
		return false
	}

	n.logger.Info("Notification sent",
		"id", notification.ID,
		"kind", notification.Kind,
		"attempt", attempt,
	)
	return true
}

func (n *Notifier) markFailed(notification models.Notification, attempt int, cause error) {
	n.logger.Warn("Notification delivery failed",
		"id", notification.ID,
		"kind", notification.Kind,
		"attempt", attempt,
		"max_attempts", MaxAttempts,
		"error", cause,
	)
	if err := n.store.MarkNotificationFailed(notification.ID, cause.Error()); err != nil {
		n.logger.Error("Failed to mark notification failed", "id", notification.ID, "error", err)
	}
}
