package notify

import (
	"errors"

	"nepal-reforms/models"
)

// OpinionSubmitted notifies every admin recipient about a new opinion.
// Enqueue errors for all recipients are joined.
func (n *Notifier) OpinionSubmitted(agenda *models.Agenda, author *models.User, link string) error {
	payload := map[string]string{
		"Title":            agenda.Title,
		"Category":         agenda.Category,
		"PriorityLevel":    agenda.PriorityLevel,
		"ProblemStatement": agenda.ProblemStatement,
		"Description":      agenda.Description,
		"Link":             link,
	}
	if author != nil {
		payload["AuthorName"] = author.FullName
		payload["AuthorEmail"] = author.Email
	}

	var errs []error
	for _, admin := range n.admins {
		if _, err := n.Enqueue(models.NotificationOpinion, admin, "New opinion: "+agenda.Title, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConfirmEmail sends the sign-up confirmation link.
func (n *Notifier) ConfirmEmail(user *models.User, link string) error {
	_, err := n.Enqueue(models.NotificationConfirmEmail, user.Email, "Confirm your NepalReforms account", map[string]string{
		"FullName": user.FullName,
		"Link":     link,
	})
	return err
}

// PasswordReset sends the recovery link.
func (n *Notifier) PasswordReset(user *models.User, link string) error {
	_, err := n.Enqueue(models.NotificationPasswordReset, user.Email, "Reset your NepalReforms password", map[string]string{
		"FullName": user.FullName,
		"Link":     link,
	})
	return err
}
