package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"nepal-reforms/models"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100

	// defaultPriority is used when the translations provide no priority levels
	defaultPriority = "Medium"
)

// OpinionService handles agenda submission and browsing
type OpinionService struct {
	repo     AgendaRepository
	notifier OpinionNotifier
	catalog  Catalog
	siteURL  string
	logger   *slog.Logger
}

// NewOpinionService creates a new opinion service
func NewOpinionService(repo AgendaRepository, notifier OpinionNotifier, catalog Catalog, siteURL string, logger *slog.Logger) *OpinionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OpinionService{
		repo:     repo,
		notifier: notifier,
		catalog:  catalog,
		siteURL:  siteURL,
		logger:   logger,
	}
}

// Categories returns the selectable categories for lang
func (s *OpinionService) Categories(lang string) []string {
	return s.catalog.Categories(lang)
}

// PriorityLevels returns the selectable priority levels for lang
func (s *OpinionService) PriorityLevels(lang string) []string {
	return s.catalog.PriorityLevels(lang)
}

// DefaultPriority is the second configured priority level (the middle of
// low/medium/high), falling back to the first, then to "Medium".
func (s *OpinionService) DefaultPriority(lang string) string {
	levels := s.catalog.PriorityLevels(lang)
	switch {
	case len(levels) >= 2:
		return levels[1]
	case len(levels) == 1:
		return levels[0]
	default:
		return defaultPriority
	}
}

// Submit stores a new opinion as a Draft owned by userID and notifies the admins.
// A failed notification is logged and does not fail the submission.
func (s *OpinionService) Submit(userID string, req *models.CreateAgendaRequest, lang string) (*models.Agenda, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	agenda := &models.Agenda{
		ID:                     newID(),
		UserID:                 userID,
		Title:                  strings.TrimSpace(req.Title),
		Description:            strings.TrimSpace(req.Description),
		ProblemStatement:       strings.TrimSpace(req.ProblemStatement),
		Category:               strings.TrimSpace(req.Category),
		PriorityLevel:          strings.TrimSpace(req.PriorityLevel),
		ImplementationTimeline: strings.TrimSpace(req.ImplementationTimeline),
		KeyPoints:              CleanList(req.KeyPoints),
		ProposedSolutions:      CleanList(req.ProposedSolutions),
		ExpectedOutcomes:       CleanList(req.ExpectedOutcomes),
		Stakeholders:           CleanList(req.Stakeholders),
		References:             CleanList(req.References),
		Tags:                   CleanTags(req.Tags),
		Status:                 models.AgendaStatusDraft,
	}

	required := []struct{ field, value string }{
		{"title", agenda.Title},
		{"category", agenda.Category},
		{"problem_statement", agenda.ProblemStatement},
		{"description", agenda.Description},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidAgenda, r.field)
		}
	}

	if agenda.PriorityLevel == "" {
		agenda.PriorityLevel = s.DefaultPriority(lang)
	}

	now := time.Now().UTC()
	agenda.CreatedAt = now
	agenda.UpdatedAt = now

	if err := s.repo.CreateAgenda(agenda); err != nil {
		return nil, err
	}

	s.notifySubmitted(agenda)

	return agenda, nil
}

func (s *OpinionService) notifySubmitted(agenda *models.Agenda) {
	author, err := s.repo.GetUser(agenda.UserID)
	if err != nil {
		s.logger.Warn("failed to load opinion author", "agenda_id", agenda.ID, "error", err)
	}

	link := s.siteURL + "/agendas/" + agenda.ID
	if err := s.notifier.OpinionSubmitted(agenda, author, link); err != nil {
		s.logger.Error("failed to send opinion notification", "agenda_id", agenda.ID, "error", err)
	}
}

// Get retrieves a single agenda
func (s *OpinionService) Get(agendaID string) (*models.Agenda, error) {
	agenda, err := s.repo.GetAgenda(agendaID)
	if err != nil {
		return nil, err
	}
	if agenda == nil {
		return nil, ErrAgendaNotFound
	}
	return agenda, nil
}

// List returns agendas newest first. Limits outside 1..100 become 20 and
// negative offsets become 0.
func (s *OpinionService) List(filter models.AgendaFilter) ([]models.Agenda, error) {
	filter = NormalizeFilter(filter)
	agendas, err := s.repo.ListAgendas(filter)
	if err != nil {
		return nil, err
	}
	if agendas == nil {
		agendas = []models.Agenda{}
	}
	return agendas, nil
}

// UpdateStatus lets the owner move a Draft to Submitted. Setting the current
// status again is a no-op.
func (s *OpinionService) UpdateStatus(userID, agendaID string, status models.AgendaStatus) (*models.Agenda, error) {
	agenda, err := s.owned(userID, agendaID)
	if err != nil {
		return nil, err
	}

	if agenda.Status == status {
		return agenda, nil
	}
	if agenda.Status != models.AgendaStatusDraft || status != models.AgendaStatusSubmitted {
		return nil, ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateAgendaStatus(agendaID, status); err != nil {
		return nil, err
	}
	agenda.Status = status
	agenda.UpdatedAt = time.Now().UTC()
	return agenda, nil
}

// Delete removes a Draft owned by userID
func (s *OpinionService) Delete(userID, agendaID string) error {
	agenda, err := s.owned(userID, agendaID)
	if err != nil {
		return err
	}
	if agenda.Status != models.AgendaStatusDraft {
		return ErrInvalidStatusTransition
	}
	return s.repo.DeleteAgenda(agendaID)
}

func (s *OpinionService) owned(userID, agendaID string) (*models.Agenda, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	agenda, err := s.Get(agendaID)
	if err != nil {
		return nil, err
	}
	if agenda.UserID != userID {
		return nil, ErrForbidden
	}
	return agenda, nil
}

// NormalizeFilter clamps paging values
func NormalizeFilter(filter models.AgendaFilter) models.AgendaFilter {
	if filter.Limit < 1 || filter.Limit > MaxListLimit {
		filter.Limit = DefaultListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}

// CleanList trims entries and drops blank ones
func CleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// CleanTags trims tags, drops blanks and removes duplicates keeping the first occurrence
func CleanTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func newID() string {
	return uuid.New().String()
}
