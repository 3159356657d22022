package models

import "time"

type AgendaStatus string

const (
	AgendaStatusDraft     AgendaStatus = "Draft"
	AgendaStatusSubmitted AgendaStatus = "Submitted"
	AgendaStatusPublished AgendaStatus = "Published"
	AgendaStatusArchived  AgendaStatus = "Archived"
)

// Agenda is a user-submitted policy proposal ("opinion").
type Agenda struct {
	ID                     string       `json:"id"`
	UserID                 string       `json:"user_id"`
	Title                  string       `json:"title"`
	Description            string       `json:"description"`
	ProblemStatement       string       `json:"problem_statement"`
	Category               string       `json:"category"`
	PriorityLevel          string       `json:"priority_level"`
	ImplementationTimeline string       `json:"implementation_timeline"`
	KeyPoints              []string     `json:"key_points"`
	ProposedSolutions      []string     `json:"proposed_solutions"`
	ExpectedOutcomes       []string     `json:"expected_outcomes"`
	Stakeholders           []string     `json:"stakeholders"`
	Tags                   []string     `json:"tags"`
	References             []string     `json:"references"`
	Status                 AgendaStatus `json:"status"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

type CreateAgendaRequest struct {
	Title                  string   `json:"title" validate:"required,max=200"`
	Description            string   `json:"description" validate:"required,max=10000"`
	ProblemStatement       string   `json:"problem_statement" validate:"required,max=5000"`
	Category               string   `json:"category" validate:"required,max=100,category"`
	PriorityLevel          string   `json:"priority_level" validate:"max=50,priority"`
	ImplementationTimeline string   `json:"implementation_timeline" validate:"max=2000"`
	KeyPoints              []string `json:"key_points" validate:"max=50,dive,max=2000"`
	ProposedSolutions      []string `json:"proposed_solutions" validate:"max=50,dive,max=2000"`
	ExpectedOutcomes       []string `json:"expected_outcomes" validate:"max=50,dive,max=2000"`
	Stakeholders           []string `json:"stakeholders" validate:"max=50,dive,max=500"`
	Tags                   []string `json:"tags" validate:"max=30,dive,max=50"`
	References             []string `json:"references" validate:"max=50,dive,max=2000"`
}

type UpdateAgendaStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Submitted Draft"`
}

// AgendaFilter narrows agenda listings. Zero values mean "any".
type AgendaFilter struct {
	Category string
	Status   AgendaStatus
	UserID   string
	Limit    int
	Offset   int
}
