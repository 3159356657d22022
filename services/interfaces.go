package services

import (
	"nepal-reforms/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetUser(userID string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByGoogleID(googleID string) (*models.User, error)
	CreateUser(user *models.User) error
	LinkGoogleAccount(userID, googleID string) error
	UpdatePasswordHash(userID, passwordHash string) error
	ConfirmUserEmail(userID string) error
	TouchLastLogin(userID string) error
	UpdatePreferredLanguage(userID, lang string) error
}

// TokenRepository defines the interface for one-time email tokens
type TokenRepository interface {
	CreateAuthToken(token *models.AuthToken) error
	GetAuthToken(tokenHash string, kind models.TokenKind) (*models.AuthToken, error)
	ConsumeAuthToken(tokenHash string, kind models.TokenKind) (bool, error)
	InvalidateAuthTokens(userID string, kind models.TokenKind) error
}

// AuthRepository combines the data access the auth service needs
type AuthRepository interface {
	UserRepository
	TokenRepository
}

// SessionStore defines the interface for session management
type SessionStore interface {
	Create(user *models.User) (*models.Session, error)
	Get(sessionID string) (*models.Session, error)
	Delete(sessionID string) error
	DeleteByUserID(userID, keepID string) error
}

// AgendaRepository defines the interface for agenda data access
type AgendaRepository interface {
	CreateAgenda(agenda *models.Agenda) error
	GetAgenda(agendaID string) (*models.Agenda, error)
	ListAgendas(filter models.AgendaFilter) ([]models.Agenda, error)
	UpdateAgendaStatus(agendaID string, status models.AgendaStatus) error
	DeleteAgenda(agendaID string) error
	GetUser(userID string) (*models.User, error)
}

// VoteRepository defines the interface for vote data access
type VoteRepository interface {
	GetAgenda(agendaID string) (*models.Agenda, error)
	GetVoteData(agendaID, userID string) (*models.VoteData, error)
	CastVote(agendaID, userID string, clicked models.VoteType) (*models.VoteData, error)
	GetVoteDataBatch(agendaIDs []string, userID string) (map[string]models.VoteData, error)
}

// AuthNotifier sends account emails. Failures are logged by the caller, never returned to users.
type AuthNotifier interface {
	ConfirmEmail(user *models.User, link string) error
	PasswordReset(user *models.User, link string) error
}

// OpinionNotifier tells admins about new opinions
type OpinionNotifier interface {
	OpinionSubmitted(agenda *models.Agenda, author *models.User, link string) error
}

// Catalog provides the localized category and priority lists for the opinion form
type Catalog interface {
	Categories(lang string) []string
	PriorityLevels(lang string) []string
}
