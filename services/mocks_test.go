package services

import (
	"github.com/stretchr/testify/mock"

	"nepal-reforms/models"
)

// ==================== MOCKS ====================

// MockAuthRepository is a mock implementation of AuthRepository interface
type MockAuthRepository struct {
	mock.Mock
}

var _ AuthRepository = (*MockAuthRepository)(nil)

func (m *MockAuthRepository) GetUser(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByGoogleID(googleID string) (*models.User, error) {
	args := m.Called(googleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthRepository) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockAuthRepository) LinkGoogleAccount(userID, googleID string) error {
	args := m.Called(userID, googleID)
	return args.Error(0)
}

func (m *MockAuthRepository) UpdatePasswordHash(userID, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}

func (m *MockAuthRepository) ConfirmUserEmail(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockAuthRepository) TouchLastLogin(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockAuthRepository) UpdatePreferredLanguage(userID, lang string) error {
	args := m.Called(userID, lang)
	return args.Error(0)
}

func (m *MockAuthRepository) CreateAuthToken(token *models.AuthToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockAuthRepository) GetAuthToken(tokenHash string, kind models.TokenKind) (*models.AuthToken, error) {
	args := m.Called(tokenHash, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockAuthRepository) ConsumeAuthToken(tokenHash string, kind models.TokenKind) (bool, error) {
	args := m.Called(tokenHash, kind)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepository) InvalidateAuthTokens(userID string, kind models.TokenKind) error {
	args := m.Called(userID, kind)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

var _ SessionStore = (*MockSessionStore)(nil)

func (m *MockSessionStore) Create(user *models.User) (*models.Session, error) {
	args := m.Called(user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Get(sessionID string) (*models.Session, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}

func (m *MockSessionStore) DeleteByUserID(userID, keepID string) error {
	args := m.Called(userID, keepID)
	return args.Error(0)
}

// MockNotifier implements both notifier interfaces
type MockNotifier struct {
	mock.Mock
}

var (
	_ AuthNotifier    = (*MockNotifier)(nil)
	_ OpinionNotifier = (*MockNotifier)(nil)
)

func (m *MockNotifier) ConfirmEmail(user *models.User, link string) error {
	args := m.Called(user, link)
	return args.Error(0)
}

func (m *MockNotifier) PasswordReset(user *models.User, link string) error {
	args := m.Called(user, link)
	return args.Error(0)
}

func (m *MockNotifier) OpinionSubmitted(agenda *models.Agenda, author *models.User, link string) error {
	args := m.Called(agenda, author, link)
	return args.Error(0)
}

// MockAgendaRepository is a mock implementation of AgendaRepository and VoteRepository
type MockAgendaRepository struct {
	mock.Mock
}

var (
	_ AgendaRepository = (*MockAgendaRepository)(nil)
	_ VoteRepository   = (*MockAgendaRepository)(nil)
)

func (m *MockAgendaRepository) CreateAgenda(agenda *models.Agenda) error {
	args := m.Called(agenda)
	return args.Error(0)
}

func (m *MockAgendaRepository) GetAgenda(agendaID string) (*models.Agenda, error) {
	args := m.Called(agendaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) ListAgendas(filter models.AgendaFilter) ([]models.Agenda, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Agenda), args.Error(1)
}

func (m *MockAgendaRepository) UpdateAgendaStatus(agendaID string, status models.AgendaStatus) error {
	args := m.Called(agendaID, status)
	return args.Error(0)
}

func (m *MockAgendaRepository) DeleteAgenda(agendaID string) error {
	args := m.Called(agendaID)
	return args.Error(0)
}

func (m *MockAgendaRepository) GetUser(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAgendaRepository) GetVoteData(agendaID, userID string) (*models.VoteData, error) {
	args := m.Called(agendaID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteData), args.Error(1)
}

func (m *MockAgendaRepository) CastVote(agendaID, userID string, clicked models.VoteType) (*models.VoteData, error) {
	args := m.Called(agendaID, userID, clicked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteData), args.Error(1)
}

func (m *MockAgendaRepository) GetVoteDataBatch(agendaIDs []string, userID string) (map[string]models.VoteData, error) {
	args := m.Called(agendaIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.VoteData), args.Error(1)
}

// stubCatalog returns fixed lists regardless of language
type stubCatalog struct {
	categories []string
	priorities []string
}

func (c stubCatalog) Categories(lang string) []string     { return c.categories }
func (c stubCatalog) PriorityLevels(lang string) []string { return c.priorities }
