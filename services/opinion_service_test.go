package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nepal-reforms/models"
)

func newTestOpinionService(repo *MockAgendaRepository, notifier *MockNotifier, catalog Catalog) *OpinionService {
	return NewOpinionService(repo, notifier, catalog, "http://localhost:3000", testLogger())
}

func validAgendaRequest() *models.CreateAgendaRequest {
	return &models.CreateAgendaRequest{
		Title:            "  Digital land records ",
		Description:      "Move every land record online.",
		ProblemStatement: "Paper records are lost and forged.",
		Category:         "Governance",
		KeyPoints:        []string{" Online registry ", "", "   "},
		Tags:             []string{"land", " land", "", "digital"},
	}
}

func TestOpinionService_Submit(t *testing.T) {
	catalog := stubCatalog{priorities: []string{"Low", "Medium", "High"}}
	author := &models.User{ID: "u1", FullName: "Sita", Email: "sita@example.com"}

	tests := []struct {
		name          string
		userID        string
		mutate        func(r *models.CreateAgendaRequest)
		mockSetup     func(*MockAgendaRepository, *MockNotifier)
		expectedError error
		check         func(t *testing.T, a *models.Agenda)
	}{
		{
			name:   "Success - cleans input and applies defaults",
			userID: "u1",
			mockSetup: func(repo *MockAgendaRepository, n *MockNotifier) {
				repo.On("CreateAgenda", mock.AnythingOfType("*models.Agenda")).Return(nil)
				repo.On("GetUser", "u1").Return(author, nil)
				n.On("OpinionSubmitted", mock.AnythingOfType("*models.Agenda"), author, mock.MatchedBy(func(link string) bool {
					return len(link) > len("http://localhost:3000/agendas/")
				})).Return(nil)
			},
			check: func(t *testing.T, a *models.Agenda) {
				assert.Equal(t, "Digital land records", a.Title)
				assert.Equal(t, "Medium", a.PriorityLevel)
				assert.Equal(t, models.AgendaStatusDraft, a.Status)
				assert.Equal(t, []string{"Online registry"}, a.KeyPoints)
				assert.Equal(t, []string{"land", "digital"}, a.Tags)
				assert.Equal(t, []string{}, a.References)
				assert.Equal(t, "u1", a.UserID)
				assert.False(t, a.CreatedAt.IsZero())
			},
		},
		{
			name:   "Success - explicit priority is kept",
			userID: "u1",
			mutate: func(r *models.CreateAgendaRequest) { r.PriorityLevel = "High" },
			mockSetup: func(repo *MockAgendaRepository, n *MockNotifier) {
				repo.On("CreateAgenda", mock.AnythingOfType("*models.Agenda")).Return(nil)
				repo.On("GetUser", "u1").Return(author, nil)
				n.On("OpinionSubmitted", mock.Anything, mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, a *models.Agenda) {
				assert.Equal(t, "High", a.PriorityLevel)
			},
		},
		{
			name:   "Success - notification failure is not returned",
			userID: "u1",
			mockSetup: func(repo *MockAgendaRepository, n *MockNotifier) {
				repo.On("CreateAgenda", mock.AnythingOfType("*models.Agenda")).Return(nil)
				repo.On("GetUser", "u1").Return(author, nil)
				n.On("OpinionSubmitted", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("resend down"))
			},
		},
		{
			name:          "Error - anonymous",
			userID:        "",
			expectedError: ErrUnauthorized,
		},
		{
			name:          "Error - blank title",
			userID:        "u1",
			mutate:        func(r *models.CreateAgendaRequest) { r.Title = "   " },
			expectedError: ErrInvalidAgenda,
		},
		{
			name:          "Error - missing description",
			userID:        "u1",
			mutate:        func(r *models.CreateAgendaRequest) { r.Description = "" },
			expectedError: ErrInvalidAgenda,
		},
		{
			name:   "Error - repository failure",
			userID: "u1",
			mockSetup: func(repo *MockAgendaRepository, n *MockNotifier) {
				repo.On("CreateAgenda", mock.AnythingOfType("*models.Agenda")).Return(errors.New("disk full"))
			},
			expectedError: errors.New("disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAgendaRepository)
			notifier := new(MockNotifier)
			if tt.mockSetup != nil {
				tt.mockSetup(repo, notifier)
			}

			req := validAgendaRequest()
			if tt.mutate != nil {
				tt.mutate(req)
			}

			service := newTestOpinionService(repo, notifier, catalog)
			agenda, err := service.Submit(tt.userID, req, "en")

			if tt.expectedError != nil {
				require.Error(t, err)
				if errors.Is(err, tt.expectedError) {
					assert.ErrorIs(t, err, tt.expectedError)
				} else {
					assert.Equal(t, tt.expectedError.Error(), err.Error())
				}
				assert.Nil(t, agenda)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, agenda.ID)
				if tt.check != nil {
					tt.check(t, agenda)
				}
			}

			repo.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}
}

func TestOpinionService_DefaultPriority(t *testing.T) {
	tests := []struct {
		name     string
		levels   []string
		expected string
	}{
		{"three levels", []string{"न्यून", "मध्यम", "उच्च"}, "मध्यम"},
		{"one level", []string{"Only"}, "Only"},
		{"no levels", nil, "Medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestOpinionService(new(MockAgendaRepository), new(MockNotifier), stubCatalog{priorities: tt.levels})
			assert.Equal(t, tt.expected, service.DefaultPriority("np"))
		})
	}
}

func TestOpinionService_Get(t *testing.T) {
	repo := new(MockAgendaRepository)
	repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1"}, nil)
	repo.On("GetAgenda", "missing").Return(nil, nil)

	service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})

	agenda, err := service.Get("a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", agenda.ID)

	_, err = service.Get("missing")
	assert.ErrorIs(t, err, ErrAgendaNotFound)
}

func TestOpinionService_List(t *testing.T) {
	tests := []struct {
		name     string
		filter   models.AgendaFilter
		expected models.AgendaFilter
	}{
		{"zero limit", models.AgendaFilter{}, models.AgendaFilter{Limit: 20}},
		{"too large", models.AgendaFilter{Limit: 500}, models.AgendaFilter{Limit: 20}},
		{"negative offset", models.AgendaFilter{Limit: 5, Offset: -3}, models.AgendaFilter{Limit: 5}},
		{"kept", models.AgendaFilter{Category: "Health", Limit: 100, Offset: 40}, models.AgendaFilter{Category: "Health", Limit: 100, Offset: 40}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAgendaRepository)
			repo.On("ListAgendas", tt.expected).Return(nil, nil)

			service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})
			agendas, err := service.List(tt.filter)

			require.NoError(t, err)
			assert.NotNil(t, agendas)
			assert.Empty(t, agendas)
			repo.AssertExpectations(t)
		})
	}
}

func TestOpinionService_UpdateStatus(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		current       models.AgendaStatus
		owner         string
		target        models.AgendaStatus
		expectUpdate  bool
		expectedError error
	}{
		{"draft to submitted", "u1", models.AgendaStatusDraft, "u1", models.AgendaStatusSubmitted, true, nil},
		{"same status is a no-op", "u1", models.AgendaStatusSubmitted, "u1", models.AgendaStatusSubmitted, false, nil},
		{"submitted back to draft", "u1", models.AgendaStatusSubmitted, "u1", models.AgendaStatusDraft, false, ErrInvalidStatusTransition},
		{"not the owner", "u2", models.AgendaStatusDraft, "u1", models.AgendaStatusSubmitted, false, ErrForbidden},
		{"anonymous", "", models.AgendaStatusDraft, "u1", models.AgendaStatusSubmitted, false, ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAgendaRepository)
			repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1", UserID: tt.owner, Status: tt.current}, nil).Maybe()
			if tt.expectUpdate {
				repo.On("UpdateAgendaStatus", "a1", tt.target).Return(nil)
			}

			service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})
			agenda, err := service.UpdateStatus(tt.userID, "a1", tt.target)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.target, agenda.Status)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestOpinionService_Delete(t *testing.T) {
	t.Run("deletes own draft", func(t *testing.T) {
		repo := new(MockAgendaRepository)
		repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1", UserID: "u1", Status: models.AgendaStatusDraft}, nil)
		repo.On("DeleteAgenda", "a1").Return(nil)

		service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})
		require.NoError(t, service.Delete("u1", "a1"))
		repo.AssertExpectations(t)
	})

	t.Run("submitted agendas stay", func(t *testing.T) {
		repo := new(MockAgendaRepository)
		repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1", UserID: "u1", Status: models.AgendaStatusSubmitted}, nil)

		service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})
		assert.ErrorIs(t, service.Delete("u1", "a1"), ErrInvalidStatusTransition)
		repo.AssertNotCalled(t, "DeleteAgenda", "a1")
	})

	t.Run("missing agenda", func(t *testing.T) {
		repo := new(MockAgendaRepository)
		repo.On("GetAgenda", "a1").Return(nil, nil)

		service := newTestOpinionService(repo, new(MockNotifier), stubCatalog{})
		assert.ErrorIs(t, service.Delete("u1", "a1"), ErrAgendaNotFound)
	})
}

func TestCleanTags(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, CleanTags([]string{" a", "b", "a ", "", "b"}))
	assert.Equal(t, []string{}, CleanTags(nil))
}
