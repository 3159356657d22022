package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"nepal-reforms/models"
)

func TestVoteService_Cast(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		voteType      models.VoteType
		mockSetup     func(*MockAgendaRepository)
		expected      *models.VoteData
		expectedError error
	}{
		{
			name:     "Success - like",
			userID:   "u1",
			voteType: models.VoteLike,
			mockSetup: func(repo *MockAgendaRepository) {
				repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1"}, nil)
				repo.On("CastVote", "a1", "u1", models.VoteLike).Return(&models.VoteData{Likes: 1, UserVote: models.VoteLike}, nil)
			},
			expected: &models.VoteData{Likes: 1, UserVote: models.VoteLike},
		},
		{
			name:          "Error - anonymous",
			userID:        "",
			voteType:      models.VoteLike,
			expectedError: ErrUnauthorized,
		},
		{
			name:          "Error - unknown vote type",
			userID:        "u1",
			voteType:      models.VoteType("love"),
			expectedError: ErrInvalidVote,
		},
		{
			name:     "Error - missing agenda",
			userID:   "u1",
			voteType: models.VoteDislike,
			mockSetup: func(repo *MockAgendaRepository) {
				repo.On("GetAgenda", "a1").Return(nil, nil)
			},
			expectedError: ErrAgendaNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockAgendaRepository)
			if tt.mockSetup != nil {
				tt.mockSetup(repo)
			}

			service := NewVoteService(repo)
			data, err := service.Cast("a1", tt.userID, tt.voteType)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, data)
				repo.AssertNotCalled(t, "CastVote", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, data)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestVoteService_Get(t *testing.T) {
	repo := new(MockAgendaRepository)
	repo.On("GetAgenda", "a1").Return(&models.Agenda{ID: "a1"}, nil)
	repo.On("GetVoteData", "a1", "").Return(&models.VoteData{Likes: 3, Dislikes: 1}, nil)

	service := NewVoteService(repo)
	data, err := service.Get("a1", "")

	require.NoError(t, err)
	assert.Equal(t, 3, data.Likes)
	assert.Equal(t, models.VoteNone, data.UserVote)
}

func TestVoteService_GetBatch(t *testing.T) {
	repo := new(MockAgendaRepository)
	service := NewVoteService(repo)

	empty, err := service.GetBatch(nil, "u1")
	require.NoError(t, err)
	assert.Empty(t, empty)
	repo.AssertNotCalled(t, "GetVoteDataBatch", mock.Anything, mock.Anything)

	ids := []string{"a1", "a2"}
	repo.On("GetVoteDataBatch", ids, "u1").Return(map[string]models.VoteData{
		"a1": {Likes: 2},
		"a2": {Dislikes: 1, UserVote: models.VoteDislike},
	}, nil)

	batch, err := service.GetBatch(ids, "u1")
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.Equal(t, models.VoteDislike, batch["a2"].UserVote)
}

func TestVoteService_Stats(t *testing.T) {
	service := NewVoteService(new(MockAgendaRepository))

	tests := []struct {
		name     string
		data     models.VoteData
		expected models.VoteStats
	}{
		{
			name:     "No votes",
			data:     models.VoteData{},
			expected: models.VoteStats{},
		},
		{
			name:     "Even split at ten votes is not controversial",
			data:     models.VoteData{Likes: 5, Dislikes: 5},
			expected: models.VoteStats{Total: 10, LikePercent: 50, DislikePercent: 50},
		},
		{
			name:     "Close split above ten votes is controversial",
			data:     models.VoteData{Likes: 6, Dislikes: 5},
			expected: models.VoteStats{Total: 11, LikePercent: 55, DislikePercent: 45, Popular: true, Controversial: true},
		},
		{
			name:     "Forty nine votes",
			data:     models.VoteData{Likes: 30, Dislikes: 19},
			expected: models.VoteStats{Total: 49, LikePercent: 61, DislikePercent: 39, Popular: true},
		},
		{
			name:     "Fifty votes is highly engaged",
			data:     models.VoteData{Likes: 30, Dislikes: 20},
			expected: models.VoteStats{Total: 50, LikePercent: 60, DislikePercent: 40, Popular: true, HighlyEngaged: true},
		},
		{
			name:     "Percentages round half up",
			data:     models.VoteData{Likes: 1, Dislikes: 7},
			expected: models.VoteStats{Total: 8, LikePercent: 13, DislikePercent: 88},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.Stats(tt.data))
		})
	}
}
