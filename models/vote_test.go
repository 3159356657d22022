package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteData_Apply(t *testing.T) {
	data := VoteData{Likes: 3, Dislikes: 2}

	steps := []struct {
		clicked  VoteType
		expected VoteData
	}{
		{VoteLike, VoteData{Likes: 4, Dislikes: 2, UserVote: VoteLike}},
		{VoteDislike, VoteData{Likes: 3, Dislikes: 3, UserVote: VoteDislike}},
		{VoteDislike, VoteData{Likes: 3, Dislikes: 2, UserVote: VoteNone}},
		{VoteDislike, VoteData{Likes: 3, Dislikes: 3, UserVote: VoteDislike}},
		{VoteLike, VoteData{Likes: 4, Dislikes: 2, UserVote: VoteLike}},
		{VoteLike, VoteData{Likes: 3, Dislikes: 2, UserVote: VoteNone}},
	}

	for i, step := range steps {
		data = data.Apply(step.clicked)
		assert.Equal(t, step.expected, data, "click %d", i+1)
	}
}

func TestNextVote(t *testing.T) {
	assert.Equal(t, VoteLike, NextVote(VoteNone, VoteLike))
	assert.Equal(t, VoteNone, NextVote(VoteLike, VoteLike))
	assert.Equal(t, VoteDislike, NextVote(VoteLike, VoteDislike))
}
