package services

import (
	"nepal-reforms/models"
)

// VoteService handles like/dislike voting on agendas
type VoteService struct {
	repo VoteRepository
}

// NewVoteService creates a new vote service
func NewVoteService(repo VoteRepository) *VoteService {
	return &VoteService{repo: repo}
}

// Cast applies a click on a vote button: no vote sets it, the same vote
// removes it and the other vote switches.
func (s *VoteService) Cast(agendaID, userID string, voteType models.VoteType) (*models.VoteData, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if voteType != models.VoteLike && voteType != models.VoteDislike {
		return nil, ErrInvalidVote
	}
	if err := s.ensureAgenda(agendaID); err != nil {
		return nil, err
	}
	return s.repo.CastVote(agendaID, userID, voteType)
}

// Get returns the tally and the caller's vote (empty for anonymous callers)
func (s *VoteService) Get(agendaID, userID string) (*models.VoteData, error) {
	if err := s.ensureAgenda(agendaID); err != nil {
		return nil, err
	}
	return s.repo.GetVoteData(agendaID, userID)
}

// GetBatch returns tallies for a page of agendas
func (s *VoteService) GetBatch(agendaIDs []string, userID string) (map[string]models.VoteData, error) {
	if len(agendaIDs) == 0 {
		return map[string]models.VoteData{}, nil
	}
	return s.repo.GetVoteDataBatch(agendaIDs, userID)
}

// Stats derives the vote badges for a tally
func (s *VoteService) Stats(data models.VoteData) models.VoteStats {
	return data.Stats()
}

func (s *VoteService) ensureAgenda(agendaID string) error {
	agenda, err := s.repo.GetAgenda(agendaID)
	if err != nil {
		return err
	}
	if agenda == nil {
		return ErrAgendaNotFound
	}
	return nil
}
