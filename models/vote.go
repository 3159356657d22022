package models

type VoteType string

const (
	VoteNone    VoteType = ""
	VoteLike    VoteType = "like"
	VoteDislike VoteType = "dislike"
)

// NextVote returns the user's vote after clicking the given button:
// clicking the current vote clears it, clicking the other one switches.
func NextVote(current, clicked VoteType) VoteType {
	if current == clicked {
		return VoteNone
	}
	return clicked
}

type VoteData struct {
	Likes    int      `json:"likes"`
	Dislikes int      `json:"dislikes"`
	UserVote VoteType `json:"userVote"`
}

// Apply returns the tally after the user clicks a vote button.
func (v VoteData) Apply(clicked VoteType) VoteData {
	next := NextVote(v.UserVote, clicked)
	out := v
	switch v.UserVote {
	case VoteLike:
		out.Likes--
	case VoteDislike:
		out.Dislikes--
	}
	switch next {
	case VoteLike:
		out.Likes++
	case VoteDislike:
		out.Dislikes++
	}
	out.UserVote = next
	return out
}

type VoteStats struct {
	Total          int  `json:"total"`
	LikePercent    int  `json:"like_percent"`
	DislikePercent int  `json:"dislike_percent"`
	Popular        bool `json:"popular"`
	Controversial  bool `json:"controversial"`
	HighlyEngaged  bool `json:"highly_engaged"`
}

// Stats derives the badges shown under an agenda's vote buttons.
func (v VoteData) Stats() VoteStats {
	total := v.Likes + v.Dislikes
	s := VoteStats{Total: total}
	if total > 0 {
		s.LikePercent = roundPercent(v.Likes, total)
		s.DislikePercent = roundPercent(v.Dislikes, total)
	}
	diff := v.Likes - v.Dislikes
	if diff < 0 {
		diff = -diff
	}
	s.Popular = v.Likes > v.Dislikes && v.Likes > 0
	s.Controversial = total > 10 && diff <= 2
	s.HighlyEngaged = total >= 50
	return s
}

// roundPercent rounds half up, matching Math.round for non-negative values.
func roundPercent(part, total int) int {
	return (part*200 + total) / (2 * total)
}

type CastVoteRequest struct {
	VoteType string `json:"vote_type" form:"vote_type" validate:"required,vote"`
}
