package database

import (
	"database/sql"
	"nepal-reforms/models"
	"strings"
	"time"
)

// ==================== VOTE OPERATIONS ====================

type queryer interface {
	QueryRow(query string, args ...any) *sql.Row
}

func countVotes(q queryer, agendaID string) (likes, dislikes int, err error) {
	err = q.QueryRow(`
		SELECT
			COALESCE(SUM(CASE WHEN vote_type = 'like' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN vote_type = 'dislike' THEN 1 ELSE 0 END), 0)
		FROM agenda_votes
		WHERE agenda_id = ?
	`, agendaID).Scan(&likes, &dislikes)
	return likes, dislikes, err
}

func userVote(q queryer, agendaID, userID string) (models.VoteType, error) {
	if userID == "" {
		return models.VoteNone, nil
	}
	var voteType string
	err := q.QueryRow(`
		SELECT vote_type FROM agenda_votes WHERE agenda_id = ? AND user_id = ?
	`, agendaID, userID).Scan(&voteType)
	if err == sql.ErrNoRows {
		return models.VoteNone, nil
	}
	if err != nil {
		return models.VoteNone, err
	}
	return models.VoteType(voteType), nil
}

// GetVoteData returns the like/dislike tally for an agenda and the given user's vote.
// An empty userID yields an empty UserVote.
func (r *Repository) GetVoteData(agendaID, userID string) (*models.VoteData, error) {
	likes, dislikes, err := countVotes(r.db, agendaID)
	if err != nil {
		return nil, err
	}
	vote, err := userVote(r.db, agendaID, userID)
	if err != nil {
		return nil, err
	}
	return &models.VoteData{Likes: likes, Dislikes: dislikes, UserVote: vote}, nil
}

// CastVote applies a click on a vote button inside one transaction and returns the new tally
func (r *Repository) CastVote(agendaID, userID string, clicked models.VoteType) (*models.VoteData, error) {
	var data models.VoteData

	err := r.withTx(func(tx *sql.Tx) error {
		current, err := userVote(tx, agendaID, userID)
		if err != nil {
			return err
		}
		likes, dislikes, err := countVotes(tx, agendaID)
		if err != nil {
			return err
		}

		before := models.VoteData{Likes: likes, Dislikes: dislikes, UserVote: current}
		data = before.Apply(clicked)
		now := time.Now().UTC()

		switch {
		case data.UserVote == models.VoteNone:
			_, err = tx.Exec(`DELETE FROM agenda_votes WHERE agenda_id = ? AND user_id = ?`, agendaID, userID)
		case current == models.VoteNone:
			_, err = tx.Exec(`
				INSERT INTO agenda_votes (agenda_id, user_id, vote_type, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)
			`, agendaID, userID, string(data.UserVote), now, now)
		default:
			_, err = tx.Exec(`
				UPDATE agenda_votes SET vote_type = ?, updated_at = ?
				WHERE agenda_id = ? AND user_id = ?
			`, string(data.UserVote), now, agendaID, userID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return &data, nil
}

// inArgs builds the placeholder list and arguments for an IN (...) clause
func inArgs(ids []string, leading ...any) (string, []any) {
	args := append(make([]any, 0, len(leading)+len(ids)), leading...)
	for _, id := range ids {
		args = append(args, id)
	}
	return strings.TrimSuffix(strings.Repeat("?,", len(ids)), ","), args
}

// GetVoteDataBatch returns tallies for several agendas at once, keyed by agenda ID.
// Agendas without votes get a zero tally.
func (r *Repository) GetVoteDataBatch(agendaIDs []string, userID string) (map[string]models.VoteData, error) {
	result := make(map[string]models.VoteData, len(agendaIDs))
	if len(agendaIDs) == 0 {
		return result, nil
	}
	for _, id := range agendaIDs {
		result[id] = models.VoteData{}
	}

	placeholders, args := inArgs(agendaIDs)
	rows, err := r.db.Query(`
		SELECT agenda_id,
			SUM(CASE WHEN vote_type = 'like' THEN 1 ELSE 0 END),
			SUM(CASE WHEN vote_type = 'dislike' THEN 1 ELSE 0 END)
		FROM agenda_votes
		WHERE agenda_id IN (`+placeholders+`)
		GROUP BY agenda_id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data models.VoteData
		if err := rows.Scan(&id, &data.Likes, &data.Dislikes); err != nil {
			return nil, err
		}
		result[id] = data
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if userID == "" {
		return result, nil
	}

	placeholders, args = inArgs(agendaIDs, userID)
	voteRows, err := r.db.Query(`
		SELECT agenda_id, vote_type FROM agenda_votes
		WHERE user_id = ? AND agenda_id IN (`+placeholders+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer voteRows.Close()

	for voteRows.Next() {
		var id, voteType string
		if err := voteRows.Scan(&id, &voteType); err != nil {
			return nil, err
		}
		data := result[id]
		data.UserVote = models.VoteType(voteType)
		result[id] = data
	}
	return result, voteRows.Err()
}
