package database

import (
	"database/sql"
	"nepal-reforms/models"
	"strings"
	"time"
)

// ==================== AGENDA OPERATIONS ====================

const agendaColumns = `id, user_id, title, description, problem_statement, category,
	priority_level, implementation_timeline, key_points, proposed_solutions,
	expected_outcomes, stakeholders, tags, refs, status, created_at, updated_at`

func scanAgenda(row interface{ Scan(...any) error }) (*models.Agenda, error) {
	var agenda models.Agenda
	var keyPoints, solutions, outcomes, stakeholders, tags, refs, status string

	err := row.Scan(
		&agenda.ID, &agenda.UserID, &agenda.Title, &agenda.Description,
		&agenda.ProblemStatement, &agenda.Category, &agenda.PriorityLevel,
		&agenda.ImplementationTimeline, &keyPoints, &solutions, &outcomes,
		&stakeholders, &tags, &refs, &status, &agenda.CreatedAt, &agenda.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	agenda.KeyPoints = decodeList(keyPoints)
	agenda.ProposedSolutions = decodeList(solutions)
	agenda.ExpectedOutcomes = decodeList(outcomes)
	agenda.Stakeholders = decodeList(stakeholders)
	agenda.Tags = decodeList(tags)
	agenda.References = decodeList(refs)
	agenda.Status = models.AgendaStatus(status)
	return &agenda, nil
}

// CreateAgenda inserts a new agenda row
func (r *Repository) CreateAgenda(agenda *models.Agenda) error {
	_, err := r.db.Exec(`
		INSERT INTO agendas (`+agendaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		agenda.ID, agenda.UserID, agenda.Title, agenda.Description,
		agenda.ProblemStatement, agenda.Category, agenda.PriorityLevel,
		agenda.ImplementationTimeline, encodeList(agenda.KeyPoints),
		encodeList(agenda.ProposedSolutions), encodeList(agenda.ExpectedOutcomes),
		encodeList(agenda.Stakeholders), encodeList(agenda.Tags), encodeList(agenda.References),
		string(agenda.Status), agenda.CreatedAt.UTC(), agenda.UpdatedAt.UTC(),
	)
	return err
}

// GetAgenda retrieves a single agenda by ID
func (r *Repository) GetAgenda(agendaID string) (*models.Agenda, error) {
	agenda, err := scanAgenda(r.db.QueryRow(`SELECT `+agendaColumns+` FROM agendas WHERE id = ?`, agendaID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return agenda, err
}

// ListAgendas returns agendas matching the filter, newest first
func (r *Repository) ListAgendas(filter models.AgendaFilter) ([]models.Agenda, error) {
	var where []string
	var args []any

	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}

	query := `SELECT ` + agendaColumns + ` FROM agendas`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, id ASC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice to avoid returning nil
	agendas := make([]models.Agenda, 0)
	for rows.Next() {
		agenda, err := scanAgenda(rows)
		if err != nil {
			return nil, err
		}
		agendas = append(agendas, *agenda)
	}

	return agendas, rows.Err()
}

// UpdateAgendaStatus changes an agenda's status
func (r *Repository) UpdateAgendaStatus(agendaID string, status models.AgendaStatus) error {
	_, err := r.db.Exec(`
		UPDATE agendas SET status = ?, updated_at = ? WHERE id = ?
	`, string(status), time.Now().UTC(), agendaID)
	return err
}

// DeleteAgenda removes an agenda and, through the foreign key, its votes
func (r *Repository) DeleteAgenda(agendaID string) error {
	_, err := r.db.Exec("DELETE FROM agendas WHERE id = ?", agendaID)
	return err
}
