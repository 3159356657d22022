package database

import (
	"database/sql"
	"nepal-reforms/models"
	"strings"
	"time"
)

// ==================== USER OPERATIONS ====================

const userColumns = `id, email, full_name, password_hash, provider, google_id,
	email_confirmed_at, preferred_language, created_at, last_login_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	var passwordHash, googleID sql.NullString
	var confirmedAt sql.NullTime

	err := row.Scan(
		&user.ID, &user.Email, &user.FullName, &passwordHash, &user.Provider, &googleID,
		&confirmedAt, &user.PreferredLanguage, &user.CreatedAt, &user.LastLoginAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash.String
	user.GoogleID = googleID.String
	if confirmedAt.Valid {
		t := confirmedAt.Time
		user.EmailConfirmedAt = &t
	}
	return &user, nil
}

// GetUser retrieves a user by ID
func (r *Repository) GetUser(userID string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
}

// GetUserByEmail looks a user up by email, case-insensitively
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))))
}

// GetUserByGoogleID looks a user up by their Google subject
func (r *Repository) GetUserByGoogleID(googleID string) (*models.User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE google_id = ?`, googleID))
}

// CreateUser inserts a new user. A duplicate email yields a unique violation.
func (r *Repository) CreateUser(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.PreferredLanguage == "" {
		user.PreferredLanguage = "en"
	}
	if user.Provider == "" {
		user.Provider = models.ProviderEmail
	}

	var googleID any
	if user.GoogleID != "" {
		googleID = user.GoogleID
	}

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, full_name, password_hash, provider, google_id,
			email_confirmed_at, preferred_language, created_at, last_login_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID, user.Email, user.FullName, user.PasswordHash, user.Provider, googleID,
		user.EmailConfirmedAt, user.PreferredLanguage, user.CreatedAt, user.LastLoginAt, time.Now().UTC(),
	)
	return err
}

// LinkGoogleAccount attaches a Google subject to an existing user and confirms their email
func (r *Repository) LinkGoogleAccount(userID, googleID string) error {
	_, err := r.db.Exec(`
		UPDATE users SET
			google_id = ?,
			email_confirmed_at = COALESCE(email_confirmed_at, ?),
			updated_at = ?
		WHERE id = ?
	`, googleID, time.Now().UTC(), time.Now().UTC(), userID)
	return err
}

// UpdatePasswordHash replaces the stored password hash
func (r *Repository) UpdatePasswordHash(userID, passwordHash string) error {
	_, err := r.db.Exec(`
		UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
	`, passwordHash, time.Now().UTC(), userID)
	return err
}

// ConfirmUserEmail marks the user's email as verified
func (r *Repository) ConfirmUserEmail(userID string) error {
	_, err := r.db.Exec(`
		UPDATE users SET
			email_confirmed_at = COALESCE(email_confirmed_at, ?),
			updated_at = ?
		WHERE id = ?
	`, time.Now().UTC(), time.Now().UTC(), userID)
	return err
}

// TouchLastLogin records a successful login
func (r *Repository) TouchLastLogin(userID string) error {
	_, err := r.db.Exec(`UPDATE users SET last_login_at = ? WHERE id = ?`, time.Now().UTC(), userID)
	return err
}

// UpdatePreferredLanguage stores the language a signed-in user picked
func (r *Repository) UpdatePreferredLanguage(userID, lang string) error {
	_, err := r.db.Exec(`
		UPDATE users SET preferred_language = ?, updated_at = ? WHERE id = ?
	`, lang, time.Now().UTC(), userID)
	return err
}
