package database

import (
	"database/sql"
	"nepal-reforms/models"
	"time"
)

// ==================== AUTH TOKEN OPERATIONS ====================

// CreateAuthToken stores a hashed one-time token
func (r *Repository) CreateAuthToken(token *models.AuthToken) error {
	_, err := r.db.Exec(`
		INSERT INTO auth_tokens (token_hash, user_id, kind, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, token.TokenHash, token.UserID, string(token.Kind), token.ExpiresAt.UTC(), token.CreatedAt.UTC())
	return err
}

// GetAuthToken retrieves a token by hash and kind, whether used or not
func (r *Repository) GetAuthToken(tokenHash string, kind models.TokenKind) (*models.AuthToken, error) {
	var token models.AuthToken
	var kindStr string
	var usedAt sql.NullTime

	err := r.db.QueryRow(`
		SELECT token_hash, user_id, kind, expires_at, used_at, created_at
		FROM auth_tokens
		WHERE token_hash = ? AND kind = ?
	`, tokenHash, string(kind)).Scan(
		&token.TokenHash, &token.UserID, &kindStr, &token.ExpiresAt, &usedAt, &token.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	token.Kind = models.TokenKind(kindStr)
	if usedAt.Valid {
		t := usedAt.Time
		token.UsedAt = &t
	}
	return &token, nil
}

// ConsumeAuthToken marks an unused, unexpired token as used.
// It returns false when the token was already used or has expired.
func (r *Repository) ConsumeAuthToken(tokenHash string, kind models.TokenKind) (bool, error) {
	now := time.Now().UTC()
	res, err := r.db.Exec(`
		UPDATE auth_tokens SET used_at = ?
		WHERE token_hash = ? AND kind = ? AND used_at IS NULL AND expires_at > ?
	`, now, tokenHash, string(kind), now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// InvalidateAuthTokens marks every outstanding token of a kind for the user as used
func (r *Repository) InvalidateAuthTokens(userID string, kind models.TokenKind) error {
	_, err := r.db.Exec(`
		UPDATE auth_tokens SET used_at = ?
		WHERE user_id = ? AND kind = ? AND used_at IS NULL
	`, time.Now().UTC(), userID, string(kind))
	return err
}

// DeleteExpiredAuthTokens removes tokens past their expiry
func (r *Repository) DeleteExpiredAuthTokens() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM auth_tokens WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
