package session

import (
	"database/sql"
	"log/slog"
	"nepal-reforms/models"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 30 * 24 * time.Hour

// Store keeps sessions in the sessions table so they survive restarts
type Store struct {
	db       *sql.DB
	ttl      time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
}

func NewStore(db *sql.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		db:       db,
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
}

// TTL is how long a new session stays valid
func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Create(user *models.User) (*models.Session, error) {
	now := time.Now().UTC()
	sess := &models.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Provider:   user.Provider,
		ExpiresAt:  now.Add(s.ttl),
		CreatedAt:  now,
		LastUsedAt: now,
	}

	_, err := s.db.Exec(`
		INSERT INTO sessions (id, user_id, expires_at, created_at, last_used_at)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, sess.UserID, sess.ExpiresAt, sess.CreatedAt, sess.LastUsedAt)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Get returns the session, or nil when it does not exist or has expired
func (s *Store) Get(sessionID string) (*models.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	var sess models.Session
	err := s.db.QueryRow(`
		SELECT s.id, s.user_id, u.email, u.full_name, u.provider,
		       s.expires_at, s.created_at, s.last_used_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = ? AND s.expires_at > ?
	`, sessionID, time.Now().UTC()).Scan(
		&sess.ID, &sess.UserID, &sess.Email, &sess.FullName, &sess.Provider,
		&sess.ExpiresAt, &sess.CreatedAt, &sess.LastUsedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

// Touch updates the last used timestamp
func (s *Store) Touch(sessionID string) error {
	_, err := s.db.Exec(`UPDATE sessions SET last_used_at = ? WHERE id = ?`, time.Now().UTC(), sessionID)
	return err
}

func (s *Store) Delete(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// DeleteByUserID ends every session of a user except keepID (which may be empty)
func (s *Store) DeleteByUserID(userID, keepID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ? AND id != ?`, userID, keepID)
	return err
}

func (s *Store) CleanupExpired() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Sweeper deletes expired rows of some other table and reports how many went.
// It runs alongside the session cleanup.
type Sweeper struct {
	Name  string
	Sweep func() (int64, error)
}

// StartCleanupRoutine removes expired sessions, and whatever the extra
// sweepers cover, every hour until Stop is called
func (s *Store) StartCleanupRoutine(logger *slog.Logger, extra ...Sweeper) {
	sweepers := append([]Sweeper{{Name: "sessions", Sweep: s.CleanupExpired}}, extra...)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				runSweepers(logger, sweepers)
			case <-s.stopChan:
				return
			}
		}
	}()
}

func runSweepers(logger *slog.Logger, sweepers []Sweeper) {
	for _, sw := range sweepers {
		n, err := sw.Sweep()
		if err != nil {
			logger.Error("cleanup failed", "table", sw.Name, "error", err)
			continue
		}
		if n > 0 {
			logger.Info("expired rows removed", "table", sw.Name, "count", n)
		}
	}
}

func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}
