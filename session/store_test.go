package session

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"nepal-reforms/database"
	"nepal-reforms/models"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func setupTestStore(t *testing.T, ttl time.Duration) (*Store, *models.User) {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := database.New(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() {
		db.Close()
		os.RemoveAll(tmpDir)
	})

	now := time.Now().UTC()
	user := &models.User{
		ID:          "user-1",
		Email:       "sita@example.com",
		FullName:    "Sita Sharma",
		CreatedAt:   now,
		LastLoginAt: now,
	}
	require.NoError(t, database.NewRepository(db).CreateUser(user))

	return NewStore(db.DB, ttl), user
}

func TestStore_CreateAndGet(t *testing.T) {
	store, user := setupTestStore(t, time.Hour)

	sess, err := store.Create(user)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, "Sita Sharma", got.FullName)
	assert.Equal(t, models.ProviderEmail, got.Provider)

	require.NoError(t, store.Touch(sess.ID))
	touched, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.False(t, touched.LastUsedAt.Before(got.LastUsedAt))
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)

	for _, id := range []string{"", "does-not-exist"} {
		got, err := store.Get(id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestStore_Expired(t *testing.T) {
	store, user := setupTestStore(t, time.Hour)
	store.ttl = -time.Minute

	sess, err := store.Create(user)
	require.NoError(t, err)

	got, err := store.Get(sess.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := store.CleanupExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestStore_DeleteByUserID(t *testing.T) {
	store, user := setupTestStore(t, time.Hour)

	keep, err := store.Create(user)
	require.NoError(t, err)
	drop, err := store.Create(user)
	require.NoError(t, err)

	require.NoError(t, store.DeleteByUserID(user.ID, keep.ID))

	got, err := store.Get(keep.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	got, err = store.Get(drop.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Delete(keep.ID))
	got, err = store.Get(keep.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_DefaultTTL(t *testing.T) {
	store := NewStore(nil, 0)
	assert.Equal(t, DefaultTTL, store.TTL())
}

func TestStore_CleanupRoutineStops(t *testing.T) {
	store, _ := setupTestStore(t, time.Hour)
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store.StartCleanupRoutine(slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.Stop()
	store.Stop()
}

func TestRunSweepers(t *testing.T) {
	store, user := setupTestStore(t, time.Hour)

	sess, err := store.Create(user)
	require.NoError(t, err)
	_, err = store.db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`, time.Now().UTC().Add(-time.Minute), sess.ID)
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	called := 0
	runSweepers(logger, []Sweeper{
		{Name: "sessions", Sweep: store.CleanupExpired},
		{Name: "broken", Sweep: func() (int64, error) { return 0, errors.New("locked") }},
		{Name: "auth_tokens", Sweep: func() (int64, error) { called++; return 2, nil }},
	})

	assert.Equal(t, 1, called)
	assert.Contains(t, buf.String(), "table=sessions count=1")
	assert.Contains(t, buf.String(), "table=broken error=locked")
	assert.Contains(t, buf.String(), "table=auth_tokens count=2")

	var remaining int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&remaining))
	assert.Zero(t, remaining)
}
