package database

import (
	"nepal-reforms/models"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "nepal-reforms-db-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := New(dbPath)
	require.NoError(t, err)

	err = db.Migrate()
	require.NoError(t, err)

	repo := NewRepository(db)

	now := time.Now().UTC()
	testUser := &models.User{
		ID:                "test-user",
		Email:             "Test@Example.com",
		FullName:          "Test User",
		PasswordHash:      "hash",
		PreferredLanguage: "np",
		CreatedAt:         now,
		LastLoginAt:       now,
	}
	err = repo.CreateUser(testUser)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func createUser(t *testing.T, repo *Repository, id, email string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, repo.CreateUser(&models.User{
		ID: id, Email: email, FullName: id, CreatedAt: now, LastLoginAt: now,
	}))
}

func createAgenda(t *testing.T, repo *Repository, id, category string, createdAt time.Time) {
	t.Helper()
	require.NoError(t, repo.CreateAgenda(&models.Agenda{
		ID:               id,
		UserID:           "test-user",
		Title:            "Agenda " + id,
		Description:      "Description",
		ProblemStatement: "Problem",
		Category:         category,
		PriorityLevel:    "Medium",
		KeyPoints:        []string{"one", "two"},
		Tags:             []string{"tag"},
		Status:           models.AgendaStatusDraft,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}))
}

func TestUsers(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	t.Run("Email lookup is case-insensitive", func(t *testing.T) {
		user, err := repo.GetUserByEmail("  TEST@example.COM ")
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "test-user", user.ID)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, models.ProviderEmail, user.Provider)
		assert.Equal(t, "np", user.PreferredLanguage)
		assert.False(t, user.Confirmed())
	})

	t.Run("Unknown user returns nil", func(t *testing.T) {
		user, err := repo.GetUser("nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Duplicate email is a unique violation", func(t *testing.T) {
		now := time.Now().UTC()
		err := repo.CreateUser(&models.User{ID: "other", Email: "test@example.com", FullName: "X", CreatedAt: now, LastLoginAt: now})
		require.Error(t, err)
		assert.True(t, IsUniqueViolation(err))
	})

	t.Run("Confirm email", func(t *testing.T) {
		require.NoError(t, repo.ConfirmUserEmail("test-user"))

		user, err := repo.GetUser("test-user")
		require.NoError(t, err)
		assert.True(t, user.Confirmed())
	})

	t.Run("Link Google account", func(t *testing.T) {
		require.NoError(t, repo.LinkGoogleAccount("test-user", "google-123"))

		user, err := repo.GetUserByGoogleID("google-123")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "test-user", user.ID)
	})

	t.Run("Update password and language", func(t *testing.T) {
		require.NoError(t, repo.UpdatePasswordHash("test-user", "new-hash"))
		require.NoError(t, repo.UpdatePreferredLanguage("test-user", "en"))

		user, err := repo.GetUser("test-user")
		require.NoError(t, err)
		assert.Equal(t, "new-hash", user.PasswordHash)
		assert.Equal(t, "en", user.PreferredLanguage)
	})
}

func TestAuthTokens(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	now := time.Now().UTC()
	newToken := func(hash string, kind models.TokenKind, ttl time.Duration) {
		require.NoError(t, repo.CreateAuthToken(&models.AuthToken{
			TokenHash: hash,
			UserID:    "test-user",
			Kind:      kind,
			ExpiresAt: now.Add(ttl),
			CreatedAt: now,
		}))
	}

	t.Run("Token can be consumed once", func(t *testing.T) {
		newToken("once", models.TokenKindRecovery, time.Hour)

		ok, err := repo.ConsumeAuthToken("once", models.TokenKindRecovery)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ConsumeAuthToken("once", models.TokenKindRecovery)
		require.NoError(t, err)
		assert.False(t, ok)

		token, err := repo.GetAuthToken("once", models.TokenKindRecovery)
		require.NoError(t, err)
		require.NotNil(t, token)
		assert.NotNil(t, token.UsedAt)
	})

	t.Run("Kind must match", func(t *testing.T) {
		newToken("kinded", models.TokenKindConfirmEmail, time.Hour)

		ok, err := repo.ConsumeAuthToken("kinded", models.TokenKindRecovery)
		require.NoError(t, err)
		assert.False(t, ok)

		token, err := repo.GetAuthToken("kinded", models.TokenKindRecovery)
		require.NoError(t, err)
		assert.Nil(t, token)
	})

	t.Run("Expired token cannot be consumed", func(t *testing.T) {
		newToken("expired", models.TokenKindRecovery, -time.Minute)

		ok, err := repo.ConsumeAuthToken("expired", models.TokenKindRecovery)
		require.NoError(t, err)
		assert.False(t, ok)

		n, err := repo.DeleteExpiredAuthTokens()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Invalidate outstanding tokens", func(t *testing.T) {
		newToken("a", models.TokenKindRecovery, time.Hour)
		newToken("b", models.TokenKindRecovery, time.Hour)
		require.NoError(t, repo.InvalidateAuthTokens("test-user", models.TokenKindRecovery))

		for _, hash := range []string{"a", "b"} {
			ok, err := repo.ConsumeAuthToken(hash, models.TokenKindRecovery)
			require.NoError(t, err)
			assert.False(t, ok, hash)
		}
	})
}

func TestAgendas(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	createAgenda(t, repo, "a1", "Health", base)
	createAgenda(t, repo, "a2", "Education", base.Add(time.Hour))
	createAgenda(t, repo, "a3", "Health", base.Add(2*time.Hour))

	t.Run("Round trip keeps list fields", func(t *testing.T) {
		agenda, err := repo.GetAgenda("a1")
		require.NoError(t, err)
		require.NotNil(t, agenda)

		assert.Equal(t, []string{"one", "two"}, agenda.KeyPoints)
		assert.Equal(t, []string{}, agenda.ProposedSolutions)
		assert.Equal(t, []string{"tag"}, agenda.Tags)
		assert.Equal(t, models.AgendaStatusDraft, agenda.Status)
		assert.True(t, base.Equal(agenda.CreatedAt))
	})

	t.Run("Missing agenda returns nil", func(t *testing.T) {
		agenda, err := repo.GetAgenda("missing")
		require.NoError(t, err)
		assert.Nil(t, agenda)
	})

	t.Run("List newest first with filters", func(t *testing.T) {
		all, err := repo.ListAgendas(models.AgendaFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "a3", all[0].ID)
		assert.Equal(t, "a1", all[2].ID)

		health, err := repo.ListAgendas(models.AgendaFilter{Category: "Health", Limit: 10})
		require.NoError(t, err)
		assert.Len(t, health, 2)

		page, err := repo.ListAgendas(models.AgendaFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "a2", page[0].ID)
	})

	t.Run("Empty result is not nil", func(t *testing.T) {
		none, err := repo.ListAgendas(models.AgendaFilter{Category: "Nothing", Limit: 10})
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("Update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateAgendaStatus("a2", models.AgendaStatusSubmitted))

		submitted, err := repo.ListAgendas(models.AgendaFilter{Status: models.AgendaStatusSubmitted, Limit: 10})
		require.NoError(t, err)
		require.Len(t, submitted, 1)
		assert.Equal(t, "a2", submitted[0].ID)
	})

	t.Run("Delete cascades to votes", func(t *testing.T) {
		_, err := repo.CastVote("a1", "test-user", models.VoteLike)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteAgenda("a1"))

		data, err := repo.GetVoteData("a1", "test-user")
		require.NoError(t, err)
		assert.Equal(t, 0, data.Likes)
		assert.Equal(t, models.VoteNone, data.UserVote)
	})
}

func TestVotes(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	createUser(t, repo, "u2", "u2@example.com")
	createAgenda(t, repo, "a1", "Health", time.Now().UTC())

	tests := []struct {
		name     string
		userID   string
		clicked  models.VoteType
		expected models.VoteData
	}{
		{"first like", "test-user", models.VoteLike, models.VoteData{Likes: 1, UserVote: models.VoteLike}},
		{"other user dislikes", "u2", models.VoteDislike, models.VoteData{Likes: 1, Dislikes: 1, UserVote: models.VoteDislike}},
		{"switch to dislike", "test-user", models.VoteDislike, models.VoteData{Dislikes: 2, UserVote: models.VoteDislike}},
		{"same vote toggles off", "test-user", models.VoteDislike, models.VoteData{Dislikes: 1, UserVote: models.VoteNone}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := repo.CastVote("a1", tt.userID, tt.clicked)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *data)
		})
	}

	t.Run("Anonymous read has no user vote", func(t *testing.T) {
		data, err := repo.GetVoteData("a1", "")
		require.NoError(t, err)
		assert.Equal(t, models.VoteData{Dislikes: 1}, *data)
	})

	t.Run("Batch", func(t *testing.T) {
		batch, err := repo.GetVoteDataBatch([]string{"a1", "unknown"}, "u2")
		require.NoError(t, err)
		assert.Equal(t, models.VoteData{Dislikes: 1, UserVote: models.VoteDislike}, batch["a1"])
		assert.Equal(t, models.VoteData{}, batch["unknown"])

		anonymous, err := repo.GetVoteDataBatch([]string{"a1"}, "")
		require.NoError(t, err)
		assert.Equal(t, map[string]models.VoteData{"a1": {Dislikes: 1}}, anonymous)

		empty, err := repo.GetVoteDataBatch(nil, "u2")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("Batch matches single reads", func(t *testing.T) {
		createAgenda(t, repo, "a-batch", "Health", time.Now().UTC())
		_, err := repo.CastVote("a-batch", "test-user", models.VoteLike)
		require.NoError(t, err)

		ids := []string{"a1", "a-batch"}
		batch, err := repo.GetVoteDataBatch(ids, "test-user")
		require.NoError(t, err)
		for _, id := range ids {
			single, err := repo.GetVoteData(id, "test-user")
			require.NoError(t, err)
			assert.Equal(t, *single, batch[id], id)
		}
	})

	t.Run("Concurrent clicks keep a consistent tally", func(t *testing.T) {
		for i := 0; i < 6; i++ {
			createUser(t, repo, "c"+string(rune('a'+i)), "c"+string(rune('a'+i))+"@example.com")
		}

		var wg sync.WaitGroup
		for i := 0; i < 6; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := repo.CastVote("a1", id, models.VoteLike)
				assert.NoError(t, err)
			}("c" + string(rune('a'+i)))
		}
		wg.Wait()

		data, err := repo.GetVoteData("a1", "")
		require.NoError(t, err)
		assert.Equal(t, 6, data.Likes)
		assert.Equal(t, 1, data.Dislikes)
	})
}

func TestNotifications(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	n := &models.Notification{
		ID:        "n1",
		Kind:      models.NotificationOpinion,
		Recipient: "admin@example.com",
		Subject:   "New opinion",
		Payload:   map[string]string{"Title": "Roads"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.EnqueueNotification(n))

	t.Run("Pending notification is deliverable", func(t *testing.T) {
		list, err := repo.GetDeliverableNotifications(5, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Roads", list[0].Payload["Title"])
		assert.Equal(t, models.NotificationPending, list[0].Status)
	})

	t.Run("Claim is exclusive", func(t *testing.T) {
		ok, err := repo.ClaimNotification("n1", 5)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.ClaimNotification("n1", 5)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Failed notification is retried until attempts run out", func(t *testing.T) {
		require.NoError(t, repo.MarkNotificationFailed("n1", "timeout"))

		got, err := repo.GetNotification("n1")
		require.NoError(t, err)
		assert.Equal(t, models.NotificationFailed, got.Status)
		assert.Equal(t, 1, got.Attempts)
		assert.Equal(t, "timeout", got.LastError)

		list, err := repo.GetDeliverableNotifications(1, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("Stuck notifications are reset", func(t *testing.T) {
		ok, err := repo.ClaimNotification("n1", 5)
		require.NoError(t, err)
		require.True(t, ok)

		n, err := repo.ResetStuckNotifications(-time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("Sent", func(t *testing.T) {
		ok, err := repo.ClaimNotification("n1", 5)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, repo.MarkNotificationSent("n1"))

		got, err := repo.GetNotification("n1")
		require.NoError(t, err)
		assert.Equal(t, models.NotificationSent, got.Status)
		assert.NotNil(t, got.SentAt)
		assert.Empty(t, got.LastError)
	})
}
