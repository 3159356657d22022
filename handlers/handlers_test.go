package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nepal-reforms/app"
	"nepal-reforms/config"
	"nepal-reforms/config/setup"
	"nepal-reforms/models"
)

var testLocales = map[string]string{
	"en/common.json": `{"nav":{"home":"Home"},"appName":"NepalReforms",
		"votes":{"total_one":"{{n}} vote","total_other":"{{n}} votes","like":"Like","dislike":"Dislike","loginToVote":"Log in to vote"}}`,
	"en/translation.json": `{"homepage":{"title":"Home","hero":{"title":"Reform Nepal"}},
		"opinionCreation":{"title":"Share your opinion","categories":["Health","Education"],"priorityLevels":["Low","Medium","High"]},
		"signup":{"title":"Create account","errors":{"repeatPasswordMismatch":"Passwords do not match","emailExists":"Email already registered"}},
		"login":{"errors":{"invalidCredentials":"Invalid email or password"}},
		"errors":{"notFound":{"title":"Page not found"}}}`,
	"en/manifesto.json": `[{"title":"Accountability","description":"Public officials answer to citizens"}]`,
	"np/common.json":    `{"nav":{"home":"गृहपृष्ठ"}}`,
	"np/translation.json": `{"homepage":{"title":"गृहपृष्ठ"},
		"opinionCreation":{"categories":["स्वास्थ्य","शिक्षा"],"priorityLevels":["न्यून","मध्यम","उच्च"]}}`,
	"np/manifesto.json": `[]`,
}

// setupTestApp builds the full application against a temporary database and
// locales directory and returns the Fiber app with every route registered.
func setupTestApp(t *testing.T) (*fiber.App, *app.App) {
	t.Helper()

	tmpDir := t.TempDir()
	localesDir := filepath.Join(tmpDir, "locales")
	for name, content := range testLocales {
		path := filepath.Join(localesDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	cfg := &config.Config{
		Port:                     "3000",
		Env:                      "test",
		LogLevel:                 "error",
		DBPath:                   filepath.Join(tmpDir, "test.db"),
		StaticDir:                tmpDir,
		LocalesDir:               localesDir,
		SiteURL:                  "http://localhost:3000",
		SupportedLanguages:       []string{"en", "np"},
		FallbackLanguage:         "en",
		CORSOrigins:              "*",
		NotifyFrom:               "noreply@example.com",
		NotifyFromName:           "NepalReforms",
		SignupEnabled:            true,
		RequireEmailConfirmation: false,
		SessionTTL:               time.Hour,
	}
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := setup.InitDatabase(cfg.DBPath, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	application, err := setup.InitApp(ctx, db, cfg, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		cancel()
		setup.Shutdown(application, db, logger)
	})

	fiberApp := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(fiberApp, application, logger)
	setup.RegisterRoutes(fiberApp, application)

	return fiberApp, application
}

// createUser stores a confirmed user and returns a session cookie for them
func createUser(t *testing.T, application *app.App, email, password string) *http.Cookie {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	user := &models.User{
		ID:                "user-" + strings.Split(email, "@")[0],
		Email:             email,
		FullName:          "Test User",
		PasswordHash:      string(hash),
		Provider:          models.ProviderEmail,
		EmailConfirmedAt:  &now,
		PreferredLanguage: "en",
		CreatedAt:         now,
		LastLoginAt:       now,
	}
	require.NoError(t, application.Repo.CreateUser(user))

	sess, err := application.SessionStore.Create(user)
	require.NoError(t, err)

	return &http.Cookie{Name: "session_id", Value: sess.ID}
}

func doJSON(t *testing.T, fiberApp *fiber.App, method, target string, body interface{}, cookies ...*http.Cookie) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func doForm(t *testing.T, fiberApp *fiber.App, target string, form url.Values, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthAPI(t *testing.T) {
	fiberApp, _ := setupTestApp(t)

	signUp := map[string]interface{}{
		"full_name":       "Sita Sharma",
		"email":           "sita@example.com",
		"password":        "Secret123",
		"repeat_password": "Secret123",
	}

	resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/auth/signup", signUp)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, false, body["confirmation_required"])
	sessionCookie := findCookie(resp, "session_id")
	require.NotNil(t, sessionCookie)

	t.Run("me with session", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/auth/me", nil, sessionCookie)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, true, body["authenticated"])
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "sita@example.com", user["email"])
	})

	t.Run("me without session", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/auth/me", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, false, body["authenticated"])
	})

	tests := []struct {
		name           string
		path           string
		body           map[string]interface{}
		expectedStatus int
		expectedCode   string
		expectedField  string
	}{
		{
			name:           "duplicate sign-up",
			path:           "/api/auth/signup",
			body:           signUp,
			expectedStatus: http.StatusConflict,
			expectedCode:   "signup.errors.emailExists",
		},
		{
			name: "mismatched passwords",
			path: "/api/auth/signup",
			body: map[string]interface{}{
				"full_name": "Ram", "email": "ram@example.com",
				"password": "Secret123", "repeat_password": "Secret124",
			},
			expectedStatus: http.StatusBadRequest,
			expectedField:  "repeat_password",
		},
		{
			name:           "wrong password",
			path:           "/api/auth/login",
			body:           map[string]interface{}{"email": "sita@example.com", "password": "Wrong1234"},
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "login.errors.invalidCredentials",
		},
		{
			name:           "login ignores email case",
			path:           "/api/auth/login",
			body:           map[string]interface{}{"email": "SITA@example.com", "password": "Secret123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "forgot password for unknown email",
			path:           "/api/auth/forgot-password",
			body:           map[string]interface{}{"email": "nobody@example.com"},
			expectedStatus: http.StatusOK,
		},
		{
			name: "reset with unknown token",
			path: "/api/auth/reset-password",
			body: map[string]interface{}{
				"token": "nope", "password": "Secret123", "repeat_password": "Secret123",
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "resetPassword.resetLinkExpired",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, fiberApp, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, body["code"])
			}
			if tt.expectedField != "" {
				fields := body["fields"].(map[string]interface{})
				assert.Contains(t, fields, tt.expectedField)
			}
		})
	}

	t.Run("logout ends the session", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/auth/logout", nil, sessionCookie)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, fiberApp, http.MethodGet, "/api/auth/me", nil, sessionCookie)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestUpdatePasswordAPI(t *testing.T) {
	fiberApp, application := setupTestApp(t)
	cookie := createUser(t, application, "hari@example.com", "Secret123")

	body := map[string]interface{}{"password": "Another456", "repeat_password": "Another456"}

	resp, _ := doJSON(t, fiberApp, http.MethodPut, "/api/auth/password", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPut, "/api/auth/password", body, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, fiberApp, http.MethodPost, "/api/auth/login",
		map[string]interface{}{"email": "hari@example.com", "password": "Another456"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func createAgenda(t *testing.T, fiberApp *fiber.App, cookie *http.Cookie) string {
	t.Helper()
	resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/agendas", map[string]interface{}{
		"title":             "Clean drinking water",
		"description":       "Every ward gets a tested water source",
		"problem_statement": "Contaminated wells",
		"category":          "Health",
		"key_points":        []string{" testing ", ""},
		"tags":              []string{"water", "water", " health "},
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return body["agenda"].(map[string]interface{})["id"].(string)
}

func TestAgendaAPI(t *testing.T) {
	fiberApp, application := setupTestApp(t)
	owner := createUser(t, application, "owner@example.com", "Secret123")
	other := createUser(t, application, "other@example.com", "Secret123")

	t.Run("anonymous create is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/agendas", map[string]interface{}{"title": "x"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/agendas", map[string]interface{}{
			"title": "t", "description": "d", "problem_statement": "p", "category": "Space",
		}, owner)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["fields"], "category")
	})

	t.Run("nepali category is accepted", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/agendas?lng=np", map[string]interface{}{
			"title": "t", "description": "d", "problem_statement": "p", "category": "शिक्षा",
		}, owner)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		agenda := body["agenda"].(map[string]interface{})
		assert.Equal(t, "मध्यम", agenda["priority_level"])
	})

	id := createAgenda(t, fiberApp, owner)

	t.Run("get cleans lists and defaults priority", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/agendas/"+id, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		agenda := body["agenda"].(map[string]interface{})
		assert.Equal(t, "Draft", agenda["status"])
		assert.Equal(t, "Medium", agenda["priority_level"])
		assert.Equal(t, []interface{}{"testing"}, agenda["key_points"])
		assert.Equal(t, []interface{}{"water", "health"}, agenda["tags"])
	})

	t.Run("list filters by category", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, "/api/agendas?category=Health", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, body["agendas"], 1)
		assert.Equal(t, float64(20), body["limit"])
	})

	t.Run("missing agenda", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodGet, "/api/agendas/missing", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	tests := []struct {
		name           string
		method         string
		body           map[string]interface{}
		cookie         *http.Cookie
		expectedStatus int
	}{
		{"other user cannot submit", http.MethodPatch, map[string]interface{}{"status": "Submitted"}, other, http.StatusForbidden},
		{"invalid status", http.MethodPatch, map[string]interface{}{"status": "Published"}, owner, http.StatusBadRequest},
		{"owner submits", http.MethodPatch, map[string]interface{}{"status": "Submitted"}, owner, http.StatusOK},
		{"back to draft is refused", http.MethodPatch, map[string]interface{}{"status": "Draft"}, owner, http.StatusConflict},
		{"submitted cannot be deleted", http.MethodDelete, nil, owner, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/agendas/" + id
			if tt.method == http.MethodPatch {
				target += "/status"
			}
			resp, _ := doJSON(t, fiberApp, tt.method, target, tt.body, tt.cookie)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	t.Run("owner deletes a draft", func(t *testing.T) {
		draft := createAgenda(t, fiberApp, owner)
		resp, _ := doJSON(t, fiberApp, http.MethodDelete, "/api/agendas/"+draft, nil, owner)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		resp, _ = doJSON(t, fiberApp, http.MethodGet, "/api/agendas/"+draft, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestVotesAPI(t *testing.T) {
	fiberApp, application := setupTestApp(t)
	voter := createUser(t, application, "voter@example.com", "Secret123")
	id := createAgenda(t, fiberApp, voter)
	target := "/api/agendas/" + id + "/votes"

	resp, _ := doJSON(t, fiberApp, http.MethodPost, target, map[string]interface{}{"vote_type": "like"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	clicks := []struct {
		vote     string
		likes    float64
		dislikes float64
		userVote string
	}{
		{"like", 1, 0, "like"},
		{"like", 0, 0, ""},
		{"dislike", 0, 1, "dislike"},
		{"like", 1, 0, "like"},
	}

	for _, click := range clicks {
		resp, body := doJSON(t, fiberApp, http.MethodPost, target, map[string]interface{}{"vote_type": click.vote}, voter)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, click.likes, body["likes"])
		assert.Equal(t, click.dislikes, body["dislikes"])
		assert.Equal(t, click.userVote, body["userVote"])
	}

	t.Run("anonymous read has no user vote", func(t *testing.T) {
		resp, body := doJSON(t, fiberApp, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, float64(1), body["likes"])
		assert.Equal(t, "", body["userVote"])
		stats := body["stats"].(map[string]interface{})
		assert.Equal(t, true, stats["popular"])
	})

	t.Run("invalid vote type", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPost, target, map[string]interface{}{"vote_type": "love"}, voter)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing agenda", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/agendas/missing/votes", map[string]interface{}{"vote_type": "like"}, voter)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestPageRouting(t *testing.T) {
	fiberApp, application := setupTestApp(t)
	cookie := createUser(t, application, "page@example.com", "Secret123")

	tests := []struct {
		name             string
		path             string
		cookie           *http.Cookie
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{"home", "/", nil, http.StatusOK, "", "Reform Nepal"},
		{"home in nepali", "/?lng=np", nil, http.StatusOK, "", `lang="ne"`},
		{"create opinion needs login", "/create-opinion", nil, http.StatusSeeOther, "/auth/login?next=%2Fcreate-opinion", ""},
		{"create opinion signed in", "/create-opinion", cookie, http.StatusOK, "", "Share your opinion"},
		{"login redirects signed-in users", "/auth/login", cookie, http.StatusSeeOther, "/", ""},
		{"sign-up redirects signed-in users", "/auth/sign-up", cookie, http.StatusSeeOther, "/", ""},
		{"sign-up page", "/auth/sign-up", nil, http.StatusOK, "", "Create account"},
		{"reset without link or session", "/auth/reset-password", nil, http.StatusSeeOther, "/auth/forgot-password", ""},
		{"reset with expired link", "/auth/reset-password?token=old", nil, http.StatusSeeOther, "/auth/forgot-password", ""},
		{"reset for signed-in user", "/auth/reset-password", cookie, http.StatusOK, "", `action="/auth/reset-password"`},
		{"bad confirmation link", "/auth/confirm?token=bad", nil, http.StatusBadRequest, "", ""},
		{"unknown agenda", "/agendas/missing", nil, http.StatusNotFound, "", "Page not found"},
		{"unknown page", "/nowhere", nil, http.StatusNotFound, "", "Page not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			resp, err := fiberApp.Test(req, -1)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, resp.Header.Get("Location"))
			}
			if tt.expectedBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), tt.expectedBody)
			}
		})
	}
}

func TestFormSubmissions(t *testing.T) {
	fiberApp, application := setupTestApp(t)

	t.Run("sign-up form shows field errors", func(t *testing.T) {
		resp, body := doForm(t, fiberApp, "/auth/sign-up", url.Values{
			"full_name":       {"Gita"},
			"email":           {"gita@example.com"},
			"password":        {"Secret123"},
			"repeat_password": {"Secret999"},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "Passwords do not match")
		assert.Contains(t, body, `value="gita@example.com"`)
	})

	t.Run("sign-up form signs the user in", func(t *testing.T) {
		resp, _ := doForm(t, fiberApp, "/auth/sign-up", url.Values{
			"full_name":       {"Gita"},
			"email":           {"gita@example.com"},
			"password":        {"Secret123"},
			"repeat_password": {"Secret123"},
		})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.NotNil(t, findCookie(resp, "session_id"))
		assert.NotNil(t, findCookie(resp, "flash"))
	})

	t.Run("login form keeps next", func(t *testing.T) {
		resp, _ := doForm(t, fiberApp, "/auth/login", url.Values{
			"email":    {"gita@example.com"},
			"password": {"Secret123"},
			"next":     {"/create-opinion"},
		})
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/create-opinion", resp.Header.Get("Location"))
	})

	t.Run("login form rejects external next", func(t *testing.T) {
		resp, _ := doForm(t, fiberApp, "/auth/login", url.Values{
			"email":    {"gita@example.com"},
			"password": {"Secret123"},
			"next":     {"//evil.example.com"},
		})
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})

	t.Run("opinion form keeps list rows with commas", func(t *testing.T) {
		cookie := createUser(t, application, "writer@example.com", "Secret123")
		resp, _ := doForm(t, fiberApp, "/create-opinion", url.Values{
			"title":             {"Roads"},
			"description":       {"Pave the highway"},
			"problem_statement": {"Potholes, dust and delays"},
			"category":          {"Education"},
			"key_points":        {"Safety, first", "", "Speed"},
			"tags":              {"roads, transport,roads"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		location := resp.Header.Get("Location")
		require.True(t, strings.HasPrefix(location, "/agendas/"))

		agenda, err := application.OpinionService.Get(strings.TrimPrefix(location, "/agendas/"))
		require.NoError(t, err)
		assert.Equal(t, []string{"Safety, first", "Speed"}, agenda.KeyPoints)
		assert.Equal(t, []string{"roads", "transport"}, agenda.Tags)
		assert.Equal(t, "user-writer", agenda.UserID)
	})

	t.Run("opinion form re-renders on missing fields", func(t *testing.T) {
		cookie := createUser(t, application, "empty@example.com", "Secret123")
		resp, body := doForm(t, fiberApp, "/create-opinion", url.Values{
			"title":      {"Only a title"},
			"key_points": {"kept"},
		}, cookie)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, `value="Only a title"`)
		assert.Contains(t, body, `value="kept"`)
	})
}

func TestLocales(t *testing.T) {
	fiberApp, application := setupTestApp(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{"raw namespace file", "/locales/en/common.json", http.StatusOK, `"home":"Home"`},
		{"without extension", "/locales/np/translation", http.StatusOK, "गृहपृष्ठ"},
		{"unsupported language", "/locales/fr/common.json", http.StatusNotFound, ""},
		{"unknown namespace", "/locales/en/secrets.json", http.StatusNotFound, ""},
		{"merged namespace", "/api/i18n/en/common", http.StatusOK, `"appName":"NepalReforms"`},
		{"manifesto items", "/api/i18n/en/manifesto", http.StatusOK, "Accountability"},
		{"empty manifesto", "/api/i18n/np/manifesto", http.StatusOK, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, tt.path, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != "" {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Contains(t, strings.ReplaceAll(string(body), " ", ""), strings.ReplaceAll(tt.expectedBody, " ", ""))
			}
		})
	}

	t.Run("language choice is stored", func(t *testing.T) {
		cookie := createUser(t, application, "lang@example.com", "Secret123")
		resp, body := doJSON(t, fiberApp, http.MethodPost, "/api/language", map[string]interface{}{"language": "NE"}, cookie)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "np", body["language"])

		langCookie := findCookie(resp, "i18nextLng")
		require.NotNil(t, langCookie)
		assert.Equal(t, "np", langCookie.Value)

		user, err := application.Repo.GetUser("user-lang")
		require.NoError(t, err)
		assert.Equal(t, "np", user.PreferredLanguage)
	})

	t.Run("unsupported language is rejected", func(t *testing.T) {
		resp, _ := doJSON(t, fiberApp, http.MethodPost, "/api/language", map[string]interface{}{"language": "fr"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
