package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepal-reforms/i18n"
	"nepal-reforms/models"
)

type stubSessions struct {
	sessions map[string]*models.Session
	touched  []string
}

func (s *stubSessions) Get(sessionID string) (*models.Session, error) {
	if sessionID == "broken" {
		return nil, errors.New("db down")
	}
	return s.sessions[sessionID], nil
}

func (s *stubSessions) Touch(sessionID string) error {
	s.touched = append(s.touched, sessionID)
	return nil
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthMiddleware(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]*models.Session{
		"good": {ID: "good", UserID: "u1", Email: "sita@example.com"},
	}}

	app := fiber.New()
	app.Use(LoadSession(sessions))
	app.Get("/api/me", AuthRequired(), func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c) + "|" + GetUserEmail(c) + "|" + GetSession(c).ID)
	})
	app.Get("/create-opinion", PageAuthRequired("/auth/login"), func(c *fiber.Ctx) error {
		return c.SendString("form")
	})
	app.Get("/auth/login", RedirectIfAuthenticated("/"), func(c *fiber.Ctx) error {
		return c.SendString("login")
	})

	tests := []struct {
		name           string
		path           string
		cookie         string
		expectedStatus int
		expectedBody   string
		location       string
		clearsCookie   bool
	}{
		{"api with session", "/api/me", "good", fiber.StatusOK, "u1|sita@example.com|good", "", false},
		{"api anonymous", "/api/me", "", fiber.StatusUnauthorized, "", "", false},
		{"api expired session", "/api/me", "gone", fiber.StatusUnauthorized, "", "", true},
		{"api store error", "/api/me", "broken", fiber.StatusUnauthorized, "", "", true},
		{"page anonymous redirects", "/create-opinion", "", fiber.StatusSeeOther, "", "/auth/login?next=%2Fcreate-opinion", false},
		{"page with session", "/create-opinion", "good", fiber.StatusOK, "form", "", false},
		{"login while signed in", "/auth/login", "good", fiber.StatusSeeOther, "", "/", false},
		{"login anonymous", "/auth/login", "", fiber.StatusOK, "login", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedBody != "" {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, tt.expectedBody, string(body))
			}
			if tt.location != "" {
				assert.Equal(t, tt.location, resp.Header.Get("Location"))
			}
			if tt.clearsCookie {
				c := findCookie(resp, SessionCookie)
				require.NotNil(t, c)
				assert.Empty(t, c.Value)
				assert.Equal(t, "/", c.Path)
			}
		})
	}
}

func TestLoadSession_Touch(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]*models.Session{
		"idle":   {ID: "idle", UserID: "u1", LastUsedAt: time.Now().Add(-time.Hour)},
		"recent": {ID: "recent", UserID: "u2", LastUsedAt: time.Now()},
	}}

	app := fiber.New()
	app.Use(LoadSession(sessions))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetUserID(c))
	})

	for _, id := range []string{"idle", "recent", "gone"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: id})
		resp, err := app.Test(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	assert.Equal(t, []string{"idle"}, sessions.touched)
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next     string
		expected string
	}{
		{"/create-opinion", "/create-opinion"},
		{"", "/"},
		{"https://evil.example", "/"},
		{"//evil.example", "/"},
		{"/\\evil.example", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SafeNext(tt.next, "/"), tt.next)
	}
}

func newTestLoader() *i18n.Loader {
	fsys := fstest.MapFS{
		"en/translation.json": {Data: []byte(`{"hello":"Hello"}`)},
		"en/common.json":      {Data: []byte(`{}`)},
		"en/manifesto.json":   {Data: []byte(`[]`)},
		"np/translation.json": {Data: []byte(`{"hello":"नमस्ते"}`)},
		"np/common.json":      {Data: []byte(`{}`)},
		"np/manifesto.json":   {Data: []byte(`[]`)},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return i18n.NewLoader(fsys, i18n.NewBundle("en", "en", "np"), logger)
}

func TestLanguage(t *testing.T) {
	loader := newTestLoader()

	app := fiber.New()
	app.Use(Language(LanguageConfig{Loader: loader, Matcher: i18n.NewMatcher("en", "np")}))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetLanguage(c) + ":" + GetLocalizer(c).T("hello"))
	})

	tests := []struct {
		name         string
		query        string
		cookie       string
		accept       string
		expected     string
		expectCookie bool
	}{
		{"default", "", "", "", "en:Hello", true},
		{"query wins", "?lng=np", "en", "en-US", "np:नमस्ते", true},
		{"query normalized", "?lng=ne-NP", "", "", "np:नमस्ते", true},
		{"cookie", "", "np", "en-US", "np:नमस्ते", false},
		{"accept-language", "", "", "ne,en;q=0.5", "np:नमस्ते", true},
		{"unknown query ignored", "?lng=fr", "np", "", "np:नमस्ते", false},
		{"unsupported accept falls back", "", "", "ja-JP", "en:Hello", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/"+tt.query, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LanguageCookie, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.expected, string(body))

			c := findCookie(resp, LanguageCookie)
			if tt.expectCookie {
				require.NotNil(t, c)
				assert.Equal(t, strings.SplitN(tt.expected, ":", 2)[0], c.Value)
			} else {
				assert.Nil(t, c)
			}
		})
	}
}

func TestFlash(t *testing.T) {
	app := fiber.New()
	app.Use(Flashes())
	app.Post("/set", func(c *fiber.Ctx) error {
		SetFlash(c, "success", "opinionCreation.success")
		return c.Redirect("/show", fiber.StatusSeeOther)
	})
	app.Get("/show", func(c *fiber.Ctx) error {
		f := GetFlash(c)
		if f == nil {
			return c.SendString("none")
		}
		return c.SendString(f.Kind + ":" + f.Message)
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/set", nil))
	require.NoError(t, err)
	flash := findCookie(resp, flashCookie)
	require.NotNil(t, flash)

	req := httptest.NewRequest("GET", "/show", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: flash.Value})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "success:opinionCreation.success", string(body))

	cleared := findCookie(resp, flashCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	req = httptest.NewRequest("GET", "/show", nil)
	req.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%garbage"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, "none", string(body))
}

func TestSecurityHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		app := fiber.New()
		app.Use(Security(production))
		app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)

		assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "accounts.google.com")
		assert.Equal(t, production, resp.Header.Get("Strict-Transport-Security") != "")
	}
}
