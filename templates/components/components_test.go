package components

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nepal-reforms/i18n"
	"nepal-reforms/models"
)

func testPage(lang string, user *models.Session) Page {
	b := i18n.NewBundle("en", "en", "np")
	b.AddResourceBundle("en", i18n.NamespaceCommon, map[string]interface{}{
		"appName": "Reform Nepal",
	}, true, true)
	return Page{
		L:          i18n.NewLocalizer(b, lang),
		User:       user,
		Languages:  []string{"en", "np"},
		Path:       "/agendas?page=2",
		Script:     "/static/js/app.js",
		Stylesheet: "/static/css/app.css",
		Year:       2025,
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		contains []string
		absent   []string
	}{
		{
			name: "english signed out",
			page: testPage("en", nil),
			contains: []string{
				`<html lang="en">`,
				`<title>Reform Nepal</title>`,
				`href="/auth/login"`,
				`href="/agendas?lng=np&amp;page=2"`,
			},
			absent: []string{`action="/auth/logout"`},
		},
		{
			name:     "nepali uses the ne document language",
			page:     testPage("np", nil),
			contains: []string{`<html lang="ne">`},
		},
		{
			name:     "signed in shows logout",
			page:     testPage("en", &models.Session{UserID: "u1", FullName: "Sita Sharma"}),
			contains: []string{"Sita Sharma", `action="/auth/logout"`},
			absent:   []string{`href="/auth/sign-up"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := render(t, Layout(tt.page))
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestField(t *testing.T) {
	p := testPage("en", nil)
	f := NewForm()
	f.Values["email"] = "gita@example.com"
	f.Values["password"] = "secret"
	f.Errors["password"] = "auth.errors.passwordRequired"

	email := render(t, Field(p, f, Input{Name: "email", Type: "email", LabelKey: "auth.email", Required: true}))
	assert.Contains(t, email, `value="gita@example.com"`)
	assert.Contains(t, email, ` required`)
	assert.NotContains(t, email, "has-error")

	password := render(t, Field(p, f, Input{Name: "password", Type: "password", LabelKey: "auth.password"}))
	assert.NotContains(t, password, "secret")
	assert.Contains(t, password, `class="field has-error"`)
	assert.Contains(t, password, `aria-describedby="password-error"`)
	assert.Contains(t, password, `<p class="field-error" id="password-error">`)
}

func TestListField_AlwaysHasEmptyRow(t *testing.T) {
	f := NewForm()
	f.Lists["problems"] = []string{"kept"}

	body := render(t, ListField(testPage("en", nil), f, "problems", "opinionCreation.problems"))
	assert.Contains(t, body, `value="kept"`)
	assert.Equal(t, 2, bytes.Count([]byte(body), []byte(`class="list-item"`)))
}

func TestVoteSection(t *testing.T) {
	data := models.VoteData{Likes: 3, Dislikes: 1, UserVote: models.VoteLike}

	tests := []struct {
		name     string
		user     *models.Session
		contains []string
		absent   []string
	}{
		{
			name: "signed in",
			user: &models.Session{UserID: "u1"},
			contains: []string{
				`data-signed-in="true"`,
				`data-user-vote="like"`,
				`class="vote-button vote-like active"`,
				`aria-pressed="true"`,
			},
			absent: []string{"disabled", `class="vote-login"`},
		},
		{
			name:     "signed out",
			contains: []string{`data-signed-in="false"`, "disabled", `class="vote-login"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := render(t, VoteSection(testPage("en", tt.user), "a1", data))
			assert.Contains(t, body, `data-agenda-id="a1"`)
			assert.Contains(t, body, `data-likes="3"`)
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, body, s)
			}
		})
	}
}
