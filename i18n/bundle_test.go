package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBundle() *Bundle {
	b := NewBundle("en", "en", "np")
	b.AddResourceBundle("en", NamespaceTranslation, map[string]interface{}{
		"homepage": map[string]interface{}{
			"hero": map[string]interface{}{
				"title": "Shape Nepal's Future",
			},
			"howToEngage": map[string]interface{}{
				"steps": []interface{}{"Read", "Vote", "Share"},
			},
		},
		"greeting":    "Hello, {{name}}!",
		"votes_one":   "{{count}} vote",
		"votes_other": "{{count}} votes",
		"onlyEnglish": "Fallback text",
		"notAString":  map[string]interface{}{"nested": "value"},
	}, true, true)
	b.AddResourceBundle("np", NamespaceTranslation, map[string]interface{}{
		"homepage": map[string]interface{}{
			"hero": map[string]interface{}{
				"title": "नेपालको भविष्य",
			},
		},
	}, true, true)
	return b
}

func TestBundle_T(t *testing.T) {
	b := newTestBundle()

	tests := []struct {
		name string
		lang string
		key  string
		vars map[string]interface{}
		want string
	}{
		{"nested key", "en", "homepage.hero.title", nil, "Shape Nepal's Future"},
		{"translated key", "np", "homepage.hero.title", nil, "नेपालको भविष्य"},
		{"fallback language", "np", "onlyEnglish", nil, "Fallback text"},
		{"interpolation", "en", "greeting", map[string]interface{}{"name": "Sita"}, "Hello, Sita!"},
		{"plural one", "en", "votes", map[string]interface{}{"count": 1}, "1 vote"},
		{"plural other", "en", "votes", map[string]interface{}{"count": 5}, "5 votes"},
		{"missing key", "en", "does.not.exist", nil, "does.not.exist"},
		{"object value", "en", "notAString", nil, "notAString"},
		{"unknown language", "fr", "homepage.hero.title", nil, "Shape Nepal's Future"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.T(tt.lang, NamespaceTranslation, tt.key, tt.vars))
		})
	}
}

func TestBundle_Array(t *testing.T) {
	b := newTestBundle()

	assert.Equal(t, []string{"Read", "Vote", "Share"}, b.Array("en", NamespaceTranslation, "homepage.howToEngage.steps"))
	assert.Equal(t, []string{"Read", "Vote", "Share"}, b.Array("np", NamespaceTranslation, "homepage.howToEngage.steps"))
	assert.Nil(t, b.Array("en", NamespaceTranslation, "homepage.hero.title"))
	assert.Nil(t, b.Array("en", NamespaceTranslation, "missing"))
}

func TestBundle_AddResourceBundle_DeepMerge(t *testing.T) {
	b := NewBundle("en", "en")
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{
		"nav":    map[string]interface{}{"home": "Home", "login": "Login"},
		"footer": "old",
	}, true, true)

	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{
		"nav":    map[string]interface{}{"login": "Sign in", "signup": "Sign up"},
		"footer": "new",
	}, true, true)

	assert.Equal(t, "Home", b.T("en", NamespaceCommon, "nav.home", nil))
	assert.Equal(t, "Sign in", b.T("en", NamespaceCommon, "nav.login", nil))
	assert.Equal(t, "Sign up", b.T("en", NamespaceCommon, "nav.signup", nil))
	assert.Equal(t, "new", b.T("en", NamespaceCommon, "footer", nil))
}

func TestBundle_AddResourceBundle_NoOverwrite(t *testing.T) {
	b := NewBundle("en", "en")
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{"title": "First"}, true, true)
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{"title": "Second", "extra": "Added"}, true, false)

	assert.Equal(t, "First", b.T("en", NamespaceCommon, "title", nil))
	assert.Equal(t, "Added", b.T("en", NamespaceCommon, "extra", nil))
}

func TestBundle_AddResourceBundle_Shallow(t *testing.T) {
	b := NewBundle("en", "en")
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{
		"nav": map[string]interface{}{"home": "Home"},
	}, false, true)
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{
		"nav": map[string]interface{}{"login": "Login"},
	}, false, true)

	assert.Equal(t, "nav.home", b.T("en", NamespaceCommon, "nav.home", nil))
	assert.Equal(t, "Login", b.T("en", NamespaceCommon, "nav.login", nil))
}

func TestBundle_AddResourceBundle_DoesNotAliasInput(t *testing.T) {
	b := NewBundle("en", "en")
	input := map[string]interface{}{"nav": map[string]interface{}{"home": "Home"}}
	b.AddResourceBundle("en", NamespaceCommon, input, true, true)
	b.AddResourceBundle("en", NamespaceCommon, map[string]interface{}{
		"nav": map[string]interface{}{"home": "Start"},
	}, true, true)

	assert.Equal(t, "Home", input["nav"].(map[string]interface{})["home"])
}

func TestBundle_ItemsAndNamespace(t *testing.T) {
	b := NewBundle("en", "en")
	b.AddResourceBundle("en", NamespaceManifesto, map[string]interface{}{
		"items": []interface{}{
			map[string]interface{}{"title": "Transparency"},
			"ignored",
		},
	}, true, true)

	items := b.Items("en")
	require.Len(t, items, 1)
	assert.Equal(t, "Transparency", items[0]["title"])

	ns := b.Namespace("en", NamespaceManifesto)
	require.NotNil(t, ns)
	ns["items"] = nil
	assert.Len(t, b.Items("en"), 1)

	assert.Nil(t, b.Namespace("np", NamespaceManifesto))
}

func TestBundle_ReplaceLanguage(t *testing.T) {
	b := newTestBundle()
	b.ReplaceLanguage("en", map[string]map[string]interface{}{
		NamespaceTranslation: {"greeting": "Namaste"},
	})

	assert.Equal(t, "Namaste", b.T("en", NamespaceTranslation, "greeting", nil))
	assert.Equal(t, "homepage.hero.title", b.T("en", NamespaceTranslation, "homepage.hero.title", nil))
}
