package i18n

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLocales() fstest.MapFS {
	return fstest.MapFS{
		"en/manifesto.json":   {Data: []byte(`[{"title":"Rule of law"},{"title":"Transparency"}]`)},
		"en/common.json":      {Data: []byte(`{"nav":{"home":"Home"}}`)},
		"en/translation.json": {Data: []byte(`{"opinionCreation":{"categories":["Governance","Economy"]}}`)},
		"np/common.json":      {Data: []byte(`{"nav":{"home":"गृहपृष्ठ"}}`)},
		"np/translation.json": {Data: []byte(`not json`)},
	}
}

func TestLoader_LoadLanguage(t *testing.T) {
	bundle := NewBundle("en", "en", "np")
	loader := NewLoader(testLocales(), bundle, discardLogger())

	results, err := loader.LoadLanguage(context.Background(), "en")
	require.NoError(t, err)

	assert.Len(t, results[NamespaceManifesto], 2)
	assert.Contains(t, results[NamespaceCommon], "nav")

	assert.Equal(t, "Home", bundle.T("en", NamespaceCommon, "nav.home", nil))
	assert.Equal(t, []string{"Governance", "Economy"}, bundle.Array("en", NamespaceTranslation, "opinionCreation.categories"))
	items := bundle.Items("en")
	require.Len(t, items, 2)
	assert.Equal(t, "Rule of law", items[0]["title"])
}

func TestLoader_LoadLanguage_PartialFailure(t *testing.T) {
	bundle := NewBundle("en", "en", "np")
	loader := NewLoader(testLocales(), bundle, discardLogger())

	results, err := loader.LoadLanguage(context.Background(), "np")
	require.NoError(t, err)

	// Missing manifesto and malformed translation fall back to empty results.
	assert.Equal(t, []interface{}{}, results[NamespaceManifesto])
	assert.Equal(t, map[string]interface{}{}, results[NamespaceTranslation])
	assert.Equal(t, "गृहपृष्ठ", bundle.T("np", NamespaceCommon, "nav.home", nil))
	assert.Nil(t, bundle.Namespace("np", NamespaceTranslation))
}

func TestLoader_LoadLanguage_Cancelled(t *testing.T) {
	loader := NewLoader(testLocales(), NewBundle("en", "en"), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.LoadLanguage(ctx, "en")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_Ensure(t *testing.T) {
	fsys := testLocales()
	bundle := NewBundle("en", "en", "np")
	loader := NewLoader(fsys, bundle, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, loader.Ensure(context.Background(), "en"))
		}()
	}
	wg.Wait()
	assert.Equal(t, "Home", bundle.T("en", NamespaceCommon, "nav.home", nil))

	// Once loaded, Ensure does not read again.
	fsys["en/common.json"] = &fstest.MapFile{Data: []byte(`{"nav":{"home":"Start"}}`)}
	require.NoError(t, loader.Ensure(context.Background(), "en"))
	assert.Equal(t, "Home", bundle.T("en", NamespaceCommon, "nav.home", nil))

	require.NoError(t, loader.Reload(context.Background(), "en"))
	assert.Equal(t, "Start", bundle.T("en", NamespaceCommon, "nav.home", nil))
}
