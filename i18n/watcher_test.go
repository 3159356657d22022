package i18n

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsChangedLanguage(t *testing.T) {
	dir := t.TempDir()
	enDir := filepath.Join(dir, "en")
	require.NoError(t, os.MkdirAll(enDir, 0o755))
	commonPath := filepath.Join(enDir, "common.json")
	require.NoError(t, os.WriteFile(commonPath, []byte(`{"title":"Before"}`), 0o644))

	bundle := NewBundle("en", "en")
	loader := NewLoader(os.DirFS(dir), bundle, discardLogger())
	require.NoError(t, loader.Ensure(context.Background(), "en"))
	require.Equal(t, "Before", bundle.T("en", NamespaceCommon, "title", nil))

	w, err := NewWatcher(dir, []string{"en"}, loader, discardLogger())
	require.NoError(t, err)
	w.debounceDur = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(commonPath, []byte(`{"title":"After"}`), 0o644))

	assert.Eventually(t, func() bool {
		return bundle.T("en", NamespaceCommon, "title", nil) == "After"
	}, 3*time.Second, 25*time.Millisecond)
}

func TestWatcher_IgnoresUnknownFiles(t *testing.T) {
	w := &Watcher{languages: []string{"en", "np"}, pending: make(map[string]time.Time)}

	assert.Equal(t, "np", w.languageOf("/srv/locales/np/common.json"))
	assert.Equal(t, "", w.languageOf("/srv/locales/fr/common.json"))
}

func TestWatcher_StartStopIdempotent(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(os.DirFS(dir), NewBundle("en", "en"), discardLogger())

	w, err := NewWatcher(dir, []string{"en"}, loader, discardLogger())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
