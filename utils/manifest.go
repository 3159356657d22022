package utils

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"sync"
)

// ManifestEntry represents one fingerprinted asset
type ManifestEntry struct {
	File    string `json:"file"`
	Src     string `json:"src"`
	IsEntry bool   `json:"isEntry"`
}

// Manifest maps source asset names ("js/app.js") to their built files. When
// the manifest is missing every asset resolves to its unversioned path.
type Manifest struct {
	fsys    fs.FS
	name    string
	prefix  string
	logger  *slog.Logger
	once    sync.Once
	mu      sync.RWMutex
	entries map[string]ManifestEntry
}

// NewManifest reads name from fsys lazily. prefix is the URL the static
// directory is served under.
func NewManifest(fsys fs.FS, name, prefix string, logger *slog.Logger) *Manifest {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manifest{fsys: fsys, name: name, prefix: prefix, logger: logger}
}

func (m *Manifest) load() {
	data, err := fs.ReadFile(m.fsys, m.name)
	if err != nil {
		m.logger.Warn("Asset manifest not found, using unversioned assets", "path", m.name, "error", err)
		return
	}

	var entries map[string]ManifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		m.logger.Error("Failed to parse asset manifest", "path", m.name, "error", err)
		return
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()

	m.logger.Info("Asset manifest loaded", "entries", len(entries))
}

// Path returns the URL of src, falling back to the unversioned file.
func (m *Manifest) Path(src string) string {
	m.once.Do(m.load)

	m.mu.RLock()
	entry, ok := m.entries[src]
	m.mu.RUnlock()

	if ok && entry.File != "" {
		return path.Join(m.prefix, entry.File)
	}
	return path.Join(m.prefix, src)
}

func (m *Manifest) Script() string {
	return m.Path("js/app.js")
}

func (m *Manifest) Stylesheet() string {
	return m.Path("css/app.css")
}
