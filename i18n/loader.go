package i18n

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Loader reads <lang>/<namespace>.json files from a filesystem into a Bundle.
type Loader struct {
	fsys   fs.FS
	bundle *Bundle
	logger *slog.Logger
	group  singleflight.Group
	loaded sync.Map
}

func NewLoader(fsys fs.FS, bundle *Bundle, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{fsys: fsys, bundle: bundle, logger: logger}
}

func (l *Loader) Bundle() *Bundle {
	return l.bundle
}

// FS returns the filesystem the loader reads from.
func (l *Loader) FS() fs.FS {
	return l.fsys
}

// LoadLanguage fetches every namespace of lang in parallel and merges each one
// into the bundle. A namespace that fails to load is logged and reported as an
// empty result ([] for the manifesto, {} otherwise); the others still load.
func (l *Loader) LoadLanguage(ctx context.Context, lang string) (map[string]interface{}, error) {
	data, results, err := l.read(ctx, lang)
	if err != nil {
		return nil, err
	}
	for ns, d := range data {
		l.bundle.AddResourceBundle(lang, ns, d, true, true)
	}
	l.loaded.Store(lang, true)
	return results, nil
}

// Reload re-reads lang and swaps its resources in one step. A namespace that
// fails to read keeps its previous contents.
func (l *Loader) Reload(ctx context.Context, lang string) error {
	data, _, err := l.read(ctx, lang)
	if err != nil {
		return err
	}
	for _, ns := range Namespaces {
		if _, ok := data[ns]; ok {
			continue
		}
		if previous := l.bundle.Namespace(lang, ns); previous != nil {
			data[ns] = previous
		}
	}
	l.bundle.ReplaceLanguage(lang, data)
	l.logger.Info("Reloaded translations", "language", lang, "namespaces", len(data))
	return nil
}

// Ensure loads lang on first use. Concurrent callers share one load and a
// language is only attempted once; Reload refreshes it afterwards.
// Unsupported languages load the fallback instead.
func (l *Loader) Ensure(ctx context.Context, lang string) error {
	if !l.bundle.IsSupported(lang) {
		lang = l.bundle.Fallback()
	}
	if _, ok := l.loaded.Load(lang); ok {
		return nil
	}
	_, err, _ := l.group.Do(lang, func() (interface{}, error) {
		if _, ok := l.loaded.Load(lang); ok {
			return nil, nil
		}
		return l.LoadLanguage(ctx, lang)
	})
	return err
}

func (l *Loader) read(ctx context.Context, lang string) (map[string]map[string]interface{}, map[string]interface{}, error) {
	type nsResult struct {
		data   map[string]interface{}
		result interface{}
	}

	out := make([]nsResult, len(Namespaces))
	g, ctx := errgroup.WithContext(ctx)

	for i, ns := range Namespaces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, result, err := l.readNamespace(lang, ns)
			if err != nil {
				l.logger.Error("Failed to load translations",
					"language", lang,
					"namespace", ns,
					"error", err,
				)
				out[i] = nsResult{result: emptyResult(ns)}
				return nil
			}
			out[i] = nsResult{data: data, result: result}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	data := make(map[string]map[string]interface{}, len(Namespaces))
	results := make(map[string]interface{}, len(Namespaces))
	for i, ns := range Namespaces {
		results[ns] = out[i].result
		if out[i].data != nil {
			data[ns] = out[i].data
		}
	}
	return data, results, nil
}

func (l *Loader) readNamespace(lang, ns string) (map[string]interface{}, interface{}, error) {
	raw, err := fs.ReadFile(l.fsys, path.Join(lang, ns+".json"))
	if err != nil {
		return nil, nil, err
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, nil, fmt.Errorf("decode %s/%s: %w", lang, ns, err)
	}

	if ns == NamespaceManifesto {
		return map[string]interface{}{"items": decoded}, decoded, nil
	}

	obj, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("decode %s/%s: expected a JSON object", lang, ns)
	}
	return obj, obj, nil
}

func emptyResult(ns string) interface{} {
	if ns == NamespaceManifesto {
		return []interface{}{}
	}
	return map[string]interface{}{}
}
