// Package i18n loads translation namespaces from JSON files and resolves keys
// for the supported languages.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

const (
	NamespaceManifesto   = "manifesto"
	NamespaceCommon      = "common"
	NamespaceTranslation = "translation"
)

// Namespaces lists every namespace loaded for a language.
var Namespaces = []string{NamespaceManifesto, NamespaceCommon, NamespaceTranslation}

// Bundle holds resources[lang][namespace] as nested maps decoded from JSON.
type Bundle struct {
	mu        sync.RWMutex
	resources map[string]map[string]map[string]interface{}
	fallback  string
	languages []string
}

// NewBundle creates an empty bundle. The first language is used as the fallback
// when fallback is empty.
func NewBundle(fallback string, languages ...string) *Bundle {
	if fallback == "" && len(languages) > 0 {
		fallback = languages[0]
	}
	return &Bundle{
		resources: make(map[string]map[string]map[string]interface{}),
		fallback:  fallback,
		languages: languages,
	}
}

func (b *Bundle) Fallback() string {
	return b.fallback
}

func (b *Bundle) Languages() []string {
	return append([]string(nil), b.languages...)
}

// IsSupported reports whether lang is one of the bundle's languages.
func (b *Bundle) IsSupported(lang string) bool {
	for _, l := range b.languages {
		if l == lang {
			return true
		}
	}
	return false
}

// AddResourceBundle merges data into resources[lang][ns]. With deep set, nested
// objects are merged key by key; otherwise a top-level key replaces the old value.
// Existing values are only replaced when overwrite is set.
func (b *Bundle) AddResourceBundle(lang, ns string, data map[string]interface{}, deep, overwrite bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.resources[lang] == nil {
		b.resources[lang] = make(map[string]map[string]interface{})
	}
	if b.resources[lang][ns] == nil {
		b.resources[lang][ns] = make(map[string]interface{})
	}
	merge(b.resources[lang][ns], data, deep, overwrite)
}

func merge(dst, src map[string]interface{}, deep, overwrite bool) {
	for key, value := range src {
		existing, exists := dst[key]
		if deep && exists {
			dstMap, dstOK := existing.(map[string]interface{})
			srcMap, srcOK := value.(map[string]interface{})
			if dstOK && srcOK {
				merge(dstMap, srcMap, deep, overwrite)
				continue
			}
		}
		if !exists || overwrite {
			dst[key] = cloneValue(value)
		}
	}
}

// cloneValue copies nested maps so later merges never write into caller data.
func cloneValue(v interface{}) interface{} {
	m, ok := v.(map[string]interface{})
	if !ok {
		return v
	}
	out := make(map[string]interface{}, len(m))
	for k, val := range m {
		out[k] = cloneValue(val)
	}
	return out
}

// ReplaceLanguage swaps every namespace of lang for data.
func (b *Bundle) ReplaceLanguage(lang string, data map[string]map[string]interface{}) {
	fresh := make(map[string]map[string]interface{}, len(data))
	for ns, d := range data {
		fresh[ns] = cloneValue(d).(map[string]interface{})
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.resources[lang] = fresh
}

// Lookup resolves a dotted key in lang, then in the fallback language.
func (b *Bundle) Lookup(lang, ns, key string) (interface{}, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if v, ok := b.lookupLocked(lang, ns, key); ok {
		return v, true
	}
	if lang != b.fallback {
		return b.lookupLocked(b.fallback, ns, key)
	}
	return nil, false
}

func (b *Bundle) lookupLocked(lang, ns, key string) (interface{}, bool) {
	var current interface{} = b.resources[lang][ns]
	if current == nil {
		return nil, false
	}
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// T translates key. vars are interpolated into {{name}} placeholders; a numeric
// "count" selects the key_one / key_other plural form when present. Missing keys
// return the key itself.
func (b *Bundle) T(lang, ns, key string, vars map[string]interface{}) string {
	if count, ok := countOf(vars); ok {
		suffix := "_other"
		if count == 1 {
			suffix = "_one"
		}
		if v, ok := b.Lookup(lang, ns, key+suffix); ok {
			if s, ok := v.(string); ok {
				return interpolate(s, vars)
			}
		}
	}

	v, ok := b.Lookup(lang, ns, key)
	if !ok {
		return key
	}
	s, ok := v.(string)
	if !ok {
		return key
	}
	return interpolate(s, vars)
}

// Array returns the string array at key, the equivalent of returnObjects for lists.
func (b *Bundle) Array(lang, ns, key string) []string {
	v, ok := b.Lookup(lang, ns, key)
	if !ok {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Items returns the manifesto entries for lang as decoded JSON objects.
func (b *Bundle) Items(lang string) []map[string]interface{} {
	v, ok := b.Lookup(lang, NamespaceManifesto, "items")
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	items := make([]map[string]interface{}, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]interface{}); ok {
			items = append(items, m)
		}
	}
	return items
}

// Namespace returns a copy of resources[lang][ns], or nil when nothing is loaded.
func (b *Bundle) Namespace(lang, ns string) map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.resources[lang][ns]
	if !ok {
		return nil
	}
	return cloneValue(data).(map[string]interface{})
}

func countOf(vars map[string]interface{}) (int64, bool) {
	raw, ok := vars["count"]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func interpolate(s string, vars map[string]interface{}) string {
	if len(vars) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(s)
}
