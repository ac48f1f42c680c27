// Package i18n provides the display-string dictionaries for the UI.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackLang = "en"

// Translator resolves display strings for the active language, falling back
// to English and then to the key itself.
type Translator struct {
	lang   string
	tables map[string]map[string]string
}

// New loads all embedded locales and selects the given language. An unknown
// language falls back to English rather than failing.
func New(lang string) (*Translator, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}
	tables := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}
		table := map[string]string{}
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}
		tables[strings.TrimSuffix(name, ".yaml")] = table
	}
	if _, ok := tables[fallbackLang]; !ok {
		return nil, fmt.Errorf("missing %s locale", fallbackLang)
	}
	t := &Translator{lang: fallbackLang, tables: tables}
	t.SetLang(lang)
	return t, nil
}

// Lang returns the active language code.
func (t *Translator) Lang() string {
	return t.lang
}

// SetLang switches the active language. Unknown codes keep the current one
// and report false.
func (t *Translator) SetLang(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := t.tables[lang]; !ok {
		return false
	}
	t.lang = lang
	return true
}

// Toggle advances to the next available language in sorted order.
func (t *Translator) Toggle() string {
	langs := t.Languages()
	for i, lang := range langs {
		if lang == t.lang {
			t.lang = langs[(i+1)%len(langs)]
			return t.lang
		}
	}
	return t.lang
}

// Languages lists the available language codes.
func (t *Translator) Languages() []string {
	langs := make([]string, 0, len(t.tables))
	for lang := range t.tables {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// T resolves a key in the active language.
func (t *Translator) T(key string) string {
	if v, ok := t.tables[t.lang][key]; ok {
		return v
	}
	if v, ok := t.tables[fallbackLang][key]; ok {
		return v
	}
	return key
}
