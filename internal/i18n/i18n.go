// Package i18n holds the English/Tamil message catalog used by every card on
// the dashboard. Messages are keyed by (language, message id) and live in the
// embedded messages.yaml so both variants are edited side by side.
package i18n

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

type Language string

const (
	English Language = "en"
	Tamil   Language = "ta"
)

//go:embed messages.yaml
var rawCatalog []byte

var (
	catalog     map[Language]map[string]string
	catalogOnce sync.Once
	catalogErr  error

	matcher = language.NewMatcher([]language.Tag{language.English, language.Tamil})
)

func load() {
	catalogOnce.Do(func() {
		parsed := map[Language]map[string]string{}
		if err := yaml.Unmarshal(rawCatalog, &parsed); err != nil {
			catalogErr = fmt.Errorf("parse message catalog: %w", err)
			return
		}
		catalog = parsed
	})
	if catalogErr != nil {
		panic(catalogErr)
	}
}

// Languages returns the supported languages, English first.
func Languages() []Language {
	return []Language{English, Tamil}
}

// ParseLanguage accepts "en" or "ta".
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case English, Tamil:
		return Language(s), true
	}
	return "", false
}

// Lookup returns the message for id in lang without any fallback.
func Lookup(lang Language, id string) (string, bool) {
	load()
	msg, ok := catalog[lang][id]
	return msg, ok
}

// T returns the message for id in lang, falling back to English and then to id itself.
func T(lang Language, id string) string {
	if msg, ok := Lookup(lang, id); ok {
		return msg
	}
	if msg, ok := Lookup(English, id); ok {
		return msg
	}
	return id
}

// Keys returns the sorted message ids defined for lang.
func Keys(lang Language) []string {
	load()
	keys := make([]string, 0, len(catalog[lang]))
	for k := range catalog[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Negotiate picks a supported language from an Accept-Language header value.
func Negotiate(acceptLanguage string, fallback Language) Language {
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return Languages()[idx]
}
