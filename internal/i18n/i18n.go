// Package i18n resolves the request language and translates view strings.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

// Translator owns the message catalog and picks a printer per request.
type Translator struct {
	catalog   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

// New builds a Translator whose fallback language is defaultLocale. Unknown
// locales fall back to English.
func New(defaultLocale string) *Translator {
	fallback, err := language.Parse(defaultLocale)
	if err != nil {
		fallback = language.English
	}

	supported := []language.Tag{fallback}
	for _, tag := range []language.Tag{language.English, language.French, language.Spanish} {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			// SetString only fails on malformed tags, which the table doesn't contain.
			_ = builder.SetString(tag, key, msg)
		}
	}

	return &Translator{
		catalog:   builder,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Supported returns the languages the catalog can serve, fallback first.
func (t *Translator) Supported() []language.Tag {
	return t.supported
}

// Match picks the best supported language for the given preferences.
func (t *Translator) Match(prefs ...language.Tag) language.Tag {
	_, idx, _ := t.matcher.Match(prefs...)
	return t.supported[idx]
}

// ResolveTag determines the language for a request: the lang query parameter
// wins over Accept-Language.
func (t *Translator) ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return t.supported[0]
	}

	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" {
		if tag, err := language.Parse(value); err == nil {
			return t.Match(tag)
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return t.Match(tags...)
		}
	}

	return t.supported[0]
}

// Printer returns a message printer for the supplied tag.
func (t *Translator) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(t.catalog))
}

// ForRequest returns a printer for the language resolved from r.
func (t *Translator) ForRequest(r *http.Request) *message.Printer {
	return t.Printer(t.ResolveTag(r))
}

// T translates a single key with p. Keys without a translation come back as-is.
func T(p *message.Printer, key string) string {
	if key == "" {
		return ""
	}
	return p.Sprintf(key)
}
