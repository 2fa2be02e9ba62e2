// Package locale resolves user-facing strings, most importantly the
// "View larger map" link label, against gettext catalogs embedded in the
// binary.
//
// Usage:
//
//	locale.Init("")  // auto-detect from LANGUAGE/LC_ALL/LC_MESSAGES/LANG
//	label := locale.Label()
//	de := locale.For("de").T("View larger map")
package locale

import (
	"embed"
	"os"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
)

// locales holds the .po catalogs.
// Directory structure: locales/{lang}/LC_MESSAGES/embed-webmap.po
//
//go:embed all:locales
var locales embed.FS

// Domain is the gettext domain, matching the plugin text domain.
const Domain = "embed-webmap"

// LargerMapMsgID is the source string for the larger-map link label.
const LargerMapMsgID = "View larger map"

// translator is the lookup surface of a loaded gotext locale. Calls go
// through the interface so msgids are never treated as format strings by
// vet; gotext returns them untouched when no vars are passed.
type translator interface {
	Get(str string, vars ...interface{}) string
	GetN(str, plural string, n int, vars ...interface{}) string
}

// Catalog translates strings for one language.
type Catalog struct {
	lang string
	po   translator
}

var (
	mu       sync.Mutex
	catalogs = map[string]*Catalog{}
	current  *Catalog
)

// For returns the catalog for lang, loading it on first use. Catalogs are
// shared and safe for concurrent use.
func For(lang string) *Catalog {
	lang = normalize(lang)

	mu.Lock()
	defer mu.Unlock()
	if c, ok := catalogs[lang]; ok {
		return c
	}

	po := gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(Domain)
	po.SetDomain(Domain)

	c := &Catalog{lang: lang, po: po}
	catalogs[lang] = c
	return c
}

// Lang returns the language the catalog was loaded for.
func (c *Catalog) Lang() string {
	return c.lang
}

// T translates msgid, returning it unchanged when no translation exists.
func (c *Catalog) T(msgid string) string {
	if c == nil || c.po == nil {
		return msgid
	}
	return c.po.Get(msgid)
}

// N translates a string with plural forms.
func (c *Catalog) N(singular, plural string, n int) string {
	if c == nil || c.po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return c.po.GetN(singular, plural, n)
}

// Label returns the translated "View larger map" label.
func (c *Catalog) Label() string {
	return c.T(LargerMapMsgID)
}

// Init selects the process-wide language. If lang is empty, it is
// detected from the environment.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	c := For(lang)

	mu.Lock()
	current = c
	mu.Unlock()
}

// T translates msgid in the language chosen by Init.
func T(msgid string) string {
	return active().T(msgid)
}

// N translates a plural string in the language chosen by Init.
func N(singular, plural string, n int) string {
	return active().N(singular, plural, n)
}

// Label returns the larger-map label in the language chosen by Init.
func Label() string {
	return active().Label()
}

// Current returns the catalog chosen by Init, or nil before Init.
func Current() *Catalog {
	return active()
}

func active() *Catalog {
	mu.Lock()
	defer mu.Unlock()
	return current
}

// Available lists the languages that ship a catalog.
func Available() []string {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

// normalize strips encoding and modifier suffixes ("de_DE.UTF-8@euro" -> "de_DE").
func normalize(lang string) string {
	if idx := strings.IndexAny(lang, ".@"); idx >= 0 {
		lang = lang[:idx]
	}
	lang = strings.ReplaceAll(strings.TrimSpace(lang), "-", "_")
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "en"
	}
	return lang
}

// detectLanguage follows GNU gettext: LANGUAGE > LC_ALL > LC_MESSAGES > LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		// LANGUAGE can be a colon-separated list; take the first
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
