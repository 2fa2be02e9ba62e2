// Package render ties translation to site configuration: it fills site
// defaults and the localized link label before handing attributes to the
// shortcode translator.
package render

import (
	"webmap/internal/config"
	"webmap/internal/locale"
	"webmap/internal/shortcode"
)

// Renderer renders shortcodes for one site and language. The zero value
// renders with built-in defaults and the untranslated label.
type Renderer struct {
	Defaults config.Defaults
	Catalog  *locale.Catalog
}

// New returns a Renderer using the site defaults from cfg and the catalog
// for lang.
func New(cfg *config.Config, lang string) Renderer {
	return Renderer{Defaults: cfg.Defaults, Catalog: locale.For(lang)}
}

// WithLocale returns a copy of r that labels links in lang.
func (r Renderer) WithLocale(lang string) Renderer {
	r.Catalog = locale.For(lang)
	return r
}

// Prepare returns the attributes that will actually be translated.
func (r Renderer) Prepare(a shortcode.Attributes) shortcode.Attributes {
	out := r.Defaults.Apply(a)
	if out.LargerText == nil && r.Catalog != nil {
		out.LargerText = shortcode.Str(r.Catalog.Label())
	}
	return out
}

// Translate renders a single set of attributes.
func (r Renderer) Translate(a shortcode.Attributes) shortcode.Embed {
	return shortcode.Translate(r.Prepare(a))
}

// Expand replaces every shortcode in content and returns the matches that
// were rendered, so callers can report ignored attributes.
func (r Renderer) Expand(content string) (string, []shortcode.Match) {
	var rendered []shortcode.Match
	out := shortcode.Expand(content, func(m shortcode.Match) string {
		rendered = append(rendered, m)
		return r.Translate(m.Attributes).Markup
	})
	return out, rendered
}
