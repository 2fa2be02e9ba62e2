// Package inspect finds rendered map embeds in an HTML page and recovers
// the shortcode that produces them. Parsing uses a DOM, not pattern
// matching on raw markup.
package inspect

import (
	"fmt"
	"html"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"webmap/internal/httputil"
	"webmap/internal/shortcode"
)

// Embed is one embedded map found in a document.
type Embed struct {
	Src        string
	Params     shortcode.Params
	Attributes shortcode.Attributes
	LargerLink bool
}

// Shortcode returns the canonical shortcode for the embed.
func (e Embed) Shortcode() string {
	return e.Attributes.Shortcode()
}

// params whose value is carried by a named attribute rather than a flag
var valueParams = map[string]bool{
	"webmap":      true,
	"extent":      true,
	"theme":       true,
	"alt_basemap": true,
}

// Scan parses an HTML document and returns the embeds it contains.
func Scan(r io.Reader) ([]Embed, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return FromDocument(doc), nil
}

// FromDocument returns the embeds in an already parsed document, in
// document order. Iframes that do not point at the embed viewer are skipped.
func FromDocument(doc *goquery.Document) []Embed {
	var out []Embed

	doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !httputil.IsEmbedURL(src) {
			return
		}
		u, err := url.Parse(src)
		if err != nil {
			return
		}
		params, err := shortcode.ParseParams(u.RawQuery)
		if err != nil {
			return
		}

		e := Embed{Src: src, Params: params}
		e.Attributes = attributesFor(s, params)

		if label, ok := largerLink(s); ok {
			e.LargerLink = true
			if label != shortcode.Defaults()[shortcode.AttrLargerText] {
				e.Attributes.LargerText = shortcode.Str(label)
			}
			e.Attributes.Flags = append(e.Attributes.Flags, shortcode.ViewLargerLink)
		}
		out = append(out, e)
	})

	return out
}

// attributesFor rebuilds the smallest attribute set that renders to params.
func attributesFor(s *goquery.Selection, params shortcode.Params) shortcode.Attributes {
	var a shortcode.Attributes
	defaults := shortcode.Defaults()

	setIfNotDefault := func(name, value string) {
		if value != defaults[name] {
			a.Set(name, value)
		}
	}

	width, ok := s.Attr("width")
	if !ok {
		width = ""
	}
	setIfNotDefault(shortcode.AttrWidth, width)
	if height, ok := s.Attr("height"); ok {
		setIfNotDefault(shortcode.AttrHeight, height)
	}

	get := func(key string) string {
		v, _ := params.Get(key)
		return html.UnescapeString(v)
	}
	setIfNotDefault(shortcode.AttrID, get("webmap"))
	setIfNotDefault(shortcode.AttrExtent, get("extent"))
	setIfNotDefault(shortcode.AttrTheme, get("theme"))
	if params.Has("alt_basemap") && get("alt_basemap") != shortcode.DefaultAltBasemap {
		a.Set(shortcode.AttrAltBasemap, get("alt_basemap"))
	}

	for _, p := range params.Pairs() {
		if valueParams[p.Key] || p.Value != "true" || implied(p.Key, params) {
			continue
		}
		a.Flags = append(a.Flags, p.Key)
	}

	// The gallery remap turns the toggle off but keeps its alternate basemap.
	if params.Has("alt_basemap") && !params.IsTrue("basemap_toggle") {
		a.Flags = append(a.Flags, "basemap_toggle")
	}

	return a
}

// implied reports whether key=true is produced by a rule from another flag.
func implied(key string, params shortcode.Params) bool {
	switch key {
	case "zoom":
		return params.IsTrue("home")
	case "details":
		return params.IsTrue("description")
	case "basemap_gallery":
		return params.IsTrue("basemaps")
	}
	return false
}

// largerLink looks for the "view larger map" fragment rendered after an iframe.
func largerLink(s *goquery.Selection) (string, bool) {
	br := s.Next()
	if !br.Is("br") {
		return "", false
	}
	small := br.Next()
	if !small.Is("small") {
		return "", false
	}
	a := small.Find("a[href]").First()
	href, _ := a.Attr("href")
	if !httputil.IsEmbedURL(href) {
		return "", false
	}
	return a.Text(), true
}
