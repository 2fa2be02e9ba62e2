package shortcode

import (
	"html"
	"strings"
)

// BaseURL is the embed viewer endpoint every map is served from.
const BaseURL = "https://www.arcgis.com/apps/Embed/index.html"

// WidgetClass is the CSS class carried by every rendered iframe.
const WidgetClass = "webmap-widget-map"

// booleanParams are always present in the query string, "false" unless enabled.
var booleanParams = []string{
	"zoom",
	"scale",
	"disable_scroll",
	"basemap_gallery",
	"basemap_toggle",
	"basemaps",
	"description",
}

// Embed is the result of translating one shortcode.
type Embed struct {
	Params     Params
	URL        string
	Markup     string
	LargerLink bool
}

// String returns the rendered markup.
func (e Embed) String() string {
	return e.Markup
}

// Render translates a and returns only the markup.
func Render(a Attributes) string {
	return Translate(a).Markup
}

// Translate builds the embed URL and iframe markup for a. It never fails:
// missing or empty attributes fall back to their defaults.
func Translate(a Attributes) Embed {
	attrs := a.resolve()
	for k, v := range attrs {
		attrs[k] = html.EscapeString(v)
	}

	p := seed(attrs)
	larger := false
	for _, flag := range a.Flags {
		if flag == ViewLargerLink {
			larger = true
			continue
		}
		p = p.With(flag, "true")
	}
	p = ApplyRules(p, attrs, Rules)

	src := BaseURL + "?" + p.Encode()

	var b strings.Builder
	b.WriteString(`<iframe class="` + WidgetClass + `"`)
	b.WriteString(htmlAttr(AttrWidth, attrs[AttrWidth]))
	b.WriteString(htmlAttr(AttrHeight, attrs[AttrHeight]))
	b.WriteString(` frameborder="0" scrolling="no" marginheight="0" marginwidth="0" src="`)
	b.WriteString(src)
	b.WriteString(`"></iframe>`)
	if larger {
		b.WriteString(largerLink(attrs[AttrID], attrs[AttrLargerText]))
	}

	return Embed{
		Params:     p,
		URL:        src,
		Markup:     b.String(),
		LargerLink: larger,
	}
}

func seed(attrs map[string]string) Params {
	pairs := []Param{
		{Key: "webmap", Value: attrs[AttrID]},
		{Key: "extent", Value: attrs[AttrExtent]},
		{Key: "theme", Value: attrs[AttrTheme]},
	}
	for _, k := range booleanParams {
		pairs = append(pairs, Param{Key: k, Value: "false"})
	}
	return NewParams(pairs...)
}

// htmlAttr renders ` name="value"`, or nothing when value is empty.
func htmlAttr(name, value string) string {
	if value == "" {
		return ""
	}
	return " " + name + `="` + value + `"`
}

func largerLink(id, label string) string {
	return `<br /><small><a href="` + BaseURL + "?webmap=" + id +
		`" style="text-align:left" target="_blank">` + label + `</a></small>`
}
