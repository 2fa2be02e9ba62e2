// Package shortcode translates [webmap] shortcode attributes into an
// embed URL and the iframe markup that hosts it.
//
// Translation is a pure function of its input: no state is kept between
// calls and nothing here performs I/O, so it is safe to call concurrently.
package shortcode

import "strings"

// Tag is the shortcode name handled by this package.
const Tag = "webmap"

// ViewLargerLink is the reserved flag that appends a "view larger map"
// link instead of enabling a query parameter.
const ViewLargerLink = "view-larger-link"

// Attribute names recognized in shortcode text.
const (
	AttrID         = "id"
	AttrWidth      = "width"
	AttrHeight     = "height"
	AttrExtent     = "extent"
	AttrTheme      = "theme"
	AttrAltBasemap = "alt_basemap"
	AttrLargerText = "larger_text"
)

// Attributes is the typed form of a shortcode invocation. A nil field means
// the attribute was not supplied; a pointer to "" means it was supplied empty.
type Attributes struct {
	ID         *string
	Width      *string
	Height     *string
	Extent     *string
	Theme      *string
	AltBasemap *string
	LargerText *string

	// Flags holds bare positional tokens in the order they appeared.
	Flags []string
}

// Str returns a pointer to s, for building Attributes literals.
func Str(s string) *string {
	return &s
}

// Defaults returns the value used for each named attribute when it is absent.
func Defaults() map[string]string {
	return map[string]string{
		AttrID:         "a72b0766aea04b48bf7a0e8c27ccc007",
		AttrWidth:      "100%",
		AttrHeight:     "",
		AttrExtent:     "",
		AttrTheme:      "light",
		AttrAltBasemap: "",
		AttrLargerText: "View larger map",
	}
}

// field returns the pointer backing a named attribute, or nil for names
// that are not recognized.
func (a *Attributes) field(name string) **string {
	switch name {
	case AttrID:
		return &a.ID
	case AttrWidth:
		return &a.Width
	case AttrHeight:
		return &a.Height
	case AttrExtent:
		return &a.Extent
	case AttrTheme:
		return &a.Theme
	case AttrAltBasemap:
		return &a.AltBasemap
	case AttrLargerText:
		return &a.LargerText
	}
	return nil
}

// Set assigns a named attribute. It reports false, leaving a untouched,
// when name is not a recognized attribute.
func (a *Attributes) Set(name, value string) bool {
	f := a.field(strings.ToLower(name))
	if f == nil {
		return false
	}
	*f = Str(value)
	return true
}

// Get returns a named attribute and whether it was supplied.
func (a Attributes) Get(name string) (string, bool) {
	f := a.field(strings.ToLower(name))
	if f == nil || *f == nil {
		return "", false
	}
	return **f, true
}

// HasFlag reports whether the positional token flag was supplied.
func (a Attributes) HasFlag(flag string) bool {
	for _, f := range a.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Names lists the recognized named attributes in canonical order.
func Names() []string {
	return []string{AttrID, AttrWidth, AttrHeight, AttrExtent, AttrTheme, AttrAltBasemap, AttrLargerText}
}

// resolve overlays a onto the defaults, producing a value for every
// recognized name.
func (a Attributes) resolve() map[string]string {
	out := Defaults()
	for _, name := range Names() {
		if v, ok := a.Get(name); ok {
			out[name] = v
		}
	}
	return out
}

// Clone returns a deep copy of a.
func (a Attributes) Clone() Attributes {
	out := Attributes{}
	for _, name := range Names() {
		if v, ok := a.Get(name); ok {
			out.Set(name, v)
		}
	}
	if a.Flags != nil {
		out.Flags = append([]string(nil), a.Flags...)
	}
	return out
}
