// Package manifest reads YAML files that describe a batch of map embeds.
//
// Example:
//
//	locale: de
//	embeds:
//	  - name: city-parks
//	    id: a72b0766aea04b48bf7a0e8c27ccc007
//	    height: "400"
//	    flags: [zoom, home, view-larger-link]
package manifest

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"webmap/internal/shortcode"
)

// Manifest is the top-level manifest structure.
type Manifest struct {
	// Locale overrides the language of the larger-map label for all entries.
	Locale string  `yaml:"locale,omitempty"`
	Embeds []Entry `yaml:"embeds"`
}

// Entry is one embed. Pointer fields distinguish an attribute left out
// (nil, default applies) from one set to the empty string.
type Entry struct {
	Name       string   `yaml:"name"`
	ID         *string  `yaml:"id,omitempty"`
	Width      *string  `yaml:"width,omitempty"`
	Height     *string  `yaml:"height,omitempty"`
	Extent     *string  `yaml:"extent,omitempty"`
	Theme      *string  `yaml:"theme,omitempty"`
	AltBasemap *string  `yaml:"alt_basemap,omitempty"`
	LargerText *string  `yaml:"larger_text,omitempty"`
	Flags      []string `yaml:"flags,omitempty"`
	// Shortcode, when set, is parsed instead of the fields above.
	Shortcode string `yaml:"shortcode,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks that every entry has a unique, non-empty name.
func (m *Manifest) Validate() error {
	if len(m.Embeds) == 0 {
		return fmt.Errorf("no embeds declared")
	}
	seen := make(map[string]bool, len(m.Embeds))
	for i, e := range m.Embeds {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("embed #%d: name is required", i+1)
		}
		if seen[name] {
			return fmt.Errorf("embed %q: duplicate name", name)
		}
		seen[name] = true
		if e.Shortcode != "" && len(shortcode.Find(e.Shortcode)) != 1 {
			return fmt.Errorf("embed %q: shortcode must contain exactly one [%s] tag", name, shortcode.Tag)
		}
	}
	return nil
}

// Attributes converts the entry into shortcode attributes.
func (e Entry) Attributes() shortcode.Attributes {
	if e.Shortcode != "" {
		if matches := shortcode.Find(e.Shortcode); len(matches) > 0 {
			return matches[0].Attributes
		}
	}
	a := shortcode.Attributes{
		ID:         e.ID,
		Width:      e.Width,
		Height:     e.Height,
		Extent:     e.Extent,
		Theme:      e.Theme,
		AltBasemap: e.AltBasemap,
		LargerText: e.LargerText,
		Flags:      e.Flags,
	}
	return a.Clone()
}
