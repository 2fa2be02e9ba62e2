package shortcode

// DefaultAltBasemap is used for the basemap toggle when no alternate is given.
const DefaultAltBasemap = "topo"

// Rule is one compatibility or implication step applied to the query
// parameters after flags are resolved. Apply must not modify its input;
// attrs holds the resolved, escaped attribute values and is read-only.
type Rule struct {
	Name  string
	Apply func(p Params, attrs map[string]string) Params
}

// Rules are applied in this order. Later rules observe the output of
// earlier ones, so the order is part of the contract.
var Rules = []Rule{
	{Name: "basemap-toggle-alt", Apply: basemapToggleAlt},
	{Name: "home-implies-zoom", Apply: homeImpliesZoom},
	{Name: "legacy-basemaps", Apply: legacyBasemaps},
	{Name: "legacy-description", Apply: legacyDescription},
	{Name: "basemap-toggle-fallback", Apply: basemapToggleFallback},
}

// ApplyRules runs rules over p in order and returns the final parameters.
func ApplyRules(p Params, attrs map[string]string, rules []Rule) Params {
	for _, r := range rules {
		p = r.Apply(p, attrs)
	}
	return p
}

// The toggle control needs a second basemap to switch to.
func basemapToggleAlt(p Params, attrs map[string]string) Params {
	if !p.IsTrue("basemap_toggle") {
		return p
	}
	if alt := attrs[AttrAltBasemap]; alt != "" {
		return p.With("alt_basemap", alt)
	}
	return p.With("alt_basemap", DefaultAltBasemap)
}

// The home button is drawn as part of the zoom control.
func homeImpliesZoom(p Params, _ map[string]string) Params {
	if !p.IsTrue("home") {
		return p
	}
	return p.With("zoom", "true")
}

// basemaps was the 1.x name for the gallery and cannot be combined with the toggle.
func legacyBasemaps(p Params, _ map[string]string) Params {
	if !p.IsTrue("basemaps") {
		return p
	}
	return p.With("basemap_gallery", "true").With("basemap_toggle", "false")
}

// description was the 1.x name for the details panel.
func legacyDescription(p Params, _ map[string]string) Params {
	if !p.IsTrue("description") {
		return p
	}
	return p.With("details", "true")
}

// Unreachable after basemapToggleAlt; kept so output matches older releases
// if the rule list is ever reordered.
func basemapToggleFallback(p Params, _ map[string]string) Params {
	if !p.IsTrue("basemap_toggle") || p.Has("alt_basemap") {
		return p
	}
	return p.With("alt_basemap", DefaultAltBasemap)
}
