package shortcode

import "testing"

func TestParamsWithIsCopy(t *testing.T) {
	base := NewParams(Param{"a", "1"}, Param{"b", "2"})
	next := base.With("a", "9").With("c", "3")

	if v, _ := base.Get("a"); v != "1" {
		t.Errorf("original changed: a = %q", v)
	}
	if base.Has("c") {
		t.Error("original gained key c")
	}
	if got := next.Encode(); got != "a=9&b=2&c=3" {
		t.Errorf("Encode() = %q, want a=9&b=2&c=3", got)
	}
}

func TestParamsEncodeOrderAndEscaping(t *testing.T) {
	p := NewParams(Param{"z", "last one"}, Param{"a", "x&y=z"}, Param{"z", "again"})
	if got := p.Encode(); got != "z=again&a=x%26y%3Dz" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("webmap=abc&extent=-10%2C20&theme=light&zoom=true")
	if err != nil {
		t.Fatalf("ParseParams() error: %v", err)
	}
	if p.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", p.Len())
	}
	if v, _ := p.Get("extent"); v != "-10,20" {
		t.Errorf("extent = %q", v)
	}
	if p.Pairs()[3].Key != "zoom" {
		t.Errorf("order not preserved: %+v", p.Pairs())
	}

	if _, err := ParseParams("a=%zz"); err == nil {
		t.Error("expected error for bad escape")
	}
}

func TestRulesIndividually(t *testing.T) {
	tests := []struct {
		name  string
		rule  func(Params, map[string]string) Params
		in    Params
		attrs map[string]string
		want  string
	}{
		{
			name: "toggle alt default",
			rule: basemapToggleAlt,
			in:   NewParams(Param{"basemap_toggle", "true"}),
			want: "basemap_toggle=true&alt_basemap=topo",
		},
		{
			name:  "toggle alt from attribute",
			rule:  basemapToggleAlt,
			in:    NewParams(Param{"basemap_toggle", "true"}),
			attrs: map[string]string{AttrAltBasemap: "gray"},
			want:  "basemap_toggle=true&alt_basemap=gray",
		},
		{
			name: "toggle off leaves params",
			rule: basemapToggleAlt,
			in:   NewParams(Param{"basemap_toggle", "false"}),
			want: "basemap_toggle=false",
		},
		{
			name: "home implies zoom",
			rule: homeImpliesZoom,
			in:   NewParams(Param{"zoom", "false"}, Param{"home", "true"}),
			want: "zoom=true&home=true",
		},
		{
			name: "legacy basemaps",
			rule: legacyBasemaps,
			in:   NewParams(Param{"basemap_gallery", "false"}, Param{"basemap_toggle", "true"}, Param{"basemaps", "true"}),
			want: "basemap_gallery=true&basemap_toggle=false&basemaps=true",
		},
		{
			name: "legacy description",
			rule: legacyDescription,
			in:   NewParams(Param{"description", "true"}),
			want: "description=true&details=true",
		},
		{
			name: "fallback fills missing alt",
			rule: basemapToggleFallback,
			in:   NewParams(Param{"basemap_toggle", "true"}),
			want: "basemap_toggle=true&alt_basemap=topo",
		},
		{
			name: "fallback keeps existing alt",
			rule: basemapToggleFallback,
			in:   NewParams(Param{"basemap_toggle", "true"}, Param{"alt_basemap", "oceans"}),
			want: "basemap_toggle=true&alt_basemap=oceans",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.in.Encode()
			got := tt.rule(tt.in, tt.attrs).Encode()
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if tt.in.Encode() != before {
				t.Error("rule modified its input")
			}
		})
	}
}

func TestRulesOrder(t *testing.T) {
	want := []string{
		"basemap-toggle-alt",
		"home-implies-zoom",
		"legacy-basemaps",
		"legacy-description",
		"basemap-toggle-fallback",
	}
	if len(Rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(Rules), len(want))
	}
	for i, r := range Rules {
		if r.Name != want[i] {
			t.Errorf("Rules[%d] = %s, want %s", i, r.Name, want[i])
		}
	}
}

func TestApplyRulesOrderMatters(t *testing.T) {
	in := NewParams(Param{"basemap_toggle", "true"}, Param{"basemaps", "true"})

	// Gallery remap first: the toggle is already off when the alt rule runs.
	reversed := []Rule{Rules[2], Rules[0]}
	if ApplyRules(in, nil, reversed).Has("alt_basemap") {
		t.Error("reversed order should not add alt_basemap")
	}
	if !ApplyRules(in, nil, Rules).Has("alt_basemap") {
		t.Error("canonical order should add alt_basemap")
	}
}
