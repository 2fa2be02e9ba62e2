package shortcode

import (
	"net/url"
	"strings"
)

// Params is an insertion-ordered set of embed URL query parameters.
// Values are never modified in place: With returns a new Params.
type Params struct {
	keys []string
	vals map[string]string
}

// Param is a single key/value pair of a Params.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewParams builds a Params from pairs, keeping their order. A repeated key
// keeps its first position and takes its last value.
func NewParams(pairs ...Param) Params {
	p := Params{vals: make(map[string]string, len(pairs))}
	for _, kv := range pairs {
		if _, ok := p.vals[kv.Key]; !ok {
			p.keys = append(p.keys, kv.Key)
		}
		p.vals[kv.Key] = kv.Value
	}
	return p
}

// With returns a copy of p with key set to value. An existing key keeps
// its position; a new key is appended.
func (p Params) With(key, value string) Params {
	out := Params{
		keys: make([]string, len(p.keys), len(p.keys)+1),
		vals: make(map[string]string, len(p.vals)+1),
	}
	copy(out.keys, p.keys)
	for k, v := range p.vals {
		out.vals[k] = v
	}
	if _, ok := out.vals[key]; !ok {
		out.keys = append(out.keys, key)
	}
	out.vals[key] = value
	return out
}

// Get returns the value stored for key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.vals[key]
	return ok
}

// IsTrue reports whether key holds the literal "true".
func (p Params) IsTrue(key string) bool {
	return p.vals[key] == "true"
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.keys)
}

// Pairs returns the parameters in insertion order.
func (p Params) Pairs() []Param {
	out := make([]Param, 0, len(p.keys))
	for _, k := range p.keys {
		out = append(out, Param{Key: k, Value: p.vals[k]})
	}
	return out
}

// Encode renders p as a URL query string in insertion order.
// Unlike url.Values.Encode, keys are not sorted.
func (p Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.vals[k]))
	}
	return b.String()
}

// ParseParams decodes a raw query string, keeping the order keys appear in.
func ParseParams(rawQuery string) (Params, error) {
	var pairs []Param
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return Params{}, err
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			return Params{}, err
		}
		pairs = append(pairs, Param{Key: key, Value: val})
	}
	return NewParams(pairs...), nil
}
