package shortcode

import (
	"regexp"
	"strings"
)

var (
	// attrPattern follows the WordPress attribute grammar: double-quoted,
	// single-quoted and bare named values, then quoted and bare positional tokens.
	attrPattern = regexp.MustCompile(`([\w-]+)\s*=\s*"([^"]*)"(?:\s|$)|([\w-]+)\s*=\s*'([^']*)'(?:\s|$)|([\w-]+)\s*=\s*([^\s'"]+)(?:\s|$)|"([^"]*)"(?:\s|$)|'([^']*)'(?:\s|$)|(\S+)(?:\s|$)`)

	// tagPattern matches [webmap ...], [webmap .../] and the escaped [[webmap ...]].
	tagPattern = regexp.MustCompile(`\[(\[?)` + Tag + `((?:\s[^\]]*?)?)\s*(/?)\](\]?)`)

	spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u200b", " ")
)

// Match is one shortcode occurrence found in content.
type Match struct {
	Start, End int
	Raw        string
	Attributes Attributes
	// Unknown lists named attributes that were ignored.
	Unknown []string
	// Escaped is set for [[webmap ...]], which renders as literal text.
	Escaped bool

	open, close string
}

// ParseAttributes parses the attribute text of a shortcode. Named attributes
// that are not recognized are dropped and their names returned.
func ParseAttributes(text string) (Attributes, []string) {
	var a Attributes
	var unknown []string

	text = spaceReplacer.Replace(text)
	for _, m := range attrPattern.FindAllStringSubmatch(text, -1) {
		switch {
		case m[1] != "":
			unknown = setNamed(&a, m[1], m[2], unknown)
		case m[3] != "":
			unknown = setNamed(&a, m[3], m[4], unknown)
		case m[5] != "":
			unknown = setNamed(&a, m[5], m[6], unknown)
		case m[7] != "":
			a.Flags = append(a.Flags, m[7])
		case m[8] != "":
			a.Flags = append(a.Flags, m[8])
		case m[9] != "":
			a.Flags = append(a.Flags, m[9])
		}
	}
	return a, unknown
}

func setNamed(a *Attributes, name, value string, unknown []string) []string {
	if !a.Set(strings.ToLower(name), value) {
		unknown = append(unknown, strings.ToLower(name))
	}
	return unknown
}

// Find returns every [webmap] shortcode in content, in order.
func Find(content string) []Match {
	var out []Match
	for _, idx := range tagPattern.FindAllStringSubmatchIndex(content, -1) {
		m := Match{
			Start: idx[0],
			End:   idx[1],
			Raw:   content[idx[0]:idx[1]],
			open:  content[idx[2]:idx[3]],
			close: content[idx[8]:idx[9]],
		}
		m.Escaped = m.open == "[" && m.close == "]"
		m.Attributes, m.Unknown = ParseAttributes(strings.TrimSpace(content[idx[4]:idx[5]]))
		out = append(out, m)
	}
	return out
}

// Expand replaces every shortcode in content with render's output. Escaped
// shortcodes lose one level of brackets and are otherwise left alone.
func Expand(content string, render func(Match) string) string {
	matches := Find(content)
	if len(matches) == 0 {
		return content
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(content[last:m.Start])
		if m.Escaped {
			b.WriteString(m.Raw[1 : len(m.Raw)-1])
		} else {
			b.WriteString(m.open + render(m) + m.close)
		}
		last = m.End
	}
	b.WriteString(content[last:])
	return b.String()
}

// Shortcode formats a back into shortcode text. Named attributes come
// first in canonical order, followed by flags.
func (a Attributes) Shortcode() string {
	var b strings.Builder
	b.WriteString("[" + Tag)
	for _, name := range Names() {
		v, ok := a.Get(name)
		if !ok {
			continue
		}
		b.WriteString(" " + name + "=" + quote(v))
	}
	for _, f := range a.Flags {
		b.WriteString(" " + f)
	}
	b.WriteString("]")
	return b.String()
}

func quote(v string) string {
	if strings.Contains(v, `"`) {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
