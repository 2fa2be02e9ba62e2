package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"webmap/internal/httputil"
	"webmap/internal/shortcode"
)

var renderCmd = &cobra.Command{
	Use:   "render [name=value | flag]...",
	Short: "Render one shortcode to iframe markup",
	Long: `Render one shortcode. Arguments are shortcode attributes, for example

  webmap render id=a72b0766aea04b48bf7a0e8c27ccc007 height=400 zoom home

or a complete shortcode:

  webmap render '[webmap id="a72b0766aea04b48bf7a0e8c27ccc007" zoom]'`,
	RunE: renderRun,
}

// renderOutput is the JSON form of a rendered embed.
type renderOutput struct {
	Shortcode string            `json:"shortcode"`
	URL       string            `json:"url"`
	Params    []shortcode.Param `json:"params"`
	Markup    string            `json:"markup"`
}

func renderRun(cmd *cobra.Command, args []string) error {
	a, unknown := parseArgs(args)
	if len(unknown) > 0 {
		log.Printf("ignoring unknown attributes: %s", strings.Join(unknown, ", "))
	}
	warnAttributes(a)

	r := newRenderer()
	e := r.Translate(a)
	debugf("query: %s", e.Params.Encode())
	record(a)

	if flagJSON {
		return printJSON(renderOutput{
			Shortcode: a.Shortcode(),
			URL:       e.URL,
			Params:    e.Params.Pairs(),
			Markup:    e.Markup,
		})
	}
	fmt.Println(e.Markup)
	return nil
}

// parseArgs accepts either a full [webmap ...] shortcode or bare attribute tokens.
func parseArgs(args []string) (shortcode.Attributes, []string) {
	text := strings.Join(args, " ")
	if matches := shortcode.Find(text); len(matches) > 0 {
		return matches[0].Attributes, matches[0].Unknown
	}
	return shortcode.ParseAttributes(text)
}

// warnAttributes reports values that will render but are probably mistakes.
// Rendering never fails on them.
func warnAttributes(a shortcode.Attributes) {
	if id, ok := a.Get(shortcode.AttrID); ok {
		if err := httputil.ValidateItemID(id); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	for _, name := range []string{shortcode.AttrWidth, shortcode.AttrHeight} {
		if v, ok := a.Get(name); ok {
			if err := httputil.ValidateDimension(v); err != nil {
				log.Printf("warning: %s: %v", name, err)
			}
		}
	}
	if v, ok := a.Get(shortcode.AttrExtent); ok {
		if err := httputil.ValidateExtent(v); err != nil {
			log.Printf("warning: %v", err)
		}
	}
}
