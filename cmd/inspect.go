package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"webmap/internal/inspect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Recover shortcodes from rendered HTML",
	Long:  "Find embedded maps in an HTML page (file or stdin) and print the shortcode that renders each one.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  inspectRun,
}

// inspectOutput is the JSON form of a found embed.
type inspectOutput struct {
	Shortcode  string `json:"shortcode"`
	Src        string `json:"src"`
	LargerLink bool   `json:"larger_link"`
}

func inspectRun(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}

	embeds, err := inspect.Scan(bytes.NewReader(content))
	if err != nil {
		return err
	}
	debugf("found %d embeds", len(embeds))

	if flagJSON {
		out := make([]inspectOutput, 0, len(embeds))
		for _, e := range embeds {
			out = append(out, inspectOutput{Shortcode: e.Shortcode(), Src: e.Src, LargerLink: e.LargerLink})
		}
		return printJSON(out)
	}

	if len(embeds) == 0 {
		fmt.Println("No embedded maps found.")
		return nil
	}
	for _, e := range embeds {
		fmt.Println(e.Shortcode())
	}
	return nil
}
