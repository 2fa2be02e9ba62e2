package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"webmap/internal/locale"
)

var flagOutput string

var expandCmd = &cobra.Command{
	Use:   "expand [file]",
	Short: "Expand every [webmap] shortcode in a page",
	Long:  "Read page content from file (or stdin) and replace each [webmap] shortcode with its markup.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  expandRun,
}

func init() {
	expandCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write to file instead of stdout")
}

func expandRun(cmd *cobra.Command, args []string) error {
	content, err := readInput(args)
	if err != nil {
		return err
	}

	out, matches := newRenderer().Expand(string(content))
	for _, m := range matches {
		if len(m.Unknown) > 0 {
			log.Printf("ignoring unknown attributes %v in %s", m.Unknown, m.Raw)
		}
		warnAttributes(m.Attributes)
		record(m.Attributes)
	}
	debugf(locale.N("Rendered %d map", "Rendered %d maps", len(matches)), len(matches))

	if flagOutput == "" {
		_, err := io.WriteString(os.Stdout, out)
		return err
	}
	if err := os.WriteFile(flagOutput, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", flagOutput, err)
	}
	fmt.Fprintf(os.Stderr, locale.N("Rendered %d map", "Rendered %d maps", len(matches))+"\n", len(matches))
	return nil
}

// readInput reads the named file, or stdin when no file is given or it is "-".
func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}
