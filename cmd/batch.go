package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"webmap/internal/httputil"
	"webmap/internal/locale"
	"webmap/internal/manifest"
)

var flagOutDir string

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.yaml>",
	Short: "Render every embed declared in a YAML manifest",
	Long:  "Render each embed in the manifest to <out>/<name>.html.",
	Args:  cobra.ExactArgs(1),
	RunE:  batchRun,
}

func init() {
	batchCmd.Flags().StringVarP(&flagOutDir, "out", "o", ".", "Output directory")
}

func batchRun(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	r := newRenderer()
	if m.Locale != "" && flagLocale == "" {
		r = r.WithLocale(m.Locale)
	}

	if err := os.MkdirAll(flagOutDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	paths, err := outputPaths(flagOutDir, m.Embeds)
	if err != nil {
		return err
	}

	for i, e := range m.Embeds {
		a := e.Attributes()
		warnAttributes(a)
		markup := r.Translate(a).Markup
		if err := os.WriteFile(paths[i], []byte(markup+"\n"), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", paths[i], err)
		}
		record(a)
		debugf("wrote %s", paths[i])
	}

	fmt.Fprintf(os.Stderr, locale.N("Rendered %d map", "Rendered %d maps", len(paths))+"\n", len(paths))
	return nil
}

// outputPaths resolves the file for every embed, failing before anything
// is written if a name escapes dir or two names land on the same file.
func outputPaths(dir string, embeds []manifest.Entry) ([]string, error) {
	paths := make([]string, len(embeds))
	owner := make(map[string]string, len(embeds))
	for i, e := range embeds {
		path, err := httputil.SafeOutputPath(dir, e.Name+".html")
		if err != nil {
			return nil, fmt.Errorf("embed %q: %w", e.Name, err)
		}
		if prev, ok := owner[path]; ok {
			return nil, fmt.Errorf("embeds %q and %q both write %s", prev, e.Name, path)
		}
		owner[path] = e.Name
		paths[i] = path
	}
	return paths, nil
}
