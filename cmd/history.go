package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"webmap/internal/history"
	"webmap/internal/ui"
)

var (
	flagPick   bool
	flagForget bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously rendered embeds",
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVarP(&flagPick, "pick", "p", false, "Select an entry with fzf and render it again")
	historyCmd.Flags().BoolVar(&flagForget, "forget", false, "Select an entry with fzf and remove it")
}

func historyRun(cmd *cobra.Command, args []string) error {
	entries, err := history.Load()
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	items := history.FormatForDisplay(entries)

	if !flagPick && !flagForget {
		if flagJSON {
			return printJSON(entries)
		}
		for i, item := range items {
			fmt.Printf("%s\n    %s\n", item, entries[i].Shortcode)
		}
		return nil
	}

	idx, err := ui.Select("History", items)
	if err != nil {
		return err
	}
	selected := entries[idx]

	if flagForget {
		debugf("removing: %s", selected.Shortcode)
		return history.Remove(selected.Shortcode)
	}

	debugf("re-rendering: %s", selected.Shortcode)
	a := selected.Attributes()
	fmt.Println(newRenderer().Translate(a).Markup)
	record(a)
	return nil
}
