// Package ui picks an item from a list with fzf.
// Items are piped to fzf via stdin as plain text; no preview commands or
// shell-evaluated strings are passed.
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// ErrCancelled is returned when the user aborts the selection.
var ErrCancelled = errors.New("selection cancelled")

// Select presents items via fzf and returns the index of the chosen one.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return -1, fmt.Errorf("fzf not found in PATH: %w", err)
	}

	cmd := exec.Command(fzfPath, selectArgs(prompt)...)
	cmd.Stdin = strings.NewReader(numbered(items))
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("fzf failed: %w", err)
	}

	return parseSelection(stdout.String(), len(items))
}

func selectArgs(prompt string) []string {
	return []string{
		"--prompt", prompt + " > ",
		"--height", "40%",
		"--reverse",
		"--with-nth", "2..", // hide the index column
		"--delimiter", "\t",
		"--no-multi",
		"--cycle",
	}
}

// numbered prefixes each item with its index so the choice can be mapped
// back even when two items display identically.
func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d\t%s\n", i, strings.ReplaceAll(item, "\n", " "))
	}
	return b.String()
}

func parseSelection(out string, n int) (int, error) {
	selected := strings.TrimSpace(out)
	if selected == "" {
		return -1, fmt.Errorf("no selection made")
	}

	field, _, _ := strings.Cut(selected, "\t")
	idx, err := strconv.Atoi(field)
	if err != nil {
		return -1, fmt.Errorf("parsing selection index: %w", err)
	}
	if idx < 0 || idx >= n {
		return -1, fmt.Errorf("selection index %d out of range", idx)
	}
	return idx, nil
}
