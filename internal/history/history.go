// Package history records rendered embeds in a TSV file so they can be
// listed and rendered again later.
// Uses atomic writes (temp+rename) to prevent data corruption.
package history

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webmap/internal/config"
	"webmap/internal/shortcode"
)

// TSV columns: rendered_at, id, theme, flags, shortcode
const numColumns = 5

// Entry is one rendered embed.
type Entry struct {
	RenderedAt time.Time `json:"rendered_at"`
	MapID      string    `json:"id"`
	Theme      string    `json:"theme"`
	Flags      []string  `json:"flags,omitempty"`
	Shortcode  string    `json:"shortcode"`
}

// NewEntry describes the rendering of a at time now. Map ID and theme are
// the effective values after defaults.
func NewEntry(a shortcode.Attributes, now time.Time) Entry {
	d := shortcode.Defaults()
	id, ok := a.Get(shortcode.AttrID)
	if !ok {
		id = d[shortcode.AttrID]
	}
	theme, ok := a.Get(shortcode.AttrTheme)
	if !ok {
		theme = d[shortcode.AttrTheme]
	}
	return Entry{
		RenderedAt: now.UTC().Truncate(time.Second),
		MapID:      id,
		Theme:      theme,
		Flags:      append([]string(nil), a.Flags...),
		Shortcode:  a.Shortcode(),
	}
}

// Attributes parses the stored shortcode back into attributes.
func (e Entry) Attributes() shortcode.Attributes {
	matches := shortcode.Find(e.Shortcode)
	if len(matches) == 0 {
		return shortcode.Attributes{}
	}
	return matches[0].Attributes
}

// Load reads the history file and returns all entries.
func Load() ([]Entry, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			continue // Skip malformed lines
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}

	return entries, nil
}

// Save records an entry. An entry with the same shortcode text is
// replaced in place, so repeated renders only refresh the timestamp.
func Save(entry Entry) error {
	entries, err := Load()
	if err != nil {
		return err
	}

	found := false
	for i, e := range entries {
		if e.Shortcode == entry.Shortcode {
			entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		entries = append(entries, entry)
	}

	return writeAll(entries)
}

// Remove deletes the entry with the given shortcode text.
func Remove(shortcodeText string) error {
	entries, err := Load()
	if err != nil {
		return err
	}

	var filtered []Entry
	for _, e := range entries {
		if e.Shortcode != shortcodeText {
			filtered = append(filtered, e)
		}
	}

	return writeAll(filtered)
}

// FormatForDisplay creates display strings for fzf selection from history entries.
func FormatForDisplay(entries []Entry) []string {
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		display := fmt.Sprintf("%s  %s (%s)", e.RenderedAt.Local().Format("2006-01-02 15:04"), e.MapID, e.Theme)
		if len(e.Flags) > 0 {
			display += " [" + strings.Join(e.Flags, " ") + "]"
		}
		items = append(items, display)
	}
	return items
}

// writeAll replaces the history file via temp file and rename.
func writeAll(entries []Entry) error {
	path, err := config.HistoryPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating history dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "history-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writer := bufio.NewWriter(tmpFile)
	for _, e := range entries {
		if _, err := writer.WriteString(formatLine(e) + "\n"); err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
			return fmt.Errorf("writing history: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flushing history: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming history file: %w", err)
	}

	return nil
}

// parseLine parses a TSV line into an Entry.
func parseLine(line string) (Entry, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < numColumns {
		return Entry{}, fmt.Errorf("expected %d columns, got %d", numColumns, len(fields))
	}

	renderedAt, err := time.Parse(time.RFC3339, fields[0])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp: %w", err)
	}

	var flags []string
	if fields[3] != "" {
		flags = strings.Split(fields[3], ",")
	}

	return Entry{
		RenderedAt: renderedAt,
		MapID:      fields[1],
		Theme:      fields[2],
		Flags:      flags,
		Shortcode:  fields[4],
	}, nil
}

// formatLine converts an Entry to a TSV line.
func formatLine(e Entry) string {
	clean := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")
	flags := make([]string, len(e.Flags))
	for i, f := range e.Flags {
		flags[i] = strings.ReplaceAll(clean.Replace(f), ",", " ")
	}
	return strings.Join([]string{
		e.RenderedAt.UTC().Format(time.RFC3339),
		clean.Replace(e.MapID),
		clean.Replace(e.Theme),
		strings.Join(flags, ","),
		clean.Replace(e.Shortcode),
	}, "\t")
}
