// Package httputil provides input validation for map embeds and
// sanitization of output paths.
package httputil

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	// itemIDPattern matches portal item IDs: 32 lowercase hex characters.
	itemIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

	// dimensionPattern matches iframe sizes such as 400, 100% or 600px.
	dimensionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?(%|px)?$`)
)

const (
	embedHost = "www.arcgis.com"
	embedPath = "/apps/Embed/index.html"
)

// ValidateItemID checks that a map ID looks like a portal item ID.
func ValidateItemID(id string) error {
	if id == "" {
		return fmt.Errorf("item ID cannot be empty")
	}
	if !itemIDPattern.MatchString(id) {
		return fmt.Errorf("item ID must be 32 lowercase hex characters, got %q", id)
	}
	return nil
}

// ValidateDimension checks an iframe width or height. Empty is allowed and
// means the attribute is omitted.
func ValidateDimension(v string) error {
	if v == "" {
		return nil
	}
	if !dimensionPattern.MatchString(v) {
		return fmt.Errorf("invalid dimension %q (want N, N%% or Npx)", v)
	}
	return nil
}

// ValidateExtent checks an extent of the form xmin,ymin,xmax,ymax.
// Empty is allowed and lets the map use its saved extent.
func ValidateExtent(v string) error {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return fmt.Errorf("extent needs 4 comma-separated numbers, got %d", len(parts))
	}
	var n [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("extent value %q is not a number", p)
		}
		n[i] = f
	}
	if n[0] > n[2] || n[1] > n[3] {
		return fmt.Errorf("extent minimum exceeds maximum: %q", v)
	}
	return nil
}

// IsEmbedURL reports whether rawURL points at the embed viewer.
func IsEmbedURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "https" || u.Scheme == "http" || u.Scheme == "") &&
		strings.EqualFold(u.Host, embedHost) &&
		u.Path == embedPath
}

// SanitizeFilename removes path traversal and dangerous characters from a filename.
// Returns just the base name, stripped of any directory components.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)

	replacer := strings.NewReplacer(
		"..", "_",
		"/", "_",
		"\\", "_",
		"\x00", "",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	name = replacer.Replace(name)

	if name == "" || name == "." || name == ".." {
		return "untitled"
	}

	return name
}

// SafeOutputPath resolves and validates an output path ensuring it stays within dir.
func SafeOutputPath(dir, filename string) (string, error) {
	sanitized := SanitizeFilename(filename)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	resolved, err := filepath.Abs(filepath.Join(absDir, sanitized))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", resolved, absDir)
	}

	return resolved, nil
}
