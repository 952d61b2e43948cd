package repository

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Slugify derives a URL slug from a post title: spaces become hyphens,
// everything except letters, digits, and hyphens is stripped, and the
// result is lowercased.
func Slugify(title string) string {
	slug := strings.Join(strings.Split(title, " "), "-")
	slug = slugStrip.ReplaceAllString(slug, "")
	return strings.ToLower(slug)
}
