package services

import (
	"html"
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// makeSlug derives the URL slug for a display name.
func makeSlug(name string) (string, error) {
	s := slug.Make(name)
	if s == "" {
		return "", ErrInvalidSlug
	}
	return s, nil
}

// sanitize strips markup from free text and keeps plain characters such as
// "&" readable. Empty input stays nil so the column
// is stored as NULL.
func sanitize(s *string) *string {
	if s == nil {
		return nil
	}
	clean := strings.TrimSpace(html.UnescapeString(strict.Sanitize(*s)))
	if clean == "" {
		return nil
	}
	return &clean
}
