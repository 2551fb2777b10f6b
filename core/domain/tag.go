// ABOUTME: Tag domain model represents a category attachable to many servers
// ABOUTME: Provides validation for seeded tags

package domain

import (
	"errors"
	"regexp"
)

var tagSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Tag is a categorical label; many-to-many with Server
type Tag struct {
	ID          int64
	Slug        string
	Name        string
	ServerCount int
}

// Validate checks that the tag has a well-formed slug and a name
func (t *Tag) Validate() error {
	if t.Name == "" {
		return errors.New("tag name cannot be empty")
	}
	if !tagSlugPattern.MatchString(t.Slug) {
		return errors.New("tag slug must be lowercase words separated by dashes")
	}
	return nil
}
