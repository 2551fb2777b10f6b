// ABOUTME: Tag service lists tags with server counts and seeds the tag catalogue
// ABOUTME: Seeds are YAML files of slug and name pairs, applied idempotently

package tags

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/listing"
)

//go:embed default_tags.yaml
var defaultTags []byte

// listingName is the listing cache entry holding the tag list
const listingName = "tags"

type seedFile struct {
	Tags []seedTag `yaml:"tags"`
}

type seedTag struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// TagService handles tag listing and seeding
type TagService struct {
	deps    interfaces.Dependencies
	listing *listing.Cache
}

// NewTagService creates a new tag service. listings may be nil.
func NewTagService(deps interfaces.Dependencies, listings *listing.Cache) *TagService {
	return &TagService{
		deps:    deps,
		listing: listings,
	}
}

// List returns every tag with the number of servers using it
func (s *TagService) List(ctx context.Context) ([]domain.Tag, error) {
	var cached []domain.Tag
	slot, hit := s.listing.Load(ctx, listingName, &cached)
	if hit {
		return cached, nil
	}

	tags, err := s.deps.Store.ListTags(ctx)
	if err != nil {
		return nil, coreerrors.WrapError(err, "failed to list tags")
	}
	if tags == nil {
		tags = []domain.Tag{}
	}

	s.listing.Store(ctx, slot, tags)
	return tags, nil
}

// Seed upserts the tags read from a YAML seed and returns how many were applied
func (s *TagService) Seed(ctx context.Context, r io.Reader) (int, error) {
	var file seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return 0, fmt.Errorf("failed to parse tag seed: %w", err)
	}

	tags := make([]domain.Tag, 0, len(file.Tags))
	seen := make(map[string]bool, len(file.Tags))
	for i, st := range file.Tags {
		tag := domain.Tag{
			Slug: strings.TrimSpace(st.Slug),
			Name: strings.TrimSpace(st.Name),
		}
		if err := tag.Validate(); err != nil {
			return 0, fmt.Errorf("tag seed entry %d: %w", i, err)
		}
		if seen[tag.Slug] {
			return 0, fmt.Errorf("tag seed entry %d: duplicate slug %q", i, tag.Slug)
		}
		seen[tag.Slug] = true
		tags = append(tags, tag)
	}

	if len(tags) == 0 {
		return 0, nil
	}

	if err := s.deps.Store.UpsertTags(ctx, tags); err != nil {
		return 0, coreerrors.WrapError(err, "failed to store tags")
	}

	if err := s.listing.Invalidate(ctx); err != nil && s.deps.Logger != nil {
		s.deps.Logger.Warn("Failed to invalidate listing cache", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("Tags seeded", map[string]interface{}{
			"count": len(tags),
		})
	}

	return len(tags), nil
}

// SeedDefaults applies the built-in tag catalogue
func (s *TagService) SeedDefaults(ctx context.Context) (int, error) {
	return s.Seed(ctx, bytes.NewReader(defaultTags))
}
