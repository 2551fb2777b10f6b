// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"serverlist-api/api/dto/responses"
	"serverlist-api/core/domain"
	"serverlist-api/core/render"
)

// excerptLength is the rune budget of card previews
const excerptLength = 160

// ToServerResponse converts a domain Server. withHTML adds the rendered
// description, used by detail responses.
func ToServerResponse(s *domain.Server, withHTML bool) responses.ServerResponse {
	out := responses.ServerResponse{
		ID:         s.ID,
		Title:      s.Title,
		Slug:       s.Slug(),
		Path:       s.Path(),
		Content:    s.Content,
		Excerpt:    render.Excerpt(s.Content, excerptLength),
		IP:         s.IP,
		Cover:      s.Cover,
		CoverColor: s.CoverColor,
		Tags:       make([]responses.TagResponse, 0, len(s.Tags)),
		Votes:      s.Votes,
		Views:      s.Views,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}

	for _, t := range s.Tags {
		out.Tags = append(out.Tags, responses.TagResponse{Slug: t.Slug, Name: t.Name})
	}

	if withHTML {
		if html, err := render.Markdown(s.Content); err == nil {
			out.ContentHTML = html
		}
	}

	return out
}

// ToServerPageResponse converts a listing page
func ToServerPageResponse(p *domain.Page) responses.ServerPageResponse {
	out := responses.ServerPageResponse{
		Servers:    make([]responses.ServerResponse, 0, len(p.Servers)),
		NextCursor: p.NextCursor,
		HasMore:    p.HasMore,
	}
	for _, s := range p.Servers {
		out.Servers = append(out.Servers, ToServerResponse(s, false))
	}
	return out
}

// ToTagsResponse converts the tag list
func ToTagsResponse(tags []domain.Tag) responses.TagsResponse {
	out := responses.TagsResponse{Tags: make([]responses.TagResponse, 0, len(tags))}
	for _, t := range tags {
		out.Tags = append(out.Tags, responses.TagResponse{
			Slug:        t.Slug,
			Name:        t.Name,
			ServerCount: t.ServerCount,
		})
	}
	return out
}

// ToSubmissionResponse converts a pending submission
func ToSubmissionResponse(s *domain.Submission) responses.SubmissionResponse {
	return responses.SubmissionResponse{
		Token:     s.Token,
		Draft:     ToDraftResponse(s.Draft),
		ServerID:  s.ServerID,
		ExpiresAt: s.ExpiresAt,
	}
}

// ToDraftResponse converts a draft
func ToDraftResponse(d domain.ServerDraft) responses.DraftResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return responses.DraftResponse{
		Title:   d.Title,
		Content: d.Content,
		IP:      d.IP,
		Tags:    tags,
		Cover:   d.Cover,
	}
}

// ToConfirmationResponse converts a confirmed submission
func ToConfirmationResponse(c *domain.Confirmation) responses.ConfirmationResponse {
	return responses.ConfirmationResponse{
		Server:  ToServerResponse(c.Server, false),
		Updated: c.Updated,
	}
}
