// ABOUTME: Tag handlers for the Huma API
// ABOUTME: Provides the tag list with server counts

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/dto/mappers"
	"serverlist-api/api/dto/responses"
	"serverlist-api/core/interfaces"
)

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tags interfaces.TagService
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tags interfaces.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

// RegisterRoutes registers all tag-related routes
func (h *TagHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/api/tags",
		Summary:     "List tags",
		Tags:        []string{"Tags"},
	}, h.ListTags)
}

// TagsOutput defines the output for the ListTags operation
type TagsOutput struct {
	Body responses.TagsResponse
}

// ListTags handles GET /api/tags
func (h *TagHandler) ListTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	tags, err := h.tags.List(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &TagsOutput{Body: mappers.ToTagsResponse(tags)}, nil
}
