// ABOUTME: Server handlers for the Huma API
// ABOUTME: Provides HTTP endpoints for listing, reading, publishing and voting servers

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/dto/mappers"
	"serverlist-api/api/dto/requests"
	"serverlist-api/api/dto/responses"
	"serverlist-api/api/middleware"
	"serverlist-api/core/domain"
	"serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
)

// ServerHandler handles server-related HTTP requests
type ServerHandler struct {
	servers interfaces.ServerService
	logger  interfaces.Logger
}

// NewServerHandler creates a new server handler
func NewServerHandler(servers interfaces.ServerService, logger interfaces.Logger) *ServerHandler {
	return &ServerHandler{
		servers: servers,
		logger:  logger,
	}
}

// RegisterRoutes registers all server-related routes
func (h *ServerHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listServers",
		Method:      http.MethodGet,
		Path:        "/api/servers",
		Summary:     "List servers",
		Description: "Returns one page of servers ordered by popularity or recency. Follow next_cursor for the next page.",
		Tags:        []string{"Servers"},
	}, h.ListServers)

	huma.Register(api, huma.Operation{
		OperationID: "topServer",
		Method:      http.MethodGet,
		Path:        "/api/servers/top",
		Summary:     "Top server",
		Description: "Returns the most voted server of the window. Servers without votes in the window never qualify.",
		Tags:        []string{"Servers"},
	}, h.TopServer)

	huma.Register(api, huma.Operation{
		OperationID: "getServer",
		Method:      http.MethodGet,
		Path:        "/api/servers/{id}",
		Summary:     "Get a server",
		Description: "Returns one server with its rendered description and counts a view",
		Tags:        []string{"Servers"},
	}, h.GetServer)

	huma.Register(api, huma.Operation{
		OperationID:   "createServer",
		Method:        http.MethodPost,
		Path:          "/api/servers",
		Summary:       "Publish a server",
		Tags:          []string{"Servers"},
		DefaultStatus: http.StatusCreated,
	}, h.CreateServer)

	huma.Register(api, huma.Operation{
		OperationID: "updateServer",
		Method:      http.MethodPut,
		Path:        "/api/servers/{id}",
		Summary:     "Edit a server",
		Tags:        []string{"Servers"},
	}, h.UpdateServer)

	huma.Register(api, huma.Operation{
		OperationID:   "voteServer",
		Method:        http.MethodPost,
		Path:          "/api/servers/{id}/votes",
		Summary:       "Vote a server",
		Description:   "Counts one vote from the calling address. Each address may vote a server once per day.",
		Tags:          []string{"Servers"},
		DefaultStatus: http.StatusCreated,
	}, h.VoteServer)
}

// ListServersInput defines the input for the ListServers operation
type ListServersInput requests.ListQuery

// ServerPageOutput defines a page of servers
type ServerPageOutput struct {
	Body responses.ServerPageResponse
}

// ListServers handles GET /api/servers
func (h *ServerHandler) ListServers(ctx context.Context, input *ListServersInput) (*ServerPageOutput, error) {
	q, err := requests.ListQuery(*input).ToDomain()
	if err != nil {
		return nil, toHumaError(&errors.ValidationError{Field: "created_after", Message: "Data non valida."})
	}

	page, err := h.servers.List(ctx, q)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &ServerPageOutput{Body: mappers.ToServerPageResponse(page)}, nil
}

// TopServerInput defines the input for the TopServer operation
type TopServerInput struct {
	Window string `query:"window" enum:"day,week,month,all" doc:"Popularity window (default month)"`
}

// ServerOutput defines a single server
type ServerOutput struct {
	Body responses.ServerResponse
}

// TopServer handles GET /api/servers/top
func (h *ServerHandler) TopServer(ctx context.Context, input *TopServerInput) (*ServerOutput, error) {
	srv, err := h.servers.Top(ctx, domain.Window(input.Window))
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ServerOutput{Body: mappers.ToServerResponse(srv, false)}, nil
}

// GetServerInput defines the input for the GetServer operation
type GetServerInput struct {
	ID     int64  `path:"id" minimum:"1" doc:"Server identifier"`
	Window string `query:"window" enum:"day,week,month,all" doc:"Window the vote count covers (default month)"`
}

// GetServer handles GET /api/servers/{id}
func (h *ServerHandler) GetServer(ctx context.Context, input *GetServerInput) (*ServerOutput, error) {
	if err := h.servers.RecordView(ctx, input.ID); err != nil {
		return nil, toHumaError(err)
	}

	srv, err := h.servers.Get(ctx, input.ID, domain.Window(input.Window))
	if err != nil {
		return nil, toHumaError(err)
	}

	return &ServerOutput{Body: mappers.ToServerResponse(srv, true)}, nil
}

// CreateServerInput defines the input for the CreateServer operation
type CreateServerInput struct {
	Body requests.ServerDraftRequest
}

// CreatedServerOutput is a newly published server
type CreatedServerOutput struct {
	Location string `header:"Location"`
	Body     responses.ServerResponse
}

// CreateServer handles POST /api/servers
func (h *ServerHandler) CreateServer(ctx context.Context, input *CreateServerInput) (*CreatedServerOutput, error) {
	srv, err := h.servers.Create(ctx, input.Body.ToDomain())
	if err != nil {
		h.logFailure("create", err)
		return nil, toHumaError(err)
	}

	return &CreatedServerOutput{
		Location: srv.Path(),
		Body:     mappers.ToServerResponse(srv, true),
	}, nil
}

// UpdateServerInput defines the input for the UpdateServer operation
type UpdateServerInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Server identifier"`
	Body requests.ServerDraftRequest
}

// UpdateServer handles PUT /api/servers/{id}
func (h *ServerHandler) UpdateServer(ctx context.Context, input *UpdateServerInput) (*ServerOutput, error) {
	srv, err := h.servers.Update(ctx, input.ID, input.Body.ToDomain())
	if err != nil {
		h.logFailure("update", err)
		return nil, toHumaError(err)
	}
	return &ServerOutput{Body: mappers.ToServerResponse(srv, true)}, nil
}

// VoteServerInput defines the input for the VoteServer operation
type VoteServerInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Server identifier"`
}

// VoteServer handles POST /api/servers/{id}/votes
func (h *ServerHandler) VoteServer(ctx context.Context, input *VoteServerInput) (*ServerOutput, error) {
	voter := middleware.ClientIPFromContext(ctx)
	srv, err := h.servers.Vote(ctx, input.ID, voter)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ServerOutput{Body: mappers.ToServerResponse(srv, false)}, nil
}

// logFailure logs mutations that failed for reasons other than user input
func (h *ServerHandler) logFailure(op string, err error) {
	if h.logger == nil || errors.IsValidation(err) || errors.IsNotFound(err) {
		return
	}
	h.logger.Error("Server mutation failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
}
