// ABOUTME: Rules and health handlers for the Huma API
// ABOUTME: Serves the posting rules as markdown and HTML, and a liveness probe

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/dto/responses"
	"serverlist-api/core/render"
)

// RulesHandler serves the posting rules and the liveness probe
type RulesHandler struct {
	rules responses.RulesResponse
}

// NewRulesHandler renders the rules once
func NewRulesHandler(markdown string) (*RulesHandler, error) {
	html, err := render.Markdown(markdown)
	if err != nil {
		return nil, err
	}
	return &RulesHandler{rules: responses.RulesResponse{Markdown: markdown, HTML: html}}, nil
}

// RegisterRoutes registers the rules and health routes
func (h *RulesHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getRules",
		Method:      http.MethodGet,
		Path:        "/api/rules",
		Summary:     "Posting rules",
		Tags:        []string{"Rules"},
	}, h.GetRules)

	huma.Register(api, huma.Operation{
		OperationID: "healthz",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Liveness probe",
		Tags:        []string{"Health"},
	}, h.Health)
}

// RulesOutput defines the output for the GetRules operation
type RulesOutput struct {
	Body responses.RulesResponse
}

// GetRules handles GET /api/rules
func (h *RulesHandler) GetRules(ctx context.Context, _ *struct{}) (*RulesOutput, error) {
	return &RulesOutput{Body: h.rules}, nil
}

// HealthOutput defines the output for the Health operation
type HealthOutput struct {
	Body responses.HealthResponse
}

// Health handles GET /healthz
func (h *RulesHandler) Health(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	return &HealthOutput{Body: responses.HealthResponse{Status: "ok"}}, nil
}
