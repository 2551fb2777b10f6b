// ABOUTME: Submission handlers for the Huma API
// ABOUTME: Provides the prepare, confirm and cancel steps of publishing or editing a server

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/dto/mappers"
	"serverlist-api/api/dto/requests"
	"serverlist-api/api/dto/responses"
	"serverlist-api/core/interfaces"
)

// SubmissionHandler handles submission-related HTTP requests
type SubmissionHandler struct {
	submissions interfaces.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissions interfaces.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// RegisterRoutes registers all submission-related routes
func (h *SubmissionHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "prepareSubmission",
		Method:        http.MethodPost,
		Path:          "/api/submissions",
		Summary:       "Prepare a submission",
		Description:   "Validates a draft and holds it until it is confirmed. Nothing is published yet.",
		Tags:          []string{"Submissions"},
		DefaultStatus: http.StatusCreated,
	}, h.Prepare)

	huma.Register(api, huma.Operation{
		OperationID: "getSubmission",
		Method:      http.MethodGet,
		Path:        "/api/submissions/{token}",
		Summary:     "Get a pending submission",
		Tags:        []string{"Submissions"},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "confirmSubmission",
		Method:      http.MethodPost,
		Path:        "/api/submissions/{token}/confirm",
		Summary:     "Confirm a submission",
		Description: "Publishes or edits the server. A token can be confirmed once.",
		Tags:        []string{"Submissions"},
	}, h.Confirm)

	huma.Register(api, huma.Operation{
		OperationID:   "cancelSubmission",
		Method:        http.MethodDelete,
		Path:          "/api/submissions/{token}",
		Summary:       "Cancel a submission",
		Tags:          []string{"Submissions"},
		DefaultStatus: http.StatusNoContent,
	}, h.Cancel)
}

// PrepareInput defines the input for the Prepare operation
type PrepareInput struct {
	Body requests.SubmissionRequest
}

// SubmissionOutput defines a pending submission
type SubmissionOutput struct {
	Body responses.SubmissionResponse
}

// Prepare handles POST /api/submissions
func (h *SubmissionHandler) Prepare(ctx context.Context, input *PrepareInput) (*SubmissionOutput, error) {
	sub, err := h.submissions.Prepare(ctx, input.Body.Draft.ToDomain(), input.Body.ServerID)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SubmissionOutput{Body: mappers.ToSubmissionResponse(sub)}, nil
}

// TokenInput identifies a submission
type TokenInput struct {
	Token string `path:"token" format:"uuid" doc:"Submission token"`
}

// Get handles GET /api/submissions/{token}
func (h *SubmissionHandler) Get(ctx context.Context, input *TokenInput) (*SubmissionOutput, error) {
	sub, err := h.submissions.Get(ctx, input.Token)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &SubmissionOutput{Body: mappers.ToSubmissionResponse(sub)}, nil
}

// ConfirmationOutput defines the result of a confirmation
type ConfirmationOutput struct {
	Location string `header:"Location"`
	Body     responses.ConfirmationResponse
}

// Confirm handles POST /api/submissions/{token}/confirm
func (h *SubmissionHandler) Confirm(ctx context.Context, input *TokenInput) (*ConfirmationOutput, error) {
	confirmed, err := h.submissions.Confirm(ctx, input.Token)
	if err != nil {
		return nil, toHumaError(err)
	}
	return &ConfirmationOutput{
		Location: confirmed.Server.Path(),
		Body:     mappers.ToConfirmationResponse(confirmed),
	}, nil
}

// Cancel handles DELETE /api/submissions/{token}
func (h *SubmissionHandler) Cancel(ctx context.Context, input *TokenInput) (*struct{}, error) {
	if err := h.submissions.Cancel(ctx, input.Token); err != nil {
		return nil, toHumaError(err)
	}
	return nil, nil
}
