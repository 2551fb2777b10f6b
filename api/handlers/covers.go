// ABOUTME: Cover check handler used by the form before a server is posted
// ABOUTME: Checks cover links concurrently against the pattern and, optionally, the network

package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/api/dto/responses"
	"serverlist-api/core/interfaces"
	"serverlist-api/core/validation"
)

const coverCheckTimeout = 10 * time.Second

// CoverHandler checks cover links
type CoverHandler struct {
	prober interfaces.CoverProber
}

// NewCoverHandler creates a cover handler. A nil prober only checks the link
// pattern.
func NewCoverHandler(prober interfaces.CoverProber) *CoverHandler {
	return &CoverHandler{prober: prober}
}

// RegisterRoutes registers cover routes
func (h *CoverHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "checkCovers",
		Method:      http.MethodPost,
		Path:        "/api/covers/check",
		Summary:     "Check cover links",
		Description: "Reports for each link whether it is a valid cover image",
		Tags:        []string{"Servers"},
	}, h.CheckCovers)
}

// CheckCoversInput defines the input for cover checks
type CheckCoversInput struct {
	Body struct {
		URLs []string `json:"urls" minItems:"1" maxItems:"10" doc:"Cover links to check"`
	}
}

// CheckCoversOutput defines the output for cover checks
type CheckCoversOutput struct {
	Body struct {
		Results []responses.CoverCheckResponse `json:"results" doc:"One result per link, in request order"`
	}
}

// CheckCovers handles POST /api/covers/check
func (h *CoverHandler) CheckCovers(ctx context.Context, input *CheckCoversInput) (*CheckCoversOutput, error) {
	var wg sync.WaitGroup
	results := make([]responses.CoverCheckResponse, len(input.Body.URLs))

	for i, link := range input.Body.URLs {
		wg.Add(1)
		go func(idx int, link string) {
			defer wg.Done()

			result := responses.CoverCheckResponse{URL: link, Status: "valid"}
			if !h.isCover(ctx, link) {
				result.Status = "invalid"
				result.Message = validation.CoverInvalidMessage
			}
			results[idx] = result
		}(i, link)
	}

	wg.Wait()

	output := &CheckCoversOutput{}
	output.Body.Results = results
	return output, nil
}

func (h *CoverHandler) isCover(ctx context.Context, link string) bool {
	if !validation.IsCoverURL(link) {
		return false
	}
	if h.prober == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, coverCheckTimeout)
	defer cancel()

	return h.prober.Probe(ctx, link) == nil
}
