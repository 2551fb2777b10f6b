// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts domain errors to RFC 7807 responses with field-level details

package handlers

import (
	stderrors "errors"

	"github.com/danielgtaylor/huma/v2"
	"serverlist-api/core/errors"
)

// queryFields are validation fields that come from query parameters
var queryFields = map[string]bool{
	"window":        true,
	"sort":          true,
	"cursor":        true,
	"created_after": true,
}

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if errors.IsNotFound(err) {
		return huma.Error404NotFound(err.Error())
	}

	if fields, ok := errors.AsValidationErrors(err); ok {
		details := make([]error, 0, len(fields))
		for _, f := range fields {
			details = append(details, &huma.ErrorDetail{
				Message:  f.Message,
				Location: location(f.Field),
			})
		}
		return huma.Error400BadRequest("Validation failed", details...)
	}

	if errors.IsConflict(err) {
		return huma.Error409Conflict(err.Error())
	}

	var apiErr *errors.ExternalAPIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode >= 500:
			return huma.Error503ServiceUnavailable("External service error", err)
		case apiErr.StatusCode == 429:
			return huma.Error429TooManyRequests("Rate limited by external service")
		case apiErr.StatusCode >= 400:
			return huma.Error400BadRequest("External service request error", err)
		default:
			return huma.Error500InternalServerError("Unexpected external service response", err)
		}
	}

	return huma.Error500InternalServerError("Internal server error")
}

func location(field string) string {
	if queryFields[field] {
		return "query." + field
	}
	return "body." + field
}
