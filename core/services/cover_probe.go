// ABOUTME: Cover probe checks that a cover link answers with an image
// ABOUTME: Used as an optional validation step before a server is saved

package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
)

// CoverProbe fetches cover URLs and checks the response
type CoverProbe struct {
	client interfaces.HTTPClient
}

// NewCoverProbe creates a probe using the given client
func NewCoverProbe(client interfaces.HTTPClient) *CoverProbe {
	return &CoverProbe{client: client}
}

// Probe returns an error unless the URL answers 200 with an image content type
func (p *CoverProbe) Probe(ctx context.Context, imageURL string) error {
	resp, err := p.client.Get(ctx, imageURL)
	if err != nil {
		return fmt.Errorf("cover unreachable: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "cover is not reachable",
			API:        imageURL,
		}
	}

	contentType := strings.ToLower(resp.Header("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("cover content type %q is not an image", contentType)
	}

	return nil
}
