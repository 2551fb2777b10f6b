// ABOUTME: Cover colour extraction service for finding the dominant colour of cover images
// ABOUTME: Uses K-means clustering (prominentcolor) and caches results per image URL

package services

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	_ "golang.org/x/image/webp" // WebP support
	"serverlist-api/core/domain"
	coreerrors "serverlist-api/core/errors"
	"serverlist-api/core/interfaces"
)

// maxImageBytes caps how much of a cover is downloaded
const maxImageBytes = 10 << 20

// CoverColorService extracts the dominant colour of cover images
type CoverColorService struct {
	deps     interfaces.Dependencies
	cacheTTL time.Duration
}

// NewCoverColorService creates a new cover colour service
func NewCoverColorService(deps interfaces.Dependencies, cacheTTL time.Duration) *CoverColorService {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &CoverColorService{
		deps:     deps,
		cacheTTL: cacheTTL,
	}
}

// ExtractColor downloads the image and returns its most prominent colour
func (s *CoverColorService) ExtractColor(ctx context.Context, imageURL string) (*domain.RGBColor, error) {
	cacheKey := "coverColor:" + imageURL

	if s.deps.Cache != nil {
		if data, err := s.deps.Cache.Get(ctx, cacheKey); err == nil {
			var color domain.RGBColor
			if _, err := fmt.Sscanf(string(data), "%d,%d,%d", &color.R, &color.G, &color.B); err == nil {
				return &color, nil
			}
		}
	}

	img, err := s.download(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	color, err := ProminentColor(img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", imageURL, err)
	}

	if s.deps.Cache != nil {
		cacheData := fmt.Sprintf("%d,%d,%d", color.R, color.G, color.B)
		if err := s.deps.Cache.Set(ctx, cacheKey, []byte(cacheData), s.cacheTTL); err != nil {
			s.deps.Logger.Warn("Failed to cache cover color", map[string]interface{}{
				"url":   imageURL,
				"error": err.Error(),
			})
		}
	}

	return color, nil
}

func (s *CoverColorService) download(ctx context.Context, imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid image URL: %s", imageURL)
	}

	// SVG covers can't be decoded as raster images
	if strings.HasSuffix(strings.ToLower(parsedURL.Path), ".svg") {
		return nil, fmt.Errorf("SVG images are not supported")
	}

	resp, err := s.deps.HTTPClient.Get(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, &coreerrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "cover download failed",
			API:        parsedURL.Host,
		}
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body(), maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ProminentColor runs K-means over the image, first with the default
// masks that ignore near-white and near-black pixels, then without.
func ProminentColor(img image.Image) (color *domain.RGBColor, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			color = nil
			err = fmt.Errorf("panic recovered: %v", rec)
		}
	}()

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("image has empty bounds")
	}

	imgNRGBA := image.NewNRGBA(bounds)
	draw.Draw(imgNRGBA, bounds, img, bounds.Min, draw.Src)

	colors, err := prominentcolor.KmeansWithAll(
		prominentcolor.ArgumentDefault,
		imgNRGBA,
		prominentcolor.DefaultK,
		1,
		prominentcolor.GetDefaultMasks(),
	)
	if err != nil || len(colors) == 0 {
		colors, err = prominentcolor.KmeansWithAll(
			prominentcolor.ArgumentDefault,
			imgNRGBA,
			prominentcolor.DefaultK,
			1,
			nil,
		)
		if err != nil || len(colors) == 0 {
			return nil, fmt.Errorf("no colors extracted from image")
		}
	}

	return &domain.RGBColor{
		R: uint8(colors[0].Color.R),
		G: uint8(colors[0].Color.G),
		B: uint8(colors[0].Color.B),
	}, nil
}
