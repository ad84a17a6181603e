package tmdb

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	// fallbackImageBase is used when the configuration endpoint is
	// unreachable, image URLs must always resolve to something.
	fallbackImageBase = "https://image.tmdb.org/t/p/"

	imageConfigTTL = 24 * time.Hour
)

// ImageSize is one of TMDB's fixed width tokens.
type ImageSize string

const (
	SizeW92      ImageSize = "w92"
	SizeW185     ImageSize = "w185"
	SizeW342     ImageSize = "w342"
	SizeW500     ImageSize = "w500"
	SizeW780     ImageSize = "w780"
	SizeW1280    ImageSize = "w1280"
	SizeOriginal ImageSize = "original"
)

// imageConfigCache is the process-wide cached image base URL. Concurrent
// requests may refresh it redundantly, last write wins, the value is
// externally sourced so that outcome is correct. The mutex only keeps the
// two fields consistent under the race detector.
type imageConfigCache struct {
	mu       sync.Mutex
	baseURL  string
	cachedAt time.Time
}

type configurationResponse struct {
	Images struct {
		SecureBaseURL string `json:"secure_base_url"`
	} `json:"images"`
}

// ImageBaseURL returns the secure image base prefix, refreshed lazily every
// 24 hours. A refresh failure falls back to the hardcoded default instead of
// propagating an error.
func (c *Client) ImageBaseURL(ctx context.Context) string {
	c.images.mu.Lock()
	cached := c.images.baseURL
	fresh := cached != "" && time.Since(c.images.cachedAt) <= imageConfigTTL
	c.images.mu.Unlock()

	if fresh {
		return cached
	}

	var config configurationResponse
	if err := c.doRequest(ctx, "/configuration", nil, &config); err != nil || config.Images.SecureBaseURL == "" {
		log.Printf("[TMDB] Failed to fetch configuration: %v, using fallback image base", err)
		if cached != "" {
			return cached
		}
		return fallbackImageBase
	}

	c.images.mu.Lock()
	c.images.baseURL = config.Images.SecureBaseURL
	c.images.cachedAt = time.Now()
	c.images.mu.Unlock()

	return config.Images.SecureBaseURL
}

// BuildImageURL builds a full image URL as {base}{size}{path}. Empty paths
// resolve to the empty string so templates can skip the tag entirely.
func (c *Client) BuildImageURL(ctx context.Context, path string, size ImageSize) string {
	if path == "" {
		return ""
	}
	return c.ImageBaseURL(ctx) + string(size) + path
}
