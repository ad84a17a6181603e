package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: TMDB allows roughly 40 requests per 10 seconds
	rateLimit = 4
	rateBurst = 8

	// Retry configuration
	maxAttempts       = 3
	initialDelay      = 1 * time.Second
	maxDelay          = 8 * time.Second
	defaultRetryAfter = 1 * time.Second
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

var (
	// ErrNotFound means the catalog has no title for the requested id/type.
	ErrNotFound = errors.New("tmdb: title not found")

	// ErrExhaustedRetries means the attempt budget ran out without a usable
	// response. The last underlying error is attached to the message.
	ErrExhaustedRetries = errors.New("tmdb: exhausted retries")
)

// Client handles TMDB API requests with rate limiting and retry logic.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	// retry knobs, overridable in tests
	retryDelay time.Duration
	retryMax   time.Duration

	images imageConfigCache
}

// NewClient creates a new TMDB API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		retryDelay:  initialDelay,
		retryMax:    maxDelay,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// MovieDetails fetches full detail for a movie, credits included.
func (c *Client) MovieDetails(ctx context.Context, tmdbID int64) (Detail, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var detail Detail
	if err := c.doRequest(ctx, fmt.Sprintf("/movie/%d", tmdbID), params, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch movie %d: %w", tmdbID, err)
	}
	return detail, nil
}

// TVDetails fetches full detail for a TV show, credits included.
func (c *Client) TVDetails(ctx context.Context, tmdbID int64) (Detail, error) {
	params := url.Values{}
	params.Set("append_to_response", "credits")

	var detail Detail
	if err := c.doRequest(ctx, fmt.Sprintf("/tv/%d", tmdbID), params, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch tv %d: %w", tmdbID, err)
	}
	return detail, nil
}

// Details dispatches to MovieDetails or TVDetails by media type.
func (c *Client) Details(ctx context.Context, mediaType string, tmdbID int64) (Detail, error) {
	switch mediaType {
	case MediaTypeMovie:
		return c.MovieDetails(ctx, tmdbID)
	case MediaTypeTV:
		return c.TVDetails(ctx, tmdbID)
	default:
		return nil, fmt.Errorf("unknown media type %q", mediaType)
	}
}

// doRequest performs an HTTP request with rate limiting and retry logic.
//
// Rate-limit policy: a 429 waits for the server-specified Retry-After
// (default 1s) and consumes one unit of the shared attempt budget, so the
// worst-case latency stays bounded even under sustained 429s.
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt < maxAttempts; attempt++ {
		// Rate limit
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "OurMovies/1.0")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxAttempts-1 {
				log.Printf("[TMDB] Request failed (attempt %d/%d): %v, retrying in %v...",
					attempt+1, maxAttempts, err, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, c.retryMax)
			}
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return ErrNotFound
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfterDelay(resp.Header)
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP 429: rate limited")
			log.Printf("[TMDB] Rate limited (attempt %d/%d), retrying in %v...",
				attempt+1, maxAttempts, wait)
			time.Sleep(wait)
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))

			// Retry on server errors only
			if !shouldRetry(resp.StatusCode) {
				return lastErr
			}
			if attempt < maxAttempts-1 {
				log.Printf("[TMDB] HTTP %d (attempt %d/%d), retrying in %v...",
					resp.StatusCode, attempt+1, maxAttempts, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, c.retryMax)
			}
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w after %d attempts: %v", ErrExhaustedRetries, maxAttempts, lastErr)
}

// retryAfterDelay reads the Retry-After header in seconds, falling back to
// the 1s default TMDB documents.
func retryAfterDelay(h http.Header) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultRetryAfter
}

// shouldRetry determines if an HTTP status code warrants a retry
func shouldRetry(statusCode int) bool {
	return statusCode >= 500 // 500-504
}

// minDuration returns the smaller of two durations
func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
