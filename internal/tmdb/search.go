package tmdb

import (
	"context"
	"log"
	"net/url"
	"strconv"
)

// SearchResult is one normalized search hit: TV "name" unified into Title,
// year derived from whichever date field is present, poster resolved with
// the w342 token.
type SearchResult struct {
	TMDBID    int64   `json:"tmdb_id"`
	MediaType string  `json:"media_type"`
	Title     string  `json:"title"`
	Year      *int    `json:"year,omitempty"`
	Overview  string  `json:"overview,omitempty"`
	PosterURL *string `json:"poster_url,omitempty"`
}

// SearchPage is one page of normalized search results.
type SearchPage struct {
	Results    []SearchResult `json:"results"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type searchResponse struct {
	Page       int      `json:"page"`
	Results    []Detail `json:"results"`
	TotalPages int      `json:"total_pages"`
}

// SearchMovies searches movies. Failures degrade to an empty page so the
// caller's view never breaks, the failure is logged here.
func (c *Client) SearchMovies(ctx context.Context, query string, page int) SearchPage {
	return c.search(ctx, "/search/movie", MediaTypeMovie, query, page)
}

// SearchTV searches TV shows.
func (c *Client) SearchTV(ctx context.Context, query string, page int) SearchPage {
	return c.search(ctx, "/search/tv", MediaTypeTV, query, page)
}

// SearchMulti searches movies and TV shows together. Person hits are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string, page int) SearchPage {
	return c.search(ctx, "/search/multi", "", query, page)
}

func (c *Client) search(ctx context.Context, endpoint, mediaType, query string, page int) SearchPage {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))

	var resp searchResponse
	if err := c.doRequest(ctx, endpoint, params, &resp); err != nil {
		log.Printf("[TMDB] Search failed for %q: %v", query, err)
		return SearchPage{Results: []SearchResult{}, Page: page}
	}

	results := make([]SearchResult, 0, len(resp.Results))
	for _, d := range resp.Results {
		t := mediaType
		if t == "" {
			t = d.MediaType() // multi search carries the type per result
		}
		if t != MediaTypeMovie && t != MediaTypeTV {
			continue
		}

		r := SearchResult{
			TMDBID:    d.ID(),
			MediaType: t,
			Title:     d.Title(),
			Year:      d.Year(),
		}
		if overview, ok := d.GetString("overview"); ok {
			r.Overview = overview
		}
		if poster := d.PosterPath(); poster != nil {
			u := c.BuildImageURL(ctx, *poster, SizeW342)
			r.PosterURL = &u
		}
		results = append(results, r)
	}

	return SearchPage{
		Results:    results,
		Page:       resp.Page,
		TotalPages: resp.TotalPages,
	}
}

// SearchByType dispatches a search by the requested type filter; anything
// other than movie/tv falls back to multi search.
func (c *Client) SearchByType(ctx context.Context, mediaType, query string, page int) SearchPage {
	switch mediaType {
	case MediaTypeMovie:
		return c.SearchMovies(ctx, query, page)
	case MediaTypeTV:
		return c.SearchTV(ctx, query, page)
	default:
		return c.SearchMulti(ctx, query, page)
	}
}
