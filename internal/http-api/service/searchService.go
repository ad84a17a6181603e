package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/AlexIbby/ourmovies/internal/cache"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

type SearchService interface {
	Search(ctx context.Context, query, mediaType string, page int) tmdb.SearchPage
}

type searchService struct {
	catalog Catalog
	cache   *cache.SearchCache
}

func NewSearchService(catalog Catalog, searchCache *cache.SearchCache) SearchService {
	return &searchService{catalog: catalog, cache: searchCache}
}

// Search runs a catalog search through the short-TTL cache. Catalog failures
// already degrade to an empty page inside the client; empty pages are never
// cached so a transient failure doesn't pin an empty result.
func (s *searchService) Search(ctx context.Context, query, mediaType string, page int) tmdb.SearchPage {
	query = strings.TrimSpace(query)
	if query == "" {
		return tmdb.SearchPage{Results: []tmdb.SearchResult{}, Page: 1}
	}
	if page < 1 {
		page = 1
	}

	key := fmt.Sprintf("search:%s:%s:%d", mediaType, strings.ToLower(query), page)

	var cached tmdb.SearchPage
	if s.cache.Get(ctx, key, &cached) {
		return cached
	}

	result := s.catalog.SearchByType(ctx, mediaType, query, page)
	if len(result.Results) > 0 {
		_ = s.cache.Set(ctx, key, result)
	}
	return result
}
