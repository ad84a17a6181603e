package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

// stalenessWindow is how long a cached catalog document stays fresh.
const stalenessWindow = 7 * 24 * time.Hour

// Catalog is the slice of the TMDB client the services consume, narrowed so
// tests can substitute a fake transport.
type Catalog interface {
	Details(ctx context.Context, mediaType string, tmdbID int64) (tmdb.Detail, error)
	SearchByType(ctx context.Context, mediaType, query string, page int) tmdb.SearchPage
	BuildImageURL(ctx context.Context, path string, size tmdb.ImageSize) string
}

type MediaService interface {
	GetOrFetch(ctx context.Context, tmdbID int64, mediaType string) (*models.Media, error)
}

type mediaService struct {
	repo    *repository.MediaRepo
	catalog Catalog
	now     func() time.Time
}

func NewMediaService(repo *repository.MediaRepo, catalog Catalog) MediaService {
	return &mediaService{repo: repo, catalog: catalog, now: time.Now}
}

// GetOrFetch returns the media record for a natural key, fetching catalog
// detail on first reference and refreshing it once the staleness window has
// passed. A refresh failure never fails the read, the stale record is served
// unchanged and the failure logged.
func (s *mediaService) GetOrFetch(ctx context.Context, tmdbID int64, mediaType string) (*models.Media, error) {
	if !models.ValidMediaType(mediaType) {
		return nil, fmt.Errorf("invalid media type %q", mediaType)
	}

	m, err := s.repo.GetByNaturalKey(ctx, tmdbID, mediaType)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.fetchAndCreate(ctx, tmdbID, mediaType)
	}
	if err != nil {
		return nil, err
	}

	if s.isStale(m) {
		s.refresh(ctx, m)
	}
	return m, nil
}

func (s *mediaService) isStale(m *models.Media) bool {
	return len(m.CachedDetail) == 0 ||
		m.LastRefreshedAt == nil ||
		s.now().Sub(*m.LastRefreshedAt) > stalenessWindow
}

func (s *mediaService) fetchAndCreate(ctx context.Context, tmdbID int64, mediaType string) (*models.Media, error) {
	detail, err := s.catalog.Details(ctx, mediaType, tmdbID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("encode catalog detail: %w", err)
	}

	now := s.now()
	m := &models.Media{
		TMDBID:          tmdbID,
		MediaType:       mediaType,
		Title:           detail.Title(),
		ReleaseYear:     detail.Year(),
		PosterPath:      detail.PosterPath(),
		BackdropPath:    detail.BackdropPath(),
		CachedDetail:    raw,
		LastRefreshedAt: &now,
	}
	return s.repo.CreateOrGet(ctx, m)
}

// refresh overwrites the cached detail in place. Best-effort only.
func (s *mediaService) refresh(ctx context.Context, m *models.Media) {
	detail, err := s.catalog.Details(ctx, m.MediaType, m.TMDBID)
	if err != nil {
		log.Printf("[Media] Refresh of %s/%d failed, serving cached record: %v", m.MediaType, m.TMDBID, err)
		return
	}

	raw, err := json.Marshal(detail)
	if err != nil {
		log.Printf("[Media] Refresh of %s/%d produced unencodable detail: %v", m.MediaType, m.TMDBID, err)
		return
	}

	now := s.now()
	title := detail.Title()
	year := detail.Year()
	poster := detail.PosterPath()
	backdrop := detail.BackdropPath()

	if err := s.repo.UpdateDetail(ctx, m.ID, title, year, poster, backdrop, raw, now); err != nil {
		log.Printf("[Media] Failed to persist refreshed detail for %s/%d: %v", m.MediaType, m.TMDBID, err)
		return
	}

	m.Title = title
	m.ReleaseYear = year
	m.PosterPath = poster
	m.BackdropPath = backdrop
	m.CachedDetail = raw
	m.LastRefreshedAt = &now
}
