package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/database"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

// newTestDB opens an isolated in-memory database with the full schema. The
// shared-cache DSN keeps the database alive across pooled connections.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeCatalog is an in-memory Catalog. Keys are "mediaType/tmdbID".
type fakeCatalog struct {
	mu      sync.Mutex
	details map[string]tmdb.Detail
	err     error
	calls   int

	searchPage  tmdb.SearchPage
	searchCalls int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{details: make(map[string]tmdb.Detail)}
}

func (f *fakeCatalog) put(mediaType string, tmdbID int64, d tmdb.Detail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.details[fmt.Sprintf("%s/%d", mediaType, tmdbID)] = d
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCatalog) Details(ctx context.Context, mediaType string, tmdbID int64) (tmdb.Detail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[fmt.Sprintf("%s/%d", mediaType, tmdbID)]
	if !ok {
		return nil, tmdb.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) SearchByType(ctx context.Context, mediaType, query string, page int) tmdb.SearchPage {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls++
	if f.searchPage.Results != nil {
		return f.searchPage
	}
	return tmdb.SearchPage{Results: []tmdb.SearchResult{}, Page: page}
}

func (f *fakeCatalog) BuildImageURL(ctx context.Context, path string, size tmdb.ImageSize) string {
	if path == "" {
		return ""
	}
	return "https://img.test/" + string(size) + path
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedMedia(t *testing.T, db *gorm.DB, tmdbID int64, mediaType, title string, refreshedAt time.Time) *models.Media {
	t.Helper()
	m := &models.Media{
		TMDBID:          tmdbID,
		MediaType:       mediaType,
		Title:           title,
		CachedDetail:    []byte(`{"title": "` + title + `"}`),
		LastRefreshedAt: &refreshedAt,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedViewing(t *testing.T, db *gorm.DB, user *models.User, media *models.Media, rating int, watchedOn time.Time, tagNames ...string) *models.Viewing {
	t.Helper()
	v := &models.Viewing{
		UserID:    user.ID,
		MediaID:   media.ID,
		Rating:    rating,
		WatchedOn: watchedOn,
	}
	require.NoError(t, db.Create(v).Error)

	if len(tagNames) > 0 {
		tags := make([]models.Tag, 0, len(tagNames))
		repo := repository.NewTagRepo(db)
		for _, name := range tagNames {
			tag, err := repo.GetOrCreateByName(context.Background(), name)
			require.NoError(t, err)
			tags = append(tags, *tag)
		}
		require.NoError(t, db.Model(v).Association("Tags").Replace(tags))
	}
	return v
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
