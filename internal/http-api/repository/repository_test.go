package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/database"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestMediaCreateOrGetDeduplicatesNaturalKey(t *testing.T) {
	db := newTestDB(t)
	repo := NewMediaRepo(db)
	ctx := context.Background()

	first, err := repo.CreateOrGet(ctx, &models.Media{
		TMDBID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix",
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)

	// same natural key again: the existing row wins, no duplicate appears
	second, err := repo.CreateOrGet(ctx, &models.Media{
		TMDBID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix (duplicate)",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "The Matrix", second.Title)

	var count int64
	require.NoError(t, db.Model(&models.Media{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// same id under a different type is a distinct title
	other, err := repo.CreateOrGet(ctx, &models.Media{
		TMDBID: 603, MediaType: models.MediaTypeTV, Title: "Some Show",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestTagGetOrCreateByNameFoldsCase(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepo(db)
	ctx := context.Background()

	created, err := repo.GetOrCreateByName(ctx, "Banger Soundtrack!")
	require.NoError(t, err)
	assert.Equal(t, "banger soundtrack!", created.Name)
	assert.Equal(t, "banger-soundtrack", created.Slug)

	same, err := repo.GetOrCreateByName(ctx, "  BANGER SOUNDTRACK!  ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)

	_, err = repo.GetOrCreateByName(ctx, "   ")
	assert.Error(t, err, "blank tag names are rejected")
}

func TestTagListInUse(t *testing.T) {
	db := newTestDB(t)
	tags := NewTagRepo(db)
	ctx := context.Background()

	used, err := tags.GetOrCreateByName(ctx, "slow-burn")
	require.NoError(t, err)
	_, err = tags.GetOrCreateByName(ctx, "orphan")
	require.NoError(t, err)

	user := &models.User{Username: "alex", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	media := &models.Media{TMDBID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix"}
	require.NoError(t, db.Create(media).Error)
	v := &models.Viewing{UserID: user.ID, MediaID: media.ID, Rating: 5, WatchedOn: time.Now()}
	require.NoError(t, db.Create(v).Error)
	require.NoError(t, db.Model(v).Association("Tags").Replace([]models.Tag{*used}))

	inUse, err := tags.ListInUse(ctx)
	require.NoError(t, err)
	require.Len(t, inUse, 1, "tags never attached to a viewing must not appear")
	assert.Equal(t, "slow-burn", inUse[0].Name)
}

func TestTagAutocomplete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTagRepo(db)
	ctx := context.Background()

	for _, name := range []string{"slow-burn", "slow motion", "twist"} {
		_, err := repo.GetOrCreateByName(ctx, name)
		require.NoError(t, err)
	}

	matches, err := repo.Autocomplete(ctx, "SLOW", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "slow motion", matches[0].Name)
	assert.Equal(t, "slow-burn", matches[1].Name)

	limited, err := repo.Autocomplete(ctx, "slow", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestViewingListQualifyingFilters(t *testing.T) {
	db := newTestDB(t)
	viewings := NewViewingRepo(db)
	ctx := context.Background()

	user := &models.User{Username: "alex", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	movie := &models.Media{TMDBID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix"}
	require.NoError(t, db.Create(movie).Error)
	show := &models.Media{TMDBID: 95396, MediaType: models.MediaTypeTV, Title: "Severance"}
	require.NoError(t, db.Create(show).Error)

	mk := func(media *models.Media, rating int, watched time.Time) {
		require.NoError(t, db.Create(&models.Viewing{
			UserID: user.ID, MediaID: media.ID, Rating: rating, WatchedOn: watched,
		}).Error)
	}
	mk(movie, 5, time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC))
	mk(movie, 2, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))
	mk(show, 4, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))

	all, err := viewings.ListQualifying(ctx, ViewingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	year := 2024
	in2024, err := viewings.ListQualifying(ctx, ViewingFilter{Year: &year})
	require.NoError(t, err)
	assert.Len(t, in2024, 2)

	tv, err := viewings.ListQualifying(ctx, ViewingFilter{MediaType: models.MediaTypeTV})
	require.NoError(t, err)
	require.Len(t, tv, 1)
	assert.Equal(t, show.ID, tv[0].MediaID)

	rated, err := viewings.ListQualifying(ctx, ViewingFilter{MinRating: 4})
	require.NoError(t, err)
	assert.Len(t, rated, 2)
}

func TestViewingListByMediaIDsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	viewings := NewViewingRepo(db)
	ctx := context.Background()

	user := &models.User{Username: "alex", Password: "x"}
	require.NoError(t, db.Create(user).Error)
	movie := &models.Media{TMDBID: 603, MediaType: models.MediaTypeMovie, Title: "The Matrix"}
	require.NoError(t, db.Create(movie).Error)

	older := &models.Viewing{UserID: user.ID, MediaID: movie.ID, Rating: 3, WatchedOn: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(older).Error)
	newer := &models.Viewing{UserID: user.ID, MediaID: movie.ID, Rating: 4, WatchedOn: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, db.Create(newer).Error)

	list, err := viewings.ListByMediaIDs(ctx, []int64{movie.ID})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	empty, err := viewings.ListByMediaIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
