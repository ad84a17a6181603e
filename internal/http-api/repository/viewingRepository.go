package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/http-api/models"
)

// ViewingFilter holds the active diary filters. Zero values mean "not set".
// Tag matching is checked in Go after loading, a viewing must carry every
// listed tag by exact name.
type ViewingFilter struct {
	Year      *int
	MediaType string
	MinRating int
	Tags      []string
}

type ViewingRepo struct {
	db *gorm.DB
}

func NewViewingRepo(db *gorm.DB) *ViewingRepo {
	return &ViewingRepo{db: db}
}

func (r *ViewingRepo) Create(ctx context.Context, v *models.Viewing) error {
	if err := r.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("create viewing: %w", err)
	}
	return nil
}

func (r *ViewingRepo) GetByID(ctx context.Context, id int64) (*models.Viewing, error) {
	var v models.Viewing
	if err := r.db.WithContext(ctx).Preload("Tags").Preload("Media").First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ViewingRepo) Update(ctx context.Context, v *models.Viewing) error {
	update := map[string]interface{}{
		"rating":     v.Rating,
		"comment":    v.Comment,
		"watched_on": v.WatchedOn,
		"rewatch":    v.Rewatch,
	}
	if err := r.db.WithContext(ctx).Model(v).Updates(update).Error; err != nil {
		return fmt.Errorf("update viewing: %w", err)
	}
	return nil
}

// ReplaceTags swaps the viewing's tag set in one association write.
func (r *ViewingRepo) ReplaceTags(ctx context.Context, v *models.Viewing, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(v).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace viewing tags: %w", err)
	}
	v.Tags = tags
	return nil
}

func (r *ViewingRepo) Delete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Select("Tags").Delete(&models.Viewing{ID: id}).Error; err != nil {
		return fmt.Errorf("delete viewing: %w", err)
	}
	return nil
}

// ListQualifying returns every viewing satisfying the SQL-expressible
// filters, tags preloaded. The year filter compares the viewing's watched_on
// year, expressed as a date range so it runs unchanged on any store.
func (r *ViewingRepo) ListQualifying(ctx context.Context, f ViewingFilter) ([]models.Viewing, error) {
	q := r.db.WithContext(ctx).Model(&models.Viewing{}).Preload("Tags")

	if f.MediaType != "" {
		q = q.Joins("JOIN media ON media.id = viewings.media_id").
			Where("media.media_type = ?", f.MediaType)
	}
	if f.Year != nil {
		start := time.Date(*f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		q = q.Where("watched_on >= ? AND watched_on < ?", start, end)
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}

	var list []models.Viewing
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list qualifying viewings: %w", err)
	}
	return list, nil
}

// ListByMediaIDs returns all viewings of the given media, newest first, tags
// preloaded. Used for the per-user attachment pass, which ignores filters.
func (r *ViewingRepo) ListByMediaIDs(ctx context.Context, mediaIDs []int64) ([]models.Viewing, error) {
	var list []models.Viewing
	if len(mediaIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Where("media_id IN ?", mediaIDs).
		Order("watched_on desc").
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list viewings by media: %w", err)
	}
	return list, nil
}

// WatchedDates returns every watched_on value across all viewings. Years are
// derived in Go to stay portable across stores.
func (r *ViewingRepo) WatchedDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Viewing{}).
		Distinct().
		Pluck("watched_on", &dates).Error
	if err != nil {
		return nil, fmt.Errorf("list watched dates: %w", err)
	}
	return dates, nil
}
