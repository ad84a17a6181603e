package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AlexIbby/ourmovies/internal/http-api/models"
)

type MediaRepo struct {
	db *gorm.DB
}

func NewMediaRepo(db *gorm.DB) *MediaRepo {
	return &MediaRepo{db: db}
}

func (r *MediaRepo) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByNaturalKey looks up a title by its (tmdb_id, media_type) pair.
// Returns gorm.ErrRecordNotFound when absent.
func (r *MediaRepo) GetByNaturalKey(ctx context.Context, tmdbID int64, mediaType string) (*models.Media, error) {
	var m models.Media
	err := r.db.WithContext(ctx).
		Where("tmdb_id = ? AND media_type = ?", tmdbID, mediaType).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateOrGet inserts the record or, if another request inserted the same
// natural key first, returns the existing row. The unique index on
// (tmdb_id, media_type) resolves the race, there is no lock around the
// check-then-insert sequence.
func (r *MediaRepo) CreateOrGet(ctx context.Context, m *models.Media) (*models.Media, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tmdb_id"}, {Name: "media_type"}},
			DoNothing: true,
		}).
		Create(m).Error

	if err != nil && !isUniqueViolation(err) {
		return nil, fmt.Errorf("create media: %w", err)
	}

	if err != nil || m.ID == 0 {
		// Lost the race, fetch the winner's row.
		return r.GetByNaturalKey(ctx, m.TMDBID, m.MediaType)
	}
	return m, nil
}

// UpdateDetail overwrites the cached catalog document and the fields derived
// from it after a successful refresh.
func (r *MediaRepo) UpdateDetail(ctx context.Context, id int64, title string, year *int, poster, backdrop *string, detail datatypes.JSON, refreshedAt time.Time) error {
	update := map[string]interface{}{
		"title":             title,
		"release_year":      year,
		"poster_path":       poster,
		"backdrop_path":     backdrop,
		"cached_detail":     detail,
		"last_refreshed_at": refreshedAt,
	}
	if err := r.db.WithContext(ctx).Model(&models.Media{}).Where("id = ?", id).Updates(update).Error; err != nil {
		return fmt.Errorf("update media detail: %w", err)
	}
	return nil
}

func (r *MediaRepo) GetByIDs(ctx context.Context, ids []int64) ([]models.Media, error) {
	var list []models.Media
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505), the insert-or-get conflict signal.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
