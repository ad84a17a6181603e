package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/http-api/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db: db}
}

// GetOrCreateByName looks a tag up case-insensitively, creating it on first
// use. Names are stored lowercase, the slug is derived deterministically.
func (r *TagRepo) GetOrCreateByName(ctx context.Context, name string) (*models.Tag, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return nil, errors.New("tag name is empty")
	}

	var tag models.Tag
	err := r.db.WithContext(ctx).Where("LOWER(name) = ?", normalized).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup tag: %w", err)
	}

	tag = models.Tag{
		Name: normalized,
		Slug: models.Slugify(name),
	}
	if err := r.db.WithContext(ctx).Create(&tag).Error; err != nil {
		// Concurrent first use of the same name, take the winner's row.
		if lookupErr := r.db.WithContext(ctx).Where("LOWER(name) = ?", normalized).First(&tag).Error; lookupErr == nil {
			return &tag, nil
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return &tag, nil
}

// ListInUse returns every tag attached to at least one viewing.
func (r *TagRepo) ListInUse(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.WithContext(ctx).
		Model(&models.Tag{}).
		Joins("JOIN viewing_tags ON viewing_tags.tag_id = tags.id").
		Distinct("tags.id", "tags.name", "tags.slug", "tags.created_at").
		Order("tags.name").
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("list tags in use: %w", err)
	}
	return tags, nil
}

// Autocomplete returns up to limit tags whose name contains q,
// case-insensitive.
func (r *TagRepo) Autocomplete(ctx context.Context, q string, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", pattern).
		Order("name").
		Limit(limit).
		Find(&tags).Error
	if err != nil {
		return nil, fmt.Errorf("tag autocomplete: %w", err)
	}
	return tags, nil
}
