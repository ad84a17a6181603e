package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AlexIbby/ourmovies/internal/http-api/dto"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
)

var (
	ErrNotOwner      = errors.New("viewing belongs to another user")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

type ViewingService interface {
	Create(ctx context.Context, userID string, req dto.CreateViewingRequest) (*models.Viewing, error)
	Update(ctx context.Context, userID string, viewingID int64, req dto.UpdateViewingRequest) (*models.Viewing, error)
	Delete(ctx context.Context, userID string, viewingID int64) error
}

type viewingService struct {
	viewings *repository.ViewingRepo
	tags     *repository.TagRepo
	mediaSvc MediaService
}

func NewViewingService(viewings *repository.ViewingRepo, tags *repository.TagRepo, mediaSvc MediaService) ViewingService {
	return &viewingService{viewings: viewings, tags: tags, mediaSvc: mediaSvc}
}

func (s *viewingService) Create(ctx context.Context, userID string, req dto.CreateViewingRequest) (*models.Viewing, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	watchedOn, err := parseWatchedOn(req.WatchedOn)
	if err != nil {
		return nil, err
	}

	// First reference to a title creates its media record.
	media, err := s.mediaSvc.GetOrFetch(ctx, req.TMDBID, req.MediaType)
	if err != nil {
		return nil, err
	}

	v := &models.Viewing{
		UserID:    userID,
		MediaID:   media.ID,
		Rating:    req.Rating,
		Comment:   optionalText(req.Comment),
		WatchedOn: watchedOn,
		Rewatch:   req.Rewatch,
	}
	if err := s.viewings.Create(ctx, v); err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, v, req.Tags); err != nil {
		return nil, err
	}
	v.Media = *media
	return v, nil
}

func (s *viewingService) Update(ctx context.Context, userID string, viewingID int64, req dto.UpdateViewingRequest) (*models.Viewing, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	watchedOn, err := parseWatchedOn(req.WatchedOn)
	if err != nil {
		return nil, err
	}

	v, err := s.viewings.GetByID(ctx, viewingID)
	if err != nil {
		return nil, err
	}
	if v.UserID != userID {
		return nil, ErrNotOwner
	}

	v.Rating = req.Rating
	v.Comment = optionalText(req.Comment)
	v.WatchedOn = watchedOn
	v.Rewatch = req.Rewatch
	if err := s.viewings.Update(ctx, v); err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, v, req.Tags); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *viewingService) Delete(ctx context.Context, userID string, viewingID int64) error {
	v, err := s.viewings.GetByID(ctx, viewingID)
	if err != nil {
		return err
	}
	if v.UserID != userID {
		return ErrNotOwner
	}
	return s.viewings.Delete(ctx, viewingID)
}

// applyTags replaces the viewing's tags with the comma-separated names,
// creating unknown tags lazily.
func (s *viewingService) applyTags(ctx context.Context, v *models.Viewing, raw string) error {
	names := splitTagNames(raw)
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		tag, err := s.tags.GetOrCreateByName(ctx, name)
		if err != nil {
			return err
		}
		tags = append(tags, *tag)
	}
	return s.viewings.ReplaceTags(ctx, v, tags)
}

func splitTagNames(raw string) []string {
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	seen := make(map[string]bool)
	for _, p := range parts {
		name := strings.ToLower(strings.TrimSpace(p))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func parseWatchedOn(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid watched_on date %q: %w", raw, err)
	}
	return t, nil
}

func optionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
