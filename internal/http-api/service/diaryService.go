package service

import (
	"context"
	"sort"
	"time"

	"github.com/AlexIbby/ourmovies/internal/http-api/dto"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/repository"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

const autocompleteLimit = 10

type DiaryService interface {
	ListPage(ctx context.Context, q dto.DiaryQuery, pageSize int) (*dto.DiaryPage, error)
	TitleDetail(ctx context.Context, mediaType string, tmdbID int64) (*dto.TitleDetailResponse, error)
	AutocompleteTags(ctx context.Context, q string) ([]dto.TagResponse, error)
}

type diaryService struct {
	viewings *repository.ViewingRepo
	media    *repository.MediaRepo
	tags     *repository.TagRepo
	users    *repository.UserRepository
	mediaSvc MediaService
	catalog  Catalog
}

func NewDiaryService(
	viewings *repository.ViewingRepo,
	media *repository.MediaRepo,
	tags *repository.TagRepo,
	users *repository.UserRepository,
	mediaSvc MediaService,
	catalog Catalog,
) DiaryService {
	return &diaryService{
		viewings: viewings,
		media:    media,
		tags:     tags,
		users:    users,
		mediaSvc: mediaSvc,
		catalog:  catalog,
	}
}

// candidate is one media's representative value among its qualifying
// viewings: max watched date, and max rating for the highest_rated sort.
type candidate struct {
	mediaID    int64
	maxRating  int
	maxWatched time.Time
}

// ListPage assembles one page of the shared diary: deduplicated media
// ordered by representative value, each with a display slot per user.
// Filters select which media appear; the per-user attachment pass below
// deliberately ignores them.
func (s *diaryService) ListPage(ctx context.Context, q dto.DiaryQuery, pageSize int) (*dto.DiaryPage, error) {
	if q.Page < 1 {
		q.Page = 1
	}

	qualifying, err := s.viewings.ListQualifying(ctx, repository.ViewingFilter{
		Year:      q.Year,
		MediaType: q.MediaType,
		MinRating: q.MinRating,
	})
	if err != nil {
		return nil, err
	}
	qualifying = filterByTags(qualifying, q.Tags)

	// Group qualifying viewings by media and compute representative values.
	byMedia := make(map[int64]*candidate)
	for i := range qualifying {
		v := &qualifying[i]
		c, ok := byMedia[v.MediaID]
		if !ok {
			byMedia[v.MediaID] = &candidate{
				mediaID:    v.MediaID,
				maxRating:  v.Rating,
				maxWatched: v.WatchedOn,
			}
			continue
		}
		if v.Rating > c.maxRating {
			c.maxRating = v.Rating
		}
		if v.WatchedOn.After(c.maxWatched) {
			c.maxWatched = v.WatchedOn
		}
	}

	candidates := make([]*candidate, 0, len(byMedia))
	for _, c := range byMedia {
		candidates = append(candidates, c)
	}
	sortCandidates(candidates, q.Sort)

	// Slice the single in-memory snapshot; the count and the page can never
	// drift apart.
	total := len(candidates)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	start := (q.Page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	pageIDs := make([]int64, 0, end-start)
	for _, c := range candidates[start:end] {
		pageIDs = append(pageIDs, c.mediaID)
	}

	items, err := s.buildItems(ctx, pageIDs)
	if err != nil {
		return nil, err
	}

	options, err := s.filterOptions(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DiaryPage{
		Items:         items,
		Page:          q.Page,
		TotalPages:    totalPages,
		HasPrev:       q.Page > 1 && totalPages > 0,
		HasNext:       q.Page < totalPages,
		FilterOptions: *options,
	}, nil
}

// filterByTags keeps viewings carrying every requested tag by exact name.
// An unknown tag name simply empties the candidate set.
func filterByTags(viewings []models.Viewing, tags []string) []models.Viewing {
	if len(tags) == 0 {
		return viewings
	}
	kept := viewings[:0]
outer:
	for _, v := range viewings {
		for _, name := range tags {
			if !v.HasTag(name) {
				continue outer
			}
		}
		kept = append(kept, v)
	}
	return kept
}

// sortCandidates orders by representative value descending with the media id
// as a deterministic tie-break.
func sortCandidates(candidates []*candidate, sortKey string) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if sortKey == dto.SortHighestRated && a.maxRating != b.maxRating {
			return a.maxRating > b.maxRating
		}
		if !a.maxWatched.Equal(b.maxWatched) {
			return a.maxWatched.After(b.maxWatched)
		}
		return a.mediaID < b.mediaID
	})
}

// buildItems attaches each tracked user's latest viewing (filter-independent)
// plus the cross-user fallback to every media on the page, preserving order.
func (s *diaryService) buildItems(ctx context.Context, mediaIDs []int64) ([]dto.DiaryItem, error) {
	items := make([]dto.DiaryItem, 0, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return items, nil
	}

	mediaRecords, err := s.media.GetByIDs(ctx, mediaIDs)
	if err != nil {
		return nil, err
	}
	mediaByID := make(map[int64]*models.Media, len(mediaRecords))
	for i := range mediaRecords {
		mediaByID[mediaRecords[i].ID] = &mediaRecords[i]
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// All viewings of the page's media, newest first: the first hit per
	// (media, user) is that user's latest, the first per media the global
	// latest.
	all, err := s.viewings.ListByMediaIDs(ctx, mediaIDs)
	if err != nil {
		return nil, err
	}
	type mediaUser struct {
		mediaID int64
		userID  string
	}
	latestByUser := make(map[mediaUser]*models.Viewing)
	latestAny := make(map[int64]*models.Viewing)
	for i := range all {
		v := &all[i]
		key := mediaUser{v.MediaID, v.UserID}
		if _, ok := latestByUser[key]; !ok {
			latestByUser[key] = v
		}
		if _, ok := latestAny[v.MediaID]; !ok {
			latestAny[v.MediaID] = v
		}
	}

	for _, id := range mediaIDs {
		m, ok := mediaByID[id]
		if !ok {
			continue
		}

		slots := make([]dto.UserSlot, 0, len(users))
		for _, u := range users {
			own := latestByUser[mediaUser{id, u.ID}]
			display, fallback := resolveDisplayViewing(own, latestAny[id])
			slots = append(slots, dto.UserSlot{
				UserID:   u.ID,
				Username: u.Username,
				Viewing:  viewingResponse(display),
				Fallback: fallback,
			})
		}

		items = append(items, dto.DiaryItem{
			Media: s.mediaResponse(ctx, m, tmdb.SizeW342, ""),
			Users: slots,
		})
	}
	return items, nil
}

// filterOptions is computed globally, never narrowed by the active filters.
func (s *diaryService) filterOptions(ctx context.Context) (*dto.FilterOptions, error) {
	dates, err := s.viewings.WatchedDates(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[int]bool)
	years := make([]int, 0)
	for _, d := range dates {
		y := d.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	tags, err := s.tags.ListInUse(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.FilterOptions{
		Years: years,
		Tags:  tagResponses(tags),
	}, nil
}

// TitleDetail resolves one title (fetching or refreshing catalog detail as
// needed) with every user's display slot and full-size artwork.
func (s *diaryService) TitleDetail(ctx context.Context, mediaType string, tmdbID int64) (*dto.TitleDetailResponse, error) {
	m, err := s.mediaSvc.GetOrFetch(ctx, tmdbID, mediaType)
	if err != nil {
		return nil, err
	}

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	all, err := s.viewings.ListByMediaIDs(ctx, []int64{m.ID})
	if err != nil {
		return nil, err
	}
	var latestAny *models.Viewing
	latestByUser := make(map[string]*models.Viewing)
	for i := range all {
		v := &all[i]
		if latestAny == nil {
			latestAny = v
		}
		if _, ok := latestByUser[v.UserID]; !ok {
			latestByUser[v.UserID] = v
		}
	}

	slots := make([]dto.UserSlot, 0, len(users))
	for _, u := range users {
		display, fallback := resolveDisplayViewing(latestByUser[u.ID], latestAny)
		slots = append(slots, dto.UserSlot{
			UserID:   u.ID,
			Username: u.Username,
			Viewing:  viewingResponse(display),
			Fallback: fallback,
		})
	}

	return &dto.TitleDetailResponse{
		Media: s.mediaResponse(ctx, m, tmdb.SizeW500, tmdb.SizeW1280),
		Users: slots,
	}, nil
}

func (s *diaryService) AutocompleteTags(ctx context.Context, q string) ([]dto.TagResponse, error) {
	if q == "" {
		return []dto.TagResponse{}, nil
	}
	tags, err := s.tags.Autocomplete(ctx, q, autocompleteLimit)
	if err != nil {
		return nil, err
	}
	return tagResponses(tags), nil
}

func (s *diaryService) mediaResponse(ctx context.Context, m *models.Media, posterSize, backdropSize tmdb.ImageSize) dto.MediaResponse {
	resp := dto.MediaResponse{
		ID:          m.ID,
		TMDBID:      m.TMDBID,
		MediaType:   m.MediaType,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
	}
	if m.PosterPath != nil && *m.PosterPath != "" {
		u := s.catalog.BuildImageURL(ctx, *m.PosterPath, posterSize)
		resp.PosterURL = &u
	}
	if backdropSize != "" && m.BackdropPath != nil && *m.BackdropPath != "" {
		u := s.catalog.BuildImageURL(ctx, *m.BackdropPath, backdropSize)
		resp.BackdropURL = &u
	}
	return resp
}

func viewingResponse(v *models.Viewing) *dto.ViewingResponse {
	if v == nil {
		return nil
	}
	return &dto.ViewingResponse{
		ID:        v.ID,
		UserID:    v.UserID,
		Rating:    v.Rating,
		Comment:   v.Comment,
		WatchedOn: v.WatchedOn.Format("2006-01-02"),
		Rewatch:   v.Rewatch,
		Tags:      tagResponses(v.Tags),
	}
}

func tagResponses(tags []models.Tag) []dto.TagResponse {
	out := make([]dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, dto.TagResponse{Name: t.Name, Slug: t.Slug})
	}
	return out
}
