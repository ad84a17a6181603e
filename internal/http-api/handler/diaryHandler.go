package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/http-api/dto"
	"github.com/AlexIbby/ourmovies/internal/http-api/models"
	"github.com/AlexIbby/ourmovies/internal/http-api/service"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

type DiaryHandler struct {
	diaryService service.DiaryService
	pageSize     int
}

func NewDiaryHandler(diaryService service.DiaryService, pageSize int) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService, pageSize: pageSize}
}

// RegisterRoutes registers diary-related routes
func (h *DiaryHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/diary", h.List)
	router.GET("/titles/:media_type/:tmdb_id", h.TitleDetail)
	router.GET("/tags/autocomplete", h.TagsAutocomplete)
}

// List returns one page of the shared diary
// GET /api/diary?year=&media_type=&rating=&tags=&sort=&page=
func (h *DiaryHandler) List(c *gin.Context) {
	query := dto.DiaryQuery{
		Sort: c.DefaultQuery("sort", dto.SortNewest),
		Page: 1,
	}

	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		query.Year = &year
	}
	if mt := c.Query("media_type"); mt != "" {
		if !models.ValidMediaType(mt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media type"})
			return
		}
		query.MediaType = mt
	}
	if raw := c.Query("rating"); raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rating"})
			return
		}
		query.MinRating = rating
	}
	query.Tags = c.QueryArray("tags")
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		query.Page = page
	}
	if query.Sort != dto.SortNewest && query.Sort != dto.SortHighestRated {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort key"})
		return
	}

	page, err := h.diaryService.ListPage(c.Request.Context(), query, h.pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load diary"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// TitleDetail returns one title with every user's viewing slot
// GET /api/titles/:media_type/:tmdb_id
func (h *DiaryHandler) TitleDetail(c *gin.Context) {
	mediaType := c.Param("media_type")
	if !models.ValidMediaType(mediaType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media type"})
		return
	}
	tmdbID, err := strconv.ParseInt(c.Param("tmdb_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tmdb id"})
		return
	}

	detail, err := h.diaryService.TitleDetail(c.Request.Context(), mediaType, tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "title not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load title"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// TagsAutocomplete returns tag suggestions for the tag input
// GET /api/tags/autocomplete?q=
func (h *DiaryHandler) TagsAutocomplete(c *gin.Context) {
	suggestions, err := h.diaryService.AutocompleteTags(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load suggestions"})
		return
	}
	c.JSON(http.StatusOK, suggestions)
}
