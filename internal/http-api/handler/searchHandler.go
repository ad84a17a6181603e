package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AlexIbby/ourmovies/internal/http-api/service"
)

type SearchHandler struct {
	searchService service.SearchService
}

func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// RegisterRoutes registers search routes
func (h *SearchHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/search", h.Search)
}

// Search queries the external catalog
// GET /api/search?q=&type=&page=
// A catalog failure degrades to an empty result list rather than an error.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	mediaType := c.DefaultQuery("type", "multi")

	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
			return
		}
		page = parsed
	}

	results := h.searchService.Search(c.Request.Context(), query, mediaType, page)
	c.JSON(http.StatusOK, results)
}
