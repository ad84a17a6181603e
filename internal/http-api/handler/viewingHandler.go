package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AlexIbby/ourmovies/internal/http-api/dto"
	"github.com/AlexIbby/ourmovies/internal/http-api/service"
	"github.com/AlexIbby/ourmovies/internal/tmdb"
)

type ViewingHandler struct {
	viewingService service.ViewingService
}

func NewViewingHandler(viewingService service.ViewingService) *ViewingHandler {
	return &ViewingHandler{viewingService: viewingService}
}

// RegisterRoutes registers viewing-related routes
func (h *ViewingHandler) RegisterRoutes(router *gin.RouterGroup) {
	viewings := router.Group("/viewings")
	{
		viewings.POST("", h.Create)
		viewings.PUT("/:id", h.Update)
		viewings.DELETE("/:id", h.Delete)
	}
}

// Create records a new viewing for the authenticated user
// POST /api/viewings
func (h *ViewingHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateViewingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewing, err := h.viewingService.Create(c.Request.Context(), userID.(string), req)
	if err != nil {
		status := statusForViewingError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, viewing)
}

// Update edits an existing viewing, owner only
// PUT /api/viewings/:id
func (h *ViewingHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	viewingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewing ID"})
		return
	}

	var req dto.UpdateViewingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewing, err := h.viewingService.Update(c.Request.Context(), userID.(string), viewingID, req)
	if err != nil {
		status := statusForViewingError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, viewing)
}

// Delete removes a viewing, owner only
// DELETE /api/viewings/:id
func (h *ViewingHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	viewingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewing ID"})
		return
	}

	if err := h.viewingService.Delete(c.Request.Context(), userID.(string), viewingID); err != nil {
		status := statusForViewingError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "viewing deleted"})
}

func statusForViewingError(err error) int {
	switch {
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidRating):
		return http.StatusBadRequest
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, tmdb.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tmdb.ErrExhaustedRetries):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
