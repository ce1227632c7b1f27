package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/services"
)

// RestVillaHandler handles REST requests for villas.
type RestVillaHandler struct {
	villaService services.IVillaService
}

// NewRestVillaHandler creates a new RestVillaHandler.
func NewRestVillaHandler(villaService services.IVillaService) *RestVillaHandler {
	return &RestVillaHandler{villaService: villaService}
}

// ListVillas handles GET /api/villas. A missing or unparsable limit uses the default.
func (h *RestVillaHandler) ListVillas(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		limit = 0
	}

	villas, err := h.villaService.ListVillas(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve villas"})
		return
	}

	c.JSON(http.StatusOK, villas)
}

// GetVillaBySlug handles GET /api/villas/:slug
func (h *RestVillaHandler) GetVillaBySlug(c *gin.Context) {
	villa, err := h.villaService.GetVillaBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, contentstore.ErrVillaNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Villa not found"})
		} else {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve villa"})
		}
		return
	}

	c.JSON(http.StatusOK, villa)
}
