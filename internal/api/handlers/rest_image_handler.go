package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coastline/villas/internal/storage"
)

const imageCacheControl = "public, max-age=31536000, immutable"

// RestImageHandler serves resized renditions of gallery images.
type RestImageHandler struct {
	store        storage.IObjectStore
	maxDimension uint
}

// NewRestImageHandler creates a new RestImageHandler. A maxDimension of 0 disables clamping.
func NewRestImageHandler(store storage.IObjectStore, maxDimension int) *RestImageHandler {
	if maxDimension < 0 {
		maxDimension = 0
	}
	return &RestImageHandler{store: store, maxDimension: uint(maxDimension)}
}

func parseDimension(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(v), true
}

// GetImage handles GET /api/image/*ref?w=&h=&fit=
func (h *RestImageHandler) GetImage(c *gin.Context) {
	ref := strings.TrimPrefix(c.Param("ref"), "/")
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image reference is required"})
		return
	}

	width, okW := parseDimension(c, "w")
	height, okH := parseDimension(c, "h")
	if !okW || !okH {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image dimensions"})
		return
	}
	fit := c.DefaultQuery("fit", storage.FitCrop)
	if fit != storage.FitCrop && fit != storage.FitMax {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fit mode"})
		return
	}

	data, _, err := h.store.GetObject(c.Request.Context(), ref)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
			return
		}
		log.Printf("ERROR: Failed to fetch image %s: %v", ref, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch image"})
		return
	}

	out, contentType, err := storage.Transform(data, storage.TransformOptions{
		Width:        width,
		Height:       height,
		Fit:          fit,
		MaxDimension: h.maxDimension,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "Unsupported image format"})
			return
		}
		log.Printf("ERROR: Failed to transform image %s: %v", ref, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process image"})
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, contentType, out)
}
