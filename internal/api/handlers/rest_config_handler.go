package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"coastline/villas/internal/config"
)

// PublicConfig is everything the browser needs to build its own read client.
type PublicConfig struct {
	ProjectID    string `json:"projectId"`
	Dataset      string `json:"dataset"`
	APIVersion   string `json:"apiVersion"`
	ImageBaseURL string `json:"imageBaseUrl"`
}

// RestConfigHandler handles requests for the /config REST endpoint.
// It only ever sees the read configuration.
type RestConfigHandler struct {
	public PublicConfig
}

// NewRestConfigHandler creates a new RestConfigHandler.
func NewRestConfigHandler(read config.ContentReadConfig, imageBaseURL string) *RestConfigHandler {
	return &RestConfigHandler{public: PublicConfig{
		ProjectID:    read.ProjectID,
		Dataset:      read.Dataset,
		APIVersion:   read.APIVersion,
		ImageBaseURL: imageBaseURL,
	}}
}

// GetPublicConfig handles GET /api/config
func (h *RestConfigHandler) GetPublicConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.public)
}
