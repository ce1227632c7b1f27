package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"coastline/villas/internal/api/handlers"
	"coastline/villas/internal/config"
)

func TestRestConfigHandler_GetPublicConfig(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewRestConfigHandler(config.ContentReadConfig{
		ProjectID:  "abc123",
		Dataset:    "production",
		APIVersion: "2024-01-01",
	}, "/api/image")
	r := gin.New()
	r.GET("/api/config", handler.GetPublicConfig)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/config", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"projectId":    "abc123",
		"dataset":      "production",
		"apiVersion":   "2024-01-01",
		"imageBaseUrl": "/api/image",
	}, respBody)
}
