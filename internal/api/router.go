package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"coastline/villas/internal/api/handlers"
	"coastline/villas/internal/api/middleware"
	"coastline/villas/internal/captcha"
	"coastline/villas/internal/config"
	"coastline/villas/internal/contentstore"
	"coastline/villas/internal/email"
	"coastline/villas/internal/services"
	"coastline/villas/internal/storage"
)

// Dependencies are the collaborators the public API is built from. ObjectStore and
// TaskClient may be nil: the image route is then not registered and no mail is queued.
type Dependencies struct {
	VillaService services.IVillaService
	WriteClients contentstore.WriteClientFactory
	ObjectStore  storage.IObjectStore
	TaskClient   handlers.IAsynqClient
	Verifier     captcha.ITurnstileVerifier
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	verifier := deps.Verifier
	if verifier == nil {
		verifier = captcha.NewTurnstileVerifier(cfg)
	}
	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigin))

	bookingHandler := handlers.NewRestBookingHandler(deps.WriteClients, deps.TaskClient, cfg)
	villaHandler := handlers.NewRestVillaHandler(deps.VillaService)
	configHandler := handlers.NewRestConfigHandler(cfg.ContentRead, cfg.ImageBaseURL)

	apiGroup := r.Group("/api")
	{
		// Every method is routed here so the handler can answer non-POST with 405.
		apiGroup.Any("/submit-booking",
			middleware.CaptchaMiddleware(cfg, verifier),
			rateLimiter.Limit(),
			bookingHandler.SubmitBooking,
		)

		apiGroup.GET("/villas", villaHandler.ListVillas)
		apiGroup.GET("/villas/:slug", villaHandler.GetVillaBySlug)
		apiGroup.GET("/config", configHandler.GetPublicConfig)

		if deps.ObjectStore != nil {
			imageHandler := handlers.NewRestImageHandler(deps.ObjectStore, cfg.ImageMaxDimension)
			apiGroup.GET("/image/*ref", imageHandler.GetImage)
		} else {
			log.Println("WARN: No object store configured, image route disabled.")
		}

		apiGroup.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})
	}

	return r
}

// SetupServiceRouter configures and returns the service Gin engine.
// It is bound to SERVICE_API_PORT and is not meant to be exposed publicly.
func SetupServiceRouter(rdb *redis.Client, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			fmt.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				fmt.Println("Shutdown signal sent successfully.")
			default:
				fmt.Println("Shutdown channel already signaled or blocked.")
			}
		case "getTestEmail":
			getTestEmail(c, rdb, req.Arguments)
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}

// getTestEmail reads back a message captured by the Redis mock sender.
// Arguments are [templateID, email].
func getTestEmail(c *gin.Context, rdb *redis.Client, rawArgs json.RawMessage) {
	var args []string
	if err := json.Unmarshal(rawArgs, &args); err != nil || len(args) != 2 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [templateId, email]"})
		return
	}
	redisKey := email.MockEmailKey(args[1], args[0])

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// The mail is written by the worker, so poll for up to ~2 seconds.
	var emailJSON string
	found := false
	for i := 0; i < 10; i++ {
		val, err := rdb.Get(ctx, redisKey).Result()
		if err == nil {
			emailJSON = val
			found = true
			rdb.Del(ctx, redisKey)
			break
		}
		if err != redis.Nil {
			log.Printf("ERROR: Service API: getting key %s from Redis: %v", redisKey, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
			return
		}
		time.Sleep(200 * time.Millisecond)
	}

	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", redisKey)})
		return
	}

	var emailData map[string]interface{}
	if err := json.Unmarshal([]byte(emailJSON), &emailData); err != nil {
		log.Printf("ERROR: Service API: unmarshalling email data from key %s: %v", redisKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": emailData})
}
