package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// ContentReadConfig identifies the public, read-only view of the content store.
// Everything in here is safe to hand to the browser.
type ContentReadConfig struct {
	ProjectID  string
	Dataset    string
	APIVersion string
}

// ContentWriteConfig holds the server-only values needed to write to the content store.
// It is only ever passed to the write client factory.
type ContentWriteConfig struct {
	ProjectID  string
	Dataset    string
	WriteToken string
}

// Config holds all configuration for the application.
type Config struct {
	// Environment
	RunMode string // Set via flag, not env

	// Content store
	ContentStoreURI  string
	ContentRead      ContentReadConfig
	ContentWrite     ContentWriteConfig
	ContentCacheTTL  time.Duration
	VillaListDefault int

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Server
	ApiPort        string
	ServiceApiPort string
	AllowedOrigin  string

	// Cloudflare
	CloudflareTurnstileSecretKey string
	CloudflareSiteVerifyURL      string
	CaptchaTokenSecret           string
	CaptchaTokenTTL              time.Duration

	// Email
	SmtpHost        string
	SmtpPort        int
	SmtpUsername    string
	SmtpPassword    string
	SmtpFromAddress string
	OperatorEmail   string
	MockServices    bool   // Store mail in Redis instead of sending it
	LogEmailsPath   string // Also append every mail to this file when set

	// AWS S3
	AwsAccessKeyID     string
	AwsSecretAccessKey string
	AwsRegion          string
	AwsS3Bucket        string
	ImageBaseURL       string
	ImageMaxDimension  int

	AppName string

	// Rate limiting on booking submission
	RateLimitSoftBucketSize int
	RateLimitSoftRefillRate int // tokens per second
	RateLimitHardBucketSize int
	RateLimitHardRefillRate int // tokens per second
}

// Load configuration from environment variables.
// RunMode needs to be passed in as it comes from command-line flags.
//
// The server-only content write values are deliberately optional here: when they are
// absent the process still serves villa pages and the write client factory refuses
// every booking submission.
func Load(runMode string) (*Config, error) {
	// Load .env file, ignoring errors if it doesn't exist
	godotenv.Load()

	cfg := &Config{
		RunMode: runMode,
	}

	var err error

	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		return defaultValue
	}

	getRequiredEnv := func(key string) (string, error) {
		value, exists := os.LookupEnv(key)
		if !exists || value == "" {
			return "", fmt.Errorf("missing required environment variable: %s", key)
		}
		return value, nil
	}

	cfg.ContentStoreURI, err = getRequiredEnv("CONTENT_STORE_URI")
	if err != nil {
		return nil, err
	}
	cfg.ContentRead.ProjectID, err = getRequiredEnv("PUBLIC_CONTENT_PROJECT_ID")
	if err != nil {
		return nil, err
	}
	cfg.ContentRead.Dataset, err = getRequiredEnv("PUBLIC_CONTENT_DATASET")
	if err != nil {
		return nil, err
	}
	cfg.ContentRead.APIVersion = getEnv("CONTENT_API_VERSION", "2024-01-01")

	cfg.ContentWrite.ProjectID = getEnv("CONTENT_PROJECT_ID", "")
	cfg.ContentWrite.Dataset = getEnv("CONTENT_DATASET", "")
	cfg.ContentWrite.WriteToken = getEnv("CONTENT_WRITE_TOKEN", "")

	cfg.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.ApiPort = getEnv("API_PORT", "8080")
	cfg.ServiceApiPort = getEnv("SERVICE_API_PORT", "12345")
	cfg.AllowedOrigin = getEnv("ALLOWED_ORIGIN", "*")
	cfg.CloudflareTurnstileSecretKey = getEnv("CLOUDFLARE_TURNSTILE_SECRET_KEY", "")
	cfg.CloudflareSiteVerifyURL = getEnv("CLOUDFLARE_SITEVERIFY_URL", "https://challenges.cloudflare.com/turnstile/v0/siteverify")
	cfg.CaptchaTokenSecret = getEnv("CAPTCHA_TOKEN_SECRET", "")
	cfg.SmtpHost = getEnv("SMTP_HOST", "")
	cfg.SmtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.SmtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.SmtpFromAddress = getEnv("SMTP_FROM_ADDRESS", "bookings@villas.example.com")
	cfg.OperatorEmail = getEnv("OPERATOR_EMAIL", "")
	cfg.MockServices = getEnv("MOCK_SERVICES", "") == "true"
	cfg.LogEmailsPath = getEnv("LOG_EMAILS", "")
	cfg.AwsAccessKeyID = getEnv("AWS_ACCESS_KEY_ID", "")
	cfg.AwsSecretAccessKey = getEnv("AWS_SECRET_ACCESS_KEY", "")
	cfg.AwsRegion = getEnv("AWS_REGION", "")
	cfg.AwsS3Bucket = getEnv("AWS_S3_BUCKET", "")
	cfg.ImageBaseURL = getEnv("IMAGE_BASE_URL", "/api/image")
	cfg.AppName = getEnv("APP_NAME", "Coastline Villas")

	cfg.RedisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cacheTTLSeconds, err := strconv.ParseInt(getEnv("CONTENT_CACHE_TTL_SECONDS", "60"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CONTENT_CACHE_TTL_SECONDS: %w", err)
	}
	cfg.ContentCacheTTL = time.Duration(cacheTTLSeconds) * time.Second

	cfg.VillaListDefault, err = strconv.Atoi(getEnv("VILLA_LIST_DEFAULT_LIMIT", "6"))
	if err != nil {
		return nil, fmt.Errorf("invalid VILLA_LIST_DEFAULT_LIMIT: %w", err)
	}

	captchaTTLSeconds, err := strconv.ParseInt(getEnv("CAPTCHA_TOKEN_TTL", "1200"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid CAPTCHA_TOKEN_TTL: %w", err)
	}
	cfg.CaptchaTokenTTL = time.Duration(captchaTTLSeconds) * time.Second

	cfg.SmtpPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg.ImageMaxDimension, err = strconv.Atoi(getEnv("IMAGE_MAX_DIMENSION", "2048"))
	if err != nil {
		return nil, fmt.Errorf("invalid IMAGE_MAX_DIMENSION: %w", err)
	}

	cfg.RateLimitSoftBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_SOFT_BUCKET_SIZE", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SOFT_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitSoftRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_SOFT_REFILL_RATE", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SOFT_REFILL_RATE: %w", err)
	}
	cfg.RateLimitHardBucketSize, err = strconv.Atoi(getEnv("RATE_LIMIT_HARD_BUCKET_SIZE", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_HARD_BUCKET_SIZE: %w", err)
	}
	cfg.RateLimitHardRefillRate, err = strconv.Atoi(getEnv("RATE_LIMIT_HARD_REFILL_RATE", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_HARD_REFILL_RATE: %w", err)
	}

	return cfg, nil
}

// DatabaseName maps a project/dataset pair to the MongoDB database holding its documents.
func DatabaseName(projectID, dataset string) string {
	return projectID + "_" + dataset
}
