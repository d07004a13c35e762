package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	JournalPath   string
	PublicBaseURL string

	// Retention
	JournalRetention time.Duration
	AuditRetention   time.Duration

	// OCR
	OCRProvider          string
	GoogleVisionAPIKey   string
	OCRSpaceAPIKey       string
	TesseractLanguage    string
	MaxUploadSizeBytes   int64
	SessionMinQuality    float64
	SessionIdleTimeout   time.Duration
	SessionSweepSchedule string

	// Receipt image storage
	ImageStore          string
	ImageStorePath      string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSRegion           string
	S3Bucket            string
	S3Endpoint          string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	// LLM refinement
	OpenAIKey string
	LLMModel  string
	LLMRefine bool

	// Parser and stabilizer tuning
	ScanThrottleMs         int
	ScanStabilityThreshold int
	ScanMinConfidence      float64
	MaxMerchantLength      int
	TotalKeywords          []string
}

// LoadConfig reads .env (when present) and the process environment
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an environment lookup, applying defaults
func FromEnv(getenv func(string) string) *Config {
	cfg := &Config{
		Port:                 withDefault(getenv("PORT"), "8080"),
		Env:                  withDefault(getenv("ENV"), "development"),
		LogLevel:             withDefault(getenv("LOG_LEVEL"), "info"),
		DatabaseURL:          getenv("DATABASE_URL"),
		JournalPath:          withDefault(getenv("JOURNAL_PATH"), "scan_journal.db"),
		PublicBaseURL:        getenv("PUBLIC_BASE_URL"),
		JournalRetention:     time.Duration(parseInt(getenv("JOURNAL_RETENTION_DAYS"), 7)) * 24 * time.Hour,
		AuditRetention:       time.Duration(parseInt(getenv("AUDIT_RETENTION_DAYS"), 90)) * 24 * time.Hour,
		OCRProvider:          withDefault(strings.ToLower(getenv("OCR_PROVIDER")), "tesseract"),
		GoogleVisionAPIKey:   getenv("GOOGLE_VISION_API_KEY"),
		OCRSpaceAPIKey:       getenv("OCRSPACE_API_KEY"),
		TesseractLanguage:    withDefault(getenv("TESSERACT_LANGUAGE"), "ind+eng"),
		MaxUploadSizeBytes:   int64(parseInt(getenv("MAX_UPLOAD_SIZE_MB"), 10)) * 1024 * 1024,
		SessionMinQuality:    parseFloat(getenv("SESSION_MIN_QUALITY"), 0),
		SessionIdleTimeout:   parseDuration(getenv("SESSION_IDLE_TIMEOUT"), 10*time.Minute),
		SessionSweepSchedule: withDefault(getenv("SESSION_SWEEP_SCHEDULE"), "@every 1m"),
		ImageStore:           withDefault(strings.ToLower(getenv("IMAGE_STORE")), "none"),
		ImageStorePath:       withDefault(getenv("IMAGE_STORE_PATH"), "data/receipt-images"),
		AWSAccessKeyID:       getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:   getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:            withDefault(getenv("AWS_REGION"), "ap-southeast-3"),
		S3Bucket:             getenv("S3_BUCKET"),
		S3Endpoint:           getenv("S3_ENDPOINT"),
		CloudinaryCloudName:  getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:     getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret:  getenv("CLOUDINARY_API_SECRET"),
		OpenAIKey:            getenv("OPENAI_API_KEY"),
		LLMModel:             withDefault(getenv("LLM_MODEL"), "gpt-4o-mini"),
		LLMRefine:            parseBool(getenv("LLM_REFINE"), false),

		ScanThrottleMs:         parseInt(getenv("SCAN_THROTTLE_MS"), 300),
		ScanStabilityThreshold: parseInt(getenv("SCAN_STABILITY_THRESHOLD"), 3),
		ScanMinConfidence:      parseFloat(getenv("SCAN_MIN_CONFIDENCE"), 0.6),
		MaxMerchantLength:      parseInt(getenv("MAX_MERCHANT_LENGTH"), 80),
		TotalKeywords:          parseList(getenv("TOTAL_KEYWORDS")),
	}

	// Default values
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	return cfg
}

// Validate reports settings the service cannot start with
func (c *Config) Validate() error {
	switch c.OCRProvider {
	case "google":
		if c.GoogleVisionAPIKey == "" {
			return fmt.Errorf("GOOGLE_VISION_API_KEY is required when OCR_PROVIDER=google")
		}
	case "ocrspace":
		if c.OCRSpaceAPIKey == "" {
			return fmt.Errorf("OCRSPACE_API_KEY is required when OCR_PROVIDER=ocrspace")
		}
	case "tesseract":
	default:
		return fmt.Errorf("unknown OCR_PROVIDER %q (want google, ocrspace or tesseract)", c.OCRProvider)
	}

	switch c.ImageStore {
	case "none", "local":
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when IMAGE_STORE=s3")
		}
	case "cloudinary":
		if c.CloudinaryCloudName == "" || c.CloudinaryAPIKey == "" || c.CloudinaryAPISecret == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_STORE=cloudinary")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q (want none, local, s3 or cloudinary)", c.ImageStore)
	}

	if c.LLMRefine && c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when LLM_REFINE=true")
	}
	if c.ScanMinConfidence <= 0 || c.ScanMinConfidence > 1 {
		return fmt.Errorf("SCAN_MIN_CONFIDENCE must be in (0,1], got %v", c.ScanMinConfidence)
	}
	if c.ScanStabilityThreshold < 2 {
		return fmt.Errorf("SCAN_STABILITY_THRESHOLD must be at least 2, got %d", c.ScanStabilityThreshold)
	}
	if c.JournalRetention <= 0 || c.AuditRetention <= 0 {
		return fmt.Errorf("JOURNAL_RETENTION_DAYS and AUDIT_RETENTION_DAYS must be positive")
	}
	if c.ScanThrottleMs < 0 {
		return fmt.Errorf("SCAN_THROTTLE_MS must not be negative, got %d", c.ScanThrottleMs)
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func withDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func parseInt(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		if value != "" {
			log.Warn().Str("value", value).Int("default", fallback).Msg("invalid integer setting, using default")
		}
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		if value != "" {
			log.Warn().Str("value", value).Float64("default", fallback).Msg("invalid number setting, using default")
		}
		return fallback
	}
	return f
}

func parseBool(value string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return b
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil || d <= 0 {
		if value != "" {
			log.Warn().Str("value", value).Dur("default", fallback).Msg("invalid duration setting, using default")
		}
		return fallback
	}
	return d
}

// parseList splits a comma separated list, dropping blanks
func parseList(value string) []string {
	out := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
