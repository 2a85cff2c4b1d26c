package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
//
// Flag thresholds are policy constants in internal/flags and are not
// configurable here.
type Config struct {
	// Server
	Port string `validate:"required,numeric"`
	Env  string `validate:"oneof=development staging production test"`

	// Upload handling
	Upload UploadConfig

	// Rate limiting (per process)
	RateLimit RateLimitConfig

	// HTTP client used by `probe submit`
	Client ClientConfig

	ShutdownTimeout time.Duration `validate:"gt=0"`

	// Logging
	LogLevel  string `validate:"oneof=debug info warn warning error fatal panic"`
	LogFormat string `validate:"oneof=json console pretty"`

	// Monitoring
	MetricsEnabled bool
}

// UploadConfig holds limits for the upload endpoint
type UploadConfig struct {
	MaxBytes int64 `validate:"gt=0"`
}

// RateLimitConfig holds token bucket settings for the API
type RateLimitConfig struct {
	Enabled bool
	RPS     float64 `validate:"gt=0"`
	Burst   int     `validate:"gt=0"`
}

// ClientConfig holds retry/timeout settings for outbound uploads
type ClientConfig struct {
	Timeout      time.Duration `validate:"gt=0"`
	MaxRetries   int           `validate:"gte=0,lte=10"`
	InitialDelay time.Duration `validate:"gte=0"`
	MaxDelay     time.Duration `validate:"gte=0"`
	ServerURL    string        `validate:"required,url"`
	RPS          float64       `validate:"gte=0"` // 0 disables client-side throttling
}

var validate = validator.New()

// Read loads configuration without validating it.
// Callers validate the sections they use (ValidateCore, ValidateServer, ValidateClient).
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Read() *Config {
	// Try multiple paths for .env file
	loadEnvFile()

	return &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		Upload: UploadConfig{
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},

		RateLimit: RateLimitConfig{
			Enabled: getEnvAsBool("RATE_LIMIT_ENABLED", true),
			RPS:     getEnvAsFloat("RATE_LIMIT_RPS", 50),
			Burst:   getEnvAsInt("RATE_LIMIT_BURST", 100),
		},

		Client: ClientConfig{
			Timeout:      getEnvAsDuration("CLIENT_TIMEOUT", "30s"),
			MaxRetries:   getEnvAsInt("CLIENT_MAX_RETRIES", 3),
			InitialDelay: getEnvAsDuration("CLIENT_RETRY_DELAY", "1s"),
			MaxDelay:     getEnvAsDuration("CLIENT_RETRY_MAX_DELAY", "10s"),
			ServerURL:    getEnv("PROBE_SERVER_URL", "http://localhost:8089"),
			RPS:          getEnvAsFloat("CLIENT_RATE_LIMIT_RPS", 5),
		},

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", "30s"),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}
}

// Validate checks struct tag constraints on the whole configuration
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// ValidateCore checks the settings every command uses (env, logging)
func (c *Config) ValidateCore() error {
	return validate.StructPartial(c, "Env", "LogLevel", "LogFormat")
}

// ValidateServer checks what the API server needs
func (c *Config) ValidateServer() error {
	if err := validate.StructPartial(c, "Env", "LogLevel", "LogFormat", "Port", "ShutdownTimeout"); err != nil {
		return err
	}
	if err := validate.Struct(c.Upload); err != nil {
		return err
	}
	return validate.Struct(c.RateLimit)
}

// ValidateClient checks what the outbound HTTP client needs
func (c *Config) ValidateClient() error {
	if err := c.ValidateCore(); err != nil {
		return err
	}
	return validate.Struct(c.Client)
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",         // Current directory
		"backend/.env", // From project root
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
