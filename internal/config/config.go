package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by SITEFLEET_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("SITEFLEET_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the process environment still applies.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func getInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func ServerPort() int {
	return getInt("SERVER_PORT", 8080)
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// RedisURL defaults to a local redis.
func RedisURL() string {
	return getString("REDIS_URL", "redis://localhost:6379/0")
}

// SessionJWTSecret is the HS256 secret shared with the identity backend.
func SessionJWTSecret() string {
	return os.Getenv("SESSION_JWT_SECRET")
}

// SessionJWTIssuer is the required token issuer. Empty disables the check.
func SessionJWTIssuer() string {
	return os.Getenv("SESSION_JWT_ISSUER")
}

// CORSAllowedOrigins is the comma-separated SPA origin list.
// Defaults to the local dev server.
func CORSAllowedOrigins() []string {
	raw := getString("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return getInt("RATE_LIMIT_BURST", 20)
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	return getString("LOG_LEVEL", "info")
}

func BulkBatchSize() int {
	return getInt("BULK_BATCH_SIZE", 5)
}

func BulkItemTimeout() time.Duration {
	return getDuration("BULK_ITEM_TIMEOUT", 15*time.Second)
}

func MembershipCacheTTL() time.Duration {
	return getDuration("MEMBERSHIP_CACHE_TTL", 30*time.Second)
}

func SessionStateTTL() time.Duration {
	return getDuration("SESSION_STATE_TTL", 24*time.Hour)
}

func OrphanSweepInterval() time.Duration {
	return getDuration("ORPHAN_SWEEP_INTERVAL", time.Hour)
}

func OrphanGracePeriod() time.Duration {
	return getDuration("ORPHAN_GRACE_PERIOD", 24*time.Hour)
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

func AnthropicAPIKey() string {
	return os.Getenv("ANTHROPIC_API_KEY")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func CerebrasAPIKey() string {
	return os.Getenv("CEREBRAS_API_KEY")
}

// LLMProvider returns the template advisor's provider.
// Defaults to "mock" so local runs need no key.
// Valid values: openai, anthropic, gemini, cerebras, mock
func LLMProvider() string {
	return getString("LLM_PROVIDER", "mock")
}

// LLMAPIKey returns the API key for the configured LLM provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "anthropic":
		return AnthropicAPIKey()
	case "gemini":
		return GeminiAPIKey()
	case "cerebras":
		return CerebrasAPIKey()
	case "mock":
		return ""
	default:
		return OpenAIAPIKey()
	}
}

// S3Bucket enables logo uploads when set.
func S3Bucket() string {
	return os.Getenv("S3_BUCKET")
}

func S3Region() string {
	return getString("S3_REGION", "us-east-1")
}

// S3Endpoint overrides the AWS endpoint, e.g. for MinIO.
func S3Endpoint() string {
	return os.Getenv("S3_ENDPOINT")
}

func S3AccessKey() string {
	return os.Getenv("S3_ACCESS_KEY")
}

func S3SecretKey() string {
	return os.Getenv("S3_SECRET_KEY")
}

func S3PublicBaseURL() string {
	return os.Getenv("S3_PUBLIC_BASE_URL")
}

func MigrationsPath() string {
	return getString("MIGRATIONS_PATH", "migrations")
}

// MigrateOnStart reports whether the server applies MigrationsPath before serving.
func MigrateOnStart() bool {
	v, err := strconv.ParseBool(os.Getenv("MIGRATE_ON_START"))
	return err == nil && v
}
