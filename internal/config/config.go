package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds login credentials and signing settings for access tokens.
type AuthConfig struct {
	Username       string
	Password       string
	JWTSecret      string
	AccessTokenTTL time.Duration
}

// GeminiConfig holds settings for the generative-text backend.
type GeminiConfig struct {
	APIKey   string
	Model    string
	Endpoint string
	Timeout  time.Duration
}

// LatexConfig holds settings for the external typesetting toolchain.
type LatexConfig struct {
	PdflatexPath string
	OutputDir    string
	Timeout      time.Duration
}

// DownloadConfig holds settings for the single-use download token store.
type DownloadConfig struct {
	TokenTTL      time.Duration
	SweepInterval time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings for the optional
// audit event sink. The sink is disabled when Host is empty.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for the optional artifact
// archive. The archive is disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost     string
	Port        string
	CORSOrigins []string
	LogsDir     string
	Auth        AuthConfig
	Gemini      GeminiConfig
	Latex       LatexConfig
	Download    DownloadConfig
	Database    DatabaseConfig
	MinIO       MinIOConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:     getEnv("APP_HOST", "localhost:8080"),
		Port:        getEnv("PORT", "8080"), // default only for non-sensitive value
		CORSOrigins: splitCSV(getEnv("CORS_ALLOW_ORIGINS", "http://127.0.0.1:8000,http://localhost:8000")),
		LogsDir:     getEnv("LOGS_DIR", "logs"),
		Auth: AuthConfig{
			Username:       getEnv("AUTH_USERNAME", ""),
			Password:       getEnv("AUTH_PASSWORD", ""),
			JWTSecret:      getEnv("JWT_SECRET_KEY", ""),
			AccessTokenTTL: time.Duration(getEnvInt("ACCESS_TOKEN_TTL_MIN", 30)) * time.Minute,
		},
		Gemini: GeminiConfig{
			APIKey:   getEnv("GEMINI_API_KEY", ""),
			Model:    getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Endpoint: getEnv("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout:  time.Duration(getEnvInt("GENERATE_TIMEOUT_SEC", 120)) * time.Second,
		},
		Latex: LatexConfig{
			PdflatexPath: getEnv("PDFLATEX_PATH", ""),
			OutputDir:    getEnv("OUTPUT_DIR", "output"),
			Timeout:      time.Duration(getEnvInt("COMPILE_TIMEOUT_SEC", 120)) * time.Second,
		},
		Download: DownloadConfig{
			TokenTTL:      time.Duration(getEnvInt("DOWNLOAD_TOKEN_TTL_SEC", 300)) * time.Second,
			SweepInterval: time.Duration(getEnvInt("DOWNLOAD_SWEEP_INTERVAL_SEC", 60)) * time.Second,
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
