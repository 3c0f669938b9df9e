package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// PathsConfig holds the filesystem roots the service resolves requests against.
type PathsConfig struct {
	UploadDir   string
	MusicDir    string
	EffectsDir  string
	FrontendDir string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Paths          PathsConfig
	StorageBackend string
	MinIO          MinIOConfig
	CORSOrigins    []string
	BodyLimitMB    int
	SeedFile       string
	PageCounter    string
	LogTimezone    string
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:5000"),
		Port:    getEnv("PORT", "5000"),
		Paths: PathsConfig{
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			MusicDir:    getEnv("MUSIC_DIR", "static/music"),
			EffectsDir:  getEnv("EFFECTS_DIR", "static/effects"),
			FrontendDir: getEnv("FRONTEND_DIR", "../frontend/dist"),
		},
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			Prefix:    getEnv("MINIO_PREFIX", "pdfs"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		CORSOrigins: getEnvList("CORS_ALLOW_ORIGINS", []string{"http://localhost:5173", "http://localhost:5000"}),
		BodyLimitMB: getEnvInt("BODY_LIMIT_MB", 50),
		SeedFile:    getEnv("SEED_FILE", ""),
		PageCounter: strings.ToLower(getEnv("PAGE_COUNTER", "static")),
		LogTimezone: getEnv("LOG_TIMEZONE", "UTC"),
	}
}

// Location resolves LogTimezone, falling back to UTC for unknown zones.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.LogTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit returns the maximum request body size in bytes.
func (c *AppConfig) BodyLimit() int {
	if c.BodyLimitMB <= 0 {
		return 50 << 20
	}
	return c.BodyLimitMB << 20
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

// getEnvList splits a comma separated value, dropping empty items.
func getEnvList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
