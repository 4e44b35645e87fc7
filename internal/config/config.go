package config

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

type R2Config struct {
	AccountID        string `validate:"required_if=Enabled true"`
	AccessKeyID      string `validate:"required_if=Enabled true"`
	SecretAccessKey  string `validate:"required_if=Enabled true"`
	BucketName       string `validate:"required_if=Enabled true"`
	Region           string
	PresignDownloads bool
	Enabled          bool
}

type LogConfig struct {
	File       string
	MaxSizeMB  int `validate:"gte=0"`
	MaxBackups int `validate:"gte=0"`
	MaxAgeDays int `validate:"gte=0"`
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type Config struct {
	DBDriver    string `validate:"oneof=postgres sqlite"`
	DBURL       string `validate:"required"`
	Port        string `validate:"required,numeric"`
	JWTSecret   string `validate:"required"`
	Environment string `validate:"oneof=development production test"`
	UploadDir   string `validate:"required_if=BlobBackend disk"`
	MaxUploadMB int64  `validate:"gt=0"`
	BlobBackend string `validate:"oneof=disk r2"`
	FrontendURL string
	CorsConfig  cors.Options
	R2          R2Config
	Log         LogConfig
	Google      GoogleConfig
}

// IsProduction reports whether cookies should be issued as Secure.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// MaxUploadBytes is the multipart body limit.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// Load reads the environment (and the optional env file) into a validated
// Config.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No", envFile, "file found")
	} else {
		log.Println("Loaded", envFile)
	}

	backend := getEnv("BLOB_BACKEND", "disk")
	cfg := Config{
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DBURL:       getEnv("DB_URL", ""),
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "not-so-secret-now-is-it?"),
		Environment: getEnv("ENV", "development"),
		UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadMB: getEnvInt64("MAX_UPLOAD_MB", 100),
		BlobBackend: backend,
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		CorsConfig:  CorsConfig(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		R2: R2Config{
			AccountID:        getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:      getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:       getEnv("R2_BUCKET_NAME", ""),
			Region:           getEnv("R2_REGION", "auto"),
			PresignDownloads: getEnv("R2_PRESIGN_DOWNLOADS", "false") == "true",
			Enabled:          backend == "r2",
		},
		Log: LogConfig{
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  int(getEnvInt64("LOG_MAX_SIZE_MB", 50)),
			MaxBackups: int(getEnvInt64("LOG_MAX_BACKUPS", 5)),
			MaxAgeDays: int(getEnvInt64("LOG_MAX_AGE_DAYS", 30)),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags of the configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("Ignoring %s=%q: %v", key, value, err)
		return fallback
	}
	return n
}

func CorsConfig(origins string) cors.Options {
	var allowed []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
		}
	}
	return cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
