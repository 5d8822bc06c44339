package config

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Workbook    WorkbookConfig
	Attachments AttachmentsConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Dashboard   DashboardConfig
	Import      ImportConfig
}

// WorkbookConfig locates the spreadsheet acting as the system of record.
type WorkbookConfig struct {
	DataDir  string
	FileName string
}

// Path returns the full path of the workbook file.
func (w WorkbookConfig) Path() string {
	return filepath.Join(w.DataDir, w.FileName)
}

// AttachmentsConfig controls photo storage and validation.
type AttachmentsConfig struct {
	Dir          string
	MaxFileSize  int64
	AllowedMIMEs []string
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DashboardConfig tunes the SLA classification windows.
type DashboardConfig struct {
	UrgentAfter  time.Duration
	DelayedAfter time.Duration
}

// ImportConfig governs CSV bulk import behaviour.
type ImportConfig struct {
	DefaultPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Workbook = WorkbookConfig{
		DataDir:  v.GetString("DATA_DIR"),
		FileName: v.GetString("WORKBOOK_FILE"),
	}

	maxPhotoSize := v.GetInt64("MAX_PHOTO_SIZE")
	if maxPhotoSize <= 0 {
		maxPhotoSize = 5 * 1024 * 1024
	}
	cfg.Attachments = AttachmentsConfig{
		Dir:          v.GetString("ATTACHMENTS_DIR"),
		MaxFileSize:  maxPhotoSize,
		AllowedMIMEs: splitAndTrim(v.GetString("ALLOWED_PHOTO_MIME_TYPES")),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Dashboard = DashboardConfig{
		UrgentAfter:  parseDuration(v.GetString("URGENT_AFTER"), 24*time.Hour),
		DelayedAfter: parseDuration(v.GetString("DELAYED_AFTER"), 72*time.Hour),
	}

	cfg.Import = ImportConfig{
		DefaultPassword: v.GetString("DEFAULT_IMPORT_PASSWORD"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("WORKBOOK_FILE", "소모품발주.xlsx")
	v.SetDefault("ATTACHMENTS_DIR", "./data/attachments")
	v.SetDefault("MAX_PHOTO_SIZE", 5*1024*1024)
	v.SetDefault("ALLOWED_PHOTO_MIME_TYPES", "image/jpeg,image/jpg,image/png")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "parts-order-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("URGENT_AFTER", "24h")
	v.SetDefault("DELAYED_AFTER", "72h")

	v.SetDefault("DEFAULT_IMPORT_PASSWORD", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
