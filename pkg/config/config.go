package config

import (
	"errors"
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

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Export   ExportConfig
	Media    MediaConfig
	Client   ClientConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
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

// ExportConfig bounds the batch export endpoints.
type ExportConfig struct {
	ZipMaxReports int
	ZipTimeout    time.Duration
	CacheTTL      time.Duration
}

// MediaConfig locates report attachments on disk.
type MediaConfig struct {
	StorageDir string
}

// ClientConfig drives the ekosctl terminal client.
type ClientConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
	ExportTimeout  time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	PageSize       int
	DownloadDir    string
	SessionFile    string
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

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
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

	cfg.Export = ExportConfig{
		ZipMaxReports: v.GetInt("EXPORT_ZIP_MAX_REPORTS"),
		ZipTimeout:    parseDuration(v.GetString("EXPORT_ZIP_TIMEOUT"), 2*time.Minute),
		CacheTTL:      parseDuration(v.GetString("EXPORT_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Media = MediaConfig{
		StorageDir: v.GetString("MEDIA_STORAGE_DIR"),
	}

	cfg.Client = ClientConfig{
		BaseURL:        v.GetString("CLIENT_BASE_URL"),
		RequestTimeout: parseDuration(v.GetString("CLIENT_REQUEST_TIMEOUT"), 15*time.Second),
		ExportTimeout:  parseDuration(v.GetString("CLIENT_EXPORT_TIMEOUT"), 2*time.Minute),
		RetryAttempts:  v.GetInt("CLIENT_RETRY_ATTEMPTS"),
		RetryDelay:     parseDuration(v.GetString("CLIENT_RETRY_DELAY"), time.Second),
		PageSize:       v.GetInt("CLIENT_PAGE_SIZE"),
		DownloadDir:    v.GetString("CLIENT_DOWNLOAD_DIR"),
		SessionFile:    v.GetString("CLIENT_SESSION_FILE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "ekos")
	v.SetDefault("DB_PASSWORD", "ekos")
	v.SetDefault("DB_NAME", "ekos")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ekos-api")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("EXPORT_ZIP_MAX_REPORTS", 100)
	v.SetDefault("EXPORT_ZIP_TIMEOUT", "2m")
	v.SetDefault("EXPORT_CACHE_TTL", "5m")

	v.SetDefault("MEDIA_STORAGE_DIR", "./uploads")

	v.SetDefault("CLIENT_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("CLIENT_REQUEST_TIMEOUT", "15s")
	v.SetDefault("CLIENT_EXPORT_TIMEOUT", "2m")
	v.SetDefault("CLIENT_RETRY_ATTEMPTS", 2)
	v.SetDefault("CLIENT_RETRY_DELAY", "1s")
	v.SetDefault("CLIENT_PAGE_SIZE", 20)
	v.SetDefault("CLIENT_DOWNLOAD_DIR", "./downloads")
	v.SetDefault("CLIENT_SESSION_FILE", "")
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
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
