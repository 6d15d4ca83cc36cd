package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config groups application configuration, read via Viper from the environment
// and optionally from a .env file.
type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	JWT   JWTConfig
	Codes CodesConfig
	Redis RedisConfig
	Minio MinioConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig holds the PostgreSQL connection string.
type DBConfig struct {
	DatabaseURL string
}

// JWTConfig holds token issuance settings.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// CodesConfig holds verification/reset code settings.
type CodesConfig struct {
	TTL time.Duration // how long a timed code stays valid
}

// RedisConfig holds the notification queue / event bus connection.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MinioConfig holds object storage settings for profile pictures.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Load reads configuration from environment variables, with an optional .env
// file as fallback. Environment variables take priority.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "accounthub"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: time.Duration(getInt(v, "JWT_EXPIRATION_MINUTES", 60)) * time.Minute,
			Issuer:     getString(v, "JWT_ISSUER", "accounthub"),
		},
		Codes: CodesConfig{
			TTL: time.Duration(getInt(v, "CODE_TTL_SECONDS", 1800)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		Minio: MinioConfig{
			Endpoint:  getString(v, "MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getString(v, "MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getString(v, "MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:    getBool(v, "MINIO_USE_SSL", false),
			Bucket:    getString(v, "MINIO_BUCKET", "profile-pictures"),
		},
	}

	if cfg.DB.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	v.SetDefault(key, def)
	return v.GetString(key)
}

func getInt(v *viper.Viper, key string, def int) int {
	v.SetDefault(key, def)
	return v.GetInt(key)
}

func getBool(v *viper.Viper, key string, def bool) bool {
	v.SetDefault(key, def)
	return v.GetBool(key)
}
