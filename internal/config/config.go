package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Quota    QuotaConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	SessionExpiry time.Duration
}

type StorageConfig struct {
	BaseURL      string
	Bucket       string
	ServiceKey   string
	SignedURLTTL time.Duration
}

type QuotaConfig struct {
	// DailyViewLimit is the freemium daily profile-view cap.
	DailyViewLimit int
}

type LoggingConfig struct {
	Level string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("JWT_SESSION_EXPIRY_HOURS", 168)
	viper.SetDefault("STORAGE_SIGNED_URL_TTL_SECONDS", 3600)
	viper.SetDefault("QUOTA_DAILY_VIEW_LIMIT", 10)
	viper.SetDefault("LOG_LEVEL", "info")

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = viper.ReadInConfig()

	config := &Config{
		Server: ServerConfig{
			Host:         viper.GetString("SERVER_HOST"),
			Port:         viper.GetInt("SERVER_PORT"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetInt("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			SessionExpiry: time.Duration(viper.GetInt("JWT_SESSION_EXPIRY_HOURS")) * time.Hour,
		},
		Storage: StorageConfig{
			BaseURL:      viper.GetString("STORAGE_BASE_URL"),
			Bucket:       viper.GetString("STORAGE_BUCKET"),
			ServiceKey:   viper.GetString("STORAGE_SERVICE_KEY"),
			SignedURLTTL: time.Duration(viper.GetInt("STORAGE_SIGNED_URL_TTL_SECONDS")) * time.Second,
		},
		Quota: QuotaConfig{
			DailyViewLimit: viper.GetInt("QUOTA_DAILY_VIEW_LIMIT"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.Quota.DailyViewLimit <= 0 {
		return fmt.Errorf("daily view limit must be positive")
	}
	if c.Storage.BaseURL != "" && c.Storage.Bucket == "" {
		return fmt.Errorf("storage bucket is required when storage is configured")
	}
	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
