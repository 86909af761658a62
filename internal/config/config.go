package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `json:"server"`
	Database      DatabaseConfig      `json:"database"`
	Redis         RedisConfig         `json:"redis"`
	Storage       StorageConfig       `json:"storage"`
	Templates     TemplatesConfig     `json:"templates"`
	Render        RenderConfig        `json:"render"`
	Notifications NotificationsConfig `json:"notifications"`
	Retention     RetentionConfig     `json:"retention"`
	Logging       LoggingConfig       `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Host           string        `json:"host"`
	Port           int           `json:"port"`
	User           string        `json:"user"`
	Password       string        `json:"password"`
	DBName         string        `json:"db_name"`
	SSLMode        string        `json:"ssl_mode"`
	MaxConnections int           `json:"max_connections"`
	MaxIdleConns   int           `json:"max_idle_conns"`
	MaxLifetime    time.Duration `json:"max_lifetime"`
}

// RedisConfig configures the optional Redis-backed template cache.
// An empty URL means the in-process cache is used instead.
type RedisConfig struct {
	URL          string        `json:"url"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// StorageConfig represents S3 storage configuration
type StorageConfig struct {
	Region          string        `json:"region"`
	Endpoint        string        `json:"endpoint"`
	ArtifactBucket  string        `json:"artifact_bucket"`
	TemplateBucket  string        `json:"template_bucket"`
	PresignLifetime time.Duration `json:"presign_lifetime"`
}

// TemplatesConfig governs template fetching and caching
type TemplatesConfig struct {
	FetchTimeout  time.Duration `json:"fetch_timeout"`
	CacheBackend  string        `json:"cache_backend"` // "memory" or "redis"
	CacheMaxItems int           `json:"cache_max_items"`
}

// RenderConfig governs the document renderer
type RenderConfig struct {
	ChromeBin       string        `json:"chrome_bin"`
	Headless        bool          `json:"headless"`
	DefaultStrategy string        `json:"default_strategy"` // "auto", "print" or "raster"
	Timeout         time.Duration `json:"timeout"`
	PixelRatio      float64       `json:"pixel_ratio"`
}

// NotificationsConfig governs issuance emails
type NotificationsConfig struct {
	Enabled     bool   `json:"enabled"`
	SenderEmail string `json:"sender_email"`
}

// RetentionConfig governs the background retention worker
type RetentionConfig struct {
	ArtifactMaxAge time.Duration `json:"artifact_max_age"`
	SweepSchedule  string        `json:"sweep_schedule"` // cron expression, with seconds
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    os.Getenv("USER"),
			DBName:  "event_portal",
			SSLMode: "disable",
		},
		Storage: StorageConfig{
			Region:          "ap-south-1",
			ArtifactBucket:  "event-portal-certificates",
			TemplateBucket:  "event-portal-templates",
			PresignLifetime: 15 * time.Minute,
		},
		Templates: TemplatesConfig{
			FetchTimeout:  15 * time.Second,
			CacheBackend:  "memory",
			CacheMaxItems: 256,
		},
		Render: RenderConfig{
			Headless:        true,
			DefaultStrategy: "auto",
			Timeout:         30 * time.Second,
			PixelRatio:      2,
		},
		Retention: RetentionConfig{
			ArtifactMaxAge: 180 * 24 * time.Hour,
			SweepSchedule:  "0 0 3 * * *",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if dbHost := os.Getenv("DATABASE_HOST"); dbHost != "" {
		config.Database.Host = dbHost
	}
	if dbUser := os.Getenv("DATABASE_USER"); dbUser != "" {
		config.Database.User = dbUser
	}
	if dbPass := os.Getenv("DATABASE_PASSWORD"); dbPass != "" {
		config.Database.Password = dbPass
	}
	if dbName := os.Getenv("DATABASE_DBNAME"); dbName != "" {
		config.Database.DBName = dbName
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.Redis.URL = redisURL
		config.Templates.CacheBackend = "redis"
	}
	if region := os.Getenv("STORAGE_REGION"); region != "" {
		config.Storage.Region = region
	}
	if bucket := os.Getenv("STORAGE_ARTIFACT_BUCKET"); bucket != "" {
		config.Storage.ArtifactBucket = bucket
	}
	if bucket := os.Getenv("STORAGE_TEMPLATE_BUCKET"); bucket != "" {
		config.Storage.TemplateBucket = bucket
	}
	if bin := os.Getenv("RENDER_CHROME_BIN"); bin != "" {
		config.Render.ChromeBin = bin
	}
	if sender := os.Getenv("NOTIFICATIONS_SENDER_EMAIL"); sender != "" {
		config.Notifications.SenderEmail = sender
		config.Notifications.Enabled = true
	}
}

// GetDatabaseURL returns the database connection string
func (c *DatabaseConfig) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
