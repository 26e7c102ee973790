package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	App          AppConfig
	Storage      StorageConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	AI           AIConfig
	Secrets      SecretsConfig
	Notification NotificationConfig
	Scheduler    SchedulerConfig
	Log          LogConfig
	Tracing      TracingConfig   `mapstructure:"tracing"`
	CORS         CORSConfig      `mapstructure:"cors"`
	RateLimit    RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type AppConfig struct {
	// 计算签到日期使用的时区，空值表示本地时区
	Timezone string `mapstructure:"timezone"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
	// 对象存储中用户记录的键前缀
	Prefix string `mapstructure:"prefix"`
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool   `mapstructure:"parse_time"`
	Path      string `mapstructure:"path"`
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

type AIConfig struct {
	Mode         string  `mapstructure:"mode"`
	BaseURL      string  `mapstructure:"base_url"`
	Model        string  `mapstructure:"model"`
	APIKeySecret string  `mapstructure:"api_key_secret"`
	Temperature  float64 `mapstructure:"temperature"`
	MaxTokens    int     `mapstructure:"max_tokens"`
}

type SecretsConfig struct {
	Provider string `mapstructure:"provider"`
	// keyring 模式下的服务名
	Service string `mapstructure:"service"`
}

type NotificationConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	NatsURL   string `mapstructure:"nats_url"`
	Stream    string `mapstructure:"stream"`
	ChannelID string `mapstructure:"channel_id"`
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "release")

	v.SetDefault("storage.type", "file")
	v.SetDefault("storage.local_path", "user_data")
	v.SetDefault("storage.prefix", "user_data/")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "study_tracker.db")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.lock_ttl", 10*time.Second)

	v.SetDefault("ai.mode", "mock")
	v.SetDefault("ai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.model", "gpt-3.5-turbo")
	v.SetDefault("ai.api_key_secret", "OPENAI_API_KEY")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_tokens", 100)

	v.SetDefault("secrets.provider", "env")
	v.SetDefault("secrets.service", "study_tracker")

	v.SetDefault("notification.stream", "STUDY_REMINDERS")
	v.SetDefault("notification.channel_id", "study.reminders")

	v.SetDefault("scheduler.interval", 24*time.Hour)

	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("STUDY_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.mode", "SERVER_MODE")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.local_path", "DATA_DIR")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// AI
	v.BindEnv("ai.mode", "AI_MODE")
	v.BindEnv("ai.base_url", "AI_BASE_URL")
	v.BindEnv("ai.model", "AI_MODEL")

	// Notification
	v.BindEnv("notification.nats_url", "NATS_URL")
	v.BindEnv("notification.channel_id", "NOTIFICATION_CHANNEL")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "file" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			if err := os.MkdirAll(cfg.Storage.LocalPath, 0755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}

	return &cfg, nil
}

// Validate 校验枚举类配置项
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "file", "database", "minio", "oss":
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	switch c.AI.Mode {
	case "mock", "live":
	default:
		return fmt.Errorf("unknown ai mode %q", c.AI.Mode)
	}

	switch c.Secrets.Provider {
	case "env", "keyring":
	default:
		return fmt.Errorf("unknown secrets provider %q", c.Secrets.Provider)
	}

	if c.Storage.Type == "database" && c.Database.Driver != "mysql" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Notification.Enabled && c.Notification.NatsURL == "" {
		return fmt.Errorf("notification enabled but nats_url is empty")
	}

	if c.App.Timezone != "" {
		if _, err := time.LoadLocation(c.App.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", c.App.Timezone, err)
		}
	}

	return nil
}

// Location 返回签到日期所用时区
func (c *Config) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
