package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	DB            DBConfig
	S3            S3Config
	Log           LogConfig
	CORS          CORSConfig
	Extractor     ExtractorConfig
	Understanding UnderstandingConfig
	Intake        IntakeConfig
	Queue         QueueConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for source document storage.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorConfig holds settings for the external text-extraction service
// and the whole-document validation gates applied around it.
type ExtractorConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	TimeoutSecs   int    `mapstructure:"timeout_secs"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	MinTextChars  int    `mapstructure:"min_text_chars"`
}

// UnderstandingProviderConfig holds settings for a single text-understanding
// provider.
type UnderstandingProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// UnderstandingConfig holds text-understanding service settings with
// multi-provider fallback support.
type UnderstandingConfig struct {
	Primary   UnderstandingProviderConfig `mapstructure:"primary"`
	Secondary UnderstandingProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (u *UnderstandingConfig) SecondaryConfig() *UnderstandingProviderConfig {
	if u.Secondary.Provider != "" {
		return &u.Secondary
	}
	return nil
}

// IntakeConfig holds the pipeline's tunable thresholds. The segmentation
// heuristics are deliberately configuration rather than constants.
type IntakeConfig struct {
	FuzzyMatchThreshold float64       `mapstructure:"fuzzy_match_threshold"`
	LinkWindow          time.Duration `mapstructure:"link_window"`
	MaxSectionChars     int           `mapstructure:"max_section_chars"`
	MinChunkChars       int           `mapstructure:"min_chunk_chars"`
	Concurrency         int           `mapstructure:"concurrency"`
}

// QueueConfig holds import queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// Load reads configuration from environment variables with the NOTEFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("NOTEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "noteflow")
	v.SetDefault("db.password", "noteflow_secret")
	v.SetDefault("db.name", "noteflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "noteflow-documents")
	v.SetDefault("s3.endpoint", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.endpoint", "http://localhost:9090/v1/extract")
	v.SetDefault("extractor.timeout_secs", 60)
	v.SetDefault("extractor.max_file_size_mb", 50)
	v.SetDefault("extractor.min_text_chars", 50)

	// Understanding provider defaults
	v.SetDefault("understanding.primary.provider", "openai")
	v.SetDefault("understanding.primary.api_key", "")
	v.SetDefault("understanding.primary.default_model", "gpt-4o")
	v.SetDefault("understanding.primary.timeout_secs", 120)
	v.SetDefault("understanding.secondary.provider", "")
	v.SetDefault("understanding.secondary.api_key", "")
	v.SetDefault("understanding.secondary.default_model", "")
	v.SetDefault("understanding.secondary.timeout_secs", 120)

	// Intake defaults
	v.SetDefault("intake.fuzzy_match_threshold", 0.8)
	v.SetDefault("intake.link_window", "24h")
	v.SetDefault("intake.max_section_chars", 12000)
	v.SetDefault("intake.min_chunk_chars", 100)
	v.SetDefault("intake.concurrency", 1)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 3)
	v.SetDefault("queue.concurrency", 2)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                           "NOTEFLOW_SERVER_PORT",
		"server.read_timeout":                   "NOTEFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":                  "NOTEFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":                    "NOTEFLOW_SERVER_ENVIRONMENT",
		"db.host":                               "NOTEFLOW_DB_HOST",
		"db.port":                               "NOTEFLOW_DB_PORT",
		"db.user":                               "NOTEFLOW_DB_USER",
		"db.password":                           "NOTEFLOW_DB_PASSWORD",
		"db.name":                               "NOTEFLOW_DB_NAME",
		"db.sslmode":                            "NOTEFLOW_DB_SSLMODE",
		"db.max_open":                           "NOTEFLOW_DB_MAX_OPEN",
		"db.max_idle":                           "NOTEFLOW_DB_MAX_IDLE",
		"s3.region":                             "NOTEFLOW_S3_REGION",
		"s3.bucket":                             "NOTEFLOW_S3_BUCKET",
		"s3.endpoint":                           "NOTEFLOW_S3_ENDPOINT",
		"s3.access_key":                         "NOTEFLOW_S3_ACCESS_KEY",
		"s3.secret_key":                         "NOTEFLOW_S3_SECRET_KEY",
		"log.level":                             "NOTEFLOW_LOG_LEVEL",
		"log.format":                            "NOTEFLOW_LOG_FORMAT",
		"cors.allowed_origins":                  "NOTEFLOW_CORS_ALLOWED_ORIGINS",
		"extractor.endpoint":                    "NOTEFLOW_EXTRACTOR_ENDPOINT",
		"extractor.timeout_secs":                "NOTEFLOW_EXTRACTOR_TIMEOUT_SECS",
		"extractor.max_file_size_mb":            "NOTEFLOW_EXTRACTOR_MAX_FILE_SIZE_MB",
		"extractor.min_text_chars":              "NOTEFLOW_EXTRACTOR_MIN_TEXT_CHARS",
		"understanding.primary.provider":        "NOTEFLOW_UNDERSTANDING_PRIMARY_PROVIDER",
		"understanding.primary.api_key":         "NOTEFLOW_UNDERSTANDING_PRIMARY_API_KEY",
		"understanding.primary.default_model":   "NOTEFLOW_UNDERSTANDING_PRIMARY_DEFAULT_MODEL",
		"understanding.primary.timeout_secs":    "NOTEFLOW_UNDERSTANDING_PRIMARY_TIMEOUT_SECS",
		"understanding.secondary.provider":      "NOTEFLOW_UNDERSTANDING_SECONDARY_PROVIDER",
		"understanding.secondary.api_key":       "NOTEFLOW_UNDERSTANDING_SECONDARY_API_KEY",
		"understanding.secondary.default_model": "NOTEFLOW_UNDERSTANDING_SECONDARY_DEFAULT_MODEL",
		"understanding.secondary.timeout_secs":  "NOTEFLOW_UNDERSTANDING_SECONDARY_TIMEOUT_SECS",
		"intake.fuzzy_match_threshold":          "NOTEFLOW_INTAKE_FUZZY_MATCH_THRESHOLD",
		"intake.link_window":                    "NOTEFLOW_INTAKE_LINK_WINDOW",
		"intake.max_section_chars":              "NOTEFLOW_INTAKE_MAX_SECTION_CHARS",
		"intake.min_chunk_chars":                "NOTEFLOW_INTAKE_MIN_CHUNK_CHARS",
		"intake.concurrency":                    "NOTEFLOW_INTAKE_CONCURRENCY",
		"queue.poll_interval_secs":              "NOTEFLOW_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":                     "NOTEFLOW_QUEUE_MAX_RETRIES",
		"queue.concurrency":                     "NOTEFLOW_QUEUE_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if NOTEFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("NOTEFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Extractor = ExtractorConfig{
		Endpoint:      v.GetString("extractor.endpoint"),
		TimeoutSecs:   v.GetInt("extractor.timeout_secs"),
		MaxFileSizeMB: v.GetInt64("extractor.max_file_size_mb"),
		MinTextChars:  v.GetInt("extractor.min_text_chars"),
	}
	cfg.Understanding = UnderstandingConfig{
		Primary: UnderstandingProviderConfig{
			Provider:     v.GetString("understanding.primary.provider"),
			APIKey:       v.GetString("understanding.primary.api_key"),
			DefaultModel: v.GetString("understanding.primary.default_model"),
			TimeoutSecs:  v.GetInt("understanding.primary.timeout_secs"),
		},
		Secondary: UnderstandingProviderConfig{
			Provider:     v.GetString("understanding.secondary.provider"),
			APIKey:       v.GetString("understanding.secondary.api_key"),
			DefaultModel: v.GetString("understanding.secondary.default_model"),
			TimeoutSecs:  v.GetInt("understanding.secondary.timeout_secs"),
		},
	}
	cfg.Intake = IntakeConfig{
		FuzzyMatchThreshold: v.GetFloat64("intake.fuzzy_match_threshold"),
		LinkWindow:          v.GetDuration("intake.link_window"),
		MaxSectionChars:     v.GetInt("intake.max_section_chars"),
		MinChunkChars:       v.GetInt("intake.min_chunk_chars"),
		Concurrency:         v.GetInt("intake.concurrency"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	return cfg, nil
}
