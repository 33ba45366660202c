package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Output     OutputConfig     `mapstructure:"output"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Security   SecurityConfig   `mapstructure:"security"`
}

type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MaxIdleTime    time.Duration `mapstructure:"max_idle_time"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type RedisConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	URL        string        `mapstructure:"url"`
	MaxRetries int           `mapstructure:"max_retries"`
	PoolSize   int           `mapstructure:"pool_size"`
	Timeout    time.Duration `mapstructure:"timeout"`
	BundleTTL  time.Duration `mapstructure:"bundle_ttl"`
}

type Neo4jConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topics  struct {
		ViewingEvents string `mapstructure:"viewing_events"`
	} `mapstructure:"topics"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SimulationConfig drives the synthetic dataset generator. Two runs with
// the same seed and the same counts produce identical datasets.
type SimulationConfig struct {
	Seed           int64         `mapstructure:"seed"`
	ContentCount   int           `mapstructure:"content_count" validate:"gt=0"`
	UserCount      int           `mapstructure:"user_count" validate:"gt=0"`
	EventCount     int           `mapstructure:"event_count" validate:"gt=0"`
	WindowStart    string        `mapstructure:"window_start" validate:"required"`
	WindowDays     int           `mapstructure:"window_days" validate:"gt=0"`
	SegmentCount   int           `mapstructure:"segment_count" validate:"gt=0"`
	Workers        int           `mapstructure:"workers" validate:"gte=0"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

type OutputConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

type MonitoringConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	MetricsPath string `mapstructure:"metrics_path"`
}

type SecurityConfig struct {
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("app")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, continue with env vars and defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the structural constraints on the loaded configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.Parse("2006-01-02", c.Simulation.WindowStart); err != nil {
		return fmt.Errorf("invalid simulation.window_start: %w", err)
	}
	return nil
}

// WindowStartTime returns the parsed start of the viewing window in UTC.
// Validate guarantees the format, so the error is ignored here.
func (c *SimulationConfig) WindowStartTime() time.Time {
	start, _ := time.Parse("2006-01-02", c.WindowStart)
	return start.UTC()
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.enabled", false)
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "development")

	// Database defaults
	viper.SetDefault("database.enabled", false)
	viper.SetDefault("database.max_connections", 25)
	viper.SetDefault("database.max_idle_time", "15m")
	viper.SetDefault("database.max_lifetime", "1h")
	viper.SetDefault("database.connect_timeout", "10s")

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.timeout", "5s")
	viper.SetDefault("redis.bundle_ttl", "1h")

	// Neo4j and Kafka sinks are opt-in
	viper.SetDefault("neo4j.enabled", false)
	viper.SetDefault("kafka.enabled", false)
	viper.SetDefault("kafka.topics.viewing_events", "viewing-events")

	// Auth defaults
	viper.SetDefault("auth.token_ttl", "24h")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// Simulation defaults mirror the reference dataset shape
	viper.SetDefault("simulation.seed", 42)
	viper.SetDefault("simulation.content_count", 200)
	viper.SetDefault("simulation.user_count", 10000)
	viper.SetDefault("simulation.event_count", 100000)
	viper.SetDefault("simulation.window_start", "2024-01-01")
	viper.SetDefault("simulation.window_days", 60)
	viper.SetDefault("simulation.segment_count", 5)
	viper.SetDefault("simulation.workers", 0)
	viper.SetDefault("simulation.publish_timeout", "30s")

	// Output defaults
	viper.SetDefault("output.enabled", true)
	viper.SetDefault("output.dir", "./output")

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", true)
	viper.SetDefault("monitoring.metrics_path", "/metrics")

	// Security defaults
	viper.SetDefault("security.cors.allowed_origins", []string{"http://localhost:3000"})
	viper.SetDefault("security.cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	viper.SetDefault("security.cors.allowed_headers", []string{"Origin", "Content-Type", "Authorization"})
}
