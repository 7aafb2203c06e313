package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ConfigService implements the Service interface
type ConfigService struct {
	logger Logger
}

// NewConfigService creates a new configuration service
func NewConfigService(logger Logger) *ConfigService {
	return &ConfigService{
		logger: logger,
	}
}

// Load loads the configuration from the specified path. Environment
// variables override file values, with dots replaced by underscores
// (DATABASE_PASSWORD overrides database.password).
func (s *ConfigService) Load(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	if os.Getenv("ENV") == "test" {
		v.SetConfigName("config_test")
	} else {
		v.SetConfigName("config")
	}
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		s.logger.LogInfo("No config file found, using defaults and environment", map[string]interface{}{
			"path": path,
		})
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if env := os.Getenv("ENV"); env != "" {
		config.Environment = env
	}

	if err := s.validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s.logger.LogInfo("Configuration loaded successfully", map[string]interface{}{
		"environment": config.Environment,
		"driver":      config.Database.Driver,
	})
	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdownTimeout", "30s")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "UTC")
	v.SetDefault("database.path", "storefront.db")
	v.SetDefault("database.slowQuery", "200ms")
	v.SetDefault("database.pool.maxOpen", 100)
	v.SetDefault("database.pool.maxIdle", 10)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("cache.orderInfoTTL", "1h")
	v.SetDefault("cache.keyPrefix", "storefront")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.accessKeyId", "")
	v.SetDefault("archive.secretAccessKey", "")
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.prefix", "migrations/")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("migration.tableName", "schema_migrations")
}

// validate performs validation on the configuration
func (s *ConfigService) validate(config *Config) error {
	if config.Server.Port <= 0 {
		return fmt.Errorf("invalid server port")
	}

	switch config.Database.Driver {
	case "postgres":
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if config.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if config.Database.Dbname == "" {
			return fmt.Errorf("database name is required")
		}
		if config.Database.Port <= 0 {
			return fmt.Errorf("invalid database port")
		}
	case "sqlite":
		if config.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Archive.Enabled && config.Archive.Bucket == "" {
		return fmt.Errorf("archive bucket is required when archiving is enabled")
	}

	return nil
}
