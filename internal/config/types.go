package config

import (
	"fmt"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/logger"
)

// Config represents the application configuration
type Config struct {
	Environment string          `mapstructure:"environment" yaml:"environment"`
	Server      ServerConfig    `mapstructure:"server" yaml:"server"`
	Database    DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Redis       RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Cache       CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Archive     ArchiveConfig   `mapstructure:"archive" yaml:"archive"`
	Logging     logger.Config   `mapstructure:"logging" yaml:"logging"`
	Migration   MigrationConfig `mapstructure:"migration" yaml:"migration"`
}

// ServerConfig represents server configuration settings
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

// DatabaseConfig represents database configuration settings
type DatabaseConfig struct {
	Driver    string        `mapstructure:"driver"`
	Host      string        `mapstructure:"host"`
	User      string        `mapstructure:"user"`
	Password  string        `mapstructure:"password"`
	Dbname    string        `mapstructure:"dbname"`
	Port      int           `mapstructure:"port"`
	Sslmode   string        `mapstructure:"sslmode"`
	Timezone  string        `mapstructure:"timezone"`
	Path      string        `mapstructure:"path"` // sqlite file
	SlowQuery time.Duration `mapstructure:"slowQuery"`
	Pool      struct {
		MaxOpen int `mapstructure:"maxOpen"`
		MaxIdle int `mapstructure:"maxIdle"`
	} `mapstructure:"pool"`
}

// RedisConfig represents Redis configuration settings
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls caching of order info reads
type CacheConfig struct {
	OrderInfoTTL time.Duration `mapstructure:"orderInfoTTL"`
	KeyPrefix    string        `mapstructure:"keyPrefix"`
}

// ArchiveConfig represents the S3 bucket that receives values dropped by
// lossy migrations
type ArchiveConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"accessKeyId"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	UseSSL          bool   `mapstructure:"useSSL"`
	Region          string `mapstructure:"region"`
	Bucket          string `mapstructure:"bucket"`
	Prefix          string `mapstructure:"prefix"`
}

// MigrationConfig controls when and how migrations run
type MigrationConfig struct {
	AutoMigrate *bool  `mapstructure:"autoMigrate"`
	Force       bool   `mapstructure:"force"`
	TableName   string `mapstructure:"tableName"`
}

// SQLiteDSN builds the sqlite connection string for path. Foreign keys are
// enabled since SQLite leaves them off by default.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
}
