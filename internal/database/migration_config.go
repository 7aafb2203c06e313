package database

import (
	"fmt"

	"github.com/consensuslabs/storefront/backend/internal/config"
)

// MigrationConfig decides whether migrations may run in the current environment
type MigrationConfig struct {
	Environment string
	AutoMigrate bool
	ForceRun    bool
	Table       string
}

// NewMigrationConfig derives migration settings from the application config.
// autoMigrate defaults to true in development and test, false elsewhere.
func NewMigrationConfig(cfg *config.Config) *MigrationConfig {
	env := cfg.Environment
	if env == "" {
		env = "development"
	}

	autoMigrate := env == "development" || env == "test"
	if cfg.Migration.AutoMigrate != nil {
		autoMigrate = *cfg.Migration.AutoMigrate
	}

	return &MigrationConfig{
		Environment: env,
		AutoMigrate: autoMigrate,
		ForceRun:    cfg.Migration.Force,
		Table:       cfg.Migration.TableName,
	}
}

// ShouldRunMigration determines if migrations should be executed
func (c *MigrationConfig) ShouldRunMigration() bool {
	if c.ForceRun {
		return true
	}

	if c.Environment == "development" || c.Environment == "test" {
		return c.AutoMigrate
	}

	// In production or other environments, don't run migrations unless forced
	return false
}

// Validate returns an error explaining why migrations may not run
func (c *MigrationConfig) Validate() error {
	if c.ShouldRunMigration() {
		return nil
	}
	if c.Environment == "development" || c.Environment == "test" {
		return fmt.Errorf("migrations are disabled in %s environment. Set migration.autoMigrate or use FORCE_MIGRATION=true", c.Environment)
	}
	return fmt.Errorf("migrations are disabled in %s environment. Use FORCE_MIGRATION=true to override", c.Environment)
}
