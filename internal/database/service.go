package database

import (
	"fmt"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var _ Service = (*DatabaseService)(nil)

// DatabaseService implements the Service interface
type DatabaseService struct {
	config *config.DatabaseConfig
	logger Logger
	db     *gorm.DB
}

// NewDatabaseService creates a new database service instance
func NewDatabaseService(config *config.DatabaseConfig, logger Logger) *DatabaseService {
	return &DatabaseService{
		config: config,
		logger: logger,
	}
}

// Dialector returns the GORM dialector for the configured driver
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
			cfg.Host,
			cfg.User,
			cfg.Password,
			cfg.Dbname,
			cfg.Port,
			cfg.Sslmode,
			cfg.Timezone,
		)
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(config.SQLiteDSN(cfg.Path)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Connect establishes a connection to the database
func (s *DatabaseService) Connect() (*gorm.DB, error) {
	s.logger.LogInfo("Attempting to connect to database", map[string]interface{}{
		"driver": s.config.Driver,
		"host":   s.config.Host,
		"dbname": s.config.Dbname,
		"path":   s.config.Path,
	})

	dialector, err := Dialector(s.config)
	if err != nil {
		return nil, err
	}

	slowQuery := s.config.SlowQuery
	if slowQuery == 0 {
		slowQuery = 200 * time.Millisecond
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(s.logger, slowQuery),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if s.config.Driver == DriverSQLite {
		// SQLite allows one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		if s.config.Pool.MaxOpen > 0 {
			sqlDB.SetMaxOpenConns(s.config.Pool.MaxOpen)
		}
		if s.config.Pool.MaxIdle > 0 {
			sqlDB.SetMaxIdleConns(s.config.Pool.MaxIdle)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s.db = db
	s.logger.LogInfo("Successfully connected to database", map[string]interface{}{
		"driver": db.Dialector.Name(),
	})
	return db, nil
}

// Close closes the database connection
func (s *DatabaseService) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}
