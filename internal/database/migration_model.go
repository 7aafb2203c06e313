package database

import "time"

// DefaultMigrationTable is the ledger table used when none is configured
const DefaultMigrationTable = "schema_migrations"

// MigrationRecord tracks which migrations have been executed
type MigrationRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"` // Migration name
	Hash      string    `gorm:"size:64;not null"`              // Hash of migration description for integrity
	AppliedAt time.Time `gorm:"not null"`
	BatchNo   int       `gorm:"not null"` // Batch number for grouping migrations
}

// TableName specifies the table name for migration records
func (MigrationRecord) TableName() string {
	return DefaultMigrationTable
}
