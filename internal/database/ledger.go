package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Ledger records applied migrations so a run never re-applies one
type Ledger struct {
	db    *gorm.DB
	table string
}

// NewLedger creates a ledger stored in table. An empty table name means
// DefaultMigrationTable.
func NewLedger(db *gorm.DB, table string) *Ledger {
	if table == "" {
		table = DefaultMigrationTable
	}
	return &Ledger{db: db, table: table}
}

// WithDB returns the same ledger bound to another connection, typically a transaction
func (l *Ledger) WithDB(db *gorm.DB) *Ledger {
	return &Ledger{db: db, table: l.table}
}

// Table returns the ledger table name
func (l *Ledger) Table() string {
	return l.table
}

func (l *Ledger) query(ctx context.Context) *gorm.DB {
	return l.db.WithContext(ctx).Table(l.table)
}

// Initialize creates the ledger table if it does not exist
func (l *Ledger) Initialize(ctx context.Context) error {
	m := l.query(ctx).Migrator()
	if m.HasTable(l.table) {
		return nil
	}
	if err := m.CreateTable(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create %s table: %w", l.table, err)
	}
	return nil
}

// IsApplied checks if a specific migration has already been run
func (l *Ledger) IsApplied(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := l.query(ctx).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}
	return count > 0, nil
}

// Applied returns every applied migration in the order it was applied
func (l *Ledger) Applied(ctx context.Context) ([]MigrationRecord, error) {
	var records []MigrationRecord
	if err := l.query(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	return records, nil
}

// NextBatch returns the batch number for a new run
func (l *Ledger) NextBatch(ctx context.Context) (int, error) {
	var batchNo int
	err := l.query(ctx).Select("COALESCE(MAX(batch_no), 0) + 1").Row().Scan(&batchNo)
	if err != nil {
		return 0, fmt.Errorf("failed to determine batch number: %w", err)
	}
	return batchNo, nil
}

// Record stores a successful migration
func (l *Ledger) Record(ctx context.Context, name, content string, batchNo int) error {
	record := MigrationRecord{
		Name:      name,
		Hash:      Hash(content),
		AppliedAt: time.Now().UTC(),
		BatchNo:   batchNo,
	}
	if err := l.query(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to record migration %s: %w", name, err)
	}
	return nil
}

// Remove deletes the record of a reverted migration
func (l *Ledger) Remove(ctx context.Context, name string) error {
	result := l.query(ctx).Where("name = ?", name).Delete(&MigrationRecord{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("migration %s is not recorded as applied", name)
	}
	return nil
}

// Hash returns the hex sha256 of migration content
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
