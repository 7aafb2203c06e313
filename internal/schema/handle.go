package schema

import (
	"context"
	"fmt"

	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handle implements Editor on top of a gorm connection
type Handle struct {
	db    *gorm.DB
	types Types
}

// NewHandle creates a handle for db using the registry of its dialect
func NewHandle(db *gorm.DB) *Handle {
	return &Handle{db: db, types: TypesFor(db.Dialector.Name())}
}

// WithDB returns a handle bound to another connection, typically a transaction
func (h *Handle) WithDB(db *gorm.DB) *Handle {
	return &Handle{db: db, types: h.types}
}

// Types returns the type-descriptor registry used to render columns
func (h *Handle) Types() Types {
	return h.types
}

func (h *Handle) migrator(ctx context.Context) gorm.Migrator {
	return h.db.WithContext(ctx).Migrator()
}

func (h *Handle) HasTable(ctx context.Context, table string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.migrator(ctx).HasTable(table), nil
}

func (h *Handle) HasColumn(ctx context.Context, table, column string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return h.migrator(ctx).HasColumn(table, column), nil
}

func (h *Handle) requireTable(ctx context.Context, table string) error {
	ok, err := h.HasTable(ctx, table)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewSchemaConflict(table, "", apperrors.ErrTableNotFound)
	}
	return nil
}

// DescribeColumn reports the live type, nullability and default of a column
func (h *Handle) DescribeColumn(ctx context.Context, table, column string) (*ColumnInfo, error) {
	if err := h.requireTable(ctx, table); err != nil {
		return nil, err
	}
	columnTypes, err := h.migrator(ctx).ColumnTypes(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	for _, ct := range columnTypes {
		if ct.Name() != column {
			continue
		}
		info := &ColumnInfo{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
		if nullable, ok := ct.Nullable(); ok {
			info.Nullable = nullable
		}
		info.Default, info.HasDefault = ct.DefaultValue()
		return info, nil
	}
	return nil, apperrors.NewSchemaConflict(table, column, apperrors.ErrColumnNotFound)
}

// AddColumn adds column to an existing table. The table must exist and the
// column must not.
func (h *Handle) AddColumn(ctx context.Context, table string, column Column) error {
	if err := h.requireTable(ctx, table); err != nil {
		return err
	}
	exists, err := h.HasColumn(ctx, table, column.Name)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewSchemaConflict(table, column.Name, apperrors.ErrColumnExists)
	}

	definition, err := column.definition(h.types)
	if err != nil {
		return fmt.Errorf("invalid column %s.%s: %w", table, column.Name, err)
	}

	sql := "ALTER TABLE ? ADD COLUMN ? " + definition
	args := []interface{}{clause.Table{Name: table}, clause.Column{Name: column.Name}}
	if column.After != "" && h.types.SupportsPosition() {
		sql += " AFTER ?"
		args = append(args, clause.Column{Name: column.After})
	}

	if err := h.db.WithContext(ctx).Exec(sql, args...).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column.Name, err)
	}
	return nil
}

// DropColumn removes column from table. Both must exist.
func (h *Handle) DropColumn(ctx context.Context, table, column string) error {
	if err := h.requireTable(ctx, table); err != nil {
		return err
	}
	exists, err := h.HasColumn(ctx, table, column)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewSchemaConflict(table, column, apperrors.ErrColumnNotFound)
	}

	err = h.db.WithContext(ctx).Exec("ALTER TABLE ? DROP COLUMN ?", clause.Table{Name: table}, clause.Column{Name: column}).Error
	if err != nil {
		return fmt.Errorf("failed to drop column %s.%s: %w", table, column, err)
	}
	return nil
}

func (h *Handle) tableOf(model interface{}) (string, error) {
	stmt := &gorm.Statement{DB: h.db}
	if err := stmt.Parse(model); err != nil {
		return "", fmt.Errorf("failed to parse model: %w", err)
	}
	return stmt.Schema.Table, nil
}

// CreateTable creates the table, indexes and constraints declared by model.
// The table must not exist yet.
func (h *Handle) CreateTable(ctx context.Context, model interface{}) error {
	table, err := h.tableOf(model)
	if err != nil {
		return err
	}
	exists, err := h.HasTable(ctx, table)
	if err != nil {
		return err
	}
	if exists {
		return apperrors.NewSchemaConflict(table, "", apperrors.ErrTableExists)
	}
	if err := h.migrator(ctx).CreateTable(model); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

// DropTable drops the table declared by model. The table must exist.
func (h *Handle) DropTable(ctx context.Context, model interface{}) error {
	table, err := h.tableOf(model)
	if err != nil {
		return err
	}
	if err := h.requireTable(ctx, table); err != nil {
		return err
	}
	if err := h.migrator(ctx).DropTable(model); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	return nil
}

// ReadColumn returns every (key, column) pair of table ordered by key
func (h *Handle) ReadColumn(ctx context.Context, table, key, column string) ([]map[string]interface{}, error) {
	if err := h.requireTable(ctx, table); err != nil {
		return nil, err
	}
	var rows []map[string]interface{}
	err := h.db.WithContext(ctx).
		Table(table).
		Select([]string{key, column}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: key}}).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read %s.%s: %w", table, column, err)
	}
	return rows, nil
}
