package schema

import (
	"fmt"
	"strings"
)

// Column describes a column to add
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
	// Default is a SQL literal or expression, e.g. "0" or "CURRENT_TIMESTAMP".
	Default *string
	// After places the column after another one. Advisory: only rendered
	// when Types.SupportsPosition.
	After string
}

// ColumnInfo is the live shape of a column as reported by the database
type ColumnInfo struct {
	Name         string
	DatabaseType string
	Nullable     bool
	Default      string
	HasDefault   bool
}

// DefaultValue returns a pointer for Column.Default
func DefaultValue(literal string) *string {
	return &literal
}

// definition renders everything after the column name
func (c Column) definition(types Types) (string, error) {
	if c.Name == "" {
		return "", fmt.Errorf("column name is required")
	}
	typeSQL, err := types.SQL(c.Type)
	if err != nil {
		return "", err
	}

	parts := []string{typeSQL}
	if c.Nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}
	if c.Default != nil {
		parts = append(parts, "DEFAULT "+*c.Default)
	}
	return strings.Join(parts, " "), nil
}
