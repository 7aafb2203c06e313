package schema

import "context"

// Editor is the schema-mutation handle given to migrations
type Editor interface {
	HasTable(ctx context.Context, table string) (bool, error)
	HasColumn(ctx context.Context, table, column string) (bool, error)
	DescribeColumn(ctx context.Context, table, column string) (*ColumnInfo, error)
	AddColumn(ctx context.Context, table string, column Column) error
	DropColumn(ctx context.Context, table, column string) error
	CreateTable(ctx context.Context, model interface{}) error
	DropTable(ctx context.Context, model interface{}) error
	ReadColumn(ctx context.Context, table, key, column string) ([]map[string]interface{}, error)
}
