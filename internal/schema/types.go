package schema

import "fmt"

// ColumnType is a dialect-independent column type descriptor
type ColumnType string

const (
	Integer        ColumnType = "integer"
	BigIntUnsigned ColumnType = "bigint_unsigned"
	Text           ColumnType = "text"
	String         ColumnType = "string"
	Boolean        ColumnType = "boolean"
	Date           ColumnType = "date" // date and time of day
)

// Types is the type-descriptor registry of one SQL dialect
type Types interface {
	Dialect() string
	SQL(t ColumnType) (string, error)
	// SupportsPosition reports whether ADD COLUMN honours a positional hint.
	SupportsPosition() bool
	// TransactionalDDL reports whether schema changes can be rolled back.
	TransactionalDDL() bool
}

type dialectTypes struct {
	dialect       string
	names         map[ColumnType]string
	position      bool
	transactional bool
}

var registries = map[string]*dialectTypes{
	"postgres": {
		dialect: "postgres",
		names: map[ColumnType]string{
			Integer:        "integer",
			BigIntUnsigned: "bigint",
			Text:           "text",
			String:         "varchar(255)",
			Boolean:        "boolean",
			Date:           "timestamptz",
		},
		transactional: true,
	},
	"sqlite": {
		dialect: "sqlite",
		names: map[ColumnType]string{
			Integer:        "integer",
			BigIntUnsigned: "integer",
			Text:           "text",
			String:         "text",
			Boolean:        "numeric",
			Date:           "datetime",
		},
		transactional: true,
	},
	"mysql": {
		dialect: "mysql",
		names: map[ColumnType]string{
			Integer:        "int",
			BigIntUnsigned: "bigint unsigned",
			Text:           "text",
			String:         "varchar(255)",
			Boolean:        "boolean",
			Date:           "datetime(3)",
		},
		position: true,
	},
}

// TypesFor returns the registry for a gorm dialector name. Unknown dialects
// get postgres names.
func TypesFor(dialect string) Types {
	if t, ok := registries[dialect]; ok {
		return t
	}
	return registries["postgres"]
}

func (d *dialectTypes) Dialect() string {
	return d.dialect
}

func (d *dialectTypes) SQL(t ColumnType) (string, error) {
	name, ok := d.names[t]
	if !ok {
		return "", fmt.Errorf("column type %q is not supported by %s", t, d.dialect)
	}
	return name, nil
}

func (d *dialectTypes) SupportsPosition() bool {
	return d.position
}

func (d *dialectTypes) TransactionalDDL() bool {
	return d.transactional
}
