package mapping

import (
	"github.com/consensuslabs/storefront/backend/internal/schema"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

// RelationKind is the cardinality of a relation from the owning entity's side
type RelationKind string

const (
	BelongsTo RelationKind = "belongs_to"
	HasOne    RelationKind = "has_one"
)

// Relation describes a foreign-key relationship of an entity
type Relation struct {
	Kind       RelationKind
	Name       string // field name on the model, e.g. "Order"
	Target     string // entity name
	ForeignKey string // column holding the key
	Unique     bool
}

// Entity describes one table's row shape and relationships
type Entity struct {
	Name  string
	Table string
	Model interface{}
	// PrimaryKey is checked for presence only; its nullability is dialect specific
	PrimaryKey string
	Columns    []schema.Column
	Relations  []Relation

	// Associate wires relations once every entity is defined
	Associate func(entities map[string]*Entity) error

	// Schema is gorm's parsed form of Model
	Schema *gormschema.Schema
}

// Definer registers an entity for a connection and a dialect's types
type Definer func(db *gorm.DB, types schema.Types) (*Entity, error)
