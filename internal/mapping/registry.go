package mapping

import (
	"context"
	"errors"
	"fmt"

	"github.com/consensuslabs/storefront/backend/internal/schema"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

// Registry holds the entity descriptors of one connection
type Registry struct {
	db         *gorm.DB
	types      schema.Types
	order      []string
	entities   map[string]*Entity
	associated bool
}

// NewRegistry creates an empty registry for db
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{
		db:       db,
		types:    schema.TypesFor(db.Dialector.Name()),
		entities: make(map[string]*Entity),
	}
}

// Parse returns gorm's schema for model
func Parse(db *gorm.DB, model interface{}) (*gormschema.Schema, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("failed to parse model %T: %w", model, err)
	}
	return stmt.Schema, nil
}

// Define runs def and stores its entity. Names must be unique.
func (r *Registry) Define(def Definer) (*Entity, error) {
	if r.associated {
		return nil, errors.New("cannot define entities after associate")
	}
	entity, err := def(r.db, r.types)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, errors.New("definer returned no entity")
	}
	if entity.Name == "" {
		return nil, errors.New("entity name is required")
	}
	if _, exists := r.entities[entity.Name]; exists {
		return nil, fmt.Errorf("entity %s already defined", entity.Name)
	}
	if entity.Schema == nil && entity.Model != nil {
		parsed, err := Parse(r.db, entity.Model)
		if err != nil {
			return nil, err
		}
		entity.Schema = parsed
	}
	if entity.Table == "" && entity.Schema != nil {
		entity.Table = entity.Schema.Table
	}

	r.entities[entity.Name] = entity
	r.order = append(r.order, entity.Name)
	return entity, nil
}

// Associate runs every entity's hook once, in definition order
func (r *Registry) Associate() error {
	if r.associated {
		return nil
	}
	for _, name := range r.order {
		entity := r.entities[name]
		if entity.Associate == nil {
			continue
		}
		if err := entity.Associate(r.entities); err != nil {
			return fmt.Errorf("failed to associate %s: %w", name, err)
		}
	}
	r.associated = true
	return nil
}

// Entity returns a defined entity by name
func (r *Registry) Entity(name string) (*Entity, bool) {
	e, ok := r.entities[name]
	return e, ok
}

// Names returns entity names in definition order
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Verify checks that the live schema has every declared column with the
// declared nullability
func (r *Registry) Verify(ctx context.Context) error {
	handle := schema.NewHandle(r.db)
	var errs []error
	for _, name := range r.order {
		entity := r.entities[name]
		for _, col := range entity.Columns {
			info, err := handle.DescribeColumn(ctx, entity.Table, col.Name)
			if err != nil {
				errs = append(errs, fmt.Errorf("entity %s: %w", name, err))
				continue
			}
			if col.Name != entity.PrimaryKey && info.Nullable != col.Nullable {
				errs = append(errs, fmt.Errorf("entity %s: column %s.%s nullable=%t, declared %t",
					name, entity.Table, col.Name, info.Nullable, col.Nullable))
			}
		}
	}
	return errors.Join(errs...)
}
