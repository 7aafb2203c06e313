package order

import (
	"fmt"

	"github.com/consensuslabs/storefront/backend/internal/mapping"
	"github.com/consensuslabs/storefront/backend/internal/schema"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
)

// Entity names
const (
	EntityOrder     = "Order"
	EntityOrderInfo = "OrderInfo"
)

func checkTypes(types schema.Types, columns []schema.Column) error {
	for _, c := range columns {
		if _, err := types.SQL(c.Type); err != nil {
			return fmt.Errorf("column %s: %w", c.Name, err)
		}
	}
	return nil
}

// DefineOrder registers the orders table
func DefineOrder(db *gorm.DB, types schema.Types) (*mapping.Entity, error) {
	parsed, err := mapping.Parse(db, &Order{})
	if err != nil {
		return nil, err
	}
	columns := []schema.Column{
		{Name: "id", Type: schema.BigIntUnsigned},
		{Name: "user_id", Type: schema.BigIntUnsigned},
		{Name: "status", Type: schema.String, Default: schema.DefaultValue("'pending'")},
		{Name: "total_cents", Type: schema.Integer, Default: schema.DefaultValue("0")},
		{Name: "created_at", Type: schema.Date},
		{Name: "updated_at", Type: schema.Date},
	}
	if err := checkTypes(types, columns); err != nil {
		return nil, err
	}
	return &mapping.Entity{
		Name:       EntityOrder,
		Table:      parsed.Table,
		Model:      &Order{},
		Schema:     parsed,
		PrimaryKey: "id",
		Columns:    columns,
	}, nil
}

// DefineOrderInfo registers order_info. Its associate hook wires the
// belongs-to Order relation through order_id.
func DefineOrderInfo(db *gorm.DB, types schema.Types) (*mapping.Entity, error) {
	parsed, err := mapping.Parse(db, &OrderInfo{})
	if err != nil {
		return nil, err
	}
	columns := []schema.Column{
		{Name: "id", Type: schema.BigIntUnsigned},
		{Name: "order_id", Type: schema.BigIntUnsigned},
		{Name: "info", Type: schema.Text},
		{Name: "created_at", Type: schema.Date, Default: schema.DefaultValue("CURRENT_TIMESTAMP")},
	}
	if err := checkTypes(types, columns); err != nil {
		return nil, err
	}

	entity := &mapping.Entity{
		Name:       EntityOrderInfo,
		Table:      parsed.Table,
		Model:      &OrderInfo{},
		Schema:     parsed,
		PrimaryKey: "id",
		Columns:    columns,
	}
	entity.Associate = func(entities map[string]*mapping.Entity) error {
		target, ok := entities[EntityOrder]
		if !ok {
			return fmt.Errorf("%s belongs to %s, which is not defined", EntityOrderInfo, EntityOrder)
		}

		rel, ok := parsed.Relationships.Relations["Order"]
		if !ok || rel.Type != gormschema.BelongsTo {
			return fmt.Errorf("%s.Order is not a belongs-to relation", EntityOrderInfo)
		}
		if len(rel.References) != 1 || rel.References[0].ForeignKey.DBName != "order_id" {
			return fmt.Errorf("%s.Order must reference %s through order_id", EntityOrderInfo, target.Table)
		}
		if rel.FieldSchema.Table != target.Table {
			return fmt.Errorf("%s.Order targets %s, want %s", EntityOrderInfo, rel.FieldSchema.Table, target.Table)
		}

		if !hasUniqueIndex(parsed, "order_id") {
			return fmt.Errorf("%s.order_id must be unique for a one-to-one relation", EntityOrderInfo)
		}

		entity.Relations = append(entity.Relations, mapping.Relation{
			Kind:       mapping.BelongsTo,
			Name:       "Order",
			Target:     EntityOrder,
			ForeignKey: "order_id",
			Unique:     true,
		})
		target.Relations = append(target.Relations, mapping.Relation{
			Kind:       mapping.HasOne,
			Name:       "Info",
			Target:     EntityOrderInfo,
			ForeignKey: "order_id",
			Unique:     true,
		})
		return nil
	}
	return entity, nil
}

func hasUniqueIndex(s *gormschema.Schema, column string) bool {
	for _, idx := range s.ParseIndexes() {
		if idx.Class != "UNIQUE" || len(idx.Fields) != 1 {
			continue
		}
		if idx.Fields[0].DBName == column {
			return true
		}
	}
	return false
}
