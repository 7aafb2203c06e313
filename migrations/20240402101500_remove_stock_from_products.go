package migrations

import (
	"context"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

// removeStockFromProducts drops products.stock. Down restores the column but
// every row reads 0 afterwards.
func removeStockFromProducts() Migration {
	return Migration{
		Name:        "20240402101500-remove-stock-from-products",
		Description: "Drop products.stock; down re-adds it as not null default 0",
		Lossy:       true,
		Archive: []ArchiveSpec{
			{Table: "products", Key: "id", Column: "stock"},
		},
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropColumn(ctx, "products", "stock")
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.AddColumn(ctx, "products", schema.Column{
				Name:    "stock",
				Type:    schema.Integer,
				Default: schema.DefaultValue("0"),
			})
		},
	}
}
