package migrations

import (
	"context"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

type productV1 struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	SKU        string    `gorm:"column:sku;size:64;not null;uniqueIndex"`
	Name       string    `gorm:"size:255;not null"`
	PriceCents int64     `gorm:"not null;default:0"`
	Stock      int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (productV1) TableName() string { return "products" }

func createProducts() Migration {
	return Migration{
		Name:        "20240105090100-create-products",
		Description: "Create products table",
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.CreateTable(ctx, &productV1{})
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropTable(ctx, &productV1{})
		},
	}
}
