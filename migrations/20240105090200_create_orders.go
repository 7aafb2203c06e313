package migrations

import (
	"context"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

type orderV1 struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"not null;index"`
	User       userV1    `gorm:"constraint:OnDelete:RESTRICT"`
	Status     string    `gorm:"size:32;not null;default:'pending'"`
	TotalCents int64     `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (orderV1) TableName() string { return "orders" }

func createOrders() Migration {
	return Migration{
		Name:        "20240105090200-create-orders",
		Description: "Create orders table referencing users",
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.CreateTable(ctx, &orderV1{})
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropTable(ctx, &orderV1{})
		},
	}
}
