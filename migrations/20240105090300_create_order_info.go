package migrations

import (
	"context"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/schema"
)

// orderInfoV1 holds at most one row per order. Rows go away with their order.
type orderInfoV1 struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	OrderID   uint64    `gorm:"not null;uniqueIndex"`
	Order     orderV1   `gorm:"constraint:OnDelete:CASCADE"`
	Info      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (orderInfoV1) TableName() string { return "order_info" }

func createOrderInfo() Migration {
	return Migration{
		Name:        "20240105090300-create-order-info",
		Description: "Create order_info table, one row per order",
		Up: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.CreateTable(ctx, &orderInfoV1{})
		},
		Down: func(ctx context.Context, e schema.Editor, _ schema.Types) error {
			return e.DropTable(ctx, &orderInfoV1{})
		},
	}
}
