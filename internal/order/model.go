package order

import (
	"time"
)

// Order is a customer order
type Order struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint64    `gorm:"not null;index" json:"userId"`
	Status     string    `gorm:"size:32;not null;default:'pending'" json:"status"`
	TotalCents int64     `gorm:"not null;default:0" json:"totalCents"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"not null" json:"updatedAt"`
}

func (Order) TableName() string { return "orders" }

// OrderInfo is free-text auxiliary data recorded once per order.
// Rows are never updated.
type OrderInfo struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint64    `gorm:"not null;uniqueIndex" json:"orderId"`
	Order     *Order    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Info      string    `gorm:"type:text;not null" json:"info"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

func (OrderInfo) TableName() string { return "order_info" }
