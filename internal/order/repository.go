package order

import (
	"context"
	"errors"

	"github.com/consensuslabs/storefront/backend/internal/database"
	"gorm.io/gorm"
)

// Common errors
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrInfoNotFound  = errors.New("order info not found")
)

// Repository defines data access for orders and their info
type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	DeleteOrder(ctx context.Context, id uint64) error
	CreateInfo(ctx context.Context, info *OrderInfo) error
	GetInfoByOrderID(ctx context.Context, orderID uint64) (*OrderInfo, error)
	DeleteInfoByOrderID(ctx context.Context, orderID uint64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a gorm backed repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateOrder(ctx context.Context, order *Order) error {
	return database.ClassifyError(r.db.WithContext(ctx).Create(order).Error)
}

func (r *repository) GetOrder(ctx context.Context, id uint64) (*Order, error) {
	var order Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order. Its info row goes with it through the
// ON DELETE CASCADE on order_info.order_id.
func (r *repository) DeleteOrder(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&Order{}, id)
	if result.Error != nil {
		return database.ClassifyError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// CreateInfo inserts a row. A second row for the same order is a unique
// violation and a missing order a foreign-key violation.
func (r *repository) CreateInfo(ctx context.Context, info *OrderInfo) error {
	return database.ClassifyError(r.db.WithContext(ctx).Omit("Order").Create(info).Error)
}

func (r *repository) GetInfoByOrderID(ctx context.Context, orderID uint64) (*OrderInfo, error) {
	var info OrderInfo
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInfoNotFound
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repository) DeleteInfoByOrderID(ctx context.Context, orderID uint64) error {
	result := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&OrderInfo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInfoNotFound
	}
	return nil
}
