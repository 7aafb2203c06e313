package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/consensuslabs/storefront/backend/internal/cache"
	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"github.com/consensuslabs/storefront/backend/internal/logger"
	"github.com/consensuslabs/storefront/backend/internal/metrics"
)

// Service defines order info operations
type Service interface {
	GetOrder(ctx context.Context, id uint64) (*Order, error)
	DeleteOrder(ctx context.Context, id uint64) error
	GetInfo(ctx context.Context, orderID uint64) (*OrderInfo, error)
	CreateInfo(ctx context.Context, orderID uint64, info string) (*OrderInfo, error)
	DeleteInfo(ctx context.Context, orderID uint64) error
}

// ServiceConfig holds cache settings
type ServiceConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

type serviceImpl struct {
	repo    Repository
	cache   cache.Service
	metrics *metrics.Collector
	logger  logger.Logger
	config  ServiceConfig
}

// NewService creates an order service. cache and collector may be nil.
func NewService(repo Repository, c cache.Service, collector *metrics.Collector, log logger.Logger, cfg ServiceConfig) Service {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "storefront"
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &serviceImpl{
		repo:    repo,
		cache:   c,
		metrics: collector,
		logger:  log,
		config:  cfg,
	}
}

func (s *serviceImpl) cacheKey(orderID uint64) string {
	return fmt.Sprintf("%s:order_info:%d", s.config.KeyPrefix, orderID)
}

func (s *serviceImpl) lookup(result string) {
	if s.metrics != nil {
		s.metrics.CacheHit(result)
	}
}

func (s *serviceImpl) GetOrder(ctx context.Context, id uint64) (*Order, error) {
	if id == 0 {
		return nil, apperrors.NewValidationError("id", apperrors.ErrMsgInvalidOrderID)
	}
	return s.repo.GetOrder(ctx, id)
}

// DeleteOrder removes an order and, by cascade, its info. The cached info is
// evicted here; deletes made outside this service stay visible in the cache
// for at most the configured TTL.
func (s *serviceImpl) DeleteOrder(ctx context.Context, id uint64) error {
	if id == 0 {
		return apperrors.NewValidationError("id", apperrors.ErrMsgInvalidOrderID)
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.logger.LogInfo("Order deleted", map[string]interface{}{
		"orderId": id,
	})
	s.evict(ctx, id)
	return nil
}

// GetInfo reads through the cache. Rows are immutable so a cached copy
// stays valid until the row is deleted.
func (s *serviceImpl) GetInfo(ctx context.Context, orderID uint64) (*OrderInfo, error) {
	if orderID == 0 {
		return nil, apperrors.NewValidationError("id", apperrors.ErrMsgInvalidOrderID)
	}

	key := s.cacheKey(orderID)
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key)
		switch {
		case err == nil:
			var info OrderInfo
			if jsonErr := json.Unmarshal([]byte(raw), &info); jsonErr == nil {
				s.lookup("hit")
				return &info, nil
			}
			s.lookup("error")
		case errors.Is(err, cache.ErrMiss):
			s.lookup("miss")
		default:
			s.lookup("error")
			s.logger.LogWarn("Order info cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	info, err := s.repo.GetInfoByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, info)
	return info, nil
}

func (s *serviceImpl) store(ctx context.Context, key string, info *OrderInfo) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.TTL); err != nil {
		s.logger.LogWarn("Order info cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

// CreateInfo records info for an order. It never overwrites an existing row.
func (s *serviceImpl) CreateInfo(ctx context.Context, orderID uint64, info string) (*OrderInfo, error) {
	if orderID == 0 {
		return nil, apperrors.NewValidationError("id", apperrors.ErrMsgInvalidOrderID)
	}
	if strings.TrimSpace(info) == "" {
		return nil, apperrors.NewValidationError("info", apperrors.ErrMsgInfoRequired)
	}

	row := &OrderInfo{OrderID: orderID, Info: info}
	if err := s.repo.CreateInfo(ctx, row); err != nil {
		return nil, err
	}
	s.logger.LogInfo("Order info recorded", map[string]interface{}{
		"orderId": orderID,
		"id":      row.ID,
	})
	s.store(ctx, s.cacheKey(orderID), row)
	return row, nil
}

// DeleteInfo removes the row and evicts the cached copy
func (s *serviceImpl) DeleteInfo(ctx context.Context, orderID uint64) error {
	if orderID == 0 {
		return apperrors.NewValidationError("id", apperrors.ErrMsgInvalidOrderID)
	}
	if err := s.repo.DeleteInfoByOrderID(ctx, orderID); err != nil {
		return err
	}
	s.evict(ctx, orderID)
	return nil
}

func (s *serviceImpl) evict(ctx context.Context, orderID uint64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey(orderID)); err != nil {
		s.logger.LogWarn("Order info cache eviction failed", map[string]interface{}{
			"orderId": orderID,
			"error":   err.Error(),
		})
	}
}
