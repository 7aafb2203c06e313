package order

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/consensuslabs/storefront/backend/internal/cache"
	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"github.com/consensuslabs/storefront/backend/internal/metrics"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc     Service
	repo    Repository
	mr      *miniredis.Miniredis
	metrics *metrics.Collector
}

func newServiceFixture(t *testing.T) serviceFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := NewRepository(migratedDB(t))
	collector := metrics.NewCollector()
	svc := NewService(repo, cache.NewRedisServiceWithClient(client), collector, testhelper.NewTestLogger(false), ServiceConfig{
		TTL:       time.Hour,
		KeyPrefix: "test",
	})
	return serviceFixture{svc: svc, repo: repo, mr: mr, metrics: collector}
}

func TestServiceReadThroughCache(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	o := createOrder(t, f.repo)

	// written by another process, so the cache starts cold
	require.NoError(t, f.repo.CreateInfo(ctx, &OrderInfo{OrderID: o.ID, Info: "leave at door"}))

	got, err := f.svc.GetInfo(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "leave at door", got.Info)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("miss")))

	key := "test:order_info:" + itoa(o.ID)
	assert.True(t, f.mr.Exists(key))
	assert.Equal(t, time.Hour, f.mr.TTL(key))

	got, err = f.svc.GetInfo(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "leave at door", got.Info)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("hit")))

	require.NoError(t, f.svc.DeleteInfo(ctx, o.ID))
	assert.False(t, f.mr.Exists(key))

	_, err = f.svc.GetInfo(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInfoNotFound)
}

func TestServiceDeleteOrderEvictsInfo(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	o := createOrder(t, f.repo)

	_, err := f.svc.CreateInfo(ctx, o.ID, "gift")
	require.NoError(t, err)
	key := "test:order_info:" + itoa(o.ID)
	require.True(t, f.mr.Exists(key))

	require.NoError(t, f.svc.DeleteOrder(ctx, o.ID))
	assert.False(t, f.mr.Exists(key))

	_, err = f.svc.GetInfo(ctx, o.ID)
	assert.ErrorIs(t, err, ErrInfoNotFound)

	assert.ErrorIs(t, f.svc.DeleteOrder(ctx, o.ID), ErrOrderNotFound)

	var validation *apperrors.ValidationError
	assert.ErrorAs(t, f.svc.DeleteOrder(ctx, 0), &validation)
}

func TestServiceCreateInfo(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	o := createOrder(t, f.repo)

	created, err := f.svc.CreateInfo(ctx, o.ID, "fragile")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, f.mr.Exists("test:order_info:"+itoa(o.ID)))

	_, err = f.svc.CreateInfo(ctx, o.ID, "overwrite attempt")
	assert.True(t, apperrors.IsConstraint(err, apperrors.ConstraintUnique))

	got, err := f.svc.GetInfo(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "fragile", got.Info, "existing info is never overwritten")
}

func TestServiceValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewRepository(migratedDB(t)), nil, nil, nil, ServiceConfig{})

	var validation *apperrors.ValidationError

	_, err := svc.CreateInfo(ctx, 1, "   ")
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "info", validation.Field)

	_, err = svc.GetInfo(ctx, 0)
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "id", validation.Field)

	assert.Error(t, svc.DeleteInfo(ctx, 0))
}

func TestServiceWithoutCache(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(migratedDB(t))
	svc := NewService(repo, nil, nil, nil, ServiceConfig{})
	o := createOrder(t, repo)

	_, err := svc.CreateInfo(ctx, o.ID, "no cache")
	require.NoError(t, err)

	got, err := svc.GetInfo(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "no cache", got.Info)
}

func TestServiceSurvivesCacheOutage(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)
	o := createOrder(t, f.repo)
	require.NoError(t, f.repo.CreateInfo(ctx, &OrderInfo{OrderID: o.ID, Info: "x"}))

	f.mr.SetError("server down")
	got, err := f.svc.GetInfo(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Info)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("error")))
}

func itoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}
