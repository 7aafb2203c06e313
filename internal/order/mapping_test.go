package order

import (
	"context"
	"testing"

	"github.com/consensuslabs/storefront/backend/internal/mapping"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderInfoMapping(t *testing.T) {
	db := migratedDB(t)
	registry := mapping.NewRegistry(db)

	_, err := registry.Define(DefineOrder)
	require.NoError(t, err)
	info, err := registry.Define(DefineOrderInfo)
	require.NoError(t, err)
	assert.Equal(t, "order_info", info.Table)
	assert.Empty(t, info.Relations, "relations are wired by associate")

	require.NoError(t, registry.Associate())
	require.NoError(t, registry.Associate(), "associate runs hooks once")

	require.Len(t, info.Relations, 1)
	assert.Equal(t, mapping.Relation{
		Kind:       mapping.BelongsTo,
		Name:       "Order",
		Target:     EntityOrder,
		ForeignKey: "order_id",
		Unique:     true,
	}, info.Relations[0])

	orderEntity, ok := registry.Entity(EntityOrder)
	require.True(t, ok)
	require.Len(t, orderEntity.Relations, 1)
	assert.Equal(t, mapping.HasOne, orderEntity.Relations[0].Kind)

	require.NoError(t, registry.Verify(context.Background()))

	_, err = registry.Define(DefineOrder)
	assert.Error(t, err, "no definitions after associate")
}

func TestOrderInfoAssociateRequiresOrder(t *testing.T) {
	registry := mapping.NewRegistry(testhelper.OpenTestDB(t))
	_, err := registry.Define(DefineOrderInfo)
	require.NoError(t, err)

	err = registry.Associate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EntityOrder)
}

func TestDefineTwiceFails(t *testing.T) {
	registry := mapping.NewRegistry(testhelper.OpenTestDB(t))
	_, err := registry.Define(DefineOrder)
	require.NoError(t, err)
	_, err = registry.Define(DefineOrder)
	assert.Error(t, err)
}

func TestVerifyDetectsMissingTable(t *testing.T) {
	registry := mapping.NewRegistry(testhelper.OpenTestDB(t))
	_, err := registry.Define(DefineOrder)
	require.NoError(t, err)
	_, err = registry.Define(DefineOrderInfo)
	require.NoError(t, err)
	require.NoError(t, registry.Associate())

	assert.Error(t, registry.Verify(context.Background()))
}
