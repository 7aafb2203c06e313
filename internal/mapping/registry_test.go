package mapping

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/consensuslabs/storefront/backend/internal/errors"
	"github.com/consensuslabs/storefront/backend/internal/schema"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type widget struct {
	ID    uint64 `gorm:"primaryKey"`
	Label string `gorm:"not null"`
	Note  *string
}

func (widget) TableName() string { return "widgets" }

func defineWidget(columns ...schema.Column) Definer {
	return func(db *gorm.DB, types schema.Types) (*Entity, error) {
		return &Entity{
			Name:       "Widget",
			Model:      &widget{},
			PrimaryKey: "id",
			Columns:    columns,
		}, nil
	}
}

func TestDefineParsesModel(t *testing.T) {
	registry := NewRegistry(testhelper.OpenTestDB(t))

	entity, err := registry.Define(defineWidget())
	require.NoError(t, err)
	assert.Equal(t, "widgets", entity.Table)
	require.NotNil(t, entity.Schema)
	assert.Equal(t, []string{"Widget"}, registry.Names())

	got, ok := registry.Entity("Widget")
	require.True(t, ok)
	assert.Same(t, entity, got)
}

func TestDefineRejectsInvalid(t *testing.T) {
	registry := NewRegistry(testhelper.OpenTestDB(t))

	_, err := registry.Define(func(*gorm.DB, schema.Types) (*Entity, error) {
		return &Entity{}, nil
	})
	assert.Error(t, err)

	_, err = registry.Define(func(*gorm.DB, schema.Types) (*Entity, error) {
		return nil, nil
	})
	assert.Error(t, err)
	assert.Empty(t, registry.Names())

	boom := errors.New("boom")
	_, err = registry.Define(func(*gorm.DB, schema.Types) (*Entity, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestAssociateReportsHookError(t *testing.T) {
	registry := NewRegistry(testhelper.OpenTestDB(t))
	calls := 0
	_, err := registry.Define(func(db *gorm.DB, types schema.Types) (*Entity, error) {
		e, _ := defineWidget()(db, types)
		e.Associate = func(map[string]*Entity) error {
			calls++
			return errors.New("missing target")
		}
		return e, nil
	})
	require.NoError(t, err)

	err = registry.Associate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Widget")
	assert.Equal(t, 1, calls)
}

func TestVerify(t *testing.T) {
	db := testhelper.OpenTestDB(t)
	require.NoError(t, db.AutoMigrate(&widget{}))
	ctx := context.Background()

	t.Run("matching schema", func(t *testing.T) {
		registry := NewRegistry(db)
		_, err := registry.Define(defineWidget(
			schema.Column{Name: "id", Type: schema.BigIntUnsigned},
			schema.Column{Name: "label", Type: schema.String},
			schema.Column{Name: "note", Type: schema.String, Nullable: true},
		))
		require.NoError(t, err)
		assert.NoError(t, registry.Verify(ctx))
	})

	t.Run("nullability mismatch", func(t *testing.T) {
		registry := NewRegistry(db)
		_, err := registry.Define(defineWidget(
			schema.Column{Name: "label", Type: schema.String, Nullable: true},
		))
		require.NoError(t, err)
		err = registry.Verify(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "widgets.label")
	})

	t.Run("missing column", func(t *testing.T) {
		registry := NewRegistry(db)
		_, err := registry.Define(defineWidget(
			schema.Column{Name: "color", Type: schema.String},
		))
		require.NoError(t, err)
		assert.ErrorIs(t, registry.Verify(ctx), apperrors.ErrColumnNotFound)
	})
}
