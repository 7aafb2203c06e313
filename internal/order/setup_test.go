package order

import (
	"context"
	"testing"
	"time"

	"github.com/consensuslabs/storefront/backend/migrations"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// migratedDB returns a test database at the latest schema with one user
func migratedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testhelper.OpenTestDB(t)
	_, err := migrations.NewRunner(db, migrations.Default()).Up(context.Background())
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, db.Exec(
		"INSERT INTO users (id, email, password_hash, email_verified, created_at, updated_at) VALUES (1, ?, ?, ?, ?, ?)",
		"buyer@example.com", "hash", true, now, now,
	).Error)
	return db
}

func createOrder(t *testing.T, repo Repository) *Order {
	t.Helper()
	o := &Order{UserID: 1, Status: "pending", TotalCents: 1999}
	require.NoError(t, repo.CreateOrder(context.Background(), o))
	require.NotZero(t, o.ID)
	return o
}
