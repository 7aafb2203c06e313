package database

import (
	"path/filepath"
	"testing"

	"github.com/consensuslabs/storefront/backend/internal/config"
	"github.com/consensuslabs/storefront/backend/testhelper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseServiceSQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "service.db"),
	}
	svc := NewDatabaseService(cfg, testhelper.NewTestLogger(false))

	db, err := svc.Connect()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)

	require.NoError(t, svc.Close())
}

func TestDialectorUnsupported(t *testing.T) {
	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestCloseWithoutConnect(t *testing.T) {
	svc := NewDatabaseService(&config.DatabaseConfig{Driver: DriverSQLite}, testhelper.NewTestLogger(false))
	assert.NoError(t, svc.Close())
}
