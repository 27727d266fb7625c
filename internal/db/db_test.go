package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aircon-bridge/config"
	"aircon-bridge/internal/model"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, isPostgres("postgres://user:pw@db:5432/aircon"))
	assert.True(t, isPostgres("postgresql://db/aircon"))
	assert.True(t, isPostgres("host=db user=aircon dbname=aircon"))
	assert.False(t, isPostgres("/var/lib/aircon/commands.db"))
	assert.False(t, isPostgres("file::memory:?cache=shared"))
}

func TestInit_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "commands.db")

	gormDB, err := Init(&config.DatabaseConfig{DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	assert.True(t, gormDB.Migrator().HasTable(&model.CommandRecord{}))
}
