package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fame0528/DarkFrame-sub009/internal/adapters/persistence"
	"github.com/fame0528/DarkFrame-sub009/internal/infrastructure/config"
)

func TestNewConnection_RejectsUnknownType(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Type: "mysql"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestNewTestConnection_MigratesAndQueries(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	defer Close(db)

	var count int64
	err = db.WithContext(context.Background()).Model(&persistence.ActorModel{}).Count(&count).Error
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewTestConnection_CancelledContextFails(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	defer Close(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var count int64
	err = db.WithContext(ctx).Model(&persistence.ActorModel{}).Count(&count).Error
	assert.Error(t, err)
}

func TestAutoMigrate_IsRepeatable(t *testing.T) {
	db, err := NewTestConnection()
	require.NoError(t, err)
	defer Close(db)

	require.NoError(t, AutoMigrate(db))
	assert.True(t, db.Migrator().HasTable(&persistence.ActorModel{}))
}
