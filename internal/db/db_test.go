package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"forklift-fleet-backend/config"
	"forklift-fleet-backend/internal/model"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", "postgres", "mysql", "sqlite"} {
		d, err := Dialector(&config.DatabaseConfig{Driver: driver, DSN: "x"})
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestSeedData(t *testing.T) {
	snap, err := SeedData()
	require.NoError(t, err)

	assert.Len(t, snap.Forklifts, 5)
	assert.Len(t, snap.Operators, 5)
	assert.Len(t, snap.Maintenances, 5)
	assert.Equal(t, "SV001", snap.Operators[4].ID)
	assert.Equal(t, model.RoleSupervisor, snap.Operators[4].Role)
	assert.Equal(t, "2023-11-03", snap.Maintenances[3].CompletedDate)
	assert.Equal(t, "2023-11-20 07:00", snap.Operations[0].StartTime)
}

func TestSeed(t *testing.T) {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(gormDB))

	ctx := context.Background()
	require.NoError(t, Seed(ctx, gormDB))
	// Seeding twice leaves existing rows alone.
	require.NoError(t, Seed(ctx, gormDB))

	var forklifts []model.Forklift
	require.NoError(t, gormDB.Order("created_at ASC, id ASC").Find(&forklifts).Error)
	require.Len(t, forklifts, 5)
	ids := make([]string, 0, len(forklifts))
	for _, f := range forklifts {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"G001", "G004", "E002", "R003", "E005"}, ids)

	var operators int64
	require.NoError(t, gormDB.Model(&model.Operator{}).Count(&operators).Error)
	assert.EqualValues(t, 5, operators)
}
