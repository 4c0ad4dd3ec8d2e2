package config

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hotel-admin/models"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "seed.db")), GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Migrate(db))
	return db
}

func seedConfig(sample bool) *Config {
	return &Config{
		Auth: AuthConfig{
			AdminUsername: "admin@hotel.local",
			AdminPassword: "admin123",
			AdminFullName: "Admin User",
		},
		SeedSampleData: sample,
	}
}

func TestSeedDatabase(t *testing.T) {
	db := newSeedDB(t)
	cfg := seedConfig(true)

	require.NoError(t, SeedDatabase(db, cfg))
	require.NoError(t, SeedDatabase(db, cfg))

	var admins []models.Admin
	require.NoError(t, db.Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin@hotel.local", admins[0].Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("admin123")))

	var rooms int64
	require.NoError(t, db.Model(&models.RoomType{}).Count(&rooms).Error)
	assert.EqualValues(t, 3, rooms)
}

func TestSeedDatabase_WithoutSampleData(t *testing.T) {
	db := newSeedDB(t)
	require.NoError(t, SeedDatabase(db, seedConfig(false)))

	var rooms int64
	require.NoError(t, db.Model(&models.RoomType{}).Count(&rooms).Error)
	assert.Zero(t, rooms)
}

func TestSeedDatabase_ReportsRoomCountFailure(t *testing.T) {
	db := newSeedDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.RoomType{}))

	err := SeedDatabase(db, seedConfig(true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count room types")
}
