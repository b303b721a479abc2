package apiserver

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tenderdesk/tenderdesk/internal/db/controller/setting"
	"github.com/tenderdesk/tenderdesk/internal/db/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestSaveAndLoad(t *testing.T) {
	db := setupTestDB(t)

	in := Settings{
		APIServerURL: "http://procurement.internal:9000/api/v1",
		Timeout:      30,
	}
	require.NoError(t, in.Save(db))

	var out Settings
	require.NoError(t, out.Load(db))

	assert.Equal(t, in, out)
}

func TestSaveOverwrites(t *testing.T) {
	db := setupTestDB(t)

	first := Settings{APIServerURL: "http://old:9000", Timeout: 15}
	require.NoError(t, first.Save(db))

	second := Settings{APIServerURL: "http://new:9000", Timeout: 60}
	require.NoError(t, second.Save(db))

	var out Settings
	require.NoError(t, out.Load(db))
	assert.Equal(t, second, out)
}

func TestLoadMissing(t *testing.T) {
	db := setupTestDB(t)

	var out Settings
	err := out.Load(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, setting.ErrSettingNotFound)
}
