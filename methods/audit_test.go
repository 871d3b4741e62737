package methods

import (
	"testing"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func openAuditDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		NamingStrategy:                           schema.NamingStrategy{SingularTable: true},
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	// chaque connexion :memory: serait une base vide
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))
	return db
}

func TestRecordAudit(t *testing.T) {
	db := openAuditDB(t)

	RecordAudit(db, 7, models.AuditActionUpdate, "inspection", 42,
		map[string]string{"etat": "BON"},
		map[string]string{"etat": "DEGRADE"},
		"changement d'état")

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, int64(7), entry.ActorID)
	assert.Equal(t, models.AuditActionUpdate, entry.Action)
	assert.Equal(t, "inspection", entry.Entity)
	assert.Equal(t, int64(42), entry.EntityID)
	assert.JSONEq(t, `{"etat":"BON"}`, string(entry.Before))
	assert.JSONEq(t, `{"etat":"DEGRADE"}`, string(entry.After))
	assert.Equal(t, "changement d'état", entry.Note)
	assert.False(t, entry.CreatedAt.IsZero())
}

func TestRecordAuditNilSnapshots(t *testing.T) {
	db := openAuditDB(t)

	RecordAudit(db, 1, models.AuditActionDelete, "document", 3, nil, nil, "")

	var entry models.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Empty(t, []byte(entry.Before))
	assert.Empty(t, []byte(entry.After))
}

// a failing write must never propagate into the business action
func TestRecordAuditSwallowsFailure(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// no table migrated, the insert fails
	assert.NotPanics(t, func() {
		RecordAudit(db, 1, models.AuditActionCreate, "patrimoine", 1, nil, nil, "")
	})
}
