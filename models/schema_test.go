package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func openSchemaDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, MigrateAllTables(db))
	return db
}

// un site sans emprise géométrique ne doit jamais entrer en base
func TestPatrimoinePolygonNotNull(t *testing.T) {
	db := openSchemaDB(t)

	err := db.Exec(`
		INSERT INTO patrimoine (nom_fr, type_patrimoine, statut, id_commune, created_by)
		VALUES ('Sans emprise', 'HISTORIQUE', 'CLASSE', 1, 1)
	`).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "polygon_geom")

	err = db.Exec(`
		INSERT INTO patrimoine (nom_fr, type_patrimoine, statut, polygon_geom, id_commune, created_by)
		VALUES ('Avec emprise', 'HISTORIQUE', 'CLASSE', 'MULTIPOLYGON(((0 0,1 0,1 1,0 0)))', 1, 1)
	`).Error
	assert.NoError(t, err)
}
