package migrations

import (
	"fmt"
	"log"

	"github.com/MohammedBelfellah/patrimoine/models"
	"gorm.io/gorm"
)

// Historical one-shot migration: the application originally carried its own
// utilisateur_old table with a role_utilisateur enum. This repoints the seven
// user foreign keys onto the current utilisateur table, then drops the legacy
// table and its enum type. Runs in one transaction and is irreversible.

const legacyTable = "utilisateur_old"
const legacyEnum = "role_utilisateur"

func tableExists(db *gorm.DB, name string) bool {
	var count int64
	db.Raw(`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?`, name).Scan(&count)
	return count > 0
}

func typeExists(db *gorm.DB, name string) bool {
	var count int64
	db.Raw(`SELECT COUNT(*) FROM pg_type WHERE typname = ?`, name).Scan(&count)
	return count > 0
}

// RepointUtilisateurFKs drops each user FK that still targets the legacy
// table, recreates it against utilisateur, then removes the legacy table and
// enum. Safe to call again once the legacy table is gone.
func RepointUtilisateurFKs(db *gorm.DB) error {
	if !tableExists(db, legacyTable) {
		log.Printf("Migration skipped: %s no longer exists", legacyTable)
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, fk := range models.UserFKs {
			drop := fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT IF EXISTS %s", fk.Table, fk.Name)
			if err := tx.Exec(drop).Error; err != nil {
				return fmt.Errorf("failed to drop %s: %w", fk.Name, err)
			}
			add := fmt.Sprintf(
				"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s",
				fk.Table, fk.Name, fk.Column, fk.RefTable, fk.RefCol, fk.OnDelete)
			if err := tx.Exec(add).Error; err != nil {
				return fmt.Errorf("failed to recreate %s: %w", fk.Name, err)
			}
			log.Printf("Repointed %s -> %s", fk.Name, fk.RefTable)
		}

		if err := tx.Exec(fmt.Sprintf("DROP TABLE %s", legacyTable)).Error; err != nil {
			return fmt.Errorf("failed to drop %s: %w", legacyTable, err)
		}
		if err := tx.Exec(fmt.Sprintf("DROP TYPE IF EXISTS %s", legacyEnum)).Error; err != nil {
			return fmt.Errorf("failed to drop type %s: %w", legacyEnum, err)
		}
		return nil
	})
}

// VerifyRepoint asserts the post-migration state: all seven constraints exist
// against utilisateur, and the legacy table and enum are gone.
func VerifyRepoint(db *gorm.DB) error {
	for _, fk := range models.UserFKs {
		var refTable string
		sql := `
			SELECT confrel.relname
			FROM pg_constraint con
			JOIN pg_class rel ON rel.oid = con.conrelid
			JOIN pg_class confrel ON confrel.oid = con.confrelid
			WHERE rel.relname = ? AND con.conname = ?
		`
		if err := db.Raw(sql, fk.Table, fk.Name).Scan(&refTable).Error; err != nil {
			return err
		}
		if refTable == "" {
			return fmt.Errorf("constraint %s is missing", fk.Name)
		}
		if refTable != fk.RefTable {
			return fmt.Errorf("constraint %s references %s, want %s", fk.Name, refTable, fk.RefTable)
		}
	}

	if tableExists(db, legacyTable) {
		return fmt.Errorf("legacy table %s still exists", legacyTable)
	}
	if typeExists(db, legacyEnum) {
		return fmt.Errorf("legacy type %s still exists", legacyEnum)
	}
	return nil
}
