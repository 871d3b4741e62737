package models

import (
	"errors"
	"fmt"
	"log"

	"github.com/MohammedBelfellah/patrimoine/config"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var DB *gorm.DB

func InitDB() {
	var err error
	DB, err = gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		// 约束全部由ensureConstraints统一创建
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := DB.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
		log.Printf("Failed to create postgis extension: %v", err)
	}

	if err := MigrateAllTables(DB); err != nil {
		log.Printf("Failed to migrate tables: %v", err)
	}

	if err := EnsureSchemaObjects(DB); err != nil {
		log.Printf("Failed to install schema objects: %v", err)
	}

	initDefaultUser(DB)
}

// MigrateAllTables 批量迁移所有表
func MigrateAllTables(db *gorm.DB) error {
	models := []interface{}{
		&Region{},
		&Province{},
		&Commune{},
		&Utilisateur{},
		&Patrimoine{},
		&Inspection{},
		&InspectionModificationRequest{},
		&Intervention{},
		&Document{},
		&AuditLog{},
	}

	return db.AutoMigrate(models...)
}

// EnsureSchemaObjects installs everything AutoMigrate cannot express:
// the generated centroid column, CHECK constraints, the partial unique
// index of the modification workflow, spatial index, triggers and the
// two reporting views. Every step is idempotent.
func EnsureSchemaObjects(db *gorm.DB) error {
	if err := ensureCentroidColumn(db); err != nil {
		return err
	}
	// le tag not null couvre les bases neuves, ceci rattrape les existantes
	if err := db.Exec(`ALTER TABLE patrimoine ALTER COLUMN polygon_geom SET NOT NULL`).Error; err != nil {
		return err
	}
	if err := ensureForeignKeys(db); err != nil {
		return err
	}
	if err := ensureCheckConstraints(db); err != nil {
		return err
	}
	if err := ensureIndexes(db); err != nil {
		return err
	}
	if err := ensureTriggers(db); err != nil {
		return err
	}
	return ensureViews(db)
}

// ensureCentroidColumn 将centroid_geom重建为生成列: ST_PointOnSurface保证点落在面内
func ensureCentroidColumn(db *gorm.DB) error {
	var generated string
	sql := `
		SELECT COALESCE(attgenerated, '')
		FROM pg_attribute
		WHERE attrelid = 'patrimoine'::regclass AND attname = 'centroid_geom'
	`
	if err := db.Raw(sql).Scan(&generated).Error; err != nil {
		return err
	}
	if generated == "s" {
		return nil
	}

	if err := db.Exec(`ALTER TABLE patrimoine DROP COLUMN IF EXISTS centroid_geom`).Error; err != nil {
		return err
	}
	return db.Exec(`
		ALTER TABLE patrimoine
		ADD COLUMN centroid_geom geometry(Point,4326)
		GENERATED ALWAYS AS (ST_PointOnSurface(polygon_geom)) STORED
	`).Error
}

type fkDef struct {
	Name     string
	Table    string
	Column   string
	RefTable string
	RefCol   string
	OnDelete string
}

// UserFKs are the seven references into utilisateur. The repointing
// migration recreates exactly this set against the new table.
var UserFKs = []fkDef{
	{"fk_patrimoine_created_by", "patrimoine", "created_by", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_inspection_inspecteur", "inspection", "id_inspecteur", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_request_requested_by", "inspection_modification_request", "requested_by", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_request_reviewed_by", "inspection_modification_request", "reviewed_by", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_intervention_created_by", "intervention", "created_by", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_document_uploaded_by", "document", "uploaded_by", "utilisateur", "id_utilisateur", "RESTRICT"},
	{"fk_audit_log_actor", "audit_log", "actor_id", "utilisateur", "id_utilisateur", "RESTRICT"},
}

var structureFKs = []fkDef{
	{"fk_province_region", "province", "id_region", "region", "id_region", "RESTRICT"},
	{"fk_commune_province", "commune", "id_province", "province", "id_province", "RESTRICT"},
	{"fk_patrimoine_commune", "patrimoine", "id_commune", "commune", "id_commune", "RESTRICT"},
	{"fk_inspection_patrimoine", "inspection", "id_patrimoine", "patrimoine", "id_patrimoine", "CASCADE"},
	{"fk_request_inspection", "inspection_modification_request", "id_inspection", "inspection", "id_inspection", "CASCADE"},
	{"fk_inspection_last_request", "inspection", "last_request_id", "inspection_modification_request", "id_request", "SET NULL"},
	{"fk_intervention_patrimoine", "intervention", "id_patrimoine", "patrimoine", "id_patrimoine", "CASCADE"},
	{"fk_document_patrimoine", "document", "id_patrimoine", "patrimoine", "id_patrimoine", "CASCADE"},
	{"fk_document_inspection", "document", "id_inspection", "inspection", "id_inspection", "CASCADE"},
	{"fk_document_intervention", "document", "id_intervention", "intervention", "id_intervention", "CASCADE"},
	{"fk_document_request", "document", "id_request", "inspection_modification_request", "id_request", "CASCADE"},
}

func ensureForeignKeys(db *gorm.DB) error {
	fks := append(append([]fkDef{}, structureFKs...), UserFKs...)
	for _, fk := range fks {
		if ConstraintExists(db, fk.Table, fk.Name) {
			continue
		}
		sql := fmt.Sprintf(
			"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s",
			fk.Table, fk.Name, fk.Column, fk.RefTable, fk.RefCol, fk.OnDelete)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", fk.Name, err)
		}
	}
	return nil
}

type checkDef struct {
	Name  string
	Table string
	Expr  string
}

var checkConstraints = []checkDef{
	{"chk_patrimoine_polygon_valid", "patrimoine", "ST_IsValid(polygon_geom)"},
	{"chk_request_status", "inspection_modification_request", "status IN ('PENDING','APPROVED','REJECTED')"},
	// reviewed_by/reviewed_at双空当且仅当PENDING
	{"chk_request_review_state", "inspection_modification_request",
		"(status = 'PENDING' AND reviewed_by IS NULL AND reviewed_at IS NULL) OR (status <> 'PENDING' AND reviewed_by IS NOT NULL AND reviewed_at IS NOT NULL)"},
	{"chk_intervention_dates", "intervention", "date_fin IS NULL OR date_fin >= date_debut"},
	{"chk_document_single_context", "document",
		"(id_patrimoine IS NOT NULL)::int + (id_inspection IS NOT NULL)::int + (id_intervention IS NOT NULL)::int + (id_request IS NOT NULL)::int = 1"},
	{"chk_document_size", "document", "file_size_mb > 0 AND file_size_mb <= 5"},
}

func ensureCheckConstraints(db *gorm.DB) error {
	for _, chk := range checkConstraints {
		if ConstraintExists(db, chk.Table, chk.Name) {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", chk.Table, chk.Name, chk.Expr)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", chk.Name, err)
		}
	}
	return nil
}

func ensureIndexes(db *gorm.DB) error {
	// 每个巡查至多一条待审修改请求
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS uidx_request_pending
		ON inspection_modification_request (id_inspection)
		WHERE status = 'PENDING'
	`).Error
	if err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_patrimoine_geom ON patrimoine USING GIST (polygon_geom)`).Error
}

func ensureTriggers(db *gorm.DB) error {
	err := db.Exec(`
		CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
		BEGIN
			NEW.updated_at = NOW();
			RETURN NEW;
		END;
		$$ LANGUAGE plpgsql
	`).Error
	if err != nil {
		return err
	}

	for _, table := range []string{"patrimoine", "inspection", "intervention"} {
		name := fmt.Sprintf("trg_%s_updated_at", table)
		if err := db.Exec(fmt.Sprintf("DROP TRIGGER IF EXISTS %s ON %s", name, table)).Error; err != nil {
			return err
		}
		sql := fmt.Sprintf(
			"CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION set_updated_at()",
			name, table)
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}
	return nil
}

// ensureViews 两个只读统计视图
func ensureViews(db *gorm.DB) error {
	err := db.Exec(`
		CREATE OR REPLACE VIEW v_patrimoine_hierarchie AS
		SELECT
			p.id_patrimoine,
			p.nom_fr,
			p.type_patrimoine,
			p.statut,
			c.id_commune,
			c.nom_commune,
			pr.id_province,
			pr.nom_province,
			r.id_region,
			r.nom_region,
			r.nom_region || ' > ' || pr.nom_province || ' > ' || c.nom_commune AS chemin,
			ST_X(p.centroid_geom) AS centroid_lon,
			ST_Y(p.centroid_geom) AS centroid_lat
		FROM patrimoine p
		JOIN commune c ON c.id_commune = p.id_commune
		JOIN province pr ON pr.id_province = c.id_province
		JOIN region r ON r.id_region = pr.id_region
	`).Error
	if err != nil {
		return err
	}

	return db.Exec(`
		CREATE OR REPLACE VIEW v_stats_commune AS
		SELECT
			c.id_commune,
			c.nom_commune,
			pr.nom_province,
			r.nom_region,
			COUNT(DISTINCT p.id_patrimoine) AS nb_patrimoines,
			COUNT(DISTINCT i.id_inspection) AS nb_inspections,
			COUNT(DISTINCT iv.id_intervention) AS nb_interventions,
			COUNT(DISTINCT d.id_document) AS nb_documents
		FROM commune c
		JOIN province pr ON pr.id_province = c.id_province
		JOIN region r ON r.id_region = pr.id_region
		LEFT JOIN patrimoine p ON p.id_commune = c.id_commune
		LEFT JOIN inspection i ON i.id_patrimoine = p.id_patrimoine
		LEFT JOIN intervention iv ON iv.id_patrimoine = p.id_patrimoine
		LEFT JOIN document d ON d.id_patrimoine = p.id_patrimoine
		GROUP BY c.id_commune, c.nom_commune, pr.nom_province, r.nom_region
	`).Error
}

// ConstraintExists 检查约束是否存在（PostgreSQL）
func ConstraintExists(db *gorm.DB, tableName, constraintName string) bool {
	var count int64
	db.Raw(`
        SELECT COUNT(*)
        FROM pg_constraint con
        JOIN pg_class rel ON rel.oid = con.conrelid
        WHERE rel.relname = ? AND con.conname = ?
    `, tableName, constraintName).Scan(&count)

	return count > 0
}

// initDefaultUser 初始化默认超级管理员
func initDefaultUser(db *gorm.DB) {
	var existing Utilisateur
	result := db.Where("role = ?", RoleSuperadmin).First(&existing)
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash default password: %v", err)
		return
	}
	user := Utilisateur{
		Username: "admin",
		Email:    "admin@patrimoine.local",
		Password: string(hash),
		Nom:      "Administrateur",
		Role:     RoleSuperadmin,
		Actif:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("Failed to create default user: %v", err)
	} else {
		log.Println("Default superadmin created, change the password")
	}
}
