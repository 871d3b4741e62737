package methods

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MohammedBelfellah/patrimoine/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// BackupConfig 备份配置结构
type BackupConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Database      string
	BackupDir     string
	RetentionDays int
	Compress      bool
}

// SQLBackupManager dumps the register's tables to plain SQL files.
type SQLBackupManager struct {
	config *BackupConfig
	db     *gorm.DB
}

// backupTables: dependency order, parents first, so the restore script can
// replay the files top to bottom.
var backupTables = []string{
	"region",
	"province",
	"commune",
	"utilisateur",
	"patrimoine",
	"inspection",
	"inspection_modification_request",
	"intervention",
	"document",
	"audit_log",
}

func NewSQLBackupManager() (*SQLBackupManager, error) {
	Mainconf := config.MainConfig
	conf := BackupConfig{
		Host:          Mainconf.Host,
		Port:          Mainconf.Port,
		User:          Mainconf.Username,
		Password:      Mainconf.Password,
		Database:      Mainconf.Dbname,
		BackupDir:     Mainconf.Download,
		RetentionDays: 14,
		Compress:      true,
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		conf.Host, conf.User, conf.Password, conf.Database, conf.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	return &SQLBackupManager{
		config: &conf,
		db:     db,
	}, nil
}

// PerformSQLBackup 执行SQL备份
func (sbm *SQLBackupManager) PerformSQLBackup() error {
	log.Printf("Starting SQL backup...")

	timestamp := time.Now().Format("20060102_150405")
	backupDir := filepath.Join(sbm.config.BackupDir, fmt.Sprintf("%s_backup_%s", sbm.config.Database, timestamp))

	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return fmt.Errorf("failed to create backup dir: %v", err)
	}

	if err := sbm.backupTableData(backupDir); err != nil {
		return fmt.Errorf("failed to back up table data: %v", err)
	}

	if err := sbm.createRestoreScript(backupDir); err != nil {
		return fmt.Errorf("failed to create restore script: %v", err)
	}

	if sbm.config.Compress {
		if err := ZipFolder(backupDir, filepath.Base(backupDir)); err != nil {
			log.Printf("Failed to compress backup: %v", err)
		}
	}

	log.Printf("SQL backup done: %s", backupDir)

	if sbm.config.RetentionDays > 0 {
		if err := sbm.cleanupOldBackups(); err != nil {
			// 清理失败不影响备份成功
			log.Printf("Failed to clean old backups: %v", err)
		}
	}
	return nil
}

func (sbm *SQLBackupManager) backupTableData(backupDir string) error {
	for _, table := range backupTables {
		var rows []map[string]interface{}
		if err := sbm.db.Table(table).Find(&rows).Error; err != nil {
			return fmt.Errorf("failed to read %s: %v", table, err)
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("-- data for %s\n", table))
		for _, row := range rows {
			cols := make([]string, 0, len(row))
			for col := range row {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			vals := make([]string, 0, len(cols))
			for _, col := range cols {
				vals = append(vals, sqlLiteral(row[col]))
			}
			sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);\n",
				table, strings.Join(cols, ", "), strings.Join(vals, ", ")))
		}

		path := filepath.Join(backupDir, table+".sql")
		if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
			return err
		}
		log.Printf("Backed up %s (%d rows)", table, len(rows))
	}
	return nil
}

func sqlLiteral(v interface{}) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05.000000") + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (sbm *SQLBackupManager) createRestoreScript(backupDir string) error {
	var sb strings.Builder
	sb.WriteString("-- restore in dependency order\nBEGIN;\n")
	for _, table := range backupTables {
		sb.WriteString(fmt.Sprintf("\\i %s.sql\n", table))
	}
	sb.WriteString("COMMIT;\n")
	return os.WriteFile(filepath.Join(backupDir, "restore.sql"), []byte(sb.String()), 0644)
}

func (sbm *SQLBackupManager) cleanupOldBackups() error {
	entries, err := os.ReadDir(sbm.config.BackupDir)
	if err != nil {
		return err
	}
	cutoff := time.Now().AddDate(0, 0, -sbm.config.RetentionDays)
	prefix := sbm.config.Database + "_backup_"
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			full := filepath.Join(sbm.config.BackupDir, entry.Name())
			if err := os.RemoveAll(full); err != nil {
				log.Printf("Failed to remove old backup %s: %v", full, err)
			} else {
				log.Printf("Removed old backup %s", full)
			}
		}
	}
	return nil
}
