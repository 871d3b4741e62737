package main

import (
	"flag"
	"log"
	"os"

	"github.com/MohammedBelfellah/patrimoine/config"
	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/migrations"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/MohammedBelfellah/patrimoine/routers"
	"github.com/MohammedBelfellah/patrimoine/services"
	"github.com/gin-gonic/gin"
)

func main() {
	seed := flag.Bool("seed", false, "charge le découpage administratif et les sites d'exemple puis quitte")
	migrate := flag.Bool("repoint-users", false, "exécute la migration de repointage des FK utilisateur puis quitte")
	backup := flag.Bool("backup", false, "exécute une sauvegarde SQL puis quitte")
	flag.Parse()

	models.InitDB()

	if *migrate {
		if err := migrations.RepointUtilisateurFKs(models.DB); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		if err := migrations.VerifyRepoint(models.DB); err != nil {
			log.Fatalf("Migration verification failed: %v", err)
		}
		log.Println("Migration done")
		return
	}

	if *seed {
		data, err := services.LoadMarocFile(config.SeedFile)
		if err != nil {
			log.Fatalf("Failed to load seed file: %v", err)
		}
		if err := services.SeedMarocData(models.DB, data); err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		var admin models.Utilisateur
		if err := models.DB.Where("role = ?", models.RoleSuperadmin).First(&admin).Error; err == nil {
			if err := services.SeedSamplePatrimoines(models.DB, admin.IDUtilisateur); err != nil {
				log.Fatalf("Sample seeding failed: %v", err)
			}
		}
		return
	}

	if *backup {
		manager, err := methods.NewSQLBackupManager()
		if err != nil {
			log.Fatalf("Backup init failed: %v", err)
		}
		if err := manager.PerformSQLBackup(); err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		return
	}

	if err := os.MkdirAll(config.Upload, os.ModePerm); err != nil {
		log.Fatalf("Failed to create upload dir: %v", err)
	}

	r := gin.Default()
	routers.PatrimoineRouters(r)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
