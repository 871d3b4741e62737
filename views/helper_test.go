package views

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

func setupTestDB(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)
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
	require.NoError(t, models.MigrateAllTables(db))
	models.DB = db
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, role string) models.Utilisateur {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.Utilisateur{
		Username: username,
		Email:    username + "@patrimoine.ma",
		Password: string(hash),
		Nom:      username,
		Role:     role,
		Token:    uuid.New().String(),
		Actif:    true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createTestSite(t *testing.T, db *gorm.DB, createdBy int64) models.Patrimoine {
	region := models.Region{NomRegion: "Fès-Meknès"}
	require.NoError(t, db.Create(&region).Error)
	province := models.Province{NomProvince: "Fès", IDRegion: region.IDRegion, TypeProvince: models.ProvinceTypePrefecture}
	require.NoError(t, db.Create(&province).Error)
	commune := models.Commune{NomCommune: "Fès", IDProvince: province.IDProvince, TypeCommune: models.CommuneTypeUrbaine}
	require.NoError(t, db.Create(&commune).Error)

	site := models.Patrimoine{
		NomFr:          "Médina de Fès",
		TypePatrimoine: models.PatrimoineTypeHistorique,
		Statut:         models.PatrimoineStatutClasse,
		IDCommune:      commune.IDCommune,
		CreatedBy:      createdBy,
	}
	require.NoError(t, db.Create(&site).Error)
	return site
}

// testRouter wires the same middleware chain as the production router.
func testRouter() *gin.Engine {
	uc := &UserController{}
	r := gin.New()

	r.POST("/auth/Login", uc.Login)
	r.POST("/auth/Logout", AuthRequired(), uc.Logout)

	geo := r.Group("/geo")
	{
		geo.GET("/GetRegions", uc.GetRegions)
		geo.GET("/GetProvinces/:id_region", uc.GetProvincesByRegion)
		geo.GET("/GetCommunes/:id_province", uc.GetCommunesByProvince)
		geo.GET("/GetPatrimoinesByCommune/:id_commune", uc.GetPatrimoinesByCommune)
	}

	patrimoine := r.Group("/patrimoine", AuthRequired())
	{
		patrimoine.GET("/GetPatrimoines", uc.GetPatrimoines)
		patrimoine.POST("/AddPatrimoine", RoleRequired(models.RoleAdmin), uc.AddPatrimoine)
		patrimoine.POST("/DelPatrimoine/:id_patrimoine", RoleRequired(), uc.DelPatrimoine)
	}

	inspection := r.Group("/inspection", AuthRequired())
	{
		inspection.GET("/GetInspections", uc.GetInspections)
		inspection.GET("/GetInspection/:id_inspection", uc.GetInspection)
		inspection.POST("/AddInspection", RoleRequired(models.RoleInspecteur), uc.AddInspection)
		inspection.POST("/ArchiveInspection/:id_inspection", RoleRequired(models.RoleAdmin), uc.ArchiveInspection)
		inspection.POST("/RequestEdit/:id_inspection", RoleRequired(models.RoleInspecteur), uc.RequestInspectionEdit)
		inspection.POST("/ApproveRequest/:id_request", RoleRequired(models.RoleAdmin), uc.ApproveInspectionRequest)
		inspection.POST("/RejectRequest/:id_request", RoleRequired(models.RoleAdmin), uc.RejectInspectionRequest)
	}

	intervention := r.Group("/intervention", AuthRequired(), RoleRequired(models.RoleAdmin))
	{
		intervention.GET("/GetInterventions", uc.GetInterventions)
		intervention.POST("/AddIntervention", uc.AddIntervention)
		intervention.POST("/ChangeIntervention/:id_intervention", uc.ChangeIntervention)
	}

	document := r.Group("/document", AuthRequired())
	{
		document.GET("/GetDocuments", uc.GetDocuments)
		document.POST("/UploadDocument", RoleRequired(models.RoleAdmin, models.RoleInspecteur), uc.UploadDocument)
		document.POST("/DelDocument/:id_document", RoleRequired(models.RoleAdmin), uc.DelDocument)
	}

	admin := r.Group("/admin", AuthRequired(), RoleRequired())
	{
		admin.GET("/GetUsers", uc.GetUsers)
		admin.POST("/SetUserRole", uc.SetUserRole)
		admin.POST("/ToggleUserActive/:id_utilisateur", uc.ToggleUserActive)
		admin.GET("/GetAuditLog", uc.GetAuditLog)
	}
	return r
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func performJSON(r *gin.Engine, method, url, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Token", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
