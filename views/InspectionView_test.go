package views

import (
	"net/http"
	"testing"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddInspectionValidation(t *testing.T) {
	db := setupTestDB(t)
	inspecteur := createTestUser(t, db, "inspecteur", models.RoleInspecteur)
	site := createTestSite(t, db, inspecteur.IDUtilisateur)
	r := testRouter()

	// date mal formée
	w := performJSON(r, "POST", "/inspection/AddInspection", inspecteur.Token, gin.H{
		"id_patrimoine":   site.IDPatrimoine,
		"date_inspection": "10/05/2026",
		"etat":            models.InspectionEtatBon,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// état inconnu
	w = performJSON(r, "POST", "/inspection/AddInspection", inspecteur.Token, gin.H{
		"id_patrimoine":   site.IDPatrimoine,
		"date_inspection": "2026-05-10",
		"etat":            "RUINE",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// patrimoine inexistant
	w = performJSON(r, "POST", "/inspection/AddInspection", inspecteur.Token, gin.H{
		"id_patrimoine":   int64(9999),
		"date_inspection": "2026-05-10",
		"etat":            models.InspectionEtatBon,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddInspection(t *testing.T) {
	db := setupTestDB(t)
	inspecteur := createTestUser(t, db, "inspecteur", models.RoleInspecteur)
	site := createTestSite(t, db, inspecteur.IDUtilisateur)
	r := testRouter()

	w := performJSON(r, "POST", "/inspection/AddInspection", inspecteur.Token, gin.H{
		"id_patrimoine":   site.IDPatrimoine,
		"date_inspection": "2026-05-10",
		"etat":            models.InspectionEtatBon,
		"observations":    "RAS",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var inspection models.Inspection
	require.NoError(t, db.First(&inspection).Error)
	assert.Equal(t, inspecteur.IDUtilisateur, inspection.IDInspecteur)
	assert.Equal(t, "2026-05-10", inspection.DateInspection)

	var audit models.AuditLog
	require.NoError(t, db.Where("entity = ?", "inspection").First(&audit).Error)
	assert.Equal(t, models.AuditActionCreate, audit.Action)
}

func TestAddInspectionRequiresInspecteur(t *testing.T) {
	db := setupTestDB(t)
	public := createTestUser(t, db, "visiteur", models.RolePublic)
	site := createTestSite(t, db, public.IDUtilisateur)
	r := testRouter()

	w := performJSON(r, "POST", "/inspection/AddInspection", public.Token, gin.H{
		"id_patrimoine":   site.IDPatrimoine,
		"date_inspection": "2026-05-10",
		"etat":            models.InspectionEtatBon,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestArchiveInspectionToggle(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	inspecteur := createTestUser(t, db, "inspecteur", models.RoleInspecteur)
	site := createTestSite(t, db, admin.IDUtilisateur)
	inspection := models.Inspection{IDPatrimoine: site.IDPatrimoine, IDInspecteur: inspecteur.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon}
	require.NoError(t, db.Create(&inspection).Error)
	r := testRouter()

	url := "/inspection/ArchiveInspection/" + formatID(inspection.IDInspection)
	w := performJSON(r, "POST", url, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["archived"])

	var reloaded models.Inspection
	require.NoError(t, db.First(&reloaded, inspection.IDInspection).Error)
	assert.NotNil(t, reloaded.ArchivedAt)

	// archivée: sortie du listing par défaut
	w = performJSON(r, "GET", "/inspection/GetInspections", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"date_inspection":"2026-05-10"`)

	// second appel: désarchivage
	w = performJSON(r, "POST", url, admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["archived"])
}

func TestRequestEditOnlyOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleInspecteur)
	other := createTestUser(t, db, "other", models.RoleInspecteur)
	site := createTestSite(t, db, owner.IDUtilisateur)
	inspection := models.Inspection{IDPatrimoine: site.IDPatrimoine, IDInspecteur: owner.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon}
	require.NoError(t, db.Create(&inspection).Error)
	r := testRouter()

	w := performJSON(r, "POST", "/inspection/RequestEdit/"+formatID(inspection.IDInspection), other.Token, gin.H{
		"date_inspection": "2026-05-11",
		"etat":            models.InspectionEtatMoyen,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestEditSinglePending(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", models.RoleInspecteur)
	site := createTestSite(t, db, owner.IDUtilisateur)
	inspection := models.Inspection{IDPatrimoine: site.IDPatrimoine, IDInspecteur: owner.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon}
	require.NoError(t, db.Create(&inspection).Error)
	r := testRouter()

	url := "/inspection/RequestEdit/" + formatID(inspection.IDInspection)
	body := gin.H{"date_inspection": "2026-05-11", "etat": models.InspectionEtatMoyen, "observations": "fissures"}

	w := performJSON(r, "POST", url, owner.Token, body)
	require.Equal(t, http.StatusOK, w.Code)

	// une seule demande en attente par inspection
	w = performJSON(r, "POST", url, owner.Token, body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveRequestAppliesChanges(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	owner := createTestUser(t, db, "owner", models.RoleInspecteur)
	site := createTestSite(t, db, admin.IDUtilisateur)
	inspection := models.Inspection{IDPatrimoine: site.IDPatrimoine, IDInspecteur: owner.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon, Observations: "RAS"}
	require.NoError(t, db.Create(&inspection).Error)
	r := testRouter()

	w := performJSON(r, "POST", "/inspection/RequestEdit/"+formatID(inspection.IDInspection), owner.Token, gin.H{
		"date_inspection": "2026-05-12",
		"etat":            models.InspectionEtatDegrade,
		"observations":    "fissures au minaret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var request models.InspectionModificationRequest
	require.NoError(t, db.First(&request).Error)

	w = performJSON(r, "POST", "/inspection/ApproveRequest/"+formatID(request.IDRequest), admin.Token, gin.H{"admin_note": "validé"})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Inspection
	require.NoError(t, db.First(&reloaded, inspection.IDInspection).Error)
	assert.Equal(t, "2026-05-12", reloaded.DateInspection)
	assert.Equal(t, models.InspectionEtatDegrade, reloaded.Etat)
	assert.Equal(t, "fissures au minaret", reloaded.Observations)
	require.NotNil(t, reloaded.LastRequestID)
	assert.Equal(t, request.IDRequest, *reloaded.LastRequestID)

	require.NoError(t, db.First(&request, request.IDRequest).Error)
	assert.Equal(t, models.RequestStatusApproved, request.Status)
	require.NotNil(t, request.ReviewedBy)
	assert.Equal(t, admin.IDUtilisateur, *request.ReviewedBy)
	assert.NotNil(t, request.ReviewedAt)
	assert.Equal(t, "validé", request.AdminNote)

	// une demande tranchée ne se rejoue pas, et son état terminal reste intact
	w = performJSON(r, "POST", "/inspection/ApproveRequest/"+formatID(request.IDRequest), admin.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = performJSON(r, "POST", "/inspection/RejectRequest/"+formatID(request.IDRequest), admin.Token, gin.H{"admin_note": "écrasement"})
	assert.Equal(t, http.StatusConflict, w.Code)

	require.NoError(t, db.First(&request, request.IDRequest).Error)
	assert.Equal(t, models.RequestStatusApproved, request.Status)
	assert.Equal(t, "validé", request.AdminNote)
	require.NotNil(t, request.ReviewedBy)
	assert.Equal(t, admin.IDUtilisateur, *request.ReviewedBy)
}

func TestRejectRequestKeepsInspection(t *testing.T) {
	db := setupTestDB(t)
	admin := createTestUser(t, db, "admin", models.RoleAdmin)
	owner := createTestUser(t, db, "owner", models.RoleInspecteur)
	site := createTestSite(t, db, admin.IDUtilisateur)
	inspection := models.Inspection{IDPatrimoine: site.IDPatrimoine, IDInspecteur: owner.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon}
	require.NoError(t, db.Create(&inspection).Error)
	r := testRouter()

	w := performJSON(r, "POST", "/inspection/RequestEdit/"+formatID(inspection.IDInspection), owner.Token, gin.H{
		"date_inspection": "2026-05-12",
		"etat":            models.InspectionEtatDegrade,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var request models.InspectionModificationRequest
	require.NoError(t, db.First(&request).Error)

	w = performJSON(r, "POST", "/inspection/RejectRequest/"+formatID(request.IDRequest), admin.Token, gin.H{"admin_note": "données non vérifiables"})
	require.Equal(t, http.StatusOK, w.Code)

	// l'inspection garde ses valeurs d'origine
	var reloaded models.Inspection
	require.NoError(t, db.First(&reloaded, inspection.IDInspection).Error)
	assert.Equal(t, "2026-05-10", reloaded.DateInspection)
	assert.Equal(t, models.InspectionEtatBon, reloaded.Etat)
	assert.Nil(t, reloaded.LastRequestID)

	require.NoError(t, db.First(&request, request.IDRequest).Error)
	assert.Equal(t, models.RequestStatusRejected, request.Status)
	assert.Equal(t, "données non vérifiables", request.AdminNote)

	// rejet tranché: une nouvelle demande redevient possible
	w = performJSON(r, "POST", "/inspection/RequestEdit/"+formatID(inspection.IDInspection), owner.Token, gin.H{
		"date_inspection": "2026-05-13",
		"etat":            models.InspectionEtatMoyen,
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
