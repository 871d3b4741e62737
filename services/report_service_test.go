package services

import (
	"testing"
	"time"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDashboardData(t *testing.T, db *gorm.DB) (admin, inspecteur models.Utilisateur) {
	admin = models.Utilisateur{Username: "admin", Role: models.RoleAdmin, Actif: true}
	inspecteur = models.Utilisateur{Username: "inspecteur", Role: models.RoleInspecteur, Actif: true}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&inspecteur).Error)

	region := models.Region{NomRegion: "Fès-Meknès"}
	require.NoError(t, db.Create(&region).Error)
	province := models.Province{NomProvince: "Fès", IDRegion: region.IDRegion, TypeProvince: models.ProvinceTypePrefecture}
	require.NoError(t, db.Create(&province).Error)
	commune := models.Commune{NomCommune: "Fès", IDProvince: province.IDProvince, TypeCommune: models.CommuneTypeUrbaine}
	require.NoError(t, db.Create(&commune).Error)

	sites := []models.Patrimoine{
		{NomFr: "Médina de Fès", TypePatrimoine: models.PatrimoineTypeHistorique, Statut: models.PatrimoineStatutClasse, IDCommune: commune.IDCommune, CreatedBy: admin.IDUtilisateur},
		{NomFr: "Bab Boujloud", TypePatrimoine: models.PatrimoineTypeHistorique, Statut: models.PatrimoineStatutInscrit, IDCommune: commune.IDCommune, CreatedBy: admin.IDUtilisateur},
		{NomFr: "Jnan Sbil", TypePatrimoine: models.PatrimoineTypeNaturel, Statut: models.PatrimoineStatutEnEtude, IDCommune: commune.IDCommune, CreatedBy: admin.IDUtilisateur},
	}
	for i := range sites {
		require.NoError(t, db.Create(&sites[i]).Error)
	}

	now := time.Now()
	inspections := []models.Inspection{
		{IDPatrimoine: sites[0].IDPatrimoine, IDInspecteur: inspecteur.IDUtilisateur, DateInspection: "2026-05-10", Etat: models.InspectionEtatBon},
		{IDPatrimoine: sites[1].IDPatrimoine, IDInspecteur: inspecteur.IDUtilisateur, DateInspection: "2026-06-01", Etat: models.InspectionEtatDegrade},
		{IDPatrimoine: sites[2].IDPatrimoine, IDInspecteur: admin.IDUtilisateur, DateInspection: "2026-04-02", Etat: models.InspectionEtatMoyen, ArchivedAt: &now},
	}
	for i := range inspections {
		require.NoError(t, db.Create(&inspections[i]).Error)
	}

	request := models.InspectionModificationRequest{
		IDInspection: inspections[0].IDInspection,
		RequestedBy:  inspecteur.IDUtilisateur,
		Status:       models.RequestStatusPending,
		ProposedData: []byte(`{"etat":"MOYEN"}`),
	}
	require.NoError(t, db.Create(&request).Error)

	intervention := models.Intervention{
		IDPatrimoine:     sites[1].IDPatrimoine,
		NomProjet:        "Restauration Bab Boujloud",
		TypeIntervention: models.InterventionTypeRestauration,
		DateDebut:        "2026-07-01",
		Statut:           models.InterventionStatutPlanifiee,
		CreatedBy:        admin.IDUtilisateur,
	}
	require.NoError(t, db.Create(&intervention).Error)

	docCtx := sites[0].IDPatrimoine
	document := models.Document{
		TypeDocument: models.DocumentTypePDF,
		FileName:     "arrete.pdf",
		FilePath:     "/tmp/arrete.pdf",
		FileSizeMB:   0.42,
		UploadedBy:   admin.IDUtilisateur,
		IDPatrimoine: &docCtx,
	}
	require.NoError(t, db.Create(&document).Error)
	return admin, inspecteur
}

func TestBuildDashboardAdmin(t *testing.T) {
	db := openTestDB(t)
	admin, _ := seedDashboardData(t, db)

	d, err := BuildDashboard(db, &admin)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, d.Role)
	assert.Equal(t, int64(3), d.NbPatrimoines)
	// archived inspection stays out of the counters
	assert.Equal(t, int64(2), d.NbInspections)
	assert.Equal(t, int64(1), d.NbInterventions)
	assert.Equal(t, int64(1), d.NbDocuments)
	assert.Equal(t, int64(1), d.NbPendingRequests)
	assert.Equal(t, int64(0), d.MesInspections)

	assert.Equal(t, int64(2), d.ParType[models.PatrimoineTypeHistorique])
	assert.Equal(t, int64(1), d.ParType[models.PatrimoineTypeNaturel])
	assert.Equal(t, int64(1), d.ParEtat[models.InspectionEtatBon])
	assert.Equal(t, int64(1), d.ParEtat[models.InspectionEtatDegrade])
	assert.NotContains(t, d.ParEtat, models.InspectionEtatMoyen)
}

func TestBuildDashboardInspecteur(t *testing.T) {
	db := openTestDB(t)
	_, inspecteur := seedDashboardData(t, db)

	d, err := BuildDashboard(db, &inspecteur)
	require.NoError(t, err)

	assert.Equal(t, int64(0), d.NbPendingRequests)
	assert.Equal(t, int64(2), d.MesInspections)
}
