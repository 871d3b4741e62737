package views

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
)

type InterventionData struct {
	IDPatrimoine     int64  `json:"id_patrimoine"`
	NomProjet        string `json:"nom_projet"`
	TypeIntervention string `json:"type_intervention"`
	DateDebut        string `json:"date_debut"`
	DateFin          string `json:"date_fin"`
	Prestataire      string `json:"prestataire"`
	Description      string `json:"description"`
	Statut           string `json:"statut"`
}

func (d *InterventionData) validate() string {
	if d.IDPatrimoine == 0 || d.NomProjet == "" || d.TypeIntervention == "" || d.DateDebut == "" {
		return "champs obligatoires manquants (id_patrimoine, nom_projet, type_intervention, date_debut)"
	}
	if !methods.IsStringInSlice(d.TypeIntervention, models.InterventionTypes) {
		return "type_intervention inconnu"
	}
	if !validDate(d.DateDebut) {
		return "date_debut invalide (AAAA-MM-JJ)"
	}
	if d.DateFin != "" {
		if !validDate(d.DateFin) {
			return "date_fin invalide (AAAA-MM-JJ)"
		}
		if d.DateFin < d.DateDebut {
			return "date_fin antérieure à date_debut"
		}
	}
	if d.Statut != "" && !methods.IsStringInSlice(d.Statut, models.InterventionStatuts) {
		return "statut inconnu"
	}
	return ""
}

func (uc *UserController) GetInterventions(c *gin.Context) {
	DB := models.DB
	query := DB.Model(&models.Intervention{}).Preload("Patrimoine").Preload("Createur")
	if pid := c.Query("id_patrimoine"); pid != "" {
		query = query.Where("id_patrimoine = ?", pid)
	}
	if statut := c.Query("statut"); statut != "" {
		query = query.Where("statut = ?", statut)
	}

	var interventions []models.Intervention
	if err := query.Order("id_intervention DESC").Find(&interventions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, interventions)
}

func (uc *UserController) GetIntervention(c *gin.Context) {
	id, ok := ParamID(c, "id_intervention")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_intervention invalide"})
		return
	}
	var intervention models.Intervention
	err := models.DB.Preload("Patrimoine").Preload("Createur").First(&intervention, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "intervention introuvable"})
		return
	}
	c.JSON(http.StatusOK, intervention)
}

func (uc *UserController) AddIntervention(c *gin.Context) {
	var data InterventionData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if msg := data.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	DB := models.DB

	var site models.Patrimoine
	if err := DB.First(&site, data.IDPatrimoine).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patrimoine introuvable"})
		return
	}

	user := CurrentUser(c)
	intervention := models.Intervention{
		IDPatrimoine:     data.IDPatrimoine,
		NomProjet:        data.NomProjet,
		TypeIntervention: data.TypeIntervention,
		DateDebut:        data.DateDebut,
		Prestataire:      data.Prestataire,
		Description:      data.Description,
		Statut:           models.InterventionStatutPlanifiee,
		CreatedBy:        user.IDUtilisateur,
	}
	if data.Statut != "" {
		intervention.Statut = data.Statut
	}
	if data.DateFin != "" {
		intervention.DateFin = &data.DateFin
	}
	if err := DB.Create(&intervention).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "intervention", intervention.IDIntervention, nil, data, "")
	c.JSON(http.StatusOK, gin.H{"id_intervention": intervention.IDIntervention})
}

func (uc *UserController) ChangeIntervention(c *gin.Context) {
	id, ok := ParamID(c, "id_intervention")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_intervention invalide"})
		return
	}
	var data InterventionData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	DB := models.DB

	var intervention models.Intervention
	if err := DB.First(&intervention, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "intervention introuvable"})
		return
	}

	if data.IDPatrimoine == 0 {
		data.IDPatrimoine = intervention.IDPatrimoine
	}
	if data.NomProjet == "" {
		data.NomProjet = intervention.NomProjet
	}
	if data.TypeIntervention == "" {
		data.TypeIntervention = intervention.TypeIntervention
	}
	if data.DateDebut == "" {
		data.DateDebut = intervention.DateDebut
	}
	if data.DateFin == "" && intervention.DateFin != nil {
		data.DateFin = *intervention.DateFin
	}
	if data.Statut == "" {
		data.Statut = intervention.Statut
	}
	if msg := data.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	before := gin.H{
		"nom_projet": intervention.NomProjet, "statut": intervention.Statut,
		"date_debut": intervention.DateDebut, "date_fin": intervention.DateFin,
	}

	updates := map[string]interface{}{
		"id_patrimoine":     data.IDPatrimoine,
		"nom_projet":        data.NomProjet,
		"type_intervention": data.TypeIntervention,
		"date_debut":        data.DateDebut,
		"prestataire":       data.Prestataire,
		"description":       data.Description,
		"statut":            data.Statut,
	}
	if data.DateFin != "" {
		updates["date_fin"] = data.DateFin
	}
	// passage à TERMINEE: on horodate la validation
	if data.Statut == models.InterventionStatutTerminee && intervention.Statut != models.InterventionStatutTerminee {
		updates["date_validation"] = time.Now()
	}
	if err := DB.Model(&intervention).Updates(updates).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionUpdate, "intervention", id, before, data, "")
	c.JSON(http.StatusOK, gin.H{"msg": "intervention mise à jour"})
}

func (uc *UserController) DelIntervention(c *gin.Context) {
	id, ok := ParamID(c, "id_intervention")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_intervention invalide"})
		return
	}
	DB := models.DB

	var intervention models.Intervention
	if err := DB.First(&intervention, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "intervention introuvable"})
		return
	}
	if err := DB.Delete(&intervention).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := CurrentUser(c)
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionDelete, "intervention", id, intervention, nil, "")
	c.JSON(http.StatusOK, gin.H{"msg": "intervention supprimée"})
}

func (uc *UserController) ExportInterventions(c *gin.Context) {
	DB := models.DB
	var interventions []models.Intervention
	err := DB.Preload("Patrimoine").Order("id_intervention").Find(&interventions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	headers := []string{"id_intervention", "patrimoine", "nom_projet", "type_intervention", "date_debut", "date_fin", "prestataire", "statut"}
	rows := make([][]string, 0, len(interventions))
	for _, iv := range interventions {
		site := ""
		if iv.Patrimoine != nil {
			site = iv.Patrimoine.NomFr
		}
		fin := ""
		if iv.DateFin != nil {
			fin = *iv.DateFin
		}
		rows = append(rows, []string{
			strconv.FormatInt(iv.IDIntervention, 10),
			site,
			iv.NomProjet,
			iv.TypeIntervention,
			iv.DateDebut,
			fin,
			iv.Prestataire,
			iv.Statut,
		})
	}
	out, err := methods.BuildCSV(headers, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=interventions.csv")
	c.Data(http.StatusOK, "text/csv", out)
}
