package views

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type InspectionData struct {
	IDPatrimoine   int64  `json:"id_patrimoine"`
	DateInspection string `json:"date_inspection"`
	Etat           string `json:"etat"`
	Observations   string `json:"observations"`
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func (uc *UserController) GetInspections(c *gin.Context) {
	DB := models.DB
	query := DB.Model(&models.Inspection{}).Preload("Patrimoine").Preload("Inspecteur")
	if c.Query("archived") != "1" {
		query = query.Where("archived_at IS NULL")
	}
	if pid := c.Query("id_patrimoine"); pid != "" {
		query = query.Where("id_patrimoine = ?", pid)
	}

	var inspections []models.Inspection
	if err := query.Order("id_inspection DESC").Find(&inspections).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// les admins voient aussi les demandes en attente
	user := CurrentUser(c)
	result := gin.H{"inspections": inspections}
	if user.IsAdmin() {
		var pending []models.InspectionModificationRequest
		err := DB.Where("status = ?", models.RequestStatusPending).
			Preload("Inspection").
			Preload("Inspection.Patrimoine").
			Preload("Demandeur").
			Order("requested_at").
			Find(&pending).Error
		if err == nil {
			result["pending_requests"] = pending
		}
	}
	c.JSON(http.StatusOK, result)
}

func (uc *UserController) GetInspection(c *gin.Context) {
	id, ok := ParamID(c, "id_inspection")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_inspection invalide"})
		return
	}
	DB := models.DB

	var inspection models.Inspection
	err := DB.Preload("Patrimoine").Preload("Inspecteur").First(&inspection, id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inspection introuvable"})
		return
	}

	var requests []models.InspectionModificationRequest
	DB.Where("id_inspection = ?", id).
		Preload("Demandeur").
		Preload("Reviseur").
		Order("requested_at DESC").
		Find(&requests)

	user := CurrentUser(c)
	hasPending := false
	for _, r := range requests {
		if r.Status == models.RequestStatusPending {
			hasPending = true
			break
		}
	}
	canRequest := user.IsInspecteur() && inspection.IDInspecteur == user.IDUtilisateur && !hasPending

	c.JSON(http.StatusOK, gin.H{
		"inspection":               inspection,
		"modification_requests":    requests,
		"can_request_modification": canRequest,
	})
}

func (uc *UserController) AddInspection(c *gin.Context) {
	var data InspectionData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if data.IDPatrimoine == 0 || data.DateInspection == "" || data.Etat == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "champs obligatoires manquants (id_patrimoine, date_inspection, etat)"})
		return
	}
	if !validDate(data.DateInspection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_inspection invalide (AAAA-MM-JJ)"})
		return
	}
	if !methods.IsStringInSlice(data.Etat, models.InspectionEtats) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "etat inconnu"})
		return
	}
	DB := models.DB

	var site models.Patrimoine
	if err := DB.First(&site, data.IDPatrimoine).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patrimoine introuvable"})
		return
	}

	user := CurrentUser(c)
	inspection := models.Inspection{
		IDPatrimoine:   data.IDPatrimoine,
		IDInspecteur:   user.IDUtilisateur,
		DateInspection: data.DateInspection,
		Etat:           data.Etat,
		Observations:   data.Observations,
	}
	if err := DB.Create(&inspection).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "inspection", inspection.IDInspection, nil, data, "")
	c.JSON(http.StatusOK, gin.H{"id_inspection": inspection.IDInspection})
}

// ArchiveInspection flips archived_at; archived inspections drop out of the
// default listing but keep their history.
func (uc *UserController) ArchiveInspection(c *gin.Context) {
	id, ok := ParamID(c, "id_inspection")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_inspection invalide"})
		return
	}
	DB := models.DB

	var inspection models.Inspection
	if err := DB.First(&inspection, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inspection introuvable"})
		return
	}

	user := CurrentUser(c)
	if inspection.ArchivedAt == nil {
		now := time.Now()
		if err := DB.Model(&inspection).Update("archived_at", &now).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionArchive, "inspection", id, nil, nil, "archivée")
		c.JSON(http.StatusOK, gin.H{"archived": true})
		return
	}

	if err := DB.Model(&inspection).Update("archived_at", nil).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionArchive, "inspection", id, nil, nil, "désarchivée")
	c.JSON(http.StatusOK, gin.H{"archived": false})
}

// Workflow de modification: l'inspecteur propose, l'admin tranche.

type RequestEditData struct {
	DateInspection string `json:"date_inspection"`
	Etat           string `json:"etat"`
	Observations   string `json:"observations"`
}

func (uc *UserController) RequestInspectionEdit(c *gin.Context) {
	id, ok := ParamID(c, "id_inspection")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_inspection invalide"})
		return
	}
	var data RequestEditData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDate(data.DateInspection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_inspection invalide (AAAA-MM-JJ)"})
		return
	}
	if !methods.IsStringInSlice(data.Etat, models.InspectionEtats) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "etat inconnu"})
		return
	}
	DB := models.DB

	var inspection models.Inspection
	if err := DB.First(&inspection, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "inspection introuvable"})
		return
	}

	user := CurrentUser(c)
	if inspection.IDInspecteur != user.IDUtilisateur {
		c.JSON(http.StatusForbidden, gin.H{"error": "seul l'inspecteur auteur peut demander une modification"})
		return
	}

	// une seule demande en attente par inspection (l'index partiel le
	// garantit aussi côté base)
	var pending int64
	DB.Model(&models.InspectionModificationRequest{}).
		Where("id_inspection = ? AND status = ?", id, models.RequestStatusPending).
		Count(&pending)
	if pending > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "une demande est déjà en attente pour cette inspection"})
		return
	}

	proposed, _ := json.Marshal(models.ProposedChanges{
		DateInspection: data.DateInspection,
		Etat:           data.Etat,
		Observations:   data.Observations,
	})
	request := models.InspectionModificationRequest{
		IDInspection: id,
		RequestedBy:  user.IDUtilisateur,
		Status:       models.RequestStatusPending,
		ProposedData: proposed,
	}
	if err := DB.Create(&request).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionCreate, "inspection_modification_request", request.IDRequest, nil, data, "")
	c.JSON(http.StatusOK, gin.H{"id_request": request.IDRequest})
}

type ReviewData struct {
	AdminNote string `json:"admin_note"`
}

func (uc *UserController) ApproveInspectionRequest(c *gin.Context) {
	id, ok := ParamID(c, "id_request")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_request invalide"})
		return
	}
	var data ReviewData
	c.ShouldBindJSON(&data)
	DB := models.DB
	user := CurrentUser(c)

	err := DB.Transaction(func(tx *gorm.DB) error {
		var request models.InspectionModificationRequest
		if err := tx.First(&request, id).Error; err != nil {
			return err
		}

		var proposed models.ProposedChanges
		if err := json.Unmarshal(request.ProposedData, &proposed); err != nil {
			return err
		}

		var inspection models.Inspection
		if err := tx.First(&inspection, request.IDInspection).Error; err != nil {
			return err
		}
		before := models.ProposedChanges{
			DateInspection: inspection.DateInspection,
			Etat:           inspection.Etat,
			Observations:   inspection.Observations,
		}

		// transition conditionnelle: un examen concurrent perd sans écraser
		// l'état terminal
		now := time.Now()
		res := tx.Model(&models.InspectionModificationRequest{}).
			Where("id_request = ? AND status = ?", request.IDRequest, models.RequestStatusPending).
			Updates(map[string]interface{}{
				"status":      models.RequestStatusApproved,
				"reviewed_by": user.IDUtilisateur,
				"reviewed_at": &now,
				"admin_note":  data.AdminNote,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errRequestClosed
		}

		err := tx.Model(&inspection).Updates(map[string]interface{}{
			"date_inspection": proposed.DateInspection,
			"etat":            proposed.Etat,
			"observations":    proposed.Observations,
			"last_request_id": request.IDRequest,
		}).Error
		if err != nil {
			return err
		}

		methods.RecordAudit(tx, user.IDUtilisateur, models.AuditActionApprove, "inspection_modification_request", request.IDRequest, before, proposed, data.AdminNote)
		return nil
	})
	if err == errRequestClosed {
		c.JSON(http.StatusConflict, gin.H{"error": "la demande n'est plus en attente"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "demande approuvée"})
}

func (uc *UserController) RejectInspectionRequest(c *gin.Context) {
	id, ok := ParamID(c, "id_request")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_request invalide"})
		return
	}
	var data ReviewData
	c.ShouldBindJSON(&data)
	DB := models.DB
	user := CurrentUser(c)

	var request models.InspectionModificationRequest
	if err := DB.First(&request, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "demande introuvable"})
		return
	}

	// même garde conditionnelle que l'approbation
	now := time.Now()
	res := DB.Model(&models.InspectionModificationRequest{}).
		Where("id_request = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      models.RequestStatusRejected,
			"reviewed_by": user.IDUtilisateur,
			"reviewed_at": &now,
			"admin_note":  data.AdminNote,
		})
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "la demande n'est plus en attente"})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionReject, "inspection_modification_request", request.IDRequest, nil, nil, data.AdminNote)
	c.JSON(http.StatusOK, gin.H{"msg": "demande rejetée"})
}

func (uc *UserController) ExportInspections(c *gin.Context) {
	DB := models.DB
	var inspections []models.Inspection
	err := DB.Preload("Patrimoine").Preload("Inspecteur").Order("id_inspection").Find(&inspections).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	headers := []string{"id_inspection", "patrimoine", "inspecteur", "date_inspection", "etat", "observations", "archivee"}
	rows := make([][]string, 0, len(inspections))
	for _, insp := range inspections {
		site, inspecteur := "", ""
		if insp.Patrimoine != nil {
			site = insp.Patrimoine.NomFr
		}
		if insp.Inspecteur != nil {
			inspecteur = insp.Inspecteur.Username
		}
		archived := ""
		if insp.ArchivedAt != nil {
			archived = insp.ArchivedAt.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			strconv.FormatInt(insp.IDInspection, 10),
			site,
			inspecteur,
			insp.DateInspection,
			insp.Etat,
			insp.Observations,
			archived,
		})
	}
	out, err := methods.BuildCSV(headers, rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=inspections.csv")
	c.Data(http.StatusOK, "text/csv", out)
}
