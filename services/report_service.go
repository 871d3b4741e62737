package services

import (
	"github.com/MohammedBelfellah/patrimoine/models"
	"gorm.io/gorm"
)

type Dashboard struct {
	Role              string           `json:"role"`
	NbPatrimoines     int64            `json:"nb_patrimoines"`
	NbInspections     int64            `json:"nb_inspections"`
	NbInterventions   int64            `json:"nb_interventions"`
	NbDocuments       int64            `json:"nb_documents"`
	NbPendingRequests int64            `json:"nb_pending_requests,omitempty"`
	MesInspections    int64            `json:"mes_inspections,omitempty"`
	ParType           map[string]int64 `json:"par_type"`
	ParEtat           map[string]int64 `json:"par_etat"`
}

type countRow struct {
	Key   string `gorm:"column:key"`
	Count int64  `gorm:"column:count"`
}

// BuildDashboard assembles the role-specific counters of the landing page.
func BuildDashboard(db *gorm.DB, user *models.Utilisateur) (*Dashboard, error) {
	d := &Dashboard{
		Role:    user.Role,
		ParType: map[string]int64{},
		ParEtat: map[string]int64{},
	}

	if err := db.Model(&models.Patrimoine{}).Count(&d.NbPatrimoines).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Inspection{}).Where("archived_at IS NULL").Count(&d.NbInspections).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Intervention{}).Count(&d.NbInterventions).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Document{}).Count(&d.NbDocuments).Error; err != nil {
		return nil, err
	}

	var byType []countRow
	err := db.Model(&models.Patrimoine{}).
		Select("type_patrimoine AS key, COUNT(*) AS count").
		Group("type_patrimoine").
		Scan(&byType).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byType {
		d.ParType[row.Key] = row.Count
	}

	var byEtat []countRow
	err = db.Model(&models.Inspection{}).
		Select("etat AS key, COUNT(*) AS count").
		Where("archived_at IS NULL").
		Group("etat").
		Scan(&byEtat).Error
	if err != nil {
		return nil, err
	}
	for _, row := range byEtat {
		d.ParEtat[row.Key] = row.Count
	}

	if user.IsAdmin() {
		err = db.Model(&models.InspectionModificationRequest{}).
			Where("status = ?", models.RequestStatusPending).
			Count(&d.NbPendingRequests).Error
		if err != nil {
			return nil, err
		}
	}
	if user.IsInspecteur() {
		err = db.Model(&models.Inspection{}).
			Where("id_inspecteur = ?", user.IDUtilisateur).
			Count(&d.MesInspections).Error
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}
