package models

import "time"

const (
	InterventionTypeRestauration   = "RESTAURATION"
	InterventionTypeRehabilitation = "REHABILITATION"
	InterventionTypeAutre          = "AUTRE"

	InterventionStatutPlanifiee = "PLANIFIEE"
	InterventionStatutEnCours   = "EN_COURS"
	InterventionStatutSuspendue = "SUSPENDUE"
	InterventionStatutTerminee  = "TERMINEE"
	InterventionStatutAnnulee   = "ANNULEE"
)

var InterventionTypes = []string{InterventionTypeRestauration, InterventionTypeRehabilitation, InterventionTypeAutre}
var InterventionStatuts = []string{InterventionStatutPlanifiee, InterventionStatutEnCours, InterventionStatutSuspendue, InterventionStatutTerminee, InterventionStatutAnnulee}

type Intervention struct {
	IDIntervention   int64        `gorm:"primary_key;autoIncrement;column:id_intervention" json:"id_intervention"`
	IDPatrimoine     int64        `gorm:"column:id_patrimoine;index" json:"id_patrimoine"`
	Patrimoine       *Patrimoine  `gorm:"foreignKey:IDPatrimoine;references:IDPatrimoine" json:"patrimoine,omitempty"`
	NomProjet        string       `gorm:"type:varchar(300)" json:"nom_projet"`
	TypeIntervention string       `gorm:"type:varchar(50)" json:"type_intervention"`
	DateDebut        string       `gorm:"type:varchar(10)" json:"date_debut"`
	DateFin          *string      `gorm:"type:varchar(10)" json:"date_fin,omitempty"`
	Prestataire      string       `gorm:"type:varchar(300)" json:"prestataire,omitempty"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	Statut           string       `gorm:"type:varchar(50);default:'PLANIFIEE';index" json:"statut"`
	DateValidation   *time.Time   `json:"date_validation,omitempty"`
	CreatedBy        int64        `gorm:"column:created_by" json:"created_by"`
	Createur         *Utilisateur `gorm:"foreignKey:CreatedBy;references:IDUtilisateur" json:"createur,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
