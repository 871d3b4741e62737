package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	InspectionEtatBon     = "BON"
	InspectionEtatMoyen   = "MOYEN"
	InspectionEtatDegrade = "DEGRADE"

	RequestStatusPending  = "PENDING"
	RequestStatusApproved = "APPROVED"
	RequestStatusRejected = "REJECTED"
)

var InspectionEtats = []string{InspectionEtatBon, InspectionEtatMoyen, InspectionEtatDegrade}

type Inspection struct {
	IDInspection   int64        `gorm:"primary_key;autoIncrement;column:id_inspection" json:"id_inspection"`
	IDPatrimoine   int64        `gorm:"column:id_patrimoine;index" json:"id_patrimoine"`
	Patrimoine     *Patrimoine  `gorm:"foreignKey:IDPatrimoine;references:IDPatrimoine" json:"patrimoine,omitempty"`
	IDInspecteur   int64        `gorm:"column:id_inspecteur;index" json:"id_inspecteur"`
	Inspecteur     *Utilisateur `gorm:"foreignKey:IDInspecteur;references:IDUtilisateur" json:"inspecteur,omitempty"`
	// ISO date string; zero-padded so text comparison stays chronological
	DateInspection string `gorm:"type:varchar(10)" json:"date_inspection"`
	Etat           string `gorm:"type:varchar(50)" json:"etat"`
	Observations   string `gorm:"type:text" json:"observations,omitempty"`
	// 软删除: archived inspections stay queryable for the request history
	ArchivedAt    *time.Time `json:"archived_at,omitempty"`
	LastRequestID *int64     `gorm:"column:last_request_id" json:"last_request_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// InspectionModificationRequest: un inspecteur propose, un admin tranche.
// PENDING -> APPROVED | REJECTED, jamais rouverte.
type InspectionModificationRequest struct {
	IDRequest    int64          `gorm:"primary_key;autoIncrement;column:id_request" json:"id_request"`
	IDInspection int64          `gorm:"column:id_inspection;index" json:"id_inspection"`
	Inspection   *Inspection    `gorm:"foreignKey:IDInspection;references:IDInspection" json:"inspection,omitempty"`
	RequestedBy  int64          `gorm:"column:requested_by" json:"requested_by"`
	Demandeur    *Utilisateur   `gorm:"foreignKey:RequestedBy;references:IDUtilisateur" json:"demandeur,omitempty"`
	RequestedAt  time.Time      `gorm:"autoCreateTime" json:"requested_at"`
	Status       string         `gorm:"type:varchar(50);default:'PENDING';index" json:"status"`
	ReviewedBy   *int64         `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	Reviseur     *Utilisateur   `gorm:"foreignKey:ReviewedBy;references:IDUtilisateur" json:"reviseur,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	AdminNote    string         `gorm:"type:text" json:"admin_note,omitempty"`
	ProposedData datatypes.JSON `gorm:"type:jsonb" json:"proposed_data"`
}

// ProposedChanges is the shape serialized into ProposedData.
type ProposedChanges struct {
	DateInspection string `json:"date_inspection"`
	Etat           string `json:"etat"`
	Observations   string `json:"observations"`
}
