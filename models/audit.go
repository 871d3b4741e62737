package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	AuditActionCreate   = "CREATE"
	AuditActionUpdate   = "UPDATE"
	AuditActionDelete   = "DELETE"
	AuditActionArchive  = "ARCHIVE"
	AuditActionApprove  = "APPROVE"
	AuditActionReject   = "REJECT"
	AuditActionLogin    = "LOGIN"
	AuditActionSetRole  = "SET_ROLE"
)

// AuditLog is append-only, written on every mutating action.
type AuditLog struct {
	IDAudit   int64          `gorm:"primary_key;autoIncrement;column:id_audit" json:"id_audit"`
	ActorID   int64          `gorm:"column:actor_id;index" json:"actor_id"`
	Acteur    *Utilisateur   `gorm:"foreignKey:ActorID;references:IDUtilisateur" json:"acteur,omitempty"`
	Action    string         `gorm:"type:varchar(100);index" json:"action"`
	Entity    string         `gorm:"type:varchar(100);index" json:"entity"`
	EntityID  int64          `gorm:"column:entity_id" json:"entity_id"`
	Before    datatypes.JSON `gorm:"type:jsonb" json:"before,omitempty"`
	After     datatypes.JSON `gorm:"type:jsonb" json:"after,omitempty"`
	Note      string         `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}
