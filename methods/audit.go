package methods

import (
	"encoding/json"
	"log"

	"github.com/MohammedBelfellah/patrimoine/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func toJSON(v interface{}) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Failed to marshal audit snapshot: %v", err)
		return nil
	}
	return data
}

// RecordAudit appends one audit_log row. A failed write is logged and
// swallowed so audit never fails the business action itself.
func RecordAudit(db *gorm.DB, actorID int64, action string, entity string, entityID int64, before interface{}, after interface{}, note string) {
	entry := models.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Before:   toJSON(before),
		After:    toJSON(after),
		Note:     note,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("Failed to write audit log (%s %s %d): %v", action, entity, entityID, err)
	}
}
