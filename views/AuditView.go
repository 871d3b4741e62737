package views

import (
	"net/http"
	"strconv"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
)

func (uc *UserController) GetAuditLog(c *gin.Context) {
	DB := models.DB
	query := DB.Model(&models.AuditLog{}).Preload("Acteur")
	if entity := c.Query("entity"); entity != "" {
		query = query.Where("entity = ?", entity)
	}
	if action := c.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}
	if actor := c.Query("actor"); actor != "" {
		query = query.Where("actor_id = ?", actor)
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if size < 1 || size > 500 {
		size = 50
	}

	var total int64
	query.Count(&total)

	var entries []models.AuditLog
	err := query.Order("id_audit DESC").Limit(size).Offset((page - 1) * size).Find(&entries).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "page": page, "size": size, "entries": entries})
}
