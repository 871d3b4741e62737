package views

import (
	"net/http"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/MohammedBelfellah/patrimoine/services"
	"github.com/gin-gonic/gin"
)

// Les deux vues de reporting sont exposées telles quelles, en lecture seule.

func (uc *UserController) GetHierarchie(c *gin.Context) {
	var rows []map[string]interface{}
	if err := models.DB.Raw(`SELECT * FROM v_patrimoine_hierarchie ORDER BY id_patrimoine`).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (uc *UserController) GetStatsCommune(c *gin.Context) {
	var rows []map[string]interface{}
	if err := models.DB.Raw(`SELECT * FROM v_stats_commune ORDER BY nom_region, nom_province, nom_commune`).Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (uc *UserController) GetDashboard(c *gin.Context) {
	user := CurrentUser(c)
	report, err := services.BuildDashboard(models.DB, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
