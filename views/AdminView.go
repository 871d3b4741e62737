package views

import (
	"net/http"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
)

// Hiérarchie administrative: listes en cascade pour les formulaires

func (uc *UserController) GetRegions(c *gin.Context) {
	var regions []models.Region
	if err := models.DB.Order("nom_region").Find(&regions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, regions)
}

func (uc *UserController) GetProvincesByRegion(c *gin.Context) {
	id, ok := ParamID(c, "id_region")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_region invalide"})
		return
	}
	var provinces []models.Province
	if err := models.DB.Where("id_region = ?", id).Order("nom_province").Find(&provinces).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, provinces)
}

func (uc *UserController) GetCommunesByProvince(c *gin.Context) {
	id, ok := ParamID(c, "id_province")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_province invalide"})
		return
	}
	var communes []models.Commune
	if err := models.DB.Where("id_province = ?", id).Order("nom_commune").Find(&communes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, communes)
}

func (uc *UserController) GetPatrimoinesByCommune(c *gin.Context) {
	id, ok := ParamID(c, "id_commune")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_commune invalide"})
		return
	}
	var sites []models.Patrimoine
	err := models.DB.Select("id_patrimoine", "nom_fr").Where("id_commune = ?", id).Order("nom_fr").Find(&sites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sites)
}

// Gestion des utilisateurs (superadmin)

func (uc *UserController) GetUsers(c *gin.Context) {
	var users []models.Utilisateur
	if err := models.DB.Order("username").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, users)
}

type SetRoleData struct {
	IDUtilisateur int64  `json:"id_utilisateur" binding:"required"`
	Role          string `json:"role" binding:"required"`
}

func (uc *UserController) SetUserRole(c *gin.Context) {
	var data SetRoleData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roles := []string{models.RoleSuperadmin, models.RoleAdmin, models.RoleInspecteur, models.RolePublic}
	if !methods.IsStringInSlice(data.Role, roles) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role inconnu"})
		return
	}
	DB := models.DB

	var user models.Utilisateur
	if err := DB.First(&user, data.IDUtilisateur).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utilisateur introuvable"})
		return
	}
	before := gin.H{"role": user.Role}
	if err := DB.Model(&user).Update("role", data.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	actor := CurrentUser(c)
	methods.RecordAudit(DB, actor.IDUtilisateur, models.AuditActionSetRole, "utilisateur", user.IDUtilisateur, before, gin.H{"role": data.Role}, "")
	c.JSON(http.StatusOK, gin.H{"msg": "role mis à jour"})
}

func (uc *UserController) ToggleUserActive(c *gin.Context) {
	id, ok := ParamID(c, "id_utilisateur")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_utilisateur invalide"})
		return
	}
	DB := models.DB

	var user models.Utilisateur
	if err := DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "utilisateur introuvable"})
		return
	}
	updates := map[string]interface{}{"actif": !user.Actif}
	if user.Actif {
		// révoquer le token en même temps que le compte
		updates["token"] = ""
	}
	if err := DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	actor := CurrentUser(c)
	methods.RecordAudit(DB, actor.IDUtilisateur, models.AuditActionUpdate, "utilisateur", user.IDUtilisateur,
		gin.H{"actif": user.Actif}, gin.H{"actif": !user.Actif}, "toggle actif")
	c.JSON(http.StatusOK, gin.H{"actif": !user.Actif})
}
