package views

import (
	"net/http"
	"strings"
	"time"

	"github.com/MohammedBelfellah/patrimoine/methods"
	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type LoginData struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login accepts username or email, case-insensitive, and issues a token.
func (uc *UserController) Login(c *gin.Context) {
	var data LoginData
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	DB := models.DB

	var user models.Utilisateur
	login := strings.TrimSpace(data.Login)
	err := DB.Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", login, login).First(&user).Error
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identifiants invalides"})
		return
	}
	if !user.Actif {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "compte désactivé"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(data.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "identifiants invalides"})
		return
	}

	user.Token = uuid.New().String()
	user.Date = time.Now().Format("2006-01-02 15:04:05")
	if err := DB.Model(&user).Updates(map[string]interface{}{"token": user.Token, "date": user.Date}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	methods.RecordAudit(DB, user.IDUtilisateur, models.AuditActionLogin, "utilisateur", user.IDUtilisateur, nil, nil, "")
	c.JSON(http.StatusOK, gin.H{
		"token": user.Token,
		"user": gin.H{
			"id_utilisateur": user.IDUtilisateur,
			"username":       user.Username,
			"nom":            user.Nom,
			"role":           user.Role,
		},
	})
}

func (uc *UserController) Logout(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}
	DB := models.DB
	if err := DB.Model(&models.Utilisateur{}).Where("id_utilisateur = ?", user.IDUtilisateur).Update("token", "").Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "déconnecté"})
}

// AuthRequired resolves the Token header to a utilisateur.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token manquant"})
			return
		}
		var user models.Utilisateur
		err := models.DB.Where("token = ? AND token <> '' AND actif = ?", token, true).First(&user).Error
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token invalide"})
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

// RoleRequired gates a route group on one of the given roles. superadmin
// passes everywhere.
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
			return
		}
		if user.Role == models.RoleSuperadmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "accès refusé"})
	}
}
