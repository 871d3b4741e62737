package views

import (
	"strconv"

	"github.com/MohammedBelfellah/patrimoine/models"
	"github.com/gin-gonic/gin"
)

type UserController struct {
}

// CurrentUser returns the authenticated utilisateur attached by AuthRequired.
func CurrentUser(c *gin.Context) *models.Utilisateur {
	val, ok := c.Get("user")
	if !ok {
		return nil
	}
	user, ok := val.(*models.Utilisateur)
	if !ok {
		return nil
	}
	return user
}

func ParamID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
