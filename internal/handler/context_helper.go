package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/modul-ajar-api/internal/middleware"
	"github.com/noah-isme/modul-ajar-api/internal/models"
	appErrors "github.com/noah-isme/modul-ajar-api/pkg/errors"
	"github.com/noah-isme/modul-ajar-api/pkg/response"
)

func sessionFromContext(c *gin.Context) *models.SessionClaims {
	value, exists := c.Get(middleware.ContextSessionKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// profileID returns the authenticated profile or writes a 401 and reports false.
func profileID(c *gin.Context) (string, bool) {
	claims := sessionFromContext(c)
	if claims == nil || claims.ProfileID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		c.Abort()
		return "", false
	}
	return claims.ProfileID, true
}
