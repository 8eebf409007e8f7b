package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/esn-apps/scholarship-review-api/internal/middleware"
	"github.com/esn-apps/scholarship-review-api/internal/models"
	appErrors "github.com/esn-apps/scholarship-review-api/pkg/errors"
	"github.com/esn-apps/scholarship-review-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// requireClaims writes the 401 itself so handlers can bail with a bare
// return.
func requireClaims(c *gin.Context) (*models.JWTClaims, bool) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return nil, false
	}
	return claims, true
}
