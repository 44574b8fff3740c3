package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ngoinfo/grantpilot/internal/shared/constants"
	"github.com/ngoinfo/grantpilot/internal/shared/errors"
)

// CurrentUserID extracts the authenticated user's ID from the gin context.
func CurrentUserID(c *gin.Context) (string, error) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", errors.NewUnauthorizedError("user not authenticated")
	}
	userID, ok := value.(string)
	if !ok || userID == "" {
		return "", errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, nil
}

// ParseUUIDParam reads a path parameter and validates it as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (string, error) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", errors.NewValidationError("invalid " + name)
	}
	return id.String(), nil
}
