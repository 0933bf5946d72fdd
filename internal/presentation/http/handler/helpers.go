package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID returns the authenticated user's id placed in the context by the
// auth middleware, or nil on unauthenticated routes.
func GetUserID(c *gin.Context) *uuid.UUID {
	userID, ok := c.Value("user_id").(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}
