package request

// RoleRequest assigns or removes a role by name
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}
