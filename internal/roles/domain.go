// Package roles manages role definitions and user-role assignments.
package roles

import (
	"time"

	"github.com/assetgrid/assetgrid/internal/permissions"
)

// Role is a named permission bundle assignable to users.
type Role struct {
	ID          int64                `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Permissions permissions.Document `json:"permissions"`
	IsActive    bool                 `json:"isActive"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// Assignment links a user to a role.
type Assignment struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	RoleID     int64     `json:"roleId"`
	AssignedBy int64     `json:"assignedBy"`
	AssignedAt time.Time `json:"assignedAt"`
}

// UserRole is a role as seen from a user's assignment list.
type UserRole struct {
	AssignmentID int64                `json:"assignmentId"`
	RoleID       int64                `json:"roleId"`
	RoleName     string               `json:"roleName"`
	Description  string               `json:"description"`
	Permissions  permissions.Document `json:"permissions"`
	AssignedBy   int64                `json:"assignedBy"`
	AssignedAt   time.Time            `json:"assignedAt"`
}

// UserSummary is the lookup result when resolving a user by employee ID.
type UserSummary struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	EmployeeID string `json:"employeeId"`
	Department string `json:"department"`
}
