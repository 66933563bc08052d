package auth

import "time"

// Admin represents an administrative account with a single static role name.
type Admin struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	Role         string
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// User represents a regular user account holding role assignments.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	EmployeeID   string
	Department   string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
