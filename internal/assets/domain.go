// Package assets manages the hardware inventory and its assignment to
// employees.
package assets

import "time"

// Asset lifecycle states.
const (
	StatusAvailable   = "Available"
	StatusAssigned    = "Assigned"
	StatusMaintenance = "Maintenance"
	StatusRetired     = "Retired"
)

// Asset is a tracked piece of hardware.
type Asset struct {
	ID           int64     `json:"id"`
	Tag          string    `json:"tag"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	SerialNumber string    `json:"serialNumber,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	Model        string    `json:"model,omitempty"`
	Status       string    `json:"status"`
	Location     string    `json:"location,omitempty"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// AssignedAsset is an asset as seen from an employee's assignment list.
type AssignedAsset struct {
	Asset
	AssignmentID int64      `json:"assignmentId"`
	AssignedDate time.Time  `json:"assignedDate"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}
