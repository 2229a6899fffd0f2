package dto

import (
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
)

// CreateDriveRequest is the payload for scheduling a vaccination drive
type CreateDriveRequest struct {
	VaccineName       string    `json:"vaccineName" binding:"required,max=255" example:"MMR"`
	DriveDate         time.Time `json:"driveDate" binding:"required"`
	AvailableDoses    int       `json:"availableDoses" binding:"required,min=1" example:"100"`
	ApplicableClasses string    `json:"applicableClasses" binding:"required" example:"5A,5B"`
	Notes             *string   `json:"notes,omitempty"`
}

// ToModel converts the request into a drive record with a fresh ledger state
func (r *CreateDriveRequest) ToModel() *models.VaccinationDrive {
	return &models.VaccinationDrive{
		VaccineName:       r.VaccineName,
		DriveDate:         r.DriveDate,
		AvailableDoses:    r.AvailableDoses,
		UsedDoses:         0,
		ApplicableClasses: r.ApplicableClasses,
		Notes:             r.Notes,
		Status:            models.DriveStatusOpen,
	}
}

// UpdateDriveRequest is the payload for editing a drive; nil fields are left
// unchanged. Used doses and completion state are not editable through this
// path; they belong to the ledger and the complete operation respectively.
type UpdateDriveRequest struct {
	VaccineName       *string    `json:"vaccineName,omitempty" binding:"omitempty,max=255"`
	DriveDate         *time.Time `json:"driveDate,omitempty"`
	AvailableDoses    *int       `json:"availableDoses,omitempty" binding:"omitempty,min=1"`
	ApplicableClasses *string    `json:"applicableClasses,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// DriveListResponse represents a page of vaccination drives
type DriveListResponse struct {
	Drives     []*models.VaccinationDrive `json:"drives"`
	Pagination PaginationInfo             `json:"pagination"`
}
