package dto

import (
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
)

// CreateVaccinationRequest is the payload for recording a dose
type CreateVaccinationRequest struct {
	StudentID int64   `json:"studentId" binding:"required,min=1" example:"1"`
	DriveID   int64   `json:"driveId" binding:"required,min=1" example:"3"`
	Notes     *string `json:"notes,omitempty"`
}

// VaccinationFilter carries the optional list/report filters
type VaccinationFilter struct {
	VaccineType  string
	StudentClass string
	FromDate     *time.Time
	ToDate       *time.Time
}

// VaccinationListResponse represents a page of vaccination records
type VaccinationListResponse struct {
	Vaccinations []*models.Vaccination `json:"vaccinations"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// VaccinationStatusResponse reports the advisory per-vaccine status check
type VaccinationStatusResponse struct {
	IsVaccinated bool `json:"isVaccinated" example:"true"`
}
