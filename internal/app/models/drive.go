package models

import "time"

// DriveStatus is the lifecycle state of a vaccination drive.
// The only legal transition is open -> completed; completed is terminal.
type DriveStatus string

const (
	// DriveStatusOpen means the drive still accepts vaccinations
	DriveStatusOpen DriveStatus = "open"
	// DriveStatusCompleted means the drive was closed by an administrator
	DriveStatusCompleted DriveStatus = "completed"
)

// DriveStatusFromCompleted maps the stored is_completed flag to a status tag
func DriveStatusFromCompleted(isCompleted bool) DriveStatus {
	if isCompleted {
		return DriveStatusCompleted
	}
	return DriveStatusOpen
}

// IsCompleted reports whether the status is the terminal completed state
func (s DriveStatus) IsCompleted() bool {
	return s == DriveStatusCompleted
}

// VaccinationDrive defines the drive model based on the 'vaccination_drives' table
type VaccinationDrive struct {
	ID                int64       `json:"id" db:"id" example:"3"`                                // Unique identifier for the drive
	VaccineName       string      `json:"vaccineName" db:"vaccine_name" example:"MMR"`           // Vaccine offered at this drive
	DriveDate         time.Time   `json:"driveDate" db:"drive_date"`                             // Scheduled date
	AvailableDoses    int         `json:"availableDoses" db:"available_doses" example:"100"`     // Dose capacity, positive
	UsedDoses         int         `json:"usedDoses" db:"used_doses" example:"42"`                // Doses already recorded, never exceeds capacity
	ApplicableClasses string      `json:"applicableClasses" db:"applicable_classes" example:"5A,5B"` // Comma separated class labels
	Notes             *string     `json:"notes,omitempty" db:"notes"`                            // Optional notes
	Status            DriveStatus `json:"status" db:"is_completed" example:"open"`               // Lifecycle state
}

// RemainingDoses returns how many doses the drive can still record
func (d *VaccinationDrive) RemainingDoses() int {
	remaining := d.AvailableDoses - d.UsedDoses
	if remaining < 0 {
		return 0
	}
	return remaining
}
