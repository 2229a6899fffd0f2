package models

import "time"

// Vaccination defines a recorded dose based on the 'vaccinations' table.
// At most one row exists per (studentId, driveId) pair; the unique index
// ux_vaccinations_student_drive backs that invariant.
type Vaccination struct {
	ID              int64     `json:"id" db:"id" example:"17"`                // Unique identifier for the vaccination record
	StudentID       int64     `json:"studentId" db:"student_id" example:"1"`  // Student who received the dose
	DriveID         int64     `json:"driveId" db:"drive_id" example:"3"`      // Drive the dose came from
	VaccinationDate time.Time `json:"vaccinationDate" db:"vaccination_date"`  // When the dose was administered
	Notes           *string   `json:"notes,omitempty" db:"notes"`             // Optional notes

	// Relations (populated when needed)
	Student *Student          `json:"student,omitempty"` // Associated student snapshot
	Drive   *VaccinationDrive `json:"drive,omitempty"`   // Associated drive snapshot
}
