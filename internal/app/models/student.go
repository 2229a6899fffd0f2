package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64     `json:"id" db:"id" example:"1"`                            // Unique identifier for the student record
	StudentID     string    `json:"studentId" db:"student_id" example:"STU-1042"`      // External student identifier, unique across all students
	Name          string    `json:"name" db:"name" example:"Aylin Demir"`              // Full name
	Class         string    `json:"class" db:"class" example:"5A"`                     // Class/grade label
	Gender        string    `json:"gender" db:"gender" example:"female"`               // Gender
	DateOfBirth   time.Time `json:"dateOfBirth" db:"date_of_birth"`                    // Date of birth
	ParentName    string    `json:"parentName" db:"parent_name" example:"Murat Demir"` // Guardian name
	ParentContact string    `json:"parentContact" db:"parent_contact" example:"+90 555 000 0000"` // Guardian contact
	Address       *string   `json:"address,omitempty" db:"address"`                    // Optional address
}
