package dto

import (
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
)

// CreateStudentRequest is the payload for admitting a student
type CreateStudentRequest struct {
	StudentID     string    `json:"studentId" binding:"required,max=64" example:"STU-1042"`
	Name          string    `json:"name" binding:"required,max=255" example:"Aylin Demir"`
	Class         string    `json:"class" binding:"required,max=32" example:"5A"`
	Gender        string    `json:"gender" binding:"required,max=16" example:"female"`
	DateOfBirth   time.Time `json:"dateOfBirth" binding:"required"`
	ParentName    string    `json:"parentName" binding:"required,max=255" example:"Murat Demir"`
	ParentContact string    `json:"parentContact" binding:"required,max=64" example:"+90 555 000 0000"`
	Address       *string   `json:"address,omitempty"`
}

// ToModel converts the request into a Student record
func (r *CreateStudentRequest) ToModel() *models.Student {
	return &models.Student{
		StudentID:     r.StudentID,
		Name:          r.Name,
		Class:         r.Class,
		Gender:        r.Gender,
		DateOfBirth:   r.DateOfBirth,
		ParentName:    r.ParentName,
		ParentContact: r.ParentContact,
		Address:       r.Address,
	}
}

// UpdateStudentRequest is the payload for editing a student; nil fields are left unchanged
type UpdateStudentRequest struct {
	StudentID     *string    `json:"studentId,omitempty" binding:"omitempty,max=64"`
	Name          *string    `json:"name,omitempty" binding:"omitempty,max=255"`
	Class         *string    `json:"class,omitempty" binding:"omitempty,max=32"`
	Gender        *string    `json:"gender,omitempty" binding:"omitempty,max=16"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	ParentName    *string    `json:"parentName,omitempty" binding:"omitempty,max=255"`
	ParentContact *string    `json:"parentContact,omitempty" binding:"omitempty,max=64"`
	Address       *string    `json:"address,omitempty"`
}

// BulkStudentsRequest is the payload for bulk student creation
type BulkStudentsRequest struct {
	Students []CreateStudentRequest `json:"students" binding:"required,min=1,dive"`
}

// BulkResult reports how many rows of a bulk operation succeeded
type BulkResult struct {
	Success int `json:"success" example:"48"`
	Failed  int `json:"failed" example:"2"`
}

// StudentListResponse represents a page of students
type StudentListResponse struct {
	Students   []*models.Student `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}
