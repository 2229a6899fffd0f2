package services

import (
	"context"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
	"github.com/mkaya/vaxtrack/internal/pkg/logger"
)

// studentStore is the persistence contract for student records.
// DeleteWithVaccinations must remove the student's vaccination rows and the
// student row as one unit so no orphaned ledger entries survive.
type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByStudentID(ctx context.Context, studentID string) (*models.Student, error)
	List(ctx context.Context, search string, offset uint64, limit int) ([]*models.Student, error)
	Count(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, student *models.Student) error
	DeleteWithVaccinations(ctx context.Context, id int64) error
}

// StudentService handles student-related operations
type StudentService struct {
	studentRepo studentStore
}

// NewStudentService creates a new student service instance
func NewStudentService(studentRepo studentStore) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
	}
}

// CreateStudent admits a new student; the external student identifier must
// be unique across all students
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student) error {
	existing, err := s.studentRepo.GetByStudentID(ctx, student.StudentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.ErrStudentIDAlreadyExists
	}

	return s.studentRepo.Create(ctx, student)
}

// GetStudent retrieves a student by primary key
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	return student, nil
}

// GetStudentByStudentID retrieves a student by the external identifier
func (s *StudentService) GetStudentByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.studentRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	return student, nil
}

// GetStudents retrieves a page of students matching the search term
func (s *StudentService) GetStudents(ctx context.Context, search string, offset uint64, limit int) ([]*models.Student, int64, error) {
	students, err := s.studentRepo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.studentRepo.Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// UpdateStudent applies a partial edit to a student record
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, update *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	if update.StudentID != nil && *update.StudentID != student.StudentID {
		existing, err := s.studentRepo.GetByStudentID(ctx, *update.StudentID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperrors.ErrStudentIDAlreadyExists
		}
		student.StudentID = *update.StudentID
	}

	if update.Name != nil {
		student.Name = *update.Name
	}
	if update.Class != nil {
		student.Class = *update.Class
	}
	if update.Gender != nil {
		student.Gender = *update.Gender
	}
	if update.DateOfBirth != nil {
		student.DateOfBirth = *update.DateOfBirth
	}
	if update.ParentName != nil {
		student.ParentName = *update.ParentName
	}
	if update.ParentContact != nil {
		student.ParentContact = *update.ParentContact
	}
	if update.Address != nil {
		student.Address = update.Address
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// DeleteStudent removes a student and cascades deletion of their vaccination
// records, preserving referential consistency
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.studentRepo.DeleteWithVaccinations(ctx, id)
}

// BulkCreateStudents creates students from a bulk payload, counting per-row
// successes and failures instead of failing the whole batch. Rows with a
// duplicate student identifier are counted as failed.
func (s *StudentService) BulkCreateStudents(ctx context.Context, requests []dto.CreateStudentRequest) dto.BulkResult {
	result := dto.BulkResult{}

	for i := range requests {
		student := requests[i].ToModel()
		if err := s.CreateStudent(ctx, student); err != nil {
			logger.Warn().Err(err).Str("studentId", student.StudentID).Msg("Bulk student row skipped")
			result.Failed++
			continue
		}
		result.Success++
	}

	return result
}
