package services

import (
	"context"
	"strings"
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

// vaccinationStore is the persistence contract the dose ledger depends on.
// CreateWithDoseIncrement must apply the row insert and the conditional
// used_doses increment as one atomic unit, surfacing ErrAlreadyVaccinated on
// a duplicate (student, drive) pair and ErrNoDosesAvailable when capacity is
// exhausted, even under concurrent callers.
type vaccinationStore interface {
	CreateWithDoseIncrement(ctx context.Context, vaccination *models.Vaccination) error
	ExistsForStudentAndDrive(ctx context.Context, studentID, driveID int64) (bool, error)
	CountByStudentAndVaccine(ctx context.Context, studentID int64, vaccineName string) (int64, error)
	List(ctx context.Context, filter dto.VaccinationFilter, offset uint64, limit int) ([]*models.Vaccination, error)
	Count(ctx context.Context, filter dto.VaccinationFilter) (int64, error)
	ListForReport(ctx context.Context, filter dto.VaccinationFilter) ([]*models.Vaccination, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Vaccination, error)
	ListByDrive(ctx context.Context, driveID int64) ([]*models.Vaccination, error)
}

type studentGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

type driveGetter interface {
	GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error)
}

// VaccinationService is the dose ledger. It is the sole path for creating
// vaccination records and moving the used_doses counter, which keeps the
// capacity and per-drive uniqueness invariants centrally enforced.
type VaccinationService struct {
	vaccinationRepo vaccinationStore
	studentRepo     studentGetter
	driveRepo       driveGetter
}

// NewVaccinationService creates a new vaccination service instance
func NewVaccinationService(vaccinationRepo vaccinationStore, studentRepo studentGetter, driveRepo driveGetter) *VaccinationService {
	return &VaccinationService{
		vaccinationRepo: vaccinationRepo,
		studentRepo:     studentRepo,
		driveRepo:       driveRepo,
	}
}

// RecordVaccination records one dose given to a student from a drive.
//
// Preconditions are checked in order, each with its own failure mode:
// student exists, drive exists, no prior dose from this drive, doses left.
// The final insert-and-increment runs atomically in the store, so the
// pre-checks only provide deterministic error ordering; a race that slips
// past them is still caught by the store and mapped to the same errors.
func (s *VaccinationService) RecordVaccination(ctx context.Context, studentID, driveID int64, notes *string) (*models.Vaccination, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	drive, err := s.driveRepo.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}

	exists, err := s.vaccinationRepo.ExistsForStudentAndDrive(ctx, studentID, driveID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyVaccinated
	}

	if drive.UsedDoses >= drive.AvailableDoses {
		return nil, apperrors.ErrNoDosesAvailable
	}

	vaccination := &models.Vaccination{
		StudentID:       studentID,
		DriveID:         driveID,
		VaccinationDate: time.Now(),
		Notes:           notes,
	}

	if err := s.vaccinationRepo.CreateWithDoseIncrement(ctx, vaccination); err != nil {
		return nil, err
	}

	return vaccination, nil
}

// IsVaccinated reports whether the student has received at least one dose of
// the named vaccine from any drive. The check is advisory: it informs the
// caller but never blocks recording a dose from a different drive (booster
// and multi-dose regimens are legitimate).
func (s *VaccinationService) IsVaccinated(ctx context.Context, studentID int64, vaccineName string) (bool, error) {
	if strings.TrimSpace(vaccineName) == "" {
		return false, apperrors.ErrVaccineNameMissing
	}

	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return false, err
	}
	if student == nil {
		return false, apperrors.ErrStudentNotFound
	}

	count, err := s.vaccinationRepo.CountByStudentAndVaccine(ctx, studentID, vaccineName)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GetVaccinations retrieves a filtered page of vaccination records
func (s *VaccinationService) GetVaccinations(ctx context.Context, filter dto.VaccinationFilter, offset uint64, limit int) ([]*models.Vaccination, int64, error) {
	vaccinations, err := s.vaccinationRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.vaccinationRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return vaccinations, total, nil
}

// GetStudentVaccinations retrieves all vaccinations for one student
func (s *VaccinationService) GetStudentVaccinations(ctx context.Context, studentID int64) ([]*models.Vaccination, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	return s.vaccinationRepo.ListByStudent(ctx, studentID)
}

// GetDriveVaccinations retrieves all vaccinations recorded against one drive
func (s *VaccinationService) GetDriveVaccinations(ctx context.Context, driveID int64) ([]*models.Vaccination, error) {
	drive, err := s.driveRepo.GetByID(ctx, driveID)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}

	return s.vaccinationRepo.ListByDrive(ctx, driveID)
}

// GetVaccinationReport retrieves the unpaginated filtered record feed used
// by report exports
func (s *VaccinationService) GetVaccinationReport(ctx context.Context, filter dto.VaccinationFilter) ([]*models.Vaccination, error) {
	return s.vaccinationRepo.ListForReport(ctx, filter)
}
