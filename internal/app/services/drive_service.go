package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

// DefaultUpcomingWindowDays is the default lookahead for upcoming-drive queries
const DefaultUpcomingWindowDays = 30

// driveStore is the persistence contract for drive lifecycle operations.
// Update must not touch used_doses or the completion flag; MarkComplete must
// be idempotent; Delete must refuse drives with recorded vaccinations.
type driveStore interface {
	Create(ctx context.Context, drive *models.VaccinationDrive) error
	GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error)
	List(ctx context.Context, search string, offset uint64, limit int) ([]*models.VaccinationDrive, error)
	Count(ctx context.Context, search string) (int64, error)
	ListUpcoming(ctx context.Context, days int) ([]*models.VaccinationDrive, error)
	Update(ctx context.Context, drive *models.VaccinationDrive) error
	MarkComplete(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// DriveService manages the vaccination drive lifecycle: scheduling, edits
// while open, the one-way open->completed transition, and deletion.
type DriveService struct {
	driveRepo           driveStore
	minScheduleLeadDays int
}

// NewDriveService creates a new drive service instance
func NewDriveService(driveRepo driveStore, minScheduleLeadDays int) *DriveService {
	return &DriveService{
		driveRepo:           driveRepo,
		minScheduleLeadDays: minScheduleLeadDays,
	}
}

// validateDrive checks the scheduling constraints shared by create and edit
func (s *DriveService) validateDrive(drive *models.VaccinationDrive) error {
	if drive.AvailableDoses < 1 {
		return fmt.Errorf("%w: available doses must be at least 1", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(drive.ApplicableClasses) == "" {
		return fmt.Errorf("%w: applicable classes cannot be empty", apperrors.ErrValidationFailed)
	}

	if strings.TrimSpace(drive.VaccineName) == "" {
		return fmt.Errorf("%w: vaccine name cannot be empty", apperrors.ErrValidationFailed)
	}

	return nil
}

// CreateDrive schedules a new drive. The drive date must be at least
// minScheduleLeadDays in the future; the ledger state starts at zero used
// doses and the open status.
func (s *DriveService) CreateDrive(ctx context.Context, drive *models.VaccinationDrive) error {
	if err := s.validateDrive(drive); err != nil {
		return err
	}

	earliest := time.Now().AddDate(0, 0, s.minScheduleLeadDays)
	if drive.DriveDate.Before(earliest) {
		return fmt.Errorf("%w: drive date must be at least %d days in the future",
			apperrors.ErrValidationFailed, s.minScheduleLeadDays)
	}

	drive.UsedDoses = 0
	drive.Status = models.DriveStatusOpen

	return s.driveRepo.Create(ctx, drive)
}

// GetDrive retrieves a drive by ID
func (s *DriveService) GetDrive(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	drive, err := s.driveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}

	return drive, nil
}

// GetDrives retrieves a page of drives matching the search term
func (s *DriveService) GetDrives(ctx context.Context, search string, offset uint64, limit int) ([]*models.VaccinationDrive, int64, error) {
	drives, err := s.driveRepo.List(ctx, search, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.driveRepo.Count(ctx, search)
	if err != nil {
		return nil, 0, err
	}

	return drives, total, nil
}

// GetUpcomingDrives retrieves open drives scheduled within the next `days`
// days; days falls back to DefaultUpcomingWindowDays when non-positive
func (s *DriveService) GetUpcomingDrives(ctx context.Context, days int) ([]*models.VaccinationDrive, error) {
	if days <= 0 {
		days = DefaultUpcomingWindowDays
	}

	return s.driveRepo.ListUpcoming(ctx, days)
}

// UpdateDrive applies a partial edit to an open drive. Used doses and the
// completion flag are not editable here: the ledger owns the counter and
// CompleteDrive owns the transition. Capacity may never drop below doses
// already given.
func (s *DriveService) UpdateDrive(ctx context.Context, id int64, update *dto.UpdateDriveRequest) (*models.VaccinationDrive, error) {
	drive, err := s.driveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}

	if drive.Status.IsCompleted() {
		return nil, apperrors.ErrDriveCompleted
	}

	if update.VaccineName != nil {
		drive.VaccineName = *update.VaccineName
	}
	if update.DriveDate != nil {
		drive.DriveDate = *update.DriveDate
	}
	if update.AvailableDoses != nil {
		if *update.AvailableDoses < drive.UsedDoses {
			return nil, fmt.Errorf("%w: available doses cannot be reduced below the %d doses already used",
				apperrors.ErrValidationFailed, drive.UsedDoses)
		}
		drive.AvailableDoses = *update.AvailableDoses
	}
	if update.ApplicableClasses != nil {
		drive.ApplicableClasses = *update.ApplicableClasses
	}
	if update.Notes != nil {
		drive.Notes = update.Notes
	}

	if err := s.validateDrive(drive); err != nil {
		return nil, err
	}

	if err := s.driveRepo.Update(ctx, drive); err != nil {
		return nil, err
	}

	return drive, nil
}

// CompleteDrive marks a drive completed. The transition is one-way and
// idempotent: completing an already-completed drive is a no-op success.
// There is no requirement that all doses be used.
func (s *DriveService) CompleteDrive(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	drive, err := s.driveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drive == nil {
		return nil, apperrors.ErrDriveNotFound
	}

	if err := s.driveRepo.MarkComplete(ctx, id); err != nil {
		return nil, err
	}

	drive.Status = models.DriveStatusCompleted
	return drive, nil
}

// DeleteDrive removes a drive. Drives with recorded vaccinations cannot be
// deleted; the store surfaces ErrDriveHasVaccinations for those.
func (s *DriveService) DeleteDrive(ctx context.Context, id int64) error {
	return s.driveRepo.Delete(ctx, id)
}
