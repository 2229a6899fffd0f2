package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the Postgres repositories. A single
// mutex guards all state so CreateWithDoseIncrement has the same atomicity
// the real store gets from its transaction.
type memStore struct {
	mu           sync.Mutex
	students     map[int64]*models.Student
	drives       map[int64]*models.VaccinationDrive
	vaccinations []*models.Vaccination
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[int64]*models.Student),
		drives:   make(map[int64]*models.VaccinationDrive),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addStudent(student *models.Student) *models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	if student.ID == 0 {
		student.ID = s.id()
	}
	s.students[student.ID] = student
	return student
}

func (s *memStore) addDrive(drive *models.VaccinationDrive) *models.VaccinationDrive {
	s.mu.Lock()
	defer s.mu.Unlock()
	if drive.ID == 0 {
		drive.ID = s.id()
	}
	s.drives[drive.ID] = drive
	return drive
}

// --- student store ---

func (s *memStore) Create(ctx context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.students {
		if existing.StudentID == student.StudentID {
			return apperrors.ErrStudentIDAlreadyExists
		}
	}
	student.ID = s.id()
	s.students[student.ID] = student
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[id]
	if !ok {
		return nil, nil
	}
	cp := *student
	return &cp, nil
}

func (s *memStore) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, student := range s.students {
		if student.StudentID == studentID {
			cp := *student
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *memStore) List(ctx context.Context, search string, offset uint64, limit int) ([]*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Student
	for _, student := range s.students {
		if search == "" || strings.Contains(student.Name, search) ||
			strings.Contains(student.StudentID, search) || strings.Contains(student.Class, search) {
			cp := *student
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context, search string) (int64, error) {
	students, _ := s.List(ctx, search, 0, 0)
	return int64(len(students)), nil
}

func (s *memStore) Update(ctx context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	cp := *student
	s.students[student.ID] = &cp
	return nil
}

func (s *memStore) DeleteWithVaccinations(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return apperrors.ErrStudentNotFound
	}
	kept := s.vaccinations[:0]
	for _, v := range s.vaccinations {
		if v.StudentID != id {
			kept = append(kept, v)
		}
	}
	s.vaccinations = kept
	delete(s.students, id)
	return nil
}

// --- drive store ---

type memDriveStore struct {
	*memStore
}

func (s *memDriveStore) Create(ctx context.Context, drive *models.VaccinationDrive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drive.ID = s.id()
	cp := *drive
	s.drives[drive.ID] = &cp
	return nil
}

func (s *memDriveStore) GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drive, ok := s.drives[id]
	if !ok {
		return nil, nil
	}
	cp := *drive
	return &cp, nil
}

func (s *memDriveStore) List(ctx context.Context, search string, offset uint64, limit int) ([]*models.VaccinationDrive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.VaccinationDrive
	for _, drive := range s.drives {
		if search == "" || strings.Contains(drive.VaccineName, search) ||
			strings.Contains(drive.ApplicableClasses, search) {
			cp := *drive
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memDriveStore) Count(ctx context.Context, search string) (int64, error) {
	drives, _ := s.List(ctx, search, 0, 0)
	return int64(len(drives)), nil
}

func (s *memDriveStore) ListUpcoming(ctx context.Context, days int) ([]*models.VaccinationDrive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	cutoff := now.AddDate(0, 0, days)
	var out []*models.VaccinationDrive
	for _, drive := range s.drives {
		if drive.DriveDate.After(now) && !drive.DriveDate.After(cutoff) && !drive.Status.IsCompleted() {
			cp := *drive
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memDriveStore) Update(ctx context.Context, drive *models.VaccinationDrive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.drives[drive.ID]
	if !ok {
		return apperrors.ErrDriveNotFound
	}
	cp := *drive
	// the real store never touches these columns on update
	cp.UsedDoses = existing.UsedDoses
	cp.Status = existing.Status
	s.drives[drive.ID] = &cp
	return nil
}

func (s *memDriveStore) MarkComplete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drive, ok := s.drives[id]
	if !ok {
		return apperrors.ErrDriveNotFound
	}
	drive.Status = models.DriveStatusCompleted
	return nil
}

func (s *memDriveStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drives[id]; !ok {
		return apperrors.ErrDriveNotFound
	}
	for _, v := range s.vaccinations {
		if v.DriveID == id {
			return apperrors.ErrDriveHasVaccinations
		}
	}
	delete(s.drives, id)
	return nil
}

// --- vaccination store ---

type memVaccinationStore struct {
	*memStore
}

func (s *memVaccinationStore) CreateWithDoseIncrement(ctx context.Context, vaccination *models.Vaccination) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.vaccinations {
		if v.StudentID == vaccination.StudentID && v.DriveID == vaccination.DriveID {
			return apperrors.ErrAlreadyVaccinated
		}
	}

	drive, ok := s.drives[vaccination.DriveID]
	if !ok {
		return apperrors.ErrDriveNotFound
	}
	if drive.UsedDoses >= drive.AvailableDoses {
		return apperrors.ErrNoDosesAvailable
	}

	drive.UsedDoses++
	vaccination.ID = s.id()
	s.vaccinations = append(s.vaccinations, vaccination)
	return nil
}

func (s *memVaccinationStore) ExistsForStudentAndDrive(ctx context.Context, studentID, driveID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.vaccinations {
		if v.StudentID == studentID && v.DriveID == driveID {
			return true, nil
		}
	}
	return false, nil
}

func (s *memVaccinationStore) CountByStudentAndVaccine(ctx context.Context, studentID int64, vaccineName string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, v := range s.vaccinations {
		if v.StudentID != studentID {
			continue
		}
		if drive, ok := s.drives[v.DriveID]; ok && drive.VaccineName == vaccineName {
			count++
		}
	}
	return count, nil
}

func (s *memVaccinationStore) List(ctx context.Context, filter dto.VaccinationFilter, offset uint64, limit int) ([]*models.Vaccination, error) {
	return s.ListForReport(ctx, filter)
}

func (s *memVaccinationStore) Count(ctx context.Context, filter dto.VaccinationFilter) (int64, error) {
	vaccinations, _ := s.ListForReport(ctx, filter)
	return int64(len(vaccinations)), nil
}

func (s *memVaccinationStore) ListForReport(ctx context.Context, filter dto.VaccinationFilter) ([]*models.Vaccination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Vaccination
	for _, v := range s.vaccinations {
		drive := s.drives[v.DriveID]
		student := s.students[v.StudentID]
		if filter.VaccineType != "" && (drive == nil || drive.VaccineName != filter.VaccineType) {
			continue
		}
		if filter.StudentClass != "" && (student == nil || student.Class != filter.StudentClass) {
			continue
		}
		if filter.FromDate != nil && v.VaccinationDate.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && v.VaccinationDate.After(*filter.ToDate) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *memVaccinationStore) ListByStudent(ctx context.Context, studentID int64) ([]*models.Vaccination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Vaccination
	for _, v := range s.vaccinations {
		if v.StudentID == studentID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *memVaccinationStore) ListByDrive(ctx context.Context, driveID int64) ([]*models.Vaccination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Vaccination
	for _, v := range s.vaccinations {
		if v.DriveID == driveID {
			out = append(out, v)
		}
	}
	return out, nil
}
