package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

func newVaccinationFixture() (*VaccinationService, *memStore) {
	store := newMemStore()
	svc := NewVaccinationService(
		&memVaccinationStore{store},
		store,
		&memDriveStore{store},
	)
	return svc, store
}

func seedStudent(store *memStore, studentID string) *models.Student {
	return store.addStudent(&models.Student{
		StudentID:     studentID,
		Name:          "Test Student",
		Class:         "5A",
		Gender:        "female",
		DateOfBirth:   time.Date(2014, 6, 1, 0, 0, 0, 0, time.UTC),
		ParentName:    "Test Parent",
		ParentContact: "+90 555 000 0000",
	})
}

func seedDrive(store *memStore, vaccine string, available, used int) *models.VaccinationDrive {
	return store.addDrive(&models.VaccinationDrive{
		VaccineName:       vaccine,
		DriveDate:         time.Now().AddDate(0, 0, 20),
		AvailableDoses:    available,
		UsedDoses:         used,
		ApplicableClasses: "5A,5B",
		Status:            models.DriveStatusOpen,
	})
}

func TestRecordVaccination(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	student := seedStudent(store, "STU-1")
	drive := seedDrive(store, "MMR", 2, 0)

	vaccination, err := svc.RecordVaccination(ctx, student.ID, drive.ID, nil)
	if err != nil {
		t.Fatalf("record vaccination: %v", err)
	}
	if vaccination.ID == 0 {
		t.Error("expected vaccination to be assigned an ID")
	}
	if vaccination.VaccinationDate.IsZero() {
		t.Error("expected vaccination date to be set")
	}

	got, err := (&memDriveStore{store}).GetByID(ctx, drive.ID)
	if err != nil {
		t.Fatalf("get drive: %v", err)
	}
	if got.UsedDoses != 1 {
		t.Errorf("used doses = %d, want 1", got.UsedDoses)
	}
}

func TestRecordVaccinationStudentNotFound(t *testing.T) {
	svc, store := newVaccinationFixture()
	drive := seedDrive(store, "MMR", 10, 0)

	_, err := svc.RecordVaccination(context.Background(), 999, drive.ID, nil)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestRecordVaccinationDriveNotFound(t *testing.T) {
	svc, store := newVaccinationFixture()
	student := seedStudent(store, "STU-1")

	_, err := svc.RecordVaccination(context.Background(), student.ID, 999, nil)
	if !errors.Is(err, apperrors.ErrDriveNotFound) {
		t.Fatalf("err = %v, want ErrDriveNotFound", err)
	}
}

// A missing student must win over a missing drive when both IDs are bad.
func TestRecordVaccinationMissingStudentCheckedFirst(t *testing.T) {
	svc, _ := newVaccinationFixture()

	_, err := svc.RecordVaccination(context.Background(), 998, 999, nil)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestRecordVaccinationDuplicate(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	student := seedStudent(store, "STU-1")
	drive := seedDrive(store, "MMR", 10, 0)

	if _, err := svc.RecordVaccination(ctx, student.ID, drive.ID, nil); err != nil {
		t.Fatalf("first record: %v", err)
	}

	_, err := svc.RecordVaccination(ctx, student.ID, drive.ID, nil)
	if !errors.Is(err, apperrors.ErrAlreadyVaccinated) {
		t.Fatalf("err = %v, want ErrAlreadyVaccinated", err)
	}

	got, _ := (&memDriveStore{store}).GetByID(ctx, drive.ID)
	if got.UsedDoses != 1 {
		t.Errorf("used doses = %d, want 1 after rejected duplicate", got.UsedDoses)
	}
}

func TestRecordVaccinationNoDosesAvailable(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	drive := seedDrive(store, "MMR", 1, 1)
	student := seedStudent(store, "STU-1")

	_, err := svc.RecordVaccination(ctx, student.ID, drive.ID, nil)
	if !errors.Is(err, apperrors.ErrNoDosesAvailable) {
		t.Fatalf("err = %v, want ErrNoDosesAvailable", err)
	}
}

// Same vaccine from a different drive is a legitimate booster and must not
// be rejected.
func TestRecordVaccinationSameVaccineDifferentDrive(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	student := seedStudent(store, "STU-1")
	first := seedDrive(store, "MMR", 10, 0)
	second := seedDrive(store, "MMR", 10, 0)

	if _, err := svc.RecordVaccination(ctx, student.ID, first.ID, nil); err != nil {
		t.Fatalf("first drive: %v", err)
	}
	if _, err := svc.RecordVaccination(ctx, student.ID, second.ID, nil); err != nil {
		t.Fatalf("second drive: %v", err)
	}

	vaccinated, err := svc.IsVaccinated(ctx, student.ID, "MMR")
	if err != nil {
		t.Fatalf("is vaccinated: %v", err)
	}
	if !vaccinated {
		t.Error("expected student to be reported as vaccinated")
	}
}

// Two concurrent requests racing for the last dose: exactly one may win.
func TestRecordVaccinationConcurrentLastDose(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	drive := seedDrive(store, "Polio", 1, 0)
	a := seedStudent(store, "STU-A")
	b := seedStudent(store, "STU-B")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, studentID int64) {
			defer wg.Done()
			_, errs[i] = svc.RecordVaccination(ctx, studentID, drive.ID, nil)
		}(i, id)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else if !errors.Is(err, apperrors.ErrNoDosesAvailable) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 {
		t.Fatalf("successes = %d, want exactly 1", successes)
	}

	got, _ := (&memDriveStore{store}).GetByID(ctx, drive.ID)
	if got.UsedDoses != 1 {
		t.Errorf("used doses = %d, want 1", got.UsedDoses)
	}
}

// Many students racing on a small drive: used doses never exceed capacity.
func TestRecordVaccinationConcurrentCapacity(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	const capacity = 5
	const contenders = 20
	drive := seedDrive(store, "Hepatitis B", capacity, 0)

	students := make([]*models.Student, contenders)
	for i := range students {
		students[i] = seedStudent(store, "STU-"+string(rune('A'+i)))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	successes := 0
	for _, student := range students {
		wg.Add(1)
		go func(studentID int64) {
			defer wg.Done()
			if _, err := svc.RecordVaccination(ctx, studentID, drive.ID, nil); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}(student.ID)
	}
	wg.Wait()

	if successes != capacity {
		t.Errorf("successes = %d, want %d", successes, capacity)
	}
	got, _ := (&memDriveStore{store}).GetByID(ctx, drive.ID)
	if got.UsedDoses != capacity {
		t.Errorf("used doses = %d, want %d", got.UsedDoses, capacity)
	}
}

func TestIsVaccinated(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	student := seedStudent(store, "STU-1")
	drive := seedDrive(store, "MMR", 10, 0)

	vaccinated, err := svc.IsVaccinated(ctx, student.ID, "MMR")
	if err != nil {
		t.Fatalf("is vaccinated: %v", err)
	}
	if vaccinated {
		t.Error("expected false before any dose")
	}

	if _, err := svc.RecordVaccination(ctx, student.ID, drive.ID, nil); err != nil {
		t.Fatalf("record vaccination: %v", err)
	}

	vaccinated, err = svc.IsVaccinated(ctx, student.ID, "MMR")
	if err != nil {
		t.Fatalf("is vaccinated: %v", err)
	}
	if !vaccinated {
		t.Error("expected true after a dose")
	}

	// A different vaccine is still unvaccinated
	vaccinated, err = svc.IsVaccinated(ctx, student.ID, "Polio")
	if err != nil {
		t.Fatalf("is vaccinated: %v", err)
	}
	if vaccinated {
		t.Error("expected false for a different vaccine")
	}
}

func TestIsVaccinatedMissingVaccineName(t *testing.T) {
	svc, store := newVaccinationFixture()
	student := seedStudent(store, "STU-1")

	_, err := svc.IsVaccinated(context.Background(), student.ID, "   ")
	if !errors.Is(err, apperrors.ErrVaccineNameMissing) {
		t.Fatalf("err = %v, want ErrVaccineNameMissing", err)
	}
}

func TestIsVaccinatedStudentNotFound(t *testing.T) {
	svc, _ := newVaccinationFixture()

	_, err := svc.IsVaccinated(context.Background(), 999, "MMR")
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestGetStudentVaccinationsUnknownStudent(t *testing.T) {
	svc, _ := newVaccinationFixture()

	_, err := svc.GetStudentVaccinations(context.Background(), 42)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestGetDriveVaccinations(t *testing.T) {
	svc, store := newVaccinationFixture()
	ctx := context.Background()

	drive := seedDrive(store, "MMR", 10, 0)
	other := seedDrive(store, "Polio", 10, 0)
	a := seedStudent(store, "STU-A")
	b := seedStudent(store, "STU-B")

	if _, err := svc.RecordVaccination(ctx, a.ID, drive.ID, nil); err != nil {
		t.Fatalf("record a: %v", err)
	}
	if _, err := svc.RecordVaccination(ctx, b.ID, drive.ID, nil); err != nil {
		t.Fatalf("record b: %v", err)
	}
	if _, err := svc.RecordVaccination(ctx, a.ID, other.ID, nil); err != nil {
		t.Fatalf("record other: %v", err)
	}

	vaccinations, err := svc.GetDriveVaccinations(ctx, drive.ID)
	if err != nil {
		t.Fatalf("get drive vaccinations: %v", err)
	}
	if len(vaccinations) != 2 {
		t.Errorf("len = %d, want 2", len(vaccinations))
	}
}
