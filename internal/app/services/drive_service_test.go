package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

const testLeadDays = 15

func newDriveFixture() (*DriveService, *memStore) {
	store := newMemStore()
	return NewDriveService(&memDriveStore{store}, testLeadDays), store
}

func validDrive(daysAhead int) *models.VaccinationDrive {
	return &models.VaccinationDrive{
		VaccineName:       "MMR",
		DriveDate:         time.Now().AddDate(0, 0, daysAhead),
		AvailableDoses:    100,
		ApplicableClasses: "5A,5B",
		Status:            models.DriveStatusOpen,
	}
}

func TestCreateDrive(t *testing.T) {
	svc, _ := newDriveFixture()

	drive := validDrive(testLeadDays + 5)
	drive.UsedDoses = 7 // must be ignored
	if err := svc.CreateDrive(context.Background(), drive); err != nil {
		t.Fatalf("create drive: %v", err)
	}

	if drive.ID == 0 {
		t.Error("expected drive to be assigned an ID")
	}
	if drive.UsedDoses != 0 {
		t.Errorf("used doses = %d, want 0 on creation", drive.UsedDoses)
	}
	if drive.Status != models.DriveStatusOpen {
		t.Errorf("status = %q, want open", drive.Status)
	}
}

func TestCreateDriveLeadTimeTooShort(t *testing.T) {
	svc, _ := newDriveFixture()

	err := svc.CreateDrive(context.Background(), validDrive(testLeadDays-1))
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}

func TestCreateDriveInvalidFields(t *testing.T) {
	svc, _ := newDriveFixture()
	ctx := context.Background()

	noDoses := validDrive(testLeadDays + 5)
	noDoses.AvailableDoses = 0
	if err := svc.CreateDrive(ctx, noDoses); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("zero doses: err = %v, want ErrValidationFailed", err)
	}

	noClasses := validDrive(testLeadDays + 5)
	noClasses.ApplicableClasses = "  "
	if err := svc.CreateDrive(ctx, noClasses); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("empty classes: err = %v, want ErrValidationFailed", err)
	}

	noName := validDrive(testLeadDays + 5)
	noName.VaccineName = ""
	if err := svc.CreateDrive(ctx, noName); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("empty vaccine name: err = %v, want ErrValidationFailed", err)
	}
}

func TestUpdateDrive(t *testing.T) {
	svc, store := newDriveFixture()
	ctx := context.Background()

	drive := store.addDrive(validDrive(testLeadDays + 5))

	newDoses := 150
	updated, err := svc.UpdateDrive(ctx, drive.ID, &dto.UpdateDriveRequest{AvailableDoses: &newDoses})
	if err != nil {
		t.Fatalf("update drive: %v", err)
	}
	if updated.AvailableDoses != 150 {
		t.Errorf("available doses = %d, want 150", updated.AvailableDoses)
	}
}

func TestUpdateDriveNotFound(t *testing.T) {
	svc, _ := newDriveFixture()

	name := "Polio"
	_, err := svc.UpdateDrive(context.Background(), 999, &dto.UpdateDriveRequest{VaccineName: &name})
	if !errors.Is(err, apperrors.ErrDriveNotFound) {
		t.Fatalf("err = %v, want ErrDriveNotFound", err)
	}
}

func TestUpdateDriveCompleted(t *testing.T) {
	svc, store := newDriveFixture()

	drive := validDrive(testLeadDays + 5)
	drive.Status = models.DriveStatusCompleted
	store.addDrive(drive)

	name := "Polio"
	_, err := svc.UpdateDrive(context.Background(), drive.ID, &dto.UpdateDriveRequest{VaccineName: &name})
	if !errors.Is(err, apperrors.ErrDriveCompleted) {
		t.Fatalf("err = %v, want ErrDriveCompleted", err)
	}
}

// Capacity can never be edited below doses already given.
func TestUpdateDriveCapacityBelowUsed(t *testing.T) {
	svc, store := newDriveFixture()

	drive := validDrive(testLeadDays + 5)
	drive.UsedDoses = 40
	store.addDrive(drive)

	newDoses := 39
	_, err := svc.UpdateDrive(context.Background(), drive.ID, &dto.UpdateDriveRequest{AvailableDoses: &newDoses})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}

	// reducing exactly to used doses is allowed
	newDoses = 40
	updated, err := svc.UpdateDrive(context.Background(), drive.ID, &dto.UpdateDriveRequest{AvailableDoses: &newDoses})
	if err != nil {
		t.Fatalf("update to used count: %v", err)
	}
	if updated.AvailableDoses != 40 {
		t.Errorf("available doses = %d, want 40", updated.AvailableDoses)
	}
}

func TestCompleteDriveIdempotent(t *testing.T) {
	svc, store := newDriveFixture()
	ctx := context.Background()

	drive := store.addDrive(validDrive(testLeadDays + 5))

	completed, err := svc.CompleteDrive(ctx, drive.ID)
	if err != nil {
		t.Fatalf("complete drive: %v", err)
	}
	if !completed.Status.IsCompleted() {
		t.Error("expected drive to be completed")
	}

	// completing again is a no-op success
	completed, err = svc.CompleteDrive(ctx, drive.ID)
	if err != nil {
		t.Fatalf("complete drive twice: %v", err)
	}
	if !completed.Status.IsCompleted() {
		t.Error("expected drive to stay completed")
	}
}

func TestCompleteDriveNotFound(t *testing.T) {
	svc, _ := newDriveFixture()

	_, err := svc.CompleteDrive(context.Background(), 999)
	if !errors.Is(err, apperrors.ErrDriveNotFound) {
		t.Fatalf("err = %v, want ErrDriveNotFound", err)
	}
}

func TestDeleteDriveWithVaccinations(t *testing.T) {
	svc, store := newDriveFixture()
	ctx := context.Background()

	drive := store.addDrive(validDrive(testLeadDays + 5))
	student := seedStudent(store, "STU-1")
	store.vaccinations = append(store.vaccinations, &models.Vaccination{
		StudentID: student.ID,
		DriveID:   drive.ID,
	})

	err := svc.DeleteDrive(ctx, drive.ID)
	if !errors.Is(err, apperrors.ErrDriveHasVaccinations) {
		t.Fatalf("err = %v, want ErrDriveHasVaccinations", err)
	}

	// an untouched drive deletes fine
	empty := store.addDrive(validDrive(testLeadDays + 6))
	if err := svc.DeleteDrive(ctx, empty.ID); err != nil {
		t.Fatalf("delete empty drive: %v", err)
	}
}

func TestGetUpcomingDrives(t *testing.T) {
	svc, store := newDriveFixture()
	ctx := context.Background()

	soon := store.addDrive(validDrive(10))
	store.addDrive(validDrive(90)) // outside the window

	past := validDrive(testLeadDays + 5)
	past.DriveDate = time.Now().AddDate(0, 0, -3)
	store.addDrive(past)

	done := validDrive(12)
	done.Status = models.DriveStatusCompleted
	store.addDrive(done)

	drives, err := svc.GetUpcomingDrives(ctx, 30)
	if err != nil {
		t.Fatalf("get upcoming drives: %v", err)
	}
	if len(drives) != 1 {
		t.Fatalf("len = %d, want 1", len(drives))
	}
	if drives[0].ID != soon.ID {
		t.Errorf("drive ID = %d, want %d", drives[0].ID, soon.ID)
	}
}

func TestGetUpcomingDrivesDefaultWindow(t *testing.T) {
	svc, store := newDriveFixture()

	store.addDrive(validDrive(20))
	drives, err := svc.GetUpcomingDrives(context.Background(), 0)
	if err != nil {
		t.Fatalf("get upcoming drives: %v", err)
	}
	if len(drives) != 1 {
		t.Errorf("len = %d, want 1 with the default window", len(drives))
	}
}
