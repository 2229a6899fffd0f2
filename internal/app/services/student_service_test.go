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

func newStudentFixture() (*StudentService, *memStore) {
	store := newMemStore()
	return NewStudentService(store), store
}

func createRequest(studentID, name string) dto.CreateStudentRequest {
	return dto.CreateStudentRequest{
		StudentID:     studentID,
		Name:          name,
		Class:         "5A",
		Gender:        "male",
		DateOfBirth:   time.Date(2014, 3, 15, 0, 0, 0, 0, time.UTC),
		ParentName:    "Parent",
		ParentContact: "+90 555 111 1111",
	}
}

func createRequestModel(studentID, name string) *models.Student {
	req := createRequest(studentID, name)
	return req.ToModel()
}

func TestCreateStudentDuplicateStudentID(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	if err := svc.CreateStudent(ctx, createRequestModel("STU-1", "First")); err != nil {
		t.Fatalf("create student: %v", err)
	}

	err := svc.CreateStudent(ctx, createRequestModel("STU-1", "Second"))
	if !errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
		t.Fatalf("err = %v, want ErrStudentIDAlreadyExists", err)
	}
}

func TestGetStudentNotFound(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.GetStudent(context.Background(), 999)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestGetStudentByStudentID(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	if err := svc.CreateStudent(ctx, createRequestModel("STU-42", "Findable")); err != nil {
		t.Fatalf("create student: %v", err)
	}

	student, err := svc.GetStudentByStudentID(ctx, "STU-42")
	if err != nil {
		t.Fatalf("get by student ID: %v", err)
	}
	if student.Name != "Findable" {
		t.Errorf("name = %q, want Findable", student.Name)
	}

	if _, err := svc.GetStudentByStudentID(ctx, "STU-43"); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestUpdateStudentPartial(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	student := createRequestModel("STU-1", "Before")
	if err := svc.CreateStudent(ctx, student); err != nil {
		t.Fatalf("create student: %v", err)
	}

	newName := "After"
	updated, err := svc.UpdateStudent(ctx, student.ID, &dto.UpdateStudentRequest{Name: &newName})
	if err != nil {
		t.Fatalf("update student: %v", err)
	}
	if updated.Name != "After" {
		t.Errorf("name = %q, want After", updated.Name)
	}
	if updated.Class != "5A" {
		t.Errorf("class = %q, want unchanged 5A", updated.Class)
	}
}

func TestUpdateStudentDuplicateStudentID(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	first := createRequestModel("STU-1", "First")
	second := createRequestModel("STU-2", "Second")
	if err := svc.CreateStudent(ctx, first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := svc.CreateStudent(ctx, second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	taken := "STU-1"
	_, err := svc.UpdateStudent(ctx, second.ID, &dto.UpdateStudentRequest{StudentID: &taken})
	if !errors.Is(err, apperrors.ErrStudentIDAlreadyExists) {
		t.Fatalf("err = %v, want ErrStudentIDAlreadyExists", err)
	}

	// re-submitting the student's own identifier is not a conflict
	own := "STU-2"
	if _, err := svc.UpdateStudent(ctx, second.ID, &dto.UpdateStudentRequest{StudentID: &own}); err != nil {
		t.Fatalf("update with own student ID: %v", err)
	}
}

func TestDeleteStudentCascadesVaccinations(t *testing.T) {
	svc, store := newStudentFixture()
	ctx := context.Background()

	student := createRequestModel("STU-1", "Leaving")
	if err := svc.CreateStudent(ctx, student); err != nil {
		t.Fatalf("create student: %v", err)
	}
	drive := seedDrive(store, "MMR", 10, 1)
	store.vaccinations = append(store.vaccinations, &models.Vaccination{
		StudentID: student.ID,
		DriveID:   drive.ID,
	})

	if err := svc.DeleteStudent(ctx, student.ID); err != nil {
		t.Fatalf("delete student: %v", err)
	}

	if len(store.vaccinations) != 0 {
		t.Errorf("vaccinations left = %d, want 0", len(store.vaccinations))
	}
	// the drive's used doses stay as given; doses were administered
	got, _ := (&memDriveStore{store}).GetByID(ctx, drive.ID)
	if got.UsedDoses != 1 {
		t.Errorf("used doses = %d, want 1", got.UsedDoses)
	}

	if err := svc.DeleteStudent(ctx, student.ID); !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("second delete: err = %v, want ErrStudentNotFound", err)
	}
}

func TestBulkCreateStudents(t *testing.T) {
	svc, _ := newStudentFixture()
	ctx := context.Background()

	// seed a conflicting student
	if err := svc.CreateStudent(ctx, createRequestModel("STU-2", "Existing")); err != nil {
		t.Fatalf("seed student: %v", err)
	}

	result := svc.BulkCreateStudents(ctx, []dto.CreateStudentRequest{
		createRequest("STU-1", "New One"),
		createRequest("STU-2", "Duplicate"),
		createRequest("STU-3", "New Two"),
	})

	if result.Success != 2 {
		t.Errorf("success = %d, want 2", result.Success)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
}
