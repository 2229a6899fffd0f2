package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/db"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
	"github.com/mkaya/vaxtrack/internal/pkg/dberrors"
)

// UniqueStudentDriveConstraint is the unique index backing the
// one-vaccination-per-(student, drive) invariant.
const UniqueStudentDriveConstraint = "ux_vaccinations_student_drive"

// VaccinationRepository handles database operations for vaccination records.
// It is the only writer of vaccination rows and of the drives' used_doses
// counter.
type VaccinationRepository struct {
	db *pgxpool.Pool
}

// NewVaccinationRepository creates a new vaccination repository
func NewVaccinationRepository(db *pgxpool.Pool) *VaccinationRepository {
	return &VaccinationRepository{
		db: db,
	}
}

// CreateWithDoseIncrement inserts a vaccination row and increments the
// drive's used_doses counter as one transaction.
//
// The increment is conditional on remaining capacity and checked through the
// affected-row count, so two racing calls against a drive with one dose left
// serialize at the database: one commits, the other observes zero affected
// rows and rolls back with ErrNoDosesAvailable. The unique (student_id,
// drive_id) index turns a double-submit race into ErrAlreadyVaccinated the
// same way. Neither side of the pair is ever observable without the other.
func (r *VaccinationRepository) CreateWithDoseIncrement(ctx context.Context, vaccination *models.Vaccination) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO vaccinations (student_id, drive_id, vaccination_date, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id, vaccination_date
		`

		err := tx.QueryRow(ctx, insertQuery,
			vaccination.StudentID,
			vaccination.DriveID,
			vaccination.VaccinationDate,
			vaccination.Notes,
		).Scan(&vaccination.ID, &vaccination.VaccinationDate)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, UniqueStudentDriveConstraint) {
				return apperrors.ErrAlreadyVaccinated
			}
			return fmt.Errorf("error inserting vaccination: %w", err)
		}

		incrementQuery := `
			UPDATE vaccination_drives
			SET used_doses = used_doses + 1
			WHERE id = $1 AND used_doses < available_doses
		`

		cmdTag, err := tx.Exec(ctx, incrementQuery, vaccination.DriveID)
		if err != nil {
			return fmt.Errorf("error incrementing used doses: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNoDosesAvailable
		}

		return nil
	})
}

// ExistsForStudentAndDrive checks whether a vaccination row exists for the pair
func (r *VaccinationRepository) ExistsForStudentAndDrive(ctx context.Context, studentID, driveID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM vaccinations WHERE student_id = $1 AND drive_id = $2)`,
		studentID, driveID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking vaccination existence: %w", err)
	}

	return exists, nil
}

// CountByStudentAndVaccine counts vaccinations a student received of a given
// vaccine, across all drives that administered it
func (r *VaccinationRepository) CountByStudentAndVaccine(ctx context.Context, studentID int64, vaccineName string) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM vaccinations v
		JOIN vaccination_drives d ON d.id = v.drive_id
		WHERE v.student_id = $1 AND d.vaccine_name = $2`,
		studentID, vaccineName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting vaccinations by vaccine: %w", err)
	}

	return count, nil
}

const vaccinationJoinColumns = `
	v.id, v.student_id, v.drive_id, v.vaccination_date, v.notes,
	s.id, s.student_id, s.name, s.class, s.gender, s.date_of_birth, s.parent_name, s.parent_contact, s.address,
	d.id, d.vaccine_name, d.drive_date, d.available_doses, d.used_doses, d.applicable_classes, d.notes, d.is_completed`

func scanVaccinationWithRelations(rows pgx.Rows) (*models.Vaccination, error) {
	var v models.Vaccination
	var student models.Student
	var drive models.VaccinationDrive
	var isCompleted bool

	err := rows.Scan(
		&v.ID, &v.StudentID, &v.DriveID, &v.VaccinationDate, &v.Notes,
		&student.ID, &student.StudentID, &student.Name, &student.Class, &student.Gender,
		&student.DateOfBirth, &student.ParentName, &student.ParentContact, &student.Address,
		&drive.ID, &drive.VaccineName, &drive.DriveDate, &drive.AvailableDoses, &drive.UsedDoses,
		&drive.ApplicableClasses, &drive.Notes, &isCompleted,
	)
	if err != nil {
		return nil, err
	}

	drive.Status = models.DriveStatusFromCompleted(isCompleted)
	v.Student = &student
	v.Drive = &drive
	return &v, nil
}

// buildFilterClauses translates a VaccinationFilter into WHERE clauses
func buildFilterClauses(filter dto.VaccinationFilter) (string, []interface{}) {
	clauses := ""
	args := []interface{}{}

	addClause := func(condition string, value interface{}) {
		args = append(args, value)
		placeholder := "$" + strconv.Itoa(len(args))
		if clauses == "" {
			clauses = " WHERE "
		} else {
			clauses += " AND "
		}
		clauses += fmt.Sprintf(condition, placeholder)
	}

	if filter.VaccineType != "" {
		addClause("d.vaccine_name = %s", filter.VaccineType)
	}
	if filter.StudentClass != "" {
		addClause("s.class = %s", filter.StudentClass)
	}
	if filter.FromDate != nil {
		addClause("v.vaccination_date >= %s", *filter.FromDate)
	}
	if filter.ToDate != nil {
		addClause("v.vaccination_date <= %s", *filter.ToDate)
	}

	return clauses, args
}

// List retrieves a page of vaccination records with student and drive
// snapshots attached, newest first
func (r *VaccinationRepository) List(ctx context.Context, filter dto.VaccinationFilter, offset uint64, limit int) ([]*models.Vaccination, error) {
	clauses, args := buildFilterClauses(filter)

	query := `
		SELECT ` + vaccinationJoinColumns + `
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		JOIN vaccination_drives d ON d.id = v.drive_id` +
		clauses +
		fmt.Sprintf(` ORDER BY v.vaccination_date DESC OFFSET %d LIMIT %d`, offset, limit)

	return r.queryVaccinations(ctx, query, args)
}

// Count returns the number of vaccination records matching the filter
func (r *VaccinationRepository) Count(ctx context.Context, filter dto.VaccinationFilter) (int64, error) {
	clauses, args := buildFilterClauses(filter)

	query := `
		SELECT COUNT(*)
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		JOIN vaccination_drives d ON d.id = v.drive_id` + clauses

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting vaccinations: %w", err)
	}

	return total, nil
}

// ListForReport retrieves all vaccination records matching the filter,
// newest first, without pagination. Feeds the report/PDF export.
func (r *VaccinationRepository) ListForReport(ctx context.Context, filter dto.VaccinationFilter) ([]*models.Vaccination, error) {
	clauses, args := buildFilterClauses(filter)

	query := `
		SELECT ` + vaccinationJoinColumns + `
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		JOIN vaccination_drives d ON d.id = v.drive_id` +
		clauses +
		` ORDER BY v.vaccination_date DESC`

	return r.queryVaccinations(ctx, query, args)
}

// ListByStudent retrieves all vaccinations for one student
func (r *VaccinationRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.Vaccination, error) {
	query := `
		SELECT ` + vaccinationJoinColumns + `
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		JOIN vaccination_drives d ON d.id = v.drive_id
		WHERE v.student_id = $1
		ORDER BY v.vaccination_date DESC`

	return r.queryVaccinations(ctx, query, []interface{}{studentID})
}

// ListByDrive retrieves all vaccinations recorded against one drive
func (r *VaccinationRepository) ListByDrive(ctx context.Context, driveID int64) ([]*models.Vaccination, error) {
	query := `
		SELECT ` + vaccinationJoinColumns + `
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		JOIN vaccination_drives d ON d.id = v.drive_id
		WHERE v.drive_id = $1
		ORDER BY v.vaccination_date DESC`

	return r.queryVaccinations(ctx, query, []interface{}{driveID})
}

func (r *VaccinationRepository) queryVaccinations(ctx context.Context, query string, args []interface{}) ([]*models.Vaccination, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying vaccinations: %w", err)
	}
	defer rows.Close()

	var vaccinations []*models.Vaccination
	for rows.Next() {
		v, err := scanVaccinationWithRelations(rows)
		if err != nil {
			return nil, err
		}
		vaccinations = append(vaccinations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vaccinations, nil
}
