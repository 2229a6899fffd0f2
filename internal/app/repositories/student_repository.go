package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/db"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
	"github.com/mkaya/vaxtrack/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentColumns = `id, student_id, name, class, gender, date_of_birth, parent_name, parent_contact, address`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.StudentID,
		&student.Name,
		&student.Class,
		&student.Gender,
		&student.DateOfBirth,
		&student.ParentName,
		&student.ParentContact,
		&student.Address,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_id, name, class, gender, date_of_birth, parent_name, parent_contact, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		student.StudentID,
		student.Name,
		student.Class,
		student.Gender,
		student.DateOfBirth,
		student.ParentName,
		student.ParentContact,
		student.Address,
	).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by primary key; returns nil when absent
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetByStudentID retrieves a student by the external student identifier; returns nil when absent
func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE student_id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, studentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving student by student ID: %w", err)
	}

	return student, nil
}

// List retrieves a page of students, optionally filtered by a search term
// matching name, student identifier or class
func (r *StudentRepository) List(ctx context.Context, search string, offset uint64, limit int) ([]*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE name ILIKE $1 OR student_id ILIKE $1 OR class ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	query += fmt.Sprintf(` ORDER BY name ASC OFFSET %d LIMIT %d`, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// Count returns the number of students matching the search term
func (r *StudentRepository) Count(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM students`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE name ILIKE $1 OR student_id ILIKE $1 OR class ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}

	return total, nil
}

// Update rewrites the mutable fields of a student row
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET student_id = $1, name = $2, class = $3, gender = $4, date_of_birth = $5,
		    parent_name = $6, parent_contact = $7, address = $8
		WHERE id = $9
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.StudentID,
		student.Name,
		student.Class,
		student.Gender,
		student.DateOfBirth,
		student.ParentName,
		student.ParentContact,
		student.Address,
		student.ID,
	)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_student_id_key") {
			return apperrors.ErrStudentIDAlreadyExists
		}
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// DeleteWithVaccinations removes a student and every vaccination row that
// references them, in one transaction. Drive used_doses counters are left
// untouched; the counter is monotonically non-decreasing.
func (r *StudentRepository) DeleteWithVaccinations(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM vaccinations WHERE student_id = $1`, id); err != nil {
			return fmt.Errorf("error deleting student vaccinations: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting student: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrStudentNotFound
		}

		return nil
	})
}
