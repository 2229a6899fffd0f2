package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/vaxtrack/internal/app/models"
	"github.com/mkaya/vaxtrack/internal/db"
	"github.com/mkaya/vaxtrack/internal/pkg/apperrors"
)

// DriveRepository handles database operations for vaccination drives
type DriveRepository struct {
	db *pgxpool.Pool
}

// NewDriveRepository creates a new drive repository
func NewDriveRepository(db *pgxpool.Pool) *DriveRepository {
	return &DriveRepository{
		db: db,
	}
}

const driveColumns = `id, vaccine_name, drive_date, available_doses, used_doses, applicable_classes, notes, is_completed`

func scanDrive(row pgx.Row) (*models.VaccinationDrive, error) {
	var drive models.VaccinationDrive
	var isCompleted bool
	err := row.Scan(
		&drive.ID,
		&drive.VaccineName,
		&drive.DriveDate,
		&drive.AvailableDoses,
		&drive.UsedDoses,
		&drive.ApplicableClasses,
		&drive.Notes,
		&isCompleted,
	)
	if err != nil {
		return nil, err
	}
	drive.Status = models.DriveStatusFromCompleted(isCompleted)
	return &drive, nil
}

// Create inserts a new drive
func (r *DriveRepository) Create(ctx context.Context, drive *models.VaccinationDrive) error {
	query := `
		INSERT INTO vaccination_drives (vaccine_name, drive_date, available_doses, used_doses, applicable_classes, notes, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		drive.VaccineName,
		drive.DriveDate,
		drive.AvailableDoses,
		drive.UsedDoses,
		drive.ApplicableClasses,
		drive.Notes,
		drive.Status.IsCompleted(),
	).Scan(&drive.ID)
	if err != nil {
		return fmt.Errorf("error creating vaccination drive: %w", err)
	}

	return nil
}

// GetByID retrieves a drive by ID; returns nil when absent
func (r *DriveRepository) GetByID(ctx context.Context, id int64) (*models.VaccinationDrive, error) {
	query := `SELECT ` + driveColumns + ` FROM vaccination_drives WHERE id = $1`

	drive, err := scanDrive(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving vaccination drive: %w", err)
	}

	return drive, nil
}

// List retrieves a page of drives ordered by drive date, optionally filtered
// by a search term matching vaccine name or applicable classes
func (r *DriveRepository) List(ctx context.Context, search string, offset uint64, limit int) ([]*models.VaccinationDrive, error) {
	query := `SELECT ` + driveColumns + ` FROM vaccination_drives`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE vaccine_name ILIKE $1 OR applicable_classes ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	query += fmt.Sprintf(` ORDER BY drive_date ASC OFFSET %d LIMIT %d`, offset, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing vaccination drives: %w", err)
	}
	defer rows.Close()

	var drives []*models.VaccinationDrive
	for rows.Next() {
		drive, err := scanDrive(rows)
		if err != nil {
			return nil, err
		}
		drives = append(drives, drive)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drives, nil
}

// Count returns the number of drives matching the search term
func (r *DriveRepository) Count(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM vaccination_drives`
	args := []interface{}{}

	if search != "" {
		query += ` WHERE vaccine_name ILIKE $1 OR applicable_classes ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting vaccination drives: %w", err)
	}

	return total, nil
}

// ListUpcoming retrieves open drives scheduled within the next `days` days
func (r *DriveRepository) ListUpcoming(ctx context.Context, days int) ([]*models.VaccinationDrive, error) {
	now := time.Now()
	end := now.AddDate(0, 0, days)

	query := `
		SELECT ` + driveColumns + `
		FROM vaccination_drives
		WHERE drive_date > $1 AND drive_date <= $2 AND is_completed = false
		ORDER BY drive_date ASC
	`

	rows, err := r.db.Query(ctx, query, now, end)
	if err != nil {
		return nil, fmt.Errorf("error listing upcoming drives: %w", err)
	}
	defer rows.Close()

	var drives []*models.VaccinationDrive
	for rows.Next() {
		drive, err := scanDrive(rows)
		if err != nil {
			return nil, err
		}
		drives = append(drives, drive)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drives, nil
}

// Update rewrites the administratively editable fields of a drive. The
// used_doses counter and the completion flag are deliberately excluded;
// they are owned by the dose ledger and MarkComplete.
func (r *DriveRepository) Update(ctx context.Context, drive *models.VaccinationDrive) error {
	query := `
		UPDATE vaccination_drives
		SET vaccine_name = $1, drive_date = $2, available_doses = $3, applicable_classes = $4, notes = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		drive.VaccineName,
		drive.DriveDate,
		drive.AvailableDoses,
		drive.ApplicableClasses,
		drive.Notes,
		drive.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating vaccination drive: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// MarkComplete sets the completion flag. The update is idempotent: completing
// an already-completed drive matches the row and succeeds.
func (r *DriveRepository) MarkComplete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE vaccination_drives SET is_completed = true WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error completing vaccination drive: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDriveNotFound
	}

	return nil
}

// Delete removes a drive. Deletion is blocked while vaccination rows still
// reference the drive, to keep the ledger's audit trail intact.
func (r *DriveRepository) Delete(ctx context.Context, id int64) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var hasVaccinations bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM vaccinations WHERE drive_id = $1)`, id).Scan(&hasVaccinations)
		if err != nil {
			return fmt.Errorf("error checking drive vaccinations: %w", err)
		}

		if hasVaccinations {
			return apperrors.ErrDriveHasVaccinations
		}

		cmdTag, err := tx.Exec(ctx, `DELETE FROM vaccination_drives WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error deleting vaccination drive: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrDriveNotFound
		}

		return nil
	})
}
