package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
)

// DashboardRepository aggregates ledger state for the dashboard views
type DashboardRepository struct {
	db *pgxpool.Pool
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{
		db: db,
	}
}

// CountStudents returns the total number of students
func (r *DashboardRepository) CountStudents(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountVaccinatedStudents returns the number of distinct students with at
// least one recorded vaccination
func (r *DashboardRepository) CountVaccinatedStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(DISTINCT student_id) FROM vaccinations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting vaccinated students: %w", err)
	}
	return count, nil
}

// CountUpcomingDrives returns the number of open drives scheduled in the future
func (r *DashboardRepository) CountUpcomingDrives(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM vaccination_drives WHERE drive_date > $1 AND is_completed = false`,
		time.Now()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting upcoming drives: %w", err)
	}
	return count, nil
}

// VaccineTypeStats counts vaccinations grouped by vaccine name
func (r *DashboardRepository) VaccineTypeStats(ctx context.Context) ([]dto.VaccineTypeStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.vaccine_name, COUNT(v.id)
		FROM vaccinations v
		JOIN vaccination_drives d ON d.id = v.drive_id
		GROUP BY d.vaccine_name
		ORDER BY d.vaccine_name`)
	if err != nil {
		return nil, fmt.Errorf("error querying vaccine stats: %w", err)
	}
	defer rows.Close()

	var stats []dto.VaccineTypeStat
	for rows.Next() {
		var stat dto.VaccineTypeStat
		if err := rows.Scan(&stat.VaccineName, &stat.Count); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// ClassStats counts vaccinations grouped by student class
func (r *DashboardRepository) ClassStats(ctx context.Context) ([]dto.ClassStat, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.class, COUNT(v.id)
		FROM vaccinations v
		JOIN students s ON s.id = v.student_id
		GROUP BY s.class
		ORDER BY s.class`)
	if err != nil {
		return nil, fmt.Errorf("error querying class stats: %w", err)
	}
	defer rows.Close()

	var stats []dto.ClassStat
	for rows.Next() {
		var stat dto.ClassStat
		if err := rows.Scan(&stat.Class, &stat.Count); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
