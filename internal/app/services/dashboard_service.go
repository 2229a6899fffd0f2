package services

import (
	"context"
	"math"

	"github.com/mkaya/vaxtrack/internal/app/models/dto"
)

// dashboardStore aggregates ledger state for the dashboard views
type dashboardStore interface {
	CountStudents(ctx context.Context) (int64, error)
	CountVaccinatedStudents(ctx context.Context) (int64, error)
	CountUpcomingDrives(ctx context.Context) (int64, error)
	VaccineTypeStats(ctx context.Context) ([]dto.VaccineTypeStat, error)
	ClassStats(ctx context.Context) ([]dto.ClassStat, error)
}

// DashboardService computes the headline metrics and breakdowns
type DashboardService struct {
	dashboardRepo dashboardStore
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(dashboardRepo dashboardStore) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
	}
}

// GetStats returns the headline dashboard numbers. The vaccination
// percentage counts distinct vaccinated students, rounded to the nearest
// whole percent; it is 0 when there are no students.
func (s *DashboardService) GetStats(ctx context.Context) (*dto.DashboardStats, error) {
	totalStudents, err := s.dashboardRepo.CountStudents(ctx)
	if err != nil {
		return nil, err
	}

	vaccinatedStudents, err := s.dashboardRepo.CountVaccinatedStudents(ctx)
	if err != nil {
		return nil, err
	}

	upcomingDrives, err := s.dashboardRepo.CountUpcomingDrives(ctx)
	if err != nil {
		return nil, err
	}

	percentage := 0
	if totalStudents > 0 {
		percentage = int(math.Round(float64(vaccinatedStudents) / float64(totalStudents) * 100))
	}

	return &dto.DashboardStats{
		TotalStudents:         totalStudents,
		VaccinatedStudents:    vaccinatedStudents,
		VaccinationPercentage: percentage,
		UpcomingDrives:        upcomingDrives,
	}, nil
}

// GetVaccinationStats returns the per-vaccine and per-class breakdowns
func (s *DashboardService) GetVaccinationStats(ctx context.Context) (*dto.VaccinationStats, error) {
	vaccineStats, err := s.dashboardRepo.VaccineTypeStats(ctx)
	if err != nil {
		return nil, err
	}

	classStats, err := s.dashboardRepo.ClassStats(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.VaccinationStats{
		VaccineStats: vaccineStats,
		ClassStats:   classStats,
	}, nil
}
