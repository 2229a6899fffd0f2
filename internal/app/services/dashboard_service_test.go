package services

import (
	"context"
	"testing"

	"github.com/mkaya/vaxtrack/internal/app/models/dto"
)

type stubDashboardStore struct {
	students     int64
	vaccinated   int64
	upcoming     int64
	vaccineStats []dto.VaccineTypeStat
	classStats   []dto.ClassStat
}

func (s *stubDashboardStore) CountStudents(ctx context.Context) (int64, error) {
	return s.students, nil
}

func (s *stubDashboardStore) CountVaccinatedStudents(ctx context.Context) (int64, error) {
	return s.vaccinated, nil
}

func (s *stubDashboardStore) CountUpcomingDrives(ctx context.Context) (int64, error) {
	return s.upcoming, nil
}

func (s *stubDashboardStore) VaccineTypeStats(ctx context.Context) ([]dto.VaccineTypeStat, error) {
	return s.vaccineStats, nil
}

func (s *stubDashboardStore) ClassStats(ctx context.Context) ([]dto.ClassStat, error) {
	return s.classStats, nil
}

func TestDashboardStatsPercentage(t *testing.T) {
	cases := []struct {
		name       string
		students   int64
		vaccinated int64
		want       int
	}{
		{"no students", 0, 0, 0},
		{"none vaccinated", 10, 0, 0},
		{"all vaccinated", 10, 10, 100},
		{"rounds up", 3, 2, 67},
		{"rounds down", 3, 1, 33},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewDashboardService(&stubDashboardStore{
				students:   tc.students,
				vaccinated: tc.vaccinated,
				upcoming:   2,
			})

			stats, err := svc.GetStats(context.Background())
			if err != nil {
				t.Fatalf("get stats: %v", err)
			}
			if stats.VaccinationPercentage != tc.want {
				t.Errorf("percentage = %d, want %d", stats.VaccinationPercentage, tc.want)
			}
			if stats.TotalStudents != tc.students {
				t.Errorf("total students = %d, want %d", stats.TotalStudents, tc.students)
			}
			if stats.UpcomingDrives != 2 {
				t.Errorf("upcoming drives = %d, want 2", stats.UpcomingDrives)
			}
		})
	}
}

func TestDashboardVaccinationStats(t *testing.T) {
	svc := NewDashboardService(&stubDashboardStore{
		vaccineStats: []dto.VaccineTypeStat{{VaccineName: "MMR", Count: 12}},
		classStats:   []dto.ClassStat{{Class: "5A", Count: 7}},
	})

	stats, err := svc.GetVaccinationStats(context.Background())
	if err != nil {
		t.Fatalf("get vaccination stats: %v", err)
	}
	if len(stats.VaccineStats) != 1 || stats.VaccineStats[0].VaccineName != "MMR" {
		t.Errorf("unexpected vaccine stats: %+v", stats.VaccineStats)
	}
	if len(stats.ClassStats) != 1 || stats.ClassStats[0].Count != 7 {
		t.Errorf("unexpected class stats: %+v", stats.ClassStats)
	}
}
