package dto

// DashboardStats is the headline dashboard view
type DashboardStats struct {
	TotalStudents         int64 `json:"totalStudents" example:"420"`
	VaccinatedStudents    int64 `json:"vaccinatedStudents" example:"301"`
	VaccinationPercentage int   `json:"vaccinationPercentage" example:"72"`
	UpcomingDrives        int64 `json:"upcomingDrives" example:"4"`
}

// VaccineTypeStat counts vaccinations per vaccine name
type VaccineTypeStat struct {
	VaccineName string `json:"vaccineName" example:"MMR"`
	Count       int64  `json:"count" example:"120"`
}

// ClassStat counts vaccinations per class label
type ClassStat struct {
	Class string `json:"class" example:"5A"`
	Count int64  `json:"count" example:"34"`
}

// VaccinationStats groups the per-vaccine and per-class breakdowns
type VaccinationStats struct {
	VaccineStats []VaccineTypeStat `json:"vaccineStats"`
	ClassStats   []ClassStat       `json:"classStats"`
}
