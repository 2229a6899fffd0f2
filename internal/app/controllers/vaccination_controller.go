package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/app/services"
	"github.com/mkaya/vaxtrack/internal/middleware"
	"github.com/mkaya/vaxtrack/internal/pkg/helpers"
)

// filterDateLayout is the date format accepted by list/report filters
const filterDateLayout = "2006-01-02"

// VaccinationController handles dose ledger operations
type VaccinationController struct {
	vaccinationService *services.VaccinationService
}

// NewVaccinationController creates a new VaccinationController
func NewVaccinationController(vaccinationService *services.VaccinationService) *VaccinationController {
	return &VaccinationController{
		vaccinationService: vaccinationService,
	}
}

// RecordVaccination records a dose given to a student
// @Summary Record a vaccination
// @Description Records one dose given to a student from a drive; fails when the student or drive is missing, the student already received a dose from this drive, or no doses remain
// @Tags vaccinations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateVaccinationRequest true "Vaccination information"
// @Success 201 {object} dto.APIResponse{data=models.Vaccination} "Vaccination recorded successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student or drive not found"
// @Failure 409 {object} dto.ErrorResponse "Already vaccinated in this drive or no doses available"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations [post]
func (c *VaccinationController) RecordVaccination(ctx *gin.Context) {
	var req dto.CreateVaccinationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid vaccination data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	vaccination, err := c.vaccinationService.RecordVaccination(ctx, req.StudentID, req.DriveID, req.Notes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      vaccination,
		Timestamp: time.Now(),
	})
}

// GetAllVaccinations retrieves a filtered page of vaccination records
// @Summary List vaccinations
// @Description Retrieves a paginated list of vaccination records with optional filters
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param vaccineType query string false "Filter by vaccine name"
// @Param studentClass query string false "Filter by student class"
// @Param fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param toDate query string false "Filter to date (YYYY-MM-DD)"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.VaccinationListResponse} "Vaccinations retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations [get]
func (c *VaccinationController) GetAllVaccinations(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	filter := parseVaccinationFilter(ctx)

	vaccinations, total, err := c.vaccinationService.GetVaccinations(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.VaccinationListResponse{
			Vaccinations: vaccinations,
			Pagination:   helpers.NewPaginationInfo(total, page, limit),
		},
		Timestamp: time.Now(),
	})
}

// GetStudentVaccinations retrieves all vaccinations for one student
// @Summary List a student's vaccinations
// @Description Retrieves all vaccination records for a specific student
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Vaccination} "Vaccinations retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations/student/{studentId} [get]
func (c *VaccinationController) GetStudentVaccinations(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId", "Student ID")
	if !ok {
		return
	}

	vaccinations, err := c.vaccinationService.GetStudentVaccinations(ctx, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      vaccinations,
		Timestamp: time.Now(),
	})
}

// GetDriveVaccinations retrieves all vaccinations recorded against one drive
// @Summary List a drive's vaccinations
// @Description Retrieves all vaccination records for a specific drive
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param driveId path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Vaccination} "Vaccinations retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid drive ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations/drive/{driveId} [get]
func (c *VaccinationController) GetDriveVaccinations(ctx *gin.Context) {
	driveID, ok := parseIDParam(ctx, "driveId", "Drive ID")
	if !ok {
		return
	}

	vaccinations, err := c.vaccinationService.GetDriveVaccinations(ctx, driveID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      vaccinations,
		Timestamp: time.Now(),
	})
}

// GetVaccinationStatus reports whether a student has received a named vaccine
// @Summary Check vaccination status
// @Description Reports whether the student has received at least one dose of the named vaccine from any drive
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param vaccineName query string true "Vaccine name"
// @Success 200 {object} dto.APIResponse{data=dto.VaccinationStatusResponse} "Status retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Vaccine name missing or invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations/status/{studentId} [get]
func (c *VaccinationController) GetVaccinationStatus(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId", "Student ID")
	if !ok {
		return
	}

	vaccineName := ctx.Query("vaccineName")

	isVaccinated, err := c.vaccinationService.IsVaccinated(ctx, studentID, vaccineName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.VaccinationStatusResponse{IsVaccinated: isVaccinated},
		Timestamp: time.Now(),
	})
}

// GetVaccinationReport retrieves the full filtered record feed
// @Summary Vaccination report feed
// @Description Retrieves the unpaginated filtered list of vaccination records for report generation
// @Tags vaccinations
// @Produce json
// @Security BearerAuth
// @Param vaccineType query string false "Filter by vaccine name"
// @Param studentClass query string false "Filter by student class"
// @Param fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param toDate query string false "Filter to date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.Vaccination} "Report retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccinations/report [get]
func (c *VaccinationController) GetVaccinationReport(ctx *gin.Context) {
	filter := parseVaccinationFilter(ctx)

	vaccinations, err := c.vaccinationService.GetVaccinationReport(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      vaccinations,
		Timestamp: time.Now(),
	})
}

// parseVaccinationFilter extracts the optional list/report filters from
// query parameters; unparseable dates are ignored
func parseVaccinationFilter(ctx *gin.Context) dto.VaccinationFilter {
	filter := dto.VaccinationFilter{
		VaccineType:  ctx.Query("vaccineType"),
		StudentClass: ctx.Query("studentClass"),
	}

	if fromStr := ctx.Query("fromDate"); fromStr != "" {
		if from, err := time.Parse(filterDateLayout, fromStr); err == nil {
			filter.FromDate = &from
		}
	}
	if toStr := ctx.Query("toDate"); toStr != "" {
		if to, err := time.Parse(filterDateLayout, toStr); err == nil {
			filter.ToDate = &to
		}
	}

	return filter
}
