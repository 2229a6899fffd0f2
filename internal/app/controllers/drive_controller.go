package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkaya/vaxtrack/internal/app/models/dto"
	"github.com/mkaya/vaxtrack/internal/app/services"
	"github.com/mkaya/vaxtrack/internal/middleware"
	"github.com/mkaya/vaxtrack/internal/pkg/helpers"
)

// DriveController handles vaccination drive operations
type DriveController struct {
	driveService *services.DriveService
}

// NewDriveController creates a new DriveController
func NewDriveController(driveService *services.DriveService) *DriveController {
	return &DriveController{
		driveService: driveService,
	}
}

// CreateDrive handles drive scheduling
// @Summary Create a vaccination drive
// @Description Schedules a new vaccination drive; the drive date must satisfy the minimum lead time
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDriveRequest true "Drive information"
// @Success 201 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or lead time not satisfied"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives [post]
func (c *DriveController) CreateDrive(ctx *gin.Context) {
	var req dto.CreateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid drive data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	drive := req.ToModel()
	if err := c.driveService.CreateDrive(ctx, drive); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      drive,
		Timestamp: time.Now(),
	})
}

// GetDriveByID retrieves a drive by ID
// @Summary Get drive by ID
// @Description Retrieves a specific vaccination drive by its ID
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid drive ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives/{id} [get]
func (c *DriveController) GetDriveByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Drive ID")
	if !ok {
		return
	}

	drive, err := c.driveService.GetDrive(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      drive,
		Timestamp: time.Now(),
	})
}

// GetAllDrives retrieves a page of drives
// @Summary List vaccination drives
// @Description Retrieves a paginated list of drives with optional search over vaccine name and applicable classes
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search term"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.DriveListResponse} "Drives retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives [get]
func (c *DriveController) GetAllDrives(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	search := ctx.Query("search")

	drives, total, err := c.driveService.GetDrives(ctx, search, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.DriveListResponse{
			Drives:     drives,
			Pagination: helpers.NewPaginationInfo(total, page, limit),
		},
		Timestamp: time.Now(),
	})
}

// GetUpcomingDrives retrieves open drives scheduled in the near future
// @Summary List upcoming drives
// @Description Retrieves open drives scheduled within the given number of days (default 30)
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param days query int false "Lookahead window in days"
// @Success 200 {object} dto.APIResponse{data=[]models.VaccinationDrive} "Upcoming drives retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives/upcoming [get]
func (c *DriveController) GetUpcomingDrives(ctx *gin.Context) {
	days, err := strconv.Atoi(ctx.DefaultQuery("days", "0"))
	if err != nil {
		days = 0
	}

	drives, err := c.driveService.GetUpcomingDrives(ctx, days)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      drives,
		Timestamp: time.Now(),
	})
}

// UpdateDrive updates an open drive
// @Summary Update a vaccination drive
// @Description Applies a partial update to an open drive; completed drives cannot be edited and capacity cannot drop below doses already used
// @Tags drives
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Param request body dto.UpdateDriveRequest true "Updated drive information"
// @Success 200 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Drive is already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives/{id} [put]
func (c *DriveController) UpdateDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Drive ID")
	if !ok {
		return
	}

	var req dto.UpdateDriveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid drive data")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	drive, err := c.driveService.UpdateDrive(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      drive,
		Timestamp: time.Now(),
	})
}

// CompleteDrive marks a drive as completed
// @Summary Complete a vaccination drive
// @Description Marks a drive as completed; the transition is one-way and idempotent
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 200 {object} dto.APIResponse{data=models.VaccinationDrive} "Drive completed successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid drive ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives/{id}/complete [post]
func (c *DriveController) CompleteDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Drive ID")
	if !ok {
		return
	}

	drive, err := c.driveService.CompleteDrive(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      drive,
		Timestamp: time.Now(),
	})
}

// DeleteDrive deletes a drive
// @Summary Delete a vaccination drive
// @Description Deletes a drive that has no recorded vaccinations
// @Tags drives
// @Produce json
// @Security BearerAuth
// @Param id path int true "Drive ID"
// @Success 204 "Drive deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid drive ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Drive not found"
// @Failure 409 {object} dto.ErrorResponse "Drive has recorded vaccinations"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /vaccination-drives/{id} [delete]
func (c *DriveController) DeleteDrive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Drive ID")
	if !ok {
		return
	}

	if err := c.driveService.DeleteDrive(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusNoContent, dto.APIResponse{
		Data:      nil,
		Timestamp: time.Now(),
	})
}
