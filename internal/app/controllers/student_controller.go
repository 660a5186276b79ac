package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanmay/courtside/internal/app/models/dto"
	"github.com/tanmay/courtside/internal/app/services"
	"github.com/tanmay/courtside/internal/middleware"
	"github.com/tanmay/courtside/internal/pkg/helpers"
)

// StudentController handles enrolled student operations
type StudentController struct {
	studentService    services.StudentService
	attendanceService services.AttendanceService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, attendanceService services.AttendanceService) *StudentController {
	return &StudentController{
		studentService:    studentService,
		attendanceService: attendanceService,
	}
}

// ConvertLead handles converting a trial-attended lead into a student
// @Summary Convert a lead
// @Description Enrolls a trial-attended lead as a student and creates the joining payment
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lead ID"
// @Param request body dto.ConvertLeadRequest true "Batch, plan and amount"
// @Success 201 {object} dto.APIResponse{data=dto.ConversionResponse} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Lead is not eligible for conversion"
// @Failure 404 {object} dto.ErrorResponse "Lead or batch not found"
// @Failure 409 {object} dto.ErrorResponse "Batch is full"
// @Router /leads/{id}/convert [post]
func (c *StudentController) ConvertLead(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid lead ID")
		errorDetail = errorDetail.WithDetails("Lead ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.ConvertLeadRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, payment, err := c.studentService.ConvertLead(ctx, id, &req, middleware.GetUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.ConversionResponse{
		Student: student,
		Payment: payment,
	}))
}

// GetStudent handles retrieving a single student
// @Summary Get student by ID
// @Description Retrieves a student with subscription details
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// GetAllStudents handles listing students with filters
// @Summary List students
// @Description Retrieves students with optional filtering and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (ACTIVE, ON_BREAK, EXPIRED)"
// @Param centerId query int false "Filter by center ID"
// @Param batchId query int false "Filter by batch ID"
// @Param search query string false "Match against name or phone"
// @Param expiringDays query int false "Only students expiring within N days"
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 20)"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	filter := dto.StudentFilter{
		Status: strings.ToUpper(ctx.Query("status")),
		Search: ctx.Query("search"),
	}
	if v := ctx.Query("centerId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.CenterID = id
		}
	}
	if v := ctx.Query("batchId"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			filter.BatchID = id
		}
	}
	if v := ctx.Query("expiringDays"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			filter.ExpiringDays = days
		}
	}

	students, total, err := c.studentService.ListStudents(ctx, filter, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response))
}

// UpdateStudent handles editing student fields
// @Summary Update a student
// @Description Updates student contact fields, batch assignment or status
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// GetAttendanceHistory handles listing a student's attendance records
// @Summary Get student attendance history
// @Description Retrieves a student's attendance records within a date range
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param from query string false "Range start (YYYY-MM-DD, default: 30 days ago)"
// @Param to query string false "Range end (YYYY-MM-DD, default: today)"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance} "History retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id}/attendance [get]
func (c *StudentController) GetAttendanceHistory(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID")
		errorDetail = errorDetail.WithDetails("Student ID must be a valid number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	from, to := parseDateRange(ctx, 30)

	history, err := c.attendanceService.GetStudentHistory(ctx, id, from, to)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(history))
}

// parseDateRange reads from/to query params as YYYY-MM-DD dates,
// defaulting to the trailing defaultDays window ending today.
func parseDateRange(ctx *gin.Context, defaultDays int) (time.Time, time.Time) {
	to := helpers.DateOnly(time.Now())
	from := to.AddDate(0, 0, -defaultDays)

	if v := ctx.Query("from"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			from = t
		}
	}
	if v := ctx.Query("to"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			to = t
		}
	}
	if to.Before(from) {
		from, to = to, from
	}

	return from, to
}
