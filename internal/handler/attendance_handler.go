package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/response"
	"github.com/scolaris/scolaris-backend/internal/service"
	"github.com/scolaris/scolaris-backend/internal/validator"
)

// AttendanceHandler handles attendance sheet endpoints.
type AttendanceHandler struct {
	attendanceService *service.AttendanceService
	auditService      *service.AuditService
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(attendanceService *service.AttendanceService, auditService *service.AuditService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService, auditService: auditService}
}

// BatchUpsert godoc
// PUT /api/v1/class-groups/:id/attendance
// Applies a whole attendance sheet for one class group and session date.
// Entries for unknown or archived students are counted as failed; everything
// else lands atomically.
func (h *AttendanceHandler) BatchUpsert(c *gin.Context) {
	classGroupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.BatchAttendanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.attendanceService.BatchUpsert(c.Request.Context(), classGroupID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassGroupMismatch):
			response.Fail(c, http.StatusBadRequest, response.ErrClassGroupMismatch)
		case errors.Is(err, service.ErrEmptyBatch):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, service.ErrInvalidAttendanceStatus):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidStatus)
		case errors.Is(err, service.ErrDuplicateBatchEntry):
			response.Fail(c, http.StatusBadRequest, response.ErrDuplicateBatchEntry)
		case errors.Is(err, service.ErrClassGroupNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "attendance_batch", "class_group", classGroupID)
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Sheet godoc
// GET /api/v1/class-groups/:id/attendance?date=YYYY-MM-DD
// Returns the recorded sheet for one session date. Defaults to today.
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	classGroupID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	date := c.DefaultQuery("date", time.Now().UTC().Format("2006-01-02"))
	if _, err := time.Parse("2006-01-02", date); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		return
	}

	records, err := h.attendanceService.Sheet(c.Request.Context(), classGroupID, date)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attendance": records})
}

// History godoc
// GET /api/v1/students/:id/attendance?from=YYYY-MM-DD&to=YYYY-MM-DD
// Returns one student's attendance inside an inclusive date range.
func (h *AttendanceHandler) History(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	now := time.Now().UTC()
	from := c.DefaultQuery("from", now.AddDate(0, -1, 0).Format("2006-01-02"))
	to := c.DefaultQuery("to", now.Format("2006-01-02"))
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
			return
		}
	}

	records, err := h.attendanceService.History(c.Request.Context(), studentID, from, to)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attendance": records})
}
