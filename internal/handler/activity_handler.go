package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
	"github.com/scolaris/scolaris-backend/internal/response"
	"github.com/scolaris/scolaris-backend/internal/service"
	"github.com/scolaris/scolaris-backend/internal/validator"
)

// ActivityHandler handles extracurricular activity endpoints.
type ActivityHandler struct {
	activityService *service.ActivityService
	auditService    *service.AuditService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activityService *service.ActivityService, auditService *service.AuditService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, auditService: auditService}
}

// List godoc
// GET /api/v1/activities
func (h *ActivityHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	activities, err := h.activityService.List(c.Request.Context(), includeArchived)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activities": activities})
}

// Get godoc
// GET /api/v1/activities/:id
func (h *ActivityHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	activity, err := h.activityService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activity": activity})
}

// Create godoc
// POST /api/v1/activities
func (h *ActivityHandler) Create(c *gin.Context) {
	var req model.ActivityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateActivityCode) {
			response.Fail(c, http.StatusConflict, response.ErrDuplicateReference)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "activity", activity.ID)
	response.Success(c, http.StatusCreated, gin.H{"activity": activity})
}

// Update godoc
// PUT /api/v1/activities/:id
func (h *ActivityHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ActivityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	activity, err := h.activityService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateActivityCode):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateReference)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "update", "activity", id)
	response.Success(c, http.StatusOK, gin.H{"activity": activity})
}

// Archive godoc
// DELETE /api/v1/activities/:id
func (h *ActivityHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.activityService.Archive(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "archive", "activity", id)
	response.Success(c, http.StatusOK, gin.H{"message": "activity archived successfully"})
}

// RegisterStudent godoc
// POST /api/v1/activities/:id/registrations
func (h *ActivityHandler) RegisterStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RegisterStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.activityService.RegisterStudent(c.Request.Context(), id, req.StudentID); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRegistered):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyRegistered)
		case errors.Is(err, repository.ErrRegistrationTarget), errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "register_student", "activity", id)
	response.Success(c, http.StatusCreated, gin.H{"message": "student registered successfully"})
}

// UnregisterStudent godoc
// DELETE /api/v1/activities/:id/registrations/:studentId
func (h *ActivityHandler) UnregisterStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.activityService.UnregisterStudent(c.Request.Context(), id, studentID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "unregister_student", "activity", id)
	response.Success(c, http.StatusOK, gin.H{"message": "student unregistered successfully"})
}

// RegisteredStudents godoc
// GET /api/v1/activities/:id/registrations
func (h *ActivityHandler) RegisteredStudents(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.activityService.RegisteredStudents(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"students": students})
}
