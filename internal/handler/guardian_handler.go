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

// GuardianHandler handles guardian management endpoints.
type GuardianHandler struct {
	guardianService *service.GuardianService
	auditService    *service.AuditService
}

// NewGuardianHandler creates a new GuardianHandler.
func NewGuardianHandler(guardianService *service.GuardianService, auditService *service.AuditService) *GuardianHandler {
	return &GuardianHandler{guardianService: guardianService, auditService: auditService}
}

// List godoc
// GET /api/v1/guardians
func (h *GuardianHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	query := c.Query("q")
	includeArchived := c.Query("include_archived") == "true"

	guardians, pagination, err := h.guardianService.List(c.Request.Context(), query, includeArchived, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"guardians": guardians}, pagination)
}

// Get godoc
// GET /api/v1/guardians/:id
func (h *GuardianHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	guardian, err := h.guardianService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"guardian": guardian})
}

// Create godoc
// POST /api/v1/guardians
func (h *GuardianHandler) Create(c *gin.Context) {
	var req model.GuardianRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	guardian, err := h.guardianService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "guardian", guardian.ID)
	response.Success(c, http.StatusCreated, gin.H{"guardian": guardian})
}

// Update godoc
// PUT /api/v1/guardians/:id
func (h *GuardianHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GuardianRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	guardian, err := h.guardianService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "update", "guardian", id)
	response.Success(c, http.StatusOK, gin.H{"guardian": guardian})
}

// Archive godoc
// DELETE /api/v1/guardians/:id
func (h *GuardianHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.guardianService.Archive(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "archive", "guardian", id)
	response.Success(c, http.StatusOK, gin.H{"message": "guardian archived successfully"})
}

// LinkStudent godoc
// POST /api/v1/guardians/:id/students
// Links a student to the guardian with a relationship label.
func (h *GuardianHandler) LinkStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.LinkGuardianRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.guardianService.LinkStudent(c.Request.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrAlreadyLinked):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		case errors.Is(err, repository.ErrGuardianMissing):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "link_student", "guardian", id)
	response.Success(c, http.StatusCreated, gin.H{"message": "student linked successfully"})
}

// UnlinkStudent godoc
// DELETE /api/v1/guardians/:id/students/:studentId
func (h *GuardianHandler) UnlinkStudent(c *gin.Context) {
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

	if err := h.guardianService.UnlinkStudent(c.Request.Context(), id, studentID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "unlink_student", "guardian", id)
	response.Success(c, http.StatusOK, gin.H{"message": "student unlinked successfully"})
}

// Students godoc
// GET /api/v1/guardians/:id/students
func (h *GuardianHandler) Students(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	students, err := h.guardianService.Students(c.Request.Context(), id)
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

// Merge godoc
// POST /api/v1/guardians/:id/merge
// Relinks the source guardian's students to the target and archives the
// source. Duplicate links collapse instead of erroring.
func (h *GuardianHandler) Merge(c *gin.Context) {
	targetID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.MergeGuardiansRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	guardian, err := h.guardianService.Merge(c.Request.Context(), targetID, req.SourceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMergeSelf):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "merge", "guardian", targetID)
	response.Success(c, http.StatusOK, gin.H{"guardian": guardian})
}
