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

// SchoolHandler handles school management endpoints.
type SchoolHandler struct {
	schoolService *service.SchoolService
	auditService  *service.AuditService
}

// NewSchoolHandler creates a new SchoolHandler.
func NewSchoolHandler(schoolService *service.SchoolService, auditService *service.AuditService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService, auditService: auditService}
}

// List godoc
// GET /api/v1/schools
func (h *SchoolHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	schools, err := h.schoolService.List(c.Request.Context(), includeArchived)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schools": schools})
}

// Get godoc
// GET /api/v1/schools/:id
func (h *SchoolHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	school, err := h.schoolService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"school": school})
}

// Create godoc
// POST /api/v1/schools
func (h *SchoolHandler) Create(c *gin.Context) {
	var req model.SchoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	school, err := h.schoolService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateSchoolName) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "school", school.ID)
	response.Success(c, http.StatusCreated, gin.H{"school": school})
}

// Update godoc
// PUT /api/v1/schools/:id
func (h *SchoolHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SchoolRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	school, err := h.schoolService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateSchoolName):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "update", "school", id)
	response.Success(c, http.StatusOK, gin.H{"school": school})
}

// Archive godoc
// DELETE /api/v1/schools/:id
// Soft-deletes the school; its name becomes reusable by a new school.
func (h *SchoolHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.schoolService.Archive(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "archive", "school", id)
	response.Success(c, http.StatusOK, gin.H{"message": "school archived successfully"})
}
