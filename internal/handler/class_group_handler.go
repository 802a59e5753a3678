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

// ClassGroupHandler handles class group management endpoints.
type ClassGroupHandler struct {
	classGroupService *service.ClassGroupService
	auditService      *service.AuditService
}

// NewClassGroupHandler creates a new ClassGroupHandler.
func NewClassGroupHandler(classGroupService *service.ClassGroupService, auditService *service.AuditService) *ClassGroupHandler {
	return &ClassGroupHandler{classGroupService: classGroupService, auditService: auditService}
}

// List godoc
// GET /api/v1/class-groups
// Lists class groups, optionally scoped to a school.
func (h *ClassGroupHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	var schoolID *int
	if sidStr := c.Query("school_id"); sidStr != "" {
		sid, err := strconv.Atoi(sidStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		schoolID = &sid
	}

	groups, err := h.classGroupService.List(c.Request.Context(), schoolID, includeArchived)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_groups": groups})
}

// Get godoc
// GET /api/v1/class-groups/:id
func (h *ClassGroupHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	group, err := h.classGroupService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_group": group})
}

// Create godoc
// POST /api/v1/class-groups
func (h *ClassGroupHandler) Create(c *gin.Context) {
	var req model.ClassGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.classGroupService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateClassGroup) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "class_group", group.ID)
	response.Success(c, http.StatusCreated, gin.H{"class_group": group})
}

// Update godoc
// PUT /api/v1/class-groups/:id
func (h *ClassGroupHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ClassGroupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	group, err := h.classGroupService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateClassGroup):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "update", "class_group", id)
	response.Success(c, http.StatusOK, gin.H{"class_group": group})
}

// Archive godoc
// DELETE /api/v1/class-groups/:id
func (h *ClassGroupHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.classGroupService.Archive(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "archive", "class_group", id)
	response.Success(c, http.StatusOK, gin.H{"message": "class group archived successfully"})
}
