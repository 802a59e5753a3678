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

// BusRouteHandler handles transport route endpoints.
type BusRouteHandler struct {
	busRouteService *service.BusRouteService
	auditService    *service.AuditService
}

// NewBusRouteHandler creates a new BusRouteHandler.
func NewBusRouteHandler(busRouteService *service.BusRouteService, auditService *service.AuditService) *BusRouteHandler {
	return &BusRouteHandler{busRouteService: busRouteService, auditService: auditService}
}

// List godoc
// GET /api/v1/bus-routes
func (h *BusRouteHandler) List(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	routes, err := h.busRouteService.List(c.Request.Context(), includeArchived)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bus_routes": routes})
}

// Get godoc
// GET /api/v1/bus-routes/:id
func (h *BusRouteHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	route, err := h.busRouteService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"bus_route": route})
}

// Create godoc
// POST /api/v1/bus-routes
func (h *BusRouteHandler) Create(c *gin.Context) {
	var req model.BusRouteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.busRouteService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateRouteName) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "bus_route", route.ID)
	response.Success(c, http.StatusCreated, gin.H{"bus_route": route})
}

// Update godoc
// PUT /api/v1/bus-routes/:id
func (h *BusRouteHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.BusRouteRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	route, err := h.busRouteService.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateRouteName):
			response.Fail(c, http.StatusConflict, response.ErrConflict)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "update", "bus_route", id)
	response.Success(c, http.StatusOK, gin.H{"bus_route": route})
}

// Archive godoc
// DELETE /api/v1/bus-routes/:id
func (h *BusRouteHandler) Archive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.busRouteService.Archive(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "archive", "bus_route", id)
	response.Success(c, http.StatusOK, gin.H{"message": "bus route archived successfully"})
}

// AssignStudent godoc
// POST /api/v1/bus-routes/:id/students
// Assigns a student to the route. Fails with ROUTE_FULL once the capacity
// is exhausted, even under concurrent assignments.
func (h *BusRouteHandler) AssignStudent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.AssignStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.busRouteService.AssignStudent(c.Request.Context(), id, req.StudentID); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrRouteFull):
			response.Fail(c, http.StatusConflict, response.ErrRouteFull)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "assign_student", "bus_route", id)
	response.Success(c, http.StatusOK, gin.H{"message": "student assigned successfully"})
}

// UnassignStudent godoc
// DELETE /api/v1/bus-routes/students/:studentId
func (h *BusRouteHandler) UnassignStudent(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("studentId"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.busRouteService.UnassignStudent(c.Request.Context(), studentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "unassign_student", "bus_route", studentID)
	response.Success(c, http.StatusOK, gin.H{"message": "student unassigned successfully"})
}
