package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/response"
	"github.com/scolaris/scolaris-backend/internal/service"
	"github.com/scolaris/scolaris-backend/internal/validator"
)

// EvaluationHandler handles academic evaluation endpoints.
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
	auditService      *service.AuditService
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evaluationService *service.EvaluationService, auditService *service.AuditService) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService, auditService: auditService}
}

// ListForStudent godoc
// GET /api/v1/students/:id/evaluations
func (h *EvaluationHandler) ListForStudent(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	evaluations, err := h.evaluationService.ListForStudent(c.Request.Context(), studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"evaluations": evaluations})
}

// Create godoc
// POST /api/v1/students/:id/evaluations
func (h *EvaluationHandler) Create(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EvaluationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	evaluation, err := h.evaluationService.Create(c.Request.Context(), studentID, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "create", "evaluation", evaluation.ID)
	response.Success(c, http.StatusCreated, gin.H{"evaluation": evaluation})
}

// Update godoc
// PUT /api/v1/evaluations/:id
func (h *EvaluationHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.EvaluationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	evaluation, err := h.evaluationService.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "update", "evaluation", id)
	response.Success(c, http.StatusOK, gin.H{"evaluation": evaluation})
}

// Delete godoc
// DELETE /api/v1/evaluations/:id
// Evaluations are removed outright; they carry no archive flag.
func (h *EvaluationHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.evaluationService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	recordAudit(c, h.auditService, "delete", "evaluation", id)
	response.Success(c, http.StatusOK, gin.H{"message": "evaluation deleted successfully"})
}
