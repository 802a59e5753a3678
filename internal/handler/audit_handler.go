package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/scolaris/scolaris-backend/internal/middleware"
	"github.com/scolaris/scolaris-backend/internal/response"
	"github.com/scolaris/scolaris-backend/internal/service"
)

// AuditHandler exposes the persisted audit trail to administrators.
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List godoc
// GET /api/v1/audit-logs
// Lists audit entries, newest first, optionally filtered by entity.
func (h *AuditHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	entity := c.Query("entity")

	logs, total, err := h.auditService.List(c.Request.Context(), entity, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"audit_logs": logs}, pagination)
}

// recordAudit queues a mutation trail entry for the authenticated actor.
// Shared by the mutating handlers.
func recordAudit(c *gin.Context, auditService *service.AuditService, action, entity string, entityID int) {
	actorID := 0
	if claims := middleware.GetClaims(c); claims != nil {
		actorID = claims.UserID
	}
	auditService.Record(c.Request.Context(), actorID, action, entity, entityID, "")
}
