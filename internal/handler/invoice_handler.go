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

// InvoiceHandler handles billing endpoints.
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
	auditService   *service.AuditService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService *service.InvoiceService, auditService *service.AuditService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, auditService: auditService}
}

// List godoc
// GET /api/v1/invoices
// Lists invoices with pagination, optionally filtered by student and status.
func (h *InvoiceHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	status := c.Query("status")

	var studentID *int
	if sidStr := c.Query("student_id"); sidStr != "" {
		sid, err := strconv.Atoi(sidStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		studentID = &sid
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), studentID, status, page, perPage)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInvoiceStatus) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidStatus)
			return
		}
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

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"invoices": invoices}, pagination)
}

// Get godoc
// GET /api/v1/invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": invoice})
}

// Issue godoc
// POST /api/v1/invoices
// Issues an invoice. References are unique among non-cancelled invoices.
func (h *InvoiceHandler) Issue(c *gin.Context) {
	var req model.InvoiceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	invoice, err := h.invoiceService.Issue(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrDuplicateInvoiceRef):
			response.Fail(c, http.StatusConflict, response.ErrDuplicateReference)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "issue", "invoice", invoice.ID)
	response.Success(c, http.StatusCreated, gin.H{"invoice": invoice})
}

// RecordPayment godoc
// POST /api/v1/invoices/:id/payments
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.PaymentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	payment, err := h.invoiceService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrInvalidPaymentMethod):
			response.Fail(c, http.StatusBadRequest, response.ErrValidation)
		case errors.Is(err, repository.ErrInvoiceNotPayable):
			response.Fail(c, http.StatusConflict, response.ErrInvoiceNotPayable)
		case errors.Is(err, repository.ErrOverpayment):
			response.Fail(c, http.StatusConflict, response.ErrOverpayment)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "record_payment", "invoice", id)
	response.Success(c, http.StatusCreated, gin.H{"payment": payment})
}

// Cancel godoc
// POST /api/v1/invoices/:id/cancel
// Voids an issued invoice; its reference becomes reusable.
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.invoiceService.Cancel(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, repository.ErrInvoiceNotPayable):
			response.Fail(c, http.StatusConflict, response.ErrInvoiceNotPayable)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	recordAudit(c, h.auditService, "cancel", "invoice", id)
	response.Success(c, http.StatusOK, gin.H{"message": "invoice cancelled successfully"})
}

// Payments godoc
// GET /api/v1/invoices/:id/payments
func (h *InvoiceHandler) Payments(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	payments, err := h.invoiceService.Payments(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}
