package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

var (
	// ErrInvalidInvoiceStatus is returned when a list filter names an unknown status.
	ErrInvalidInvoiceStatus = errors.New("unsupported invoice status")
	// ErrInvalidPaymentMethod is returned for payment methods outside the supported set.
	ErrInvalidPaymentMethod = errors.New("unsupported payment method")
)

// InvoiceService handles billing business logic.
type InvoiceService struct {
	repo     *repository.InvoiceRepository
	students *repository.StudentRepository
	log      zerolog.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(repo *repository.InvoiceRepository, students *repository.StudentRepository, log zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		repo:     repo,
		students: students,
		log:      log.With().Str("component", "invoice_service").Logger(),
	}
}

// GetByID retrieves an invoice by ID.
func (s *InvoiceService) GetByID(ctx context.Context, id int) (*model.Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves invoices with pagination, optionally scoped to a student
// and a lifecycle status.
func (s *InvoiceService) List(ctx context.Context, studentID *int, status string, page, perPage int) ([]model.Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	var statusFilter *model.InvoiceStatus
	if status != "" {
		st := model.InvoiceStatus(strings.ToUpper(status))
		switch st {
		case model.InvoiceIssued, model.InvoicePaid, model.InvoiceCancelled:
			statusFilter = &st
		default:
			return nil, 0, ErrInvalidInvoiceStatus
		}
	}

	offset := (page - 1) * perPage
	invoices, total, err := s.repo.ListPaginated(ctx, studentID, statusFilter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	return invoices, total, nil
}

// Issue creates a new invoice for a student. References are unique among
// non-cancelled invoices; the pre-check catches the common case and the
// unique index backs it up under concurrency.
func (s *InvoiceService) Issue(ctx context.Context, req model.InvoiceRequest) (*model.Invoice, error) {
	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	issuedOn, err := time.Parse("2006-01-02", req.IssuedOn)
	if err != nil {
		return nil, fmt.Errorf("parse issue date: %w", err)
	}
	var dueOn *time.Time
	if req.DueOn != nil {
		due, err := time.Parse("2006-01-02", *req.DueOn)
		if err != nil {
			return nil, fmt.Errorf("parse due date: %w", err)
		}
		dueOn = &due
	}

	reference := strings.TrimSpace(req.Reference)
	exists, err := s.repo.ActiveReferenceExists(ctx, reference)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateInvoiceRef
	}

	invoice := &model.Invoice{
		StudentID:   req.StudentID,
		Reference:   reference,
		Label:       req.Label,
		AmountCents: req.AmountCents,
		IssuedOn:    issuedOn,
		DueOn:       dueOn,
	}
	if err := s.repo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("invoice_id", invoice.ID).
		Int("student_id", invoice.StudentID).
		Str("reference", invoice.Reference).
		Int64("amount_cents", invoice.AmountCents).
		Msg("invoice issued")

	return s.repo.GetByID(ctx, invoice.ID)
}

// RecordPayment applies a payment to an issued invoice. Covering the full
// amount flips the invoice to PAID; overpayment is rejected.
func (s *InvoiceService) RecordPayment(ctx context.Context, invoiceID int, req model.PaymentRequest) (*model.Payment, error) {
	if !req.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.Method)
	}
	paidOn, err := time.Parse("2006-01-02", req.PaidOn)
	if err != nil {
		return nil, fmt.Errorf("parse payment date: %w", err)
	}

	payment := &model.Payment{
		InvoiceID:   invoiceID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		PaidOn:      paidOn,
	}
	if err := s.repo.RecordPayment(ctx, payment); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("invoice_id", invoiceID).
		Int64("amount_cents", req.AmountCents).
		Str("method", string(req.Method)).
		Msg("payment recorded")

	return payment, nil
}

// Cancel voids an issued invoice. Paid or already cancelled invoices stay
// untouched.
func (s *InvoiceService) Cancel(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Cancel(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int("invoice_id", id).Msg("invoice cancelled")
	return nil
}

// Payments lists the payments recorded against an invoice.
func (s *InvoiceService) Payments(ctx context.Context, invoiceID int) ([]model.Payment, error) {
	if _, err := s.repo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	payments, err := s.repo.PaymentsForInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return payments, nil
}
