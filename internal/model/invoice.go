package model

import "time"

// InvoiceStatus enumerates the lifecycle states of an invoice.
type InvoiceStatus string

const (
	InvoiceIssued    InvoiceStatus = "ISSUED"
	InvoicePaid      InvoiceStatus = "PAID"
	InvoiceCancelled InvoiceStatus = "CANCELLED"
)

// PaymentMethod enumerates the accepted payment methods.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCheque   PaymentMethod = "CHEQUE"
)

// Valid returns true when the method is a supported value.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCheque:
		return true
	default:
		return false
	}
}

// Invoice bills a student's family. Amounts are in cents to avoid
// floating point rounding.
type Invoice struct {
	ID          int           `json:"id"`
	StudentID   int           `json:"student_id"`
	Reference   string        `json:"reference"`
	Label       string        `json:"label"`
	AmountCents int64         `json:"amount_cents"`
	PaidCents   int64         `json:"paid_cents"`
	Status      InvoiceStatus `json:"status"`
	IssuedOn    time.Time     `json:"issued_on"`
	DueOn       *time.Time    `json:"due_on,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Payment records money received against an invoice.
type Payment struct {
	ID          int           `json:"id"`
	InvoiceID   int           `json:"invoice_id"`
	AmountCents int64         `json:"amount_cents"`
	Method      PaymentMethod `json:"method"`
	PaidOn      time.Time     `json:"paid_on"`
	CreatedAt   time.Time     `json:"created_at"`
}

// InvoiceRequest is the payload for creating an invoice.
type InvoiceRequest struct {
	StudentID   int     `json:"student_id" binding:"required,min=1"`
	Reference   string  `json:"reference" binding:"required,min=2,max=30"`
	Label       string  `json:"label" binding:"required,min=2,max=200"`
	AmountCents int64   `json:"amount_cents" binding:"required,min=1"`
	IssuedOn    string  `json:"issued_on" binding:"required,datetime=2006-01-02"`
	DueOn       *string `json:"due_on" binding:"omitempty,datetime=2006-01-02"`
}

// PaymentRequest is the payload for recording a payment.
type PaymentRequest struct {
	AmountCents int64         `json:"amount_cents" binding:"required,min=1"`
	Method      PaymentMethod `json:"method" binding:"required"`
	PaidOn      string        `json:"paid_on" binding:"required,datetime=2006-01-02"`
}
