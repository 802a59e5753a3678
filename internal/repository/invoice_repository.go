package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var (
	ErrDuplicateInvoiceRef = errors.New("an invoice with this reference already exists")
	ErrInvoiceNotPayable   = errors.New("payments can only be recorded against issued invoices")
	ErrOverpayment         = errors.New("payment exceeds the remaining invoice balance")
)

// InvoiceRepository handles invoice and payment data access.
type InvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

const invoiceColumns = `
	id, student_id, reference, label, amount_cents, paid_cents, status,
	issued_on, due_on, created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }, inv *model.Invoice) error {
	return row.Scan(
		&inv.ID, &inv.StudentID, &inv.Reference, &inv.Label, &inv.AmountCents, &inv.PaidCents,
		&inv.Status, &inv.IssuedOn, &inv.DueOn, &inv.CreatedAt, &inv.UpdatedAt,
	)
}

// GetByID retrieves an invoice by ID.
func (r *InvoiceRepository) GetByID(ctx context.Context, id int) (*model.Invoice, error) {
	inv := &model.Invoice{}
	err := scanInvoice(r.pool.QueryRow(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id), inv)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ActiveReferenceExists reports whether a non-cancelled invoice holds the reference.
func (r *InvoiceRepository) ActiveReferenceExists(ctx context.Context, reference string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM invoices WHERE reference = $1 AND status <> 'CANCELLED')`,
		reference,
	).Scan(&exists)
	return exists, err
}

// ListPaginated retrieves invoices, optionally scoped to a student or status.
func (r *InvoiceRepository) ListPaginated(ctx context.Context, studentID *int, status *model.InvoiceStatus, limit, offset int) ([]model.Invoice, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if studentID != nil {
		where += fmt.Sprintf(` AND student_id = $%d`, argIdx)
		args = append(args, *studentID)
		argIdx++
	}
	if status != nil {
		where += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, *status)
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		fmt.Sprintf(` ORDER BY issued_on DESC, id DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		if err := scanInvoice(rows, &inv); err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, total, rows.Err()
}

// Create inserts a new invoice. A unique-violation on the reference is
// translated to ErrDuplicateInvoiceRef.
func (r *InvoiceRepository) Create(ctx context.Context, inv *model.Invoice) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO invoices (student_id, reference, label, amount_cents, issued_on, due_on)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, paid_cents, status, created_at, updated_at`,
		inv.StudentID, inv.Reference, inv.Label, inv.AmountCents, inv.IssuedOn, inv.DueOn,
	).Scan(&inv.ID, &inv.PaidCents, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInvoiceRef
		}
		return err
	}
	return nil
}

// RecordPayment appends a payment to an issued invoice in one transaction.
// The invoice row is locked while the balance is checked; covering the full
// amount flips the invoice to PAID.
func (r *InvoiceRepository) RecordPayment(ctx context.Context, p *model.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment: %w", err)
	}
	defer tx.Rollback(ctx)

	var amount, paid int64
	var status model.InvoiceStatus
	if err := tx.QueryRow(ctx,
		`SELECT amount_cents, paid_cents, status FROM invoices WHERE id = $1 FOR UPDATE`,
		p.InvoiceID,
	).Scan(&amount, &paid, &status); err != nil {
		return err
	}

	if status != model.InvoiceIssued {
		return ErrInvoiceNotPayable
	}
	if paid+p.AmountCents > amount {
		return ErrOverpayment
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO payments (invoice_id, amount_cents, method, paid_on)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		p.InvoiceID, p.AmountCents, p.Method, p.PaidOn,
	).Scan(&p.ID, &p.CreatedAt); err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	newPaid := paid + p.AmountCents
	newStatus := status
	if newPaid == amount {
		newStatus = model.InvoicePaid
	}
	if _, err := tx.Exec(ctx,
		`UPDATE invoices SET paid_cents = $1, status = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $3`,
		newPaid, newStatus, p.InvoiceID,
	); err != nil {
		return fmt.Errorf("update invoice balance: %w", err)
	}

	return tx.Commit(ctx)
}

// Cancel marks an invoice cancelled. Paid invoices cannot be cancelled.
func (r *InvoiceRepository) Cancel(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invoices SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND status = 'ISSUED'`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotPayable
	}
	return nil
}

// PaymentsForInvoice lists the payments recorded against an invoice.
func (r *InvoiceRepository) PaymentsForInvoice(ctx context.Context, invoiceID int) ([]model.Payment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, invoice_id, amount_cents, method, paid_on, created_at
		 FROM payments WHERE invoice_id = $1 ORDER BY paid_on, id`, invoiceID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.AmountCents, &p.Method, &p.PaidOn, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
