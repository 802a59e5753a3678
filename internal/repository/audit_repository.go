package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

// AuditRepository persists the audit trail.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// InsertBatch writes a batch of audit events in one round trip.
func (r *AuditRepository) InsertBatch(ctx context.Context, events []model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO audit_logs (event_id, actor_id, action, entity, entity_id, detail, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (event_id) DO NOTHING`,
			e.EventID, e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail, e.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert audit event: %w", err)
		}
	}
	return nil
}

// ListPaginated retrieves audit logs, newest first, optionally by entity.
func (r *AuditRepository) ListPaginated(ctx context.Context, entity string, limit, offset int) ([]model.AuditLog, int, error) {
	where := ``
	args := []interface{}{}

	if entity != "" {
		where = ` WHERE entity = $1`
		args = append(args, entity)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, event_id, actor_id, action, entity, entity_id, detail, created_at FROM audit_logs` + where
	if entity != "" {
		query += ` ORDER BY id DESC LIMIT $2 OFFSET $3`
	} else {
		query += ` ORDER BY id DESC LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var logs []model.AuditLog
	for rows.Next() {
		var l model.AuditLog
		if err := rows.Scan(&l.ID, &l.EventID, &l.ActorID, &l.Action, &l.Entity, &l.EntityID, &l.Detail, &l.CreatedAt); err != nil {
			return nil, 0, err
		}
		logs = append(logs, l)
	}
	return logs, total, rows.Err()
}
