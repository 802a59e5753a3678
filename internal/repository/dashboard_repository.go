package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

// DashboardRepository handles admin dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for the dashboard.
// Only active records count.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalSchools, totalClassGroups, totalGuardians int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students WHERE is_active),
			(SELECT COUNT(*) FROM schools WHERE is_active),
			(SELECT COUNT(*) FROM class_groups WHERE is_active),
			(SELECT COUNT(*) FROM guardians WHERE is_active)`,
	).Scan(&totalStudents, &totalSchools, &totalClassGroups, &totalGuardians)
	return
}

// GetAttendanceCounts retrieves the attendance mark distribution for a date.
func (r *DashboardRepository) GetAttendanceCounts(ctx context.Context, sessionDate time.Time) (map[model.AttendanceStatus]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM attendance_records WHERE session_date = $1 GROUP BY status`,
		sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.AttendanceStatus]int)
	for rows.Next() {
		var status model.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// GetReceivables retrieves the outstanding invoice balance in cents.
func (r *DashboardRepository) GetReceivables(ctx context.Context) (outstandingCents int64, openInvoices int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_cents - paid_cents), 0), COUNT(*)
		 FROM invoices WHERE status = 'ISSUED'`,
	).Scan(&outstandingCents, &openInvoices)
	return
}
