package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

// AttendanceRepository handles attendance data access.
type AttendanceRepository struct {
	pool *pgxpool.Pool
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(pool *pgxpool.Pool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// ExistingActiveStudentIDs returns the subset of studentIDs that exist and
// are not archived.
func (r *AttendanceRepository) ExistingActiveStudentIDs(ctx context.Context, studentIDs []int) (map[int]bool, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM students WHERE id = ANY($1) AND is_active`, studentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[int]bool, len(studentIDs))
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = true
	}
	return existing, rows.Err()
}

// ApplyBatch applies attendance entries for one class group and session date
// in a single transaction. Each entry either inserts a new record (created_at
// now, modified_at NULL) or overwrites an existing one (stamping modified_at).
// Any storage error rolls the whole batch back; no partial writes survive.
//
// Existence probes use FOR UPDATE so two concurrent batches for the same
// sheet serialize per row instead of both inserting; the unique constraint
// on (student_id, class_group_id, session_date) remains the final guard.
func (r *AttendanceRepository) ApplyBatch(ctx context.Context, classGroupID int, sessionDate time.Time, entries []model.AttendanceEntry) (created, updated int, err error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		var id int
		err := tx.QueryRow(ctx,
			`SELECT id FROM attendance_records
			 WHERE student_id = $1 AND class_group_id = $2 AND session_date = $3
			 FOR UPDATE`,
			e.StudentID, classGroupID, sessionDate,
		).Scan(&id)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx,
				`INSERT INTO attendance_records (student_id, class_group_id, session_date, status, notes)
				 VALUES ($1, $2, $3, $4, $5)`,
				e.StudentID, classGroupID, sessionDate, e.Status, e.Notes,
			); err != nil {
				return 0, 0, fmt.Errorf("insert attendance for student %d: %w", e.StudentID, err)
			}
			created++

		case err != nil:
			return 0, 0, fmt.Errorf("probe attendance for student %d: %w", e.StudentID, err)

		default:
			if _, err := tx.Exec(ctx,
				`UPDATE attendance_records
				 SET status = $1, notes = $2, modified_at = CURRENT_TIMESTAMP
				 WHERE id = $3`,
				e.Status, e.Notes, id,
			); err != nil {
				return 0, 0, fmt.Errorf("update attendance for student %d: %w", e.StudentID, err)
			}
			updated++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("commit batch: %w", err)
	}
	return created, updated, nil
}

// SheetForDate retrieves a class group's attendance records for one date.
func (r *AttendanceRepository) SheetForDate(ctx context.Context, classGroupID int, sessionDate time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.student_id, st.first_name || ' ' || st.last_name,
			a.class_group_id, a.session_date, a.status, a.notes, a.created_at, a.modified_at
		 FROM attendance_records a
		 JOIN students st ON st.id = a.student_id
		 WHERE a.class_group_id = $1 AND a.session_date = $2
		 ORDER BY st.last_name, st.first_name`,
		classGroupID, sessionDate,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAttendance(rows)
}

// HistoryForStudent retrieves a student's records within a date range.
func (r *AttendanceRepository) HistoryForStudent(ctx context.Context, studentID int, from, to time.Time) ([]model.AttendanceRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.student_id, st.first_name || ' ' || st.last_name,
			a.class_group_id, a.session_date, a.status, a.notes, a.created_at, a.modified_at
		 FROM attendance_records a
		 JOIN students st ON st.id = a.student_id
		 WHERE a.student_id = $1 AND a.session_date BETWEEN $2 AND $3
		 ORDER BY a.session_date DESC`,
		studentID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAttendance(rows)
}

func collectAttendance(rows pgx.Rows) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	for rows.Next() {
		var rec model.AttendanceRecord
		if err := rows.Scan(
			&rec.ID, &rec.StudentID, &rec.StudentName,
			&rec.ClassGroupID, &rec.SessionDate, &rec.Status, &rec.Notes, &rec.CreatedAt, &rec.ModifiedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
