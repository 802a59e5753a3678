package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var ErrDuplicateReference = errors.New("an active student with this reference already exists")

// StudentRepository handles student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

const studentColumns = `
	st.id, st.reference, st.first_name, st.last_name, st.birth_date,
	st.class_group_id, COALESCE(g.name, ''), st.bus_route_id,
	st.is_active, st.created_at, st.updated_at`

func scanStudent(row interface{ Scan(...interface{}) error }, s *model.Student) error {
	return row.Scan(
		&s.ID, &s.Reference, &s.FirstName, &s.LastName, &s.BirthDate,
		&s.ClassGroupID, &s.ClassGroupName, &s.BusRouteID,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
}

// GetByID retrieves a student with the class group name joined in.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	s := &model.Student{}
	err := scanStudent(r.pool.QueryRow(ctx,
		`SELECT `+studentColumns+`
		 FROM students st
		 LEFT JOIN class_groups g ON g.id = st.class_group_id
		 WHERE st.id = $1`, id,
	), s)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ActiveReferenceExists reports whether an active student already holds
// the reference code. Archived students do not count.
func (r *StudentRepository) ActiveReferenceExists(ctx context.Context, reference string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE reference = $1 AND is_active AND id <> $2)`,
		reference, excludeID,
	).Scan(&exists)
	return exists, err
}

// ListPaginated retrieves students matching the filter.
func (r *StudentRepository) ListPaginated(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if !filter.IncludeArchived {
		where += ` AND st.is_active`
	}
	if filter.ClassGroupID != nil {
		where += ` AND st.class_group_id = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.ClassGroupID)
		argIdx++
	}
	if filter.SchoolID != nil {
		where += ` AND g.school_id = $` + strconv.Itoa(argIdx)
		args = append(args, *filter.SchoolID)
		argIdx++
	}
	if filter.Query != "" {
		where += ` AND (st.first_name ILIKE $` + strconv.Itoa(argIdx) +
			` OR st.last_name ILIKE $` + strconv.Itoa(argIdx) +
			` OR st.reference ILIKE $` + strconv.Itoa(argIdx) + `)`
		args = append(args, "%"+filter.Query+"%")
		argIdx++
	}

	from := ` FROM students st LEFT JOIN class_groups g ON g.id = st.class_group_id`

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+from+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + studentColumns + from + where +
		` ORDER BY st.last_name, st.first_name LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, 0, err
		}
		students = append(students, s)
	}
	return students, total, rows.Err()
}

// Create inserts a new student. A unique-violation on the active reference
// index is translated to ErrDuplicateReference; the partial unique index is
// the authoritative duplicate guard.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students (reference, first_name, last_name, birth_date, class_group_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, is_active, created_at, updated_at`,
		s.Reference, s.FirstName, s.LastName, s.BirthDate, s.ClassGroupID,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// Update modifies a student's basic info.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET reference = $1, first_name = $2, last_name = $3, birth_date = $4,
			class_group_id = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		s.Reference, s.FirstName, s.LastName, s.BirthDate, s.ClassGroupID, s.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateReference
		}
		return err
	}
	return nil
}

// Archive soft-deletes a student and releases their reference for reuse.
// Archiving twice is a no-op.
func (r *StudentRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// AssignBusRoute sets or clears a student's bus route.
func (r *StudentRepository) AssignBusRoute(ctx context.Context, studentID int, routeID *int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET bus_route_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		routeID, studentID,
	)
	return err
}
