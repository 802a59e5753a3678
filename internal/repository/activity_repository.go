package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var (
	ErrDuplicateActivityCode = errors.New("an active activity with this code already exists")
	ErrAlreadyRegistered     = errors.New("the student is already registered to this activity")
	ErrRegistrationTarget    = errors.New("student or activity does not exist")
)

// ActivityRepository handles activity data access.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// GetByID retrieves an activity by ID.
func (r *ActivityRepository) GetByID(ctx context.Context, id int) (*model.Activity, error) {
	a := &model.Activity{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, description, is_active, created_at, updated_at
		 FROM activities WHERE id = $1`, id,
	).Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ActiveCodeExists reports whether an active activity already holds the code.
func (r *ActivityRepository) ActiveCodeExists(ctx context.Context, code string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM activities WHERE code = $1 AND is_active AND id <> $2)`,
		code, excludeID,
	).Scan(&exists)
	return exists, err
}

// List retrieves activities, active only unless includeArchived is set.
func (r *ActivityRepository) List(ctx context.Context, includeArchived bool) ([]model.Activity, error) {
	query := `SELECT id, code, name, description, is_active, created_at, updated_at FROM activities`
	if !includeArchived {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		if err := rows.Scan(&a.ID, &a.Code, &a.Name, &a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// Create inserts a new activity. A unique-violation on the active code index
// is translated to ErrDuplicateActivityCode.
func (r *ActivityRepository) Create(ctx context.Context, a *model.Activity) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO activities (code, name, description)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_active, created_at, updated_at`,
		a.Code, a.Name, a.Description,
	).Scan(&a.ID, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateActivityCode
		}
		return err
	}
	return nil
}

// Update modifies an activity.
func (r *ActivityRepository) Update(ctx context.Context, a *model.Activity) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE activities SET code = $1, name = $2, description = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		a.Code, a.Name, a.Description, a.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateActivityCode
		}
		return err
	}
	return nil
}

// Archive soft-deletes an activity and releases its code for reuse.
// Archiving twice is a no-op.
func (r *ActivityRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE activities SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// RegisterStudent registers a student to an activity.
func (r *ActivityRepository) RegisterStudent(ctx context.Context, activityID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO activity_registrations (activity_id, student_id) VALUES ($1, $2)`,
		activityID, studentID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return ErrAlreadyRegistered
			}
			if pgErr.Code == "23503" {
				return ErrRegistrationTarget
			}
		}
		return err
	}
	return nil
}

// UnregisterStudent removes a student's registration.
func (r *ActivityRepository) UnregisterStudent(ctx context.Context, activityID, studentID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM activity_registrations WHERE activity_id = $1 AND student_id = $2`,
		activityID, studentID,
	)
	return err
}

// RegisteredStudents lists the students registered to an activity.
func (r *ActivityRepository) RegisteredStudents(ctx context.Context, activityID int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM activity_registrations ar
		 JOIN students st ON st.id = ar.student_id
		 LEFT JOIN class_groups g ON g.id = st.class_group_id
		 WHERE ar.activity_id = $1
		 ORDER BY st.last_name, st.first_name`,
		activityID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var s model.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
