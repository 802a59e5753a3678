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
	ErrAlreadyLinked   = errors.New("the student is already linked to this guardian")
	ErrGuardianMissing = errors.New("guardian does not exist")
)

// GuardianRepository handles guardian data access.
type GuardianRepository struct {
	pool *pgxpool.Pool
}

// NewGuardianRepository creates a new GuardianRepository.
func NewGuardianRepository(pool *pgxpool.Pool) *GuardianRepository {
	return &GuardianRepository{pool: pool}
}

// GetByID retrieves a guardian by ID.
func (r *GuardianRepository) GetByID(ctx context.Context, id int) (*model.Guardian, error) {
	g := &model.Guardian{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at
		 FROM guardians WHERE id = $1`, id,
	).Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListPaginated retrieves guardians, with optional name/email search.
func (r *GuardianRepository) ListPaginated(ctx context.Context, query string, includeArchived bool, limit, offset int) ([]model.Guardian, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}

	if !includeArchived {
		where += ` AND is_active`
	}
	if query != "" {
		where += ` AND (first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1)`
		args = append(args, "%"+query+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM guardians`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sel := `SELECT id, first_name, last_name, email, phone, is_active, created_at, updated_at FROM guardians` + where
	if query != "" {
		sel += ` ORDER BY last_name, first_name LIMIT $2 OFFSET $3`
	} else {
		sel += ` ORDER BY last_name, first_name LIMIT $1 OFFSET $2`
	}
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, sel, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var guardians []model.Guardian
	for rows.Next() {
		var g model.Guardian
		if err := rows.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Email, &g.Phone, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		guardians = append(guardians, g)
	}
	return guardians, total, rows.Err()
}

// Create inserts a new guardian.
func (r *GuardianRepository) Create(ctx context.Context, g *model.Guardian) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO guardians (first_name, last_name, email, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_active, created_at, updated_at`,
		g.FirstName, g.LastName, g.Email, g.Phone,
	).Scan(&g.ID, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
}

// Update modifies a guardian.
func (r *GuardianRepository) Update(ctx context.Context, g *model.Guardian) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guardians SET first_name = $1, last_name = $2, email = $3, phone = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		g.FirstName, g.LastName, g.Email, g.Phone, g.ID,
	)
	return err
}

// Archive soft-deletes a guardian. Archiving twice is a no-op.
func (r *GuardianRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guardians SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// LinkStudent ties a student to a guardian.
func (r *GuardianRepository) LinkStudent(ctx context.Context, link model.GuardianLink) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO student_guardians (student_id, guardian_id, relationship)
		 VALUES ($1, $2, $3)`,
		link.StudentID, link.GuardianID, link.Relationship,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" {
				return ErrAlreadyLinked
			}
			if pgErr.Code == "23503" {
				return ErrGuardianMissing
			}
		}
		return err
	}
	return nil
}

// UnlinkStudent removes a student/guardian tie.
func (r *GuardianRepository) UnlinkStudent(ctx context.Context, studentID, guardianID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM student_guardians WHERE student_id = $1 AND guardian_id = $2`,
		studentID, guardianID,
	)
	return err
}

// StudentsForGuardian lists the students linked to a guardian.
func (r *GuardianRepository) StudentsForGuardian(ctx context.Context, guardianID int) ([]model.Student, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentColumns+`
		 FROM student_guardians sg
		 JOIN students st ON st.id = sg.student_id
		 LEFT JOIN class_groups g ON g.id = st.class_group_id
		 WHERE sg.guardian_id = $1
		 ORDER BY st.last_name, st.first_name`,
		guardianID,
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

// Merge moves every student link from the source guardian to the target and
// archives the source, all in one transaction. Links the target already has
// are dropped rather than duplicated.
func (r *GuardianRepository) Merge(ctx context.Context, targetID, sourceID int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback(ctx)

	// Relink where the target has no existing tie for the student.
	if _, err := tx.Exec(ctx,
		`UPDATE student_guardians sg SET guardian_id = $1
		 WHERE sg.guardian_id = $2
		   AND NOT EXISTS (
			SELECT 1 FROM student_guardians t
			WHERE t.guardian_id = $1 AND t.student_id = sg.student_id
		   )`,
		targetID, sourceID,
	); err != nil {
		return fmt.Errorf("relink students: %w", err)
	}

	// Whatever remains is a duplicate tie the target already holds.
	if _, err := tx.Exec(ctx,
		`DELETE FROM student_guardians WHERE guardian_id = $1`, sourceID,
	); err != nil {
		return fmt.Errorf("drop duplicate links: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE guardians SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, sourceID,
	); err != nil {
		return fmt.Errorf("archive source guardian: %w", err)
	}

	return tx.Commit(ctx)
}
