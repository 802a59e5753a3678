package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var ErrDuplicateClassGroup = errors.New("an active class group with this name already exists for the school and year")

// ClassGroupRepository handles class group data access.
type ClassGroupRepository struct {
	pool *pgxpool.Pool
}

// NewClassGroupRepository creates a new ClassGroupRepository.
func NewClassGroupRepository(pool *pgxpool.Pool) *ClassGroupRepository {
	return &ClassGroupRepository{pool: pool}
}

// GetByID retrieves a class group with its school name.
func (r *ClassGroupRepository) GetByID(ctx context.Context, id int) (*model.ClassGroup, error) {
	g := &model.ClassGroup{}
	err := r.pool.QueryRow(ctx,
		`SELECT g.id, g.school_id, s.name, g.name, g.level, g.academic_year, g.is_active, g.created_at, g.updated_at
		 FROM class_groups g
		 JOIN schools s ON s.id = g.school_id
		 WHERE g.id = $1`, id,
	).Scan(&g.ID, &g.SchoolID, &g.SchoolName, &g.Name, &g.Level, &g.AcademicYear, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ExistsActive reports whether an active class group with the ID exists.
func (r *ClassGroupRepository) ExistsActive(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_groups WHERE id = $1 AND is_active)`, id,
	).Scan(&exists)
	return exists, err
}

// List retrieves class groups, optionally filtered by school.
func (r *ClassGroupRepository) List(ctx context.Context, schoolID *int, includeArchived bool) ([]model.ClassGroup, error) {
	query := `
		SELECT g.id, g.school_id, s.name, g.name, g.level, g.academic_year, g.is_active, g.created_at, g.updated_at
		FROM class_groups g
		JOIN schools s ON s.id = g.school_id
		WHERE 1=1`
	args := []interface{}{}

	if schoolID != nil {
		query += ` AND g.school_id = $1`
		args = append(args, *schoolID)
	}
	if !includeArchived {
		query += ` AND g.is_active`
	}
	query += ` ORDER BY s.name, g.academic_year DESC, g.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.ClassGroup
	for rows.Next() {
		var g model.ClassGroup
		if err := rows.Scan(&g.ID, &g.SchoolID, &g.SchoolName, &g.Name, &g.Level, &g.AcademicYear, &g.IsActive, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Create inserts a new class group.
func (r *ClassGroupRepository) Create(ctx context.Context, g *model.ClassGroup) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO class_groups (school_id, name, level, academic_year)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_active, created_at, updated_at`,
		g.SchoolID, g.Name, g.Level, g.AcademicYear,
	).Scan(&g.ID, &g.IsActive, &g.CreatedAt, &g.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClassGroup
		}
		return err
	}
	return nil
}

// Update modifies a class group.
func (r *ClassGroupRepository) Update(ctx context.Context, g *model.ClassGroup) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE class_groups SET school_id = $1, name = $2, level = $3, academic_year = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5`,
		g.SchoolID, g.Name, g.Level, g.AcademicYear, g.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateClassGroup
		}
		return err
	}
	return nil
}

// Archive soft-deletes a class group. Archiving twice is a no-op.
func (r *ClassGroupRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE class_groups SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}
