package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var ErrDuplicateSchoolName = errors.New("an active school with this name already exists")

// SchoolRepository handles school data access.
type SchoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository creates a new SchoolRepository.
func NewSchoolRepository(pool *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{pool: pool}
}

// GetByID retrieves a school by ID.
func (r *SchoolRepository) GetByID(ctx context.Context, id int) (*model.School, error) {
	s := &model.School{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, city, phone, is_active, created_at, updated_at
		 FROM schools WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.City, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ActiveNameExists reports whether an active school already holds the name.
func (r *SchoolRepository) ActiveNameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM schools WHERE name = $1 AND is_active AND id <> $2)`,
		name, excludeID,
	).Scan(&exists)
	return exists, err
}

// List retrieves schools, active only unless includeArchived is set.
func (r *SchoolRepository) List(ctx context.Context, includeArchived bool) ([]model.School, error) {
	query := `SELECT id, name, city, phone, is_active, created_at, updated_at FROM schools`
	if !includeArchived {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var s model.School
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Phone, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, s *model.School) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO schools (name, city, phone)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_active, created_at, updated_at`,
		s.Name, s.City, s.Phone,
	).Scan(&s.ID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSchoolName
		}
		return err
	}
	return nil
}

// Update modifies a school.
func (r *SchoolRepository) Update(ctx context.Context, s *model.School) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE schools SET name = $1, city = $2, phone = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		s.Name, s.City, s.Phone, s.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSchoolName
		}
		return err
	}
	return nil
}

// Archive soft-deletes a school. Archiving twice is a no-op.
func (r *SchoolRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE schools SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}
