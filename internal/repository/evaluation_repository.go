package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

// EvaluationRepository handles evaluation data access.
type EvaluationRepository struct {
	pool *pgxpool.Pool
}

// NewEvaluationRepository creates a new EvaluationRepository.
func NewEvaluationRepository(pool *pgxpool.Pool) *EvaluationRepository {
	return &EvaluationRepository{pool: pool}
}

// GetByID retrieves an evaluation by ID.
func (r *EvaluationRepository) GetByID(ctx context.Context, id int) (*model.Evaluation, error) {
	e := &model.Evaluation{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, subject, score, max_score, evaluated_on, comments, created_at, updated_at
		 FROM evaluations WHERE id = $1`, id,
	).Scan(&e.ID, &e.StudentID, &e.Subject, &e.Score, &e.MaxScore, &e.EvaluatedOn, &e.Comments, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListForStudent retrieves a student's evaluations, newest first.
func (r *EvaluationRepository) ListForStudent(ctx context.Context, studentID int) ([]model.Evaluation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, subject, score, max_score, evaluated_on, comments, created_at, updated_at
		 FROM evaluations WHERE student_id = $1
		 ORDER BY evaluated_on DESC, id DESC`, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evaluations []model.Evaluation
	for rows.Next() {
		var e model.Evaluation
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Subject, &e.Score, &e.MaxScore, &e.EvaluatedOn, &e.Comments, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		evaluations = append(evaluations, e)
	}
	return evaluations, rows.Err()
}

// Create inserts a new evaluation.
func (r *EvaluationRepository) Create(ctx context.Context, e *model.Evaluation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO evaluations (student_id, subject, score, max_score, evaluated_on, comments)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		e.StudentID, e.Subject, e.Score, e.MaxScore, e.EvaluatedOn, e.Comments,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Update modifies an evaluation.
func (r *EvaluationRepository) Update(ctx context.Context, e *model.Evaluation) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE evaluations SET subject = $1, score = $2, max_score = $3, evaluated_on = $4,
			comments = $5, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		e.Subject, e.Score, e.MaxScore, e.EvaluatedOn, e.Comments, e.ID,
	)
	return err
}

// Delete removes an evaluation.
func (r *EvaluationRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM evaluations WHERE id = $1`, id)
	return err
}
