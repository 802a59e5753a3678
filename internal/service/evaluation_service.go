package service

import (
	"context"
	"fmt"
	"time"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// EvaluationService handles evaluation business logic.
type EvaluationService struct {
	repo *repository.EvaluationRepository
}

// NewEvaluationService creates a new EvaluationService.
func NewEvaluationService(repo *repository.EvaluationRepository) *EvaluationService {
	return &EvaluationService{repo: repo}
}

// GetByID retrieves an evaluation by ID.
func (s *EvaluationService) GetByID(ctx context.Context, id int) (*model.Evaluation, error) {
	return s.repo.GetByID(ctx, id)
}

// ListForStudent retrieves a student's evaluations.
func (s *EvaluationService) ListForStudent(ctx context.Context, studentID int) ([]model.Evaluation, error) {
	evaluations, err := s.repo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if evaluations == nil {
		evaluations = []model.Evaluation{}
	}
	return evaluations, nil
}

// Create inserts a new evaluation for a student.
func (s *EvaluationService) Create(ctx context.Context, studentID int, req model.EvaluationRequest) (*model.Evaluation, error) {
	evaluation, err := evaluationFromRequest(req)
	if err != nil {
		return nil, err
	}
	evaluation.StudentID = studentID

	if err := s.repo.Create(ctx, evaluation); err != nil {
		return nil, err
	}
	return evaluation, nil
}

// Update modifies an evaluation.
func (s *EvaluationService) Update(ctx context.Context, id int, req model.EvaluationRequest) (*model.Evaluation, error) {
	evaluation, err := evaluationFromRequest(req)
	if err != nil {
		return nil, err
	}
	evaluation.ID = id

	if err := s.repo.Update(ctx, evaluation); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes an evaluation.
func (s *EvaluationService) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func evaluationFromRequest(req model.EvaluationRequest) (*model.Evaluation, error) {
	evaluatedOn, err := time.Parse("2006-01-02", req.EvaluatedOn)
	if err != nil {
		return nil, fmt.Errorf("parse evaluation date: %w", err)
	}
	return &model.Evaluation{
		Subject:     req.Subject,
		Score:       req.Score,
		MaxScore:    req.MaxScore,
		EvaluatedOn: evaluatedOn,
		Comments:    req.Comments,
	}, nil
}
