package service

import (
	"context"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// ClassGroupService handles class group business logic.
type ClassGroupService struct {
	repo *repository.ClassGroupRepository
}

// NewClassGroupService creates a new ClassGroupService.
func NewClassGroupService(repo *repository.ClassGroupRepository) *ClassGroupService {
	return &ClassGroupService{repo: repo}
}

// GetByID retrieves a class group by ID.
func (s *ClassGroupService) GetByID(ctx context.Context, id int) (*model.ClassGroup, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves class groups, optionally scoped to one school.
func (s *ClassGroupService) List(ctx context.Context, schoolID *int, includeArchived bool) ([]model.ClassGroup, error) {
	groups, err := s.repo.List(ctx, schoolID, includeArchived)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		groups = []model.ClassGroup{}
	}
	return groups, nil
}

// Create inserts a new class group.
func (s *ClassGroupService) Create(ctx context.Context, req model.ClassGroupRequest) (*model.ClassGroup, error) {
	group := &model.ClassGroup{
		SchoolID:     req.SchoolID,
		Name:         req.Name,
		Level:        req.Level,
		AcademicYear: req.AcademicYear,
	}
	if err := s.repo.Create(ctx, group); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, group.ID)
}

// Update modifies a class group.
func (s *ClassGroupService) Update(ctx context.Context, id int, req model.ClassGroupRequest) (*model.ClassGroup, error) {
	group := &model.ClassGroup{
		ID:           id,
		SchoolID:     req.SchoolID,
		Name:         req.Name,
		Level:        req.Level,
		AcademicYear: req.AcademicYear,
	}
	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Archive soft-deletes a class group.
func (s *ClassGroupService) Archive(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}
