package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// ActivityService handles activity business logic.
type ActivityService struct {
	repo *repository.ActivityRepository
}

// NewActivityService creates a new ActivityService.
func NewActivityService(repo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// GetByID retrieves an activity by ID.
func (s *ActivityService) GetByID(ctx context.Context, id int) (*model.Activity, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves activities.
func (s *ActivityService) List(ctx context.Context, includeArchived bool) ([]model.Activity, error) {
	activities, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []model.Activity{}
	}
	return activities, nil
}

// Create inserts a new activity with the duplicate-safe code rule. The code
// is optional; a blank code opts out of the uniqueness check entirely.
func (s *ActivityService) Create(ctx context.Context, req model.ActivityRequest) (*model.Activity, error) {
	activity := &model.Activity{
		Code:        normalizeCode(req.Code),
		Name:        req.Name,
		Description: req.Description,
	}

	if activity.Code != nil {
		exists, err := s.repo.ActiveCodeExists(ctx, *activity.Code, 0)
		if err != nil {
			return nil, fmt.Errorf("check activity code: %w", err)
		}
		if exists {
			return nil, repository.ErrDuplicateActivityCode
		}
	}

	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, activity.ID)
}

// Update modifies an activity.
func (s *ActivityService) Update(ctx context.Context, id int, req model.ActivityRequest) (*model.Activity, error) {
	activity := &model.Activity{
		ID:          id,
		Code:        normalizeCode(req.Code),
		Name:        req.Name,
		Description: req.Description,
	}

	if activity.Code != nil {
		exists, err := s.repo.ActiveCodeExists(ctx, *activity.Code, id)
		if err != nil {
			return nil, fmt.Errorf("check activity code: %w", err)
		}
		if exists {
			return nil, repository.ErrDuplicateActivityCode
		}
	}

	if err := s.repo.Update(ctx, activity); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Archive soft-deletes an activity.
func (s *ActivityService) Archive(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}

// RegisterStudent registers a student to an activity.
func (s *ActivityService) RegisterStudent(ctx context.Context, activityID, studentID int) error {
	return s.repo.RegisterStudent(ctx, activityID, studentID)
}

// UnregisterStudent removes a student's registration.
func (s *ActivityService) UnregisterStudent(ctx context.Context, activityID, studentID int) error {
	return s.repo.UnregisterStudent(ctx, activityID, studentID)
}

// RegisteredStudents lists the students registered to an activity.
func (s *ActivityService) RegisteredStudents(ctx context.Context, activityID int) ([]model.Student, error) {
	students, err := s.repo.RegisteredStudents(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

func normalizeCode(code *string) *string {
	if code == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
