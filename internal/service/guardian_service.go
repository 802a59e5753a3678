package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
	"github.com/scolaris/scolaris-backend/internal/response"
)

var ErrMergeSelf = errors.New("a guardian cannot be merged into itself")

// GuardianService handles guardian business logic, including family merges.
type GuardianService struct {
	repo *repository.GuardianRepository
	log  zerolog.Logger
}

// NewGuardianService creates a new GuardianService.
func NewGuardianService(repo *repository.GuardianRepository, log zerolog.Logger) *GuardianService {
	return &GuardianService{
		repo: repo,
		log:  log.With().Str("component", "guardian_service").Logger(),
	}
}

// GetByID retrieves a guardian by ID.
func (s *GuardianService) GetByID(ctx context.Context, id int) (*model.Guardian, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves guardians with pagination and optional search.
func (s *GuardianService) List(ctx context.Context, query string, includeArchived bool, page, perPage int) ([]model.Guardian, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	limit := perPage
	offset := (page - 1) * perPage

	guardians, total, err := s.repo.ListPaginated(ctx, query, includeArchived, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if guardians == nil {
		guardians = []model.Guardian{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return guardians, pagination, nil
}

// Create inserts a new guardian.
func (s *GuardianService) Create(ctx context.Context, req model.GuardianRequest) (*model.Guardian, error) {
	guardian := &model.Guardian{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.repo.Create(ctx, guardian); err != nil {
		return nil, err
	}
	return guardian, nil
}

// Update modifies a guardian.
func (s *GuardianService) Update(ctx context.Context, id int, req model.GuardianRequest) (*model.Guardian, error) {
	guardian := &model.Guardian{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.repo.Update(ctx, guardian); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Archive soft-deletes a guardian.
func (s *GuardianService) Archive(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}

// LinkStudent ties a student to a guardian.
func (s *GuardianService) LinkStudent(ctx context.Context, guardianID int, req model.LinkGuardianRequest) error {
	if _, err := s.repo.GetByID(ctx, guardianID); err != nil {
		return err
	}
	return s.repo.LinkStudent(ctx, model.GuardianLink{
		StudentID:    req.StudentID,
		GuardianID:   guardianID,
		Relationship: req.Relationship,
	})
}

// UnlinkStudent removes a student/guardian tie.
func (s *GuardianService) UnlinkStudent(ctx context.Context, guardianID, studentID int) error {
	return s.repo.UnlinkStudent(ctx, studentID, guardianID)
}

// Students lists the students linked to a guardian.
func (s *GuardianService) Students(ctx context.Context, guardianID int) ([]model.Student, error) {
	students, err := s.repo.StudentsForGuardian(ctx, guardianID)
	if err != nil {
		return nil, err
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// Merge folds the source guardian into the target: student links move over,
// duplicates collapse, and the source is archived. Both guardians must
// exist; merging a guardian into itself is rejected.
func (s *GuardianService) Merge(ctx context.Context, targetID, sourceID int) (*model.Guardian, error) {
	if targetID == sourceID {
		return nil, ErrMergeSelf
	}
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetByID(ctx, sourceID); err != nil {
		return nil, err
	}

	if err := s.repo.Merge(ctx, targetID, sourceID); err != nil {
		return nil, err
	}

	s.log.Info().
		Int("target_id", targetID).
		Int("source_id", sourceID).
		Msg("Guardians merged")

	return s.repo.GetByID(ctx, targetID)
}
