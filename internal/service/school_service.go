package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// SchoolService handles school business logic.
type SchoolService struct {
	repo *repository.SchoolRepository
	log  zerolog.Logger
}

// NewSchoolService creates a new SchoolService.
func NewSchoolService(repo *repository.SchoolRepository, log zerolog.Logger) *SchoolService {
	return &SchoolService{
		repo: repo,
		log:  log.With().Str("component", "school_service").Logger(),
	}
}

// GetByID retrieves a school by ID.
func (s *SchoolService) GetByID(ctx context.Context, id int) (*model.School, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves schools.
func (s *SchoolService) List(ctx context.Context, includeArchived bool) ([]model.School, error) {
	schools, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	if schools == nil {
		schools = []model.School{}
	}
	return schools, nil
}

// Create inserts a new school. The school name is active-unique: the
// pre-check catches the common case, the storage constraint the race.
func (s *SchoolService) Create(ctx context.Context, req model.SchoolRequest) (*model.School, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.repo.ActiveNameExists(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("check school name: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateSchoolName
	}

	school := &model.School{Name: name, City: strings.TrimSpace(req.City), Phone: req.Phone}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, err
	}

	s.log.Info().Int("school_id", school.ID).Str("name", school.Name).Msg("School created")
	return s.repo.GetByID(ctx, school.ID)
}

// Update modifies a school.
func (s *SchoolService) Update(ctx context.Context, id int, req model.SchoolRequest) (*model.School, error) {
	name := strings.TrimSpace(req.Name)

	exists, err := s.repo.ActiveNameExists(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("check school name: %w", err)
	}
	if exists {
		return nil, repository.ErrDuplicateSchoolName
	}

	school := &model.School{ID: id, Name: name, City: strings.TrimSpace(req.City), Phone: req.Phone}
	if err := s.repo.Update(ctx, school); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Archive soft-deletes a school.
func (s *SchoolService) Archive(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}
