package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
	"github.com/scolaris/scolaris-backend/internal/response"
)

// StudentStore is the persistence surface the student service relies on.
type StudentStore interface {
	GetByID(ctx context.Context, id int) (*model.Student, error)
	ActiveReferenceExists(ctx context.Context, reference string, excludeID int) (bool, error)
	ListPaginated(ctx context.Context, filter model.StudentFilter, limit, offset int) ([]model.Student, int, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Archive(ctx context.Context, id int) error
}

// StudentService handles student business logic.
type StudentService struct {
	store StudentStore
}

// NewStudentService creates a new StudentService.
func NewStudentService(store StudentStore) *StudentService {
	return &StudentService{store: store}
}

// GetByID retrieves a student by ID.
func (s *StudentService) GetByID(ctx context.Context, id int) (*model.Student, error) {
	return s.store.GetByID(ctx, id)
}

// ListStudents retrieves students matching the filter with pagination.
func (s *StudentService) ListStudents(ctx context.Context, filter model.StudentFilter, page, perPage int) ([]model.Student, *response.Pagination, error) {
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

	students, total, err := s.store.ListPaginated(ctx, filter, limit, offset)
	if err != nil {
		return nil, nil, err
	}

	if students == nil {
		students = []model.Student{}
	}

	totalPages := (total + perPage - 1) / perPage

	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}

	return students, pagination, nil
}

// Create inserts a new student with the duplicate-safe reference rule.
//
// When a reference is supplied, an optimistic pre-check rejects known
// duplicates early; the storage unique constraint stays the authority, so
// a concurrent winner still surfaces as ErrDuplicateReference rather than
// a raw storage error. The created record is re-read so joined fields are
// populated.
func (s *StudentService) Create(ctx context.Context, req model.StudentRequest) (*model.Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}

	if student.Reference != nil {
		exists, err := s.store.ActiveReferenceExists(ctx, *student.Reference, 0)
		if err != nil {
			return nil, fmt.Errorf("check reference: %w", err)
		}
		if exists {
			return nil, repository.ErrDuplicateReference
		}
	}

	if err := s.store.Create(ctx, student); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, student.ID)
}

// Update modifies a student, keeping the reference rule intact.
func (s *StudentService) Update(ctx context.Context, id int, req model.StudentRequest) (*model.Student, error) {
	student, err := studentFromRequest(req)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if student.Reference != nil {
		exists, err := s.store.ActiveReferenceExists(ctx, *student.Reference, id)
		if err != nil {
			return nil, fmt.Errorf("check reference: %w", err)
		}
		if exists {
			return nil, repository.ErrDuplicateReference
		}
	}

	if err := s.store.Update(ctx, student); err != nil {
		return nil, err
	}

	return s.store.GetByID(ctx, id)
}

// Archive soft-deletes a student. Idempotent; the reference becomes
// reusable by a new active student.
func (s *StudentService) Archive(ctx context.Context, id int) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Archive(ctx, id)
}

func studentFromRequest(req model.StudentRequest) (*model.Student, error) {
	student := &model.Student{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		ClassGroupID: req.ClassGroupID,
	}

	// An absent or blank reference opts out of the uniqueness rule.
	if req.Reference != nil {
		if ref := strings.TrimSpace(*req.Reference); ref != "" {
			student.Reference = &ref
		}
	}

	if req.BirthDate != nil {
		birth, err := time.Parse("2006-01-02", *req.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("parse birth date: %w", err)
		}
		student.BirthDate = &birth
	}

	return student, nil
}
