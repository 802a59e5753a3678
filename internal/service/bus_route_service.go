package service

import (
	"context"
	"fmt"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// BusRouteService handles transport business logic.
type BusRouteService struct {
	repo     *repository.BusRouteRepository
	students *repository.StudentRepository
}

// NewBusRouteService creates a new BusRouteService.
func NewBusRouteService(repo *repository.BusRouteRepository, students *repository.StudentRepository) *BusRouteService {
	return &BusRouteService{repo: repo, students: students}
}

// GetByID retrieves a bus route by ID.
func (s *BusRouteService) GetByID(ctx context.Context, id int) (*model.BusRoute, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves bus routes.
func (s *BusRouteService) List(ctx context.Context, includeArchived bool) ([]model.BusRoute, error) {
	routes, err := s.repo.List(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []model.BusRoute{}
	}
	return routes, nil
}

// Create inserts a new bus route. Route names are active-unique.
func (s *BusRouteService) Create(ctx context.Context, req model.BusRouteRequest) (*model.BusRoute, error) {
	route := &model.BusRoute{
		Name:         req.Name,
		VehiclePlate: req.VehiclePlate,
		Capacity:     req.Capacity,
	}
	if err := s.repo.Create(ctx, route); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, route.ID)
}

// Update modifies a bus route.
func (s *BusRouteService) Update(ctx context.Context, id int, req model.BusRouteRequest) (*model.BusRoute, error) {
	route := &model.BusRoute{
		ID:           id,
		Name:         req.Name,
		VehiclePlate: req.VehiclePlate,
		Capacity:     req.Capacity,
	}
	if err := s.repo.Update(ctx, route); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Archive soft-deletes a bus route.
func (s *BusRouteService) Archive(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Archive(ctx, id)
}

// AssignStudent puts a student on a route. Fails with ErrRouteFull when
// the route's capacity is exhausted.
func (s *BusRouteService) AssignStudent(ctx context.Context, routeID, studentID int) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return fmt.Errorf("load student: %w", err)
	}
	return s.repo.AssignStudent(ctx, routeID, studentID)
}

// UnassignStudent removes a student from their route.
func (s *BusRouteService) UnassignStudent(ctx context.Context, studentID int) error {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return fmt.Errorf("load student: %w", err)
	}
	return s.students.AssignBusRoute(ctx, studentID, nil)
}
