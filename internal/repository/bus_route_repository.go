package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/scolaris/scolaris-backend/internal/model"
)

var (
	ErrDuplicateRouteName = errors.New("an active bus route with this name already exists")
	ErrRouteFull          = errors.New("the bus route has reached its capacity")
)

// BusRouteRepository handles transport route data access.
type BusRouteRepository struct {
	pool *pgxpool.Pool
}

// NewBusRouteRepository creates a new BusRouteRepository.
func NewBusRouteRepository(pool *pgxpool.Pool) *BusRouteRepository {
	return &BusRouteRepository{pool: pool}
}

const busRouteColumns = `
	r.id, r.name, r.vehicle_plate, r.capacity,
	(SELECT COUNT(*) FROM students st WHERE st.bus_route_id = r.id AND st.is_active),
	r.is_active, r.created_at, r.updated_at`

// GetByID retrieves a bus route with its assigned-student count.
func (r *BusRouteRepository) GetByID(ctx context.Context, id int) (*model.BusRoute, error) {
	route := &model.BusRoute{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+busRouteColumns+` FROM bus_routes r WHERE r.id = $1`, id,
	).Scan(&route.ID, &route.Name, &route.VehiclePlate, &route.Capacity,
		&route.Assigned, &route.IsActive, &route.CreatedAt, &route.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return route, nil
}

// List retrieves bus routes, active only unless includeArchived is set.
func (r *BusRouteRepository) List(ctx context.Context, includeArchived bool) ([]model.BusRoute, error) {
	query := `SELECT ` + busRouteColumns + ` FROM bus_routes r`
	if !includeArchived {
		query += ` WHERE r.is_active`
	}
	query += ` ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []model.BusRoute
	for rows.Next() {
		var route model.BusRoute
		if err := rows.Scan(&route.ID, &route.Name, &route.VehiclePlate, &route.Capacity,
			&route.Assigned, &route.IsActive, &route.CreatedAt, &route.UpdatedAt); err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// Create inserts a new bus route.
func (r *BusRouteRepository) Create(ctx context.Context, route *model.BusRoute) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO bus_routes (name, vehicle_plate, capacity)
		 VALUES ($1, $2, $3)
		 RETURNING id, is_active, created_at, updated_at`,
		route.Name, route.VehiclePlate, route.Capacity,
	).Scan(&route.ID, &route.IsActive, &route.CreatedAt, &route.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRouteName
		}
		return err
	}
	return nil
}

// Update modifies a bus route.
func (r *BusRouteRepository) Update(ctx context.Context, route *model.BusRoute) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bus_routes SET name = $1, vehicle_plate = $2, capacity = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $4`,
		route.Name, route.VehiclePlate, route.Capacity, route.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRouteName
		}
		return err
	}
	return nil
}

// Archive soft-deletes a bus route. Archiving twice is a no-op.
func (r *BusRouteRepository) Archive(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bus_routes SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

// AssignStudent puts a student on a route, enforcing the capacity limit.
// The route row is locked so concurrent assignments cannot overfill it.
func (r *BusRouteRepository) AssignStudent(ctx context.Context, routeID, studentID int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assign: %w", err)
	}
	defer tx.Rollback(ctx)

	var capacity, assigned int
	if err := tx.QueryRow(ctx,
		`SELECT capacity FROM bus_routes WHERE id = $1 AND is_active FOR UPDATE`, routeID,
	).Scan(&capacity); err != nil {
		return err
	}
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE bus_route_id = $1 AND is_active AND id <> $2`,
		routeID, studentID,
	).Scan(&assigned); err != nil {
		return err
	}
	if assigned >= capacity {
		return ErrRouteFull
	}

	if _, err := tx.Exec(ctx,
		`UPDATE students SET bus_route_id = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		routeID, studentID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
