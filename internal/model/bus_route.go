package model

import "time"

// BusRoute represents a school transport route and its vehicle.
type BusRoute struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	VehiclePlate string    `json:"vehicle_plate,omitempty"`
	Capacity     int       `json:"capacity"`
	Assigned     int       `json:"assigned"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BusRouteRequest is the payload for creating or updating a bus route.
type BusRouteRequest struct {
	Name         string `json:"name" binding:"required,min=2,max=100"`
	VehiclePlate string `json:"vehicle_plate" binding:"omitempty,max=20"`
	Capacity     int    `json:"capacity" binding:"required,min=1,max=200"`
}

// AssignStudentRequest is the payload for assigning a student to a route.
type AssignStudentRequest struct {
	StudentID int `json:"student_id" binding:"required,min=1"`
}
