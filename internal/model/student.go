package model

import "time"

// Student represents an enrolled student.
//
// Reference is the human-assigned business code printed on the student's
// file. It is optional; when present it must be unique among active
// students. Archived students release their reference for reuse.
type Student struct {
	ID             int        `json:"id"`
	Reference      *string    `json:"reference,omitempty"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	ClassGroupID   *int       `json:"class_group_id,omitempty"`
	ClassGroupName string     `json:"class_group_name,omitempty"`
	BusRouteID     *int       `json:"bus_route_id,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StudentRequest is the payload for creating or updating a student.
type StudentRequest struct {
	Reference    *string `json:"reference" binding:"omitempty,min=2,max=30"`
	FirstName    string  `json:"first_name" binding:"required,min=1,max=100"`
	LastName     string  `json:"last_name" binding:"required,min=1,max=100"`
	BirthDate    *string `json:"birth_date" binding:"omitempty,datetime=2006-01-02"`
	ClassGroupID *int    `json:"class_group_id" binding:"omitempty,min=1"`
}

// StudentFilter scopes student listings.
type StudentFilter struct {
	Query           string
	ClassGroupID    *int
	SchoolID        *int
	IncludeArchived bool
}
