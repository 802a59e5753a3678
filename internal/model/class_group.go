package model

import "time"

// ClassGroup represents a class group within a school.
type ClassGroup struct {
	ID           int       `json:"id"`
	SchoolID     int       `json:"school_id"`
	SchoolName   string    `json:"school_name,omitempty"`
	Name         string    `json:"name"`
	Level        string    `json:"level"`
	AcademicYear string    `json:"academic_year"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ClassGroupRequest is the payload for creating or updating a class group.
type ClassGroupRequest struct {
	SchoolID     int    `json:"school_id" binding:"required,min=1"`
	Name         string `json:"name" binding:"required,min=1,max=50"`
	Level        string `json:"level" binding:"required,min=1,max=50"`
	AcademicYear string `json:"academic_year" binding:"required,min=4,max=20"`
}
