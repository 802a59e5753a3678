package model

import "time"

// School represents a school managed by the administration.
type School struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SchoolRequest is the payload for creating or updating a school.
type SchoolRequest struct {
	Name  string `json:"name" binding:"required,min=2,max=150"`
	City  string `json:"city" binding:"required,min=2,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=30"`
}
