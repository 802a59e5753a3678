package model

import "time"

// Guardian represents a parent or legal guardian.
type Guardian struct {
	ID        int       `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GuardianRequest is the payload for creating or updating a guardian.
type GuardianRequest struct {
	FirstName string `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string `json:"last_name" binding:"required,min=1,max=100"`
	Email     string `json:"email" binding:"omitempty,email,max=150"`
	Phone     string `json:"phone" binding:"omitempty,max=30"`
}

// GuardianLink ties a student to a guardian with a relationship label.
type GuardianLink struct {
	StudentID    int    `json:"student_id"`
	GuardianID   int    `json:"guardian_id"`
	Relationship string `json:"relationship"`
}

// LinkGuardianRequest is the payload for linking a student to a guardian.
type LinkGuardianRequest struct {
	StudentID    int    `json:"student_id" binding:"required,min=1"`
	Relationship string `json:"relationship" binding:"required,min=2,max=50"`
}

// MergeGuardiansRequest is the payload for merging a duplicate guardian
// into the target identified by the route.
type MergeGuardiansRequest struct {
	SourceID int `json:"source_id" binding:"required,min=1"`
}
