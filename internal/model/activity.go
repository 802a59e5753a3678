package model

import "time"

// Activity represents an extracurricular activity students can register for.
// Code follows the same optional active-unique rule as Student.Reference.
type Activity struct {
	ID          int       `json:"id"`
	Code        *string   `json:"code,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ActivityRequest is the payload for creating or updating an activity.
type ActivityRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=2,max=30"`
	Name        string  `json:"name" binding:"required,min=2,max=150"`
	Description string  `json:"description" binding:"omitempty,max=1000"`
}

// ActivityRegistration records a student's registration to an activity.
type ActivityRegistration struct {
	ActivityID   int       `json:"activity_id"`
	StudentID    int       `json:"student_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// RegisterStudentRequest is the payload for registering a student to an activity.
type RegisterStudentRequest struct {
	StudentID int `json:"student_id" binding:"required,min=1"`
}
