package model

import "time"

// Evaluation is a graded assessment for a student.
type Evaluation struct {
	ID          int       `json:"id"`
	StudentID   int       `json:"student_id"`
	Subject     string    `json:"subject"`
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"max_score"`
	EvaluatedOn time.Time `json:"evaluated_on"`
	Comments    string    `json:"comments,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EvaluationRequest is the payload for creating or updating an evaluation.
type EvaluationRequest struct {
	Subject     string  `json:"subject" binding:"required,min=2,max=100"`
	Score       float64 `json:"score" binding:"min=0"`
	MaxScore    float64 `json:"max_score" binding:"required,gt=0,gtefield=Score"`
	EvaluatedOn string  `json:"evaluated_on" binding:"required,datetime=2006-01-02"`
	Comments    string  `json:"comments" binding:"omitempty,max=1000"`
}
