package model

import "time"

// AttendanceStatus enumerates the supported attendance marks.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceLate    AttendanceStatus = "LATE"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceRecord is one student's mark for one class session day.
//
// At most one record exists per (student, class group, session date); the
// storage layer enforces this with a unique constraint. ModifiedAt stays
// NULL until the record is amended after its initial creation.
type AttendanceRecord struct {
	ID           int              `json:"id"`
	StudentID    int              `json:"student_id"`
	StudentName  string           `json:"student_name,omitempty"`
	ClassGroupID int              `json:"class_group_id"`
	SessionDate  time.Time        `json:"session_date"`
	Status       AttendanceStatus `json:"status"`
	Notes        *string          `json:"notes,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	ModifiedAt   *time.Time       `json:"modified_at,omitempty"`
}

// AttendanceEntry is one line of a batch attendance sheet.
type AttendanceEntry struct {
	StudentID int              `json:"student_id" binding:"required,min=1"`
	Status    AttendanceStatus `json:"status" binding:"required"`
	Notes     *string          `json:"notes" binding:"omitempty,max=500"`
}

// BatchAttendanceRequest is the payload for the batch attendance upsert.
// ClassGroupID must match the class group in the route.
type BatchAttendanceRequest struct {
	ClassGroupID int               `json:"class_group_id" binding:"required,min=1"`
	SessionDate  string            `json:"session_date" binding:"required,datetime=2006-01-02"`
	Entries      []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

// BatchAttendanceResult reports how the batch was applied.
type BatchAttendanceResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}
