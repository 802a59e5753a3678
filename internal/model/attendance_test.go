package model

import "testing"

func TestAttendanceStatusValid(t *testing.T) {
	valid := []AttendanceStatus{AttendancePresent, AttendanceAbsent, AttendanceLate}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}

	invalid := []AttendanceStatus{"", "present", "EXCUSED", "UNKNOWN"}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
