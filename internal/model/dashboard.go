package model

// DashboardSummary aggregates the headline metrics for the admin dashboard.
type DashboardSummary struct {
	TotalStudents    int                      `json:"total_students"`
	TotalSchools     int                      `json:"total_schools"`
	TotalClassGroups int                      `json:"total_class_groups"`
	TotalGuardians   int                      `json:"total_guardians"`
	AttendanceToday  map[AttendanceStatus]int `json:"attendance_today"`
	OutstandingCents int64                    `json:"outstanding_cents"`
	OpenInvoices     int                      `json:"open_invoices"`
}
