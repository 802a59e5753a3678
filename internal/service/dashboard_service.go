package service

import (
	"context"
	"time"

	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

// DashboardService aggregates the admin dashboard metrics.
type DashboardService struct {
	repo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// Summary collects active-record counts, today's attendance distribution and
// the outstanding receivables in one payload.
func (s *DashboardService) Summary(ctx context.Context) (*model.DashboardSummary, error) {
	students, schools, classGroups, guardians, err := s.repo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	attendance, err := s.repo.GetAttendanceCounts(ctx, today)
	if err != nil {
		return nil, err
	}

	outstanding, openInvoices, err := s.repo.GetReceivables(ctx)
	if err != nil {
		return nil, err
	}

	return &model.DashboardSummary{
		TotalStudents:    students,
		TotalSchools:     schools,
		TotalClassGroups: classGroups,
		TotalGuardians:   guardians,
		AttendanceToday:  attendance,
		OutstandingCents: outstanding,
		OpenInvoices:     openInvoices,
	}, nil
}
