package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/config"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/websocket"
)

// Domain Errors
var (
	ErrClassGroupMismatch      = errors.New("batch class group does not match the route")
	ErrEmptyBatch              = errors.New("batch contains no entries")
	ErrInvalidAttendanceStatus = errors.New("unsupported attendance status")
	ErrDuplicateBatchEntry     = errors.New("batch contains two entries for the same student")
	ErrClassGroupNotFound      = errors.New("class group not found or archived")
)

// AttendanceStore is the persistence surface the attendance service relies on.
type AttendanceStore interface {
	ExistingActiveStudentIDs(ctx context.Context, studentIDs []int) (map[int]bool, error)
	ApplyBatch(ctx context.Context, classGroupID int, sessionDate time.Time, entries []model.AttendanceEntry) (created, updated int, err error)
	SheetForDate(ctx context.Context, classGroupID int, sessionDate time.Time) ([]model.AttendanceRecord, error)
	HistoryForStudent(ctx context.Context, studentID int, from, to time.Time) ([]model.AttendanceRecord, error)
}

// ClassGroupProbe answers whether a class group exists and is active.
type ClassGroupProbe interface {
	ExistsActive(ctx context.Context, id int) (bool, error)
}

// AttendanceService handles attendance sheets and the batch upsert.
type AttendanceService struct {
	store  AttendanceStore
	groups ClassGroupProbe
	rdb    *redis.Client
	log    zerolog.Logger
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(store AttendanceStore, groups ClassGroupProbe, rdb *redis.Client, log zerolog.Logger) *AttendanceService {
	return &AttendanceService{
		store:  store,
		groups: groups,
		rdb:    rdb,
		log:    log.With().Str("component", "attendance_service").Logger(),
	}
}

// BatchUpsert applies one attendance sheet for a class group and session
// date. Students with an existing record for that key get it overwritten
// (stamping modified_at); the rest get a fresh record. Entries referencing
// unknown or archived students are counted as failed and skipped, so a bad
// entry never aborts the rest of the sheet. All writes land in a single
// transaction: a storage fault rolls the whole batch back with zero effect.
func (s *AttendanceService) BatchUpsert(ctx context.Context, routeClassGroupID int, req model.BatchAttendanceRequest) (*model.BatchAttendanceResult, error) {
	if req.ClassGroupID != routeClassGroupID {
		return nil, ErrClassGroupMismatch
	}
	if len(req.Entries) == 0 {
		return nil, ErrEmptyBatch
	}

	sessionDate, err := time.Parse("2006-01-02", req.SessionDate)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}

	// Validate the whole batch before touching storage. An invalid status
	// or a student listed twice rejects the request outright rather than
	// leaving "which entry wins" undefined.
	seen := make(map[int]bool, len(req.Entries))
	studentIDs := make([]int, 0, len(req.Entries))
	for _, e := range req.Entries {
		if !e.Status.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAttendanceStatus, e.Status)
		}
		if seen[e.StudentID] {
			return nil, fmt.Errorf("%w: student %d", ErrDuplicateBatchEntry, e.StudentID)
		}
		seen[e.StudentID] = true
		studentIDs = append(studentIDs, e.StudentID)
	}

	active, err := s.groups.ExistsActive(ctx, routeClassGroupID)
	if err != nil {
		return nil, fmt.Errorf("check class group: %w", err)
	}
	if !active {
		return nil, ErrClassGroupNotFound
	}

	// Resolve referential problems up front: entries for missing or
	// archived students are tolerated and counted, never written.
	existing, err := s.store.ExistingActiveStudentIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve students: %w", err)
	}

	eligible := make([]model.AttendanceEntry, 0, len(req.Entries))
	failed := 0
	for _, e := range req.Entries {
		if existing[e.StudentID] {
			eligible = append(eligible, e)
		} else {
			failed++
		}
	}

	result := &model.BatchAttendanceResult{Failed: failed}
	if len(eligible) > 0 {
		created, updated, err := s.store.ApplyBatch(ctx, routeClassGroupID, sessionDate, eligible)
		if err != nil {
			return nil, err
		}
		result.Created = created
		result.Updated = updated
	}

	s.log.Info().
		Int("class_group_id", routeClassGroupID).
		Str("session_date", req.SessionDate).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Attendance batch applied")

	s.publishFeedEvent(ctx, routeClassGroupID, req.SessionDate, result)

	return result, nil
}

// Sheet retrieves a class group's records for one session date.
func (s *AttendanceService) Sheet(ctx context.Context, classGroupID int, date string) ([]model.AttendanceRecord, error) {
	sessionDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("parse session date: %w", err)
	}

	records, err := s.store.SheetForDate(ctx, classGroupID, sessionDate)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// History retrieves a student's records within an inclusive date range.
func (s *AttendanceService) History(ctx context.Context, studentID int, from, to string) ([]model.AttendanceRecord, error) {
	fromDate, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, fmt.Errorf("parse from date: %w", err)
	}
	toDate, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, fmt.Errorf("parse to date: %w", err)
	}

	records, err := s.store.HistoryForStudent(ctx, studentID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return records, nil
}

// publishFeedEvent pushes the committed batch result onto the class group's
// live feed channel. Feed delivery is best-effort; a publish failure never
// fails the request that already committed.
func (s *AttendanceService) publishFeedEvent(ctx context.Context, classGroupID int, sessionDate string, result *model.BatchAttendanceResult) {
	if s.rdb == nil {
		return
	}

	event := websocket.AttendanceFeedEvent{
		ClassGroupID: classGroupID,
		SessionDate:  sessionDate,
		Created:      result.Created,
		Updated:      result.Updated,
		Failed:       result.Failed,
		At:           time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal feed event")
		return
	}

	channel := config.CacheKey.AttendanceFeedChannel(classGroupID)
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("channel", channel).Msg("Publish feed event")
	}
}
