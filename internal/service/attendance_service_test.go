package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/scolaris/scolaris-backend/internal/model"
)

type fakeAttendanceStore struct {
	activeStudents map[int]bool
	resolveErr     error
	applyErr       error

	appliedEntries []model.AttendanceEntry
	appliedGroupID int
	appliedDate    time.Time
}

func (f *fakeAttendanceStore) ExistingActiveStudentIDs(_ context.Context, studentIDs []int) (map[int]bool, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	out := make(map[int]bool)
	for _, id := range studentIDs {
		if f.activeStudents[id] {
			out[id] = true
		}
	}
	return out, nil
}

func (f *fakeAttendanceStore) ApplyBatch(_ context.Context, classGroupID int, sessionDate time.Time, entries []model.AttendanceEntry) (int, int, error) {
	if f.applyErr != nil {
		return 0, 0, f.applyErr
	}
	f.appliedGroupID = classGroupID
	f.appliedDate = sessionDate
	f.appliedEntries = entries
	return len(entries), 0, nil
}

func (f *fakeAttendanceStore) SheetForDate(context.Context, int, time.Time) ([]model.AttendanceRecord, error) {
	return nil, nil
}

func (f *fakeAttendanceStore) HistoryForStudent(context.Context, int, time.Time, time.Time) ([]model.AttendanceRecord, error) {
	return nil, nil
}

type fakeClassGroupProbe struct {
	active map[int]bool
	err    error
}

func (f *fakeClassGroupProbe) ExistsActive(_ context.Context, id int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.active[id], nil
}

func newTestAttendanceService(store *fakeAttendanceStore, probe *fakeClassGroupProbe) *AttendanceService {
	return NewAttendanceService(store, probe, nil, zerolog.Nop())
}

func batchRequest(classGroupID int, entries ...model.AttendanceEntry) model.BatchAttendanceRequest {
	return model.BatchAttendanceRequest{
		ClassGroupID: classGroupID,
		SessionDate:  "2026-03-02",
		Entries:      entries,
	}
}

func TestBatchUpsertClassGroupMismatch(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceStore{}, &fakeClassGroupProbe{})

	_, err := svc.BatchUpsert(context.Background(), 7, batchRequest(8,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
	))
	if !errors.Is(err, ErrClassGroupMismatch) {
		t.Fatalf("expected ErrClassGroupMismatch, got %v", err)
	}
}

func TestBatchUpsertEmptyBatch(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceStore{}, &fakeClassGroupProbe{})

	_, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7))
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestBatchUpsertInvalidStatus(t *testing.T) {
	store := &fakeAttendanceStore{activeStudents: map[int]bool{1: true}}
	svc := newTestAttendanceService(store, &fakeClassGroupProbe{active: map[int]bool{7: true}})

	_, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: "SLEEPING"},
	))
	if !errors.Is(err, ErrInvalidAttendanceStatus) {
		t.Fatalf("expected ErrInvalidAttendanceStatus, got %v", err)
	}
	if store.appliedEntries != nil {
		t.Fatal("invalid batch must not reach storage")
	}
}

func TestBatchUpsertDuplicateStudentRejectsWholeBatch(t *testing.T) {
	store := &fakeAttendanceStore{activeStudents: map[int]bool{1: true}}
	svc := newTestAttendanceService(store, &fakeClassGroupProbe{active: map[int]bool{7: true}})

	_, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
		model.AttendanceEntry{StudentID: 1, Status: model.AttendanceLate},
	))
	if !errors.Is(err, ErrDuplicateBatchEntry) {
		t.Fatalf("expected ErrDuplicateBatchEntry, got %v", err)
	}
	if store.appliedEntries != nil {
		t.Fatal("duplicate batch must not reach storage")
	}
}

func TestBatchUpsertUnknownClassGroup(t *testing.T) {
	svc := newTestAttendanceService(
		&fakeAttendanceStore{activeStudents: map[int]bool{1: true}},
		&fakeClassGroupProbe{active: map[int]bool{}},
	)

	_, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
	))
	if !errors.Is(err, ErrClassGroupNotFound) {
		t.Fatalf("expected ErrClassGroupNotFound, got %v", err)
	}
}

func TestBatchUpsertCountsMissingStudentsAsFailed(t *testing.T) {
	store := &fakeAttendanceStore{activeStudents: map[int]bool{1: true, 3: true}}
	svc := newTestAttendanceService(store, &fakeClassGroupProbe{active: map[int]bool{7: true}})

	result, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
		model.AttendanceEntry{StudentID: 2, Status: model.AttendanceAbsent},
		model.AttendanceEntry{StudentID: 3, Status: model.AttendanceLate},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 2 || result.Failed != 1 {
		t.Fatalf("expected created=2 failed=1, got created=%d updated=%d failed=%d",
			result.Created, result.Updated, result.Failed)
	}
	if len(store.appliedEntries) != 2 {
		t.Fatalf("expected 2 eligible entries, got %d", len(store.appliedEntries))
	}
	for _, e := range store.appliedEntries {
		if e.StudentID == 2 {
			t.Fatal("missing student must never be written")
		}
	}
	want, _ := time.Parse("2006-01-02", "2026-03-02")
	if !store.appliedDate.Equal(want) {
		t.Fatalf("expected session date %v, got %v", want, store.appliedDate)
	}
}

func TestBatchUpsertAllEntriesFailed(t *testing.T) {
	store := &fakeAttendanceStore{activeStudents: map[int]bool{}}
	svc := newTestAttendanceService(store, &fakeClassGroupProbe{active: map[int]bool{7: true}})

	result, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
		model.AttendanceEntry{StudentID: 2, Status: model.AttendanceAbsent},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Created != 0 || result.Updated != 0 || result.Failed != 2 {
		t.Fatalf("expected all failed, got created=%d updated=%d failed=%d",
			result.Created, result.Updated, result.Failed)
	}
	if store.appliedEntries != nil {
		t.Fatal("storage must not be touched when nothing is eligible")
	}
}

func TestBatchUpsertStorageFaultSurfaces(t *testing.T) {
	boom := errors.New("deadlock detected")
	store := &fakeAttendanceStore{
		activeStudents: map[int]bool{1: true},
		applyErr:       boom,
	}
	svc := newTestAttendanceService(store, &fakeClassGroupProbe{active: map[int]bool{7: true}})

	result, err := svc.BatchUpsert(context.Background(), 7, batchRequest(7,
		model.AttendanceEntry{StudentID: 1, Status: model.AttendancePresent},
	))
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage fault, got %v", err)
	}
	if result != nil {
		t.Fatal("failed batch must not report counts")
	}
}

func TestSheetRejectsBadDate(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceStore{}, &fakeClassGroupProbe{})

	if _, err := svc.Sheet(context.Background(), 7, "02/03/2026"); err == nil {
		t.Fatal("expected parse error for malformed date")
	}
}

func TestHistoryReturnsEmptySliceNotNil(t *testing.T) {
	svc := newTestAttendanceService(&fakeAttendanceStore{}, &fakeClassGroupProbe{})

	records, err := svc.History(context.Background(), 1, "2026-02-01", "2026-03-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records == nil {
		t.Fatal("expected empty slice, got nil")
	}
}
