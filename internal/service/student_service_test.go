package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/scolaris/scolaris-backend/internal/model"
	"github.com/scolaris/scolaris-backend/internal/repository"
)

type fakeStudentStore struct {
	students   map[int]*model.Student
	references map[string]bool
	nextID     int

	createErr   error
	createCalls int
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		students:   make(map[int]*model.Student),
		references: make(map[string]bool),
		nextID:     1,
	}
}

func (f *fakeStudentStore) GetByID(_ context.Context, id int) (*model.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeStudentStore) ActiveReferenceExists(_ context.Context, reference string, excludeID int) (bool, error) {
	for id, s := range f.students {
		if id == excludeID || !s.IsActive || s.Reference == nil {
			continue
		}
		if *s.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentStore) ListPaginated(context.Context, model.StudentFilter, int, int) ([]model.Student, int, error) {
	return nil, 0, nil
}

func (f *fakeStudentStore) Create(_ context.Context, s *model.Student) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	// Mirrors the storage unique constraint on active references.
	if s.Reference != nil && f.references[*s.Reference] {
		return repository.ErrDuplicateReference
	}
	s.ID = f.nextID
	f.nextID++
	s.IsActive = true
	f.students[s.ID] = s
	if s.Reference != nil {
		f.references[*s.Reference] = true
	}
	return nil
}

func (f *fakeStudentStore) Update(_ context.Context, s *model.Student) error {
	if _, ok := f.students[s.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.IsActive = true
	f.students[s.ID] = s
	return nil
}

func (f *fakeStudentStore) Archive(_ context.Context, id int) error {
	s, ok := f.students[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.IsActive = false
	if s.Reference != nil {
		delete(f.references, *s.Reference)
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestStudentCreateWithReference(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewStudentService(store)

	student, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0001"),
		FirstName: "Mara",
		LastName:  "Voss",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if student.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if student.Reference == nil || *student.Reference != "STU-0001" {
		t.Fatalf("expected reference STU-0001, got %v", student.Reference)
	}
}

func TestStudentCreateDuplicateReferencePreCheck(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewStudentService(store)

	if _, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0001"),
		FirstName: "Mara",
		LastName:  "Voss",
	}); err != nil {
		t.Fatalf("seed create failed: %v", err)
	}

	calls := store.createCalls
	_, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0001"),
		FirstName: "Iris",
		LastName:  "Kade",
	})
	if !errors.Is(err, repository.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}
	if store.createCalls != calls {
		t.Fatal("pre-check duplicate must not reach the insert")
	}
}

func TestStudentCreateDuplicateReferenceRace(t *testing.T) {
	// The pre-check passes but the insert loses the race; the storage
	// constraint stays the authority and surfaces the same domain error.
	store := newFakeStudentStore()
	store.createErr = repository.ErrDuplicateReference
	svc := NewStudentService(store)

	_, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0002"),
		FirstName: "Mara",
		LastName:  "Voss",
	})
	if !errors.Is(err, repository.ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference from insert, got %v", err)
	}
}

func TestStudentCreateBlankReferenceOptsOut(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewStudentService(store)

	for i := 0; i < 2; i++ {
		student, err := svc.Create(context.Background(), model.StudentRequest{
			Reference: strPtr("   "),
			FirstName: "Nameless",
			LastName:  "Student",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if student.Reference != nil {
			t.Fatalf("blank reference should be stored as NULL, got %q", *student.Reference)
		}
	}
}

func TestStudentCreateInvalidBirthDate(t *testing.T) {
	svc := NewStudentService(newFakeStudentStore())

	_, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0003"),
		FirstName: "Mara",
		LastName:  "Voss",
		BirthDate: strPtr("15-01-2016"),
	})
	if err == nil {
		t.Fatal("expected parse error for malformed birth date")
	}
}

func TestStudentReferenceReusableAfterArchive(t *testing.T) {
	store := newFakeStudentStore()
	svc := NewStudentService(store)

	first, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0004"),
		FirstName: "Mara",
		LastName:  "Voss",
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
	if err := svc.Archive(context.Background(), first.ID); err != nil {
		t.Fatalf("archive failed: %v", err)
	}

	if _, err := svc.Create(context.Background(), model.StudentRequest{
		Reference: strPtr("STU-0004"),
		FirstName: "Iris",
		LastName:  "Kade",
	}); err != nil {
		t.Fatalf("archived reference should be reusable, got %v", err)
	}
}

func TestStudentArchiveUnknown(t *testing.T) {
	svc := NewStudentService(newFakeStudentStore())

	err := svc.Archive(context.Background(), 999)
	if !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}
