package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/domain"
	"courtbook/internal/store"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	listFn       func(ctx context.Context) ([]domain.Booking, error)
	listByDateFn func(ctx context.Context, date time.Time) ([]domain.Booking, error)
	slotTakenFn  func(ctx context.Context, date time.Time, slot string) (bool, error)
	deleteFn     func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, b)
}

func (f *fakeRepo) List(ctx context.Context) ([]domain.Booking, error) {
	if f.listFn == nil {
		panic("List not configured")
	}
	return f.listFn(ctx)
}

func (f *fakeRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Booking, error) {
	if f.listByDateFn == nil {
		panic("ListByDate not configured")
	}
	return f.listByDateFn(ctx, date)
}

func (f *fakeRepo) SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error) {
	if f.slotTakenFn == nil {
		return false, nil
	}
	return f.slotTakenFn(ctx, date, slot)
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn == nil {
		panic("Delete not configured")
	}
	return f.deleteFn(ctx, id)
}

func echoCreate(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return domain.Booking{}, err
		}
		b.ID = id
	}
	return b, nil
}

func TestServiceCreate_ValidationErrorType(t *testing.T) {
	svc := NewService(&fakeRepo{createFn: echoCreate})

	_, err := svc.Create(context.Background(), CreateInput{
		Date:        "2025-11-20",
		Time:        "10:00-11:00",
		Name:        "",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "name is required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "name is required")
	}
}

func TestServiceCreate_RejectsMalformedDate(t *testing.T) {
	svc := NewService(&fakeRepo{createFn: echoCreate})

	_, err := svc.Create(context.Background(), CreateInput{
		Date:        "20-11-2025",
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestServiceCreate_TrimsFieldsAndParsesDate(t *testing.T) {
	var got domain.Booking
	svc := NewService(&fakeRepo{
		createFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			got = b
			return echoCreate(ctx, b)
		},
	})

	_, err := svc.Create(context.Background(), CreateInput{
		Date:        " 2025-11-20 ",
		Time:        " 10:00-11:00 ",
		Name:        "  A  ",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.Name != "A" || got.Time != "10:00-11:00" {
		t.Fatalf("fields not trimmed: name=%q time=%q", got.Name, got.Time)
	}
	if got.Date.Format(domain.DateLayout) != "2025-11-20" {
		t.Fatalf("date = %v, want 2025-11-20", got.Date)
	}
	if got.IsRecurring {
		t.Fatalf("single booking must not be marked recurring")
	}
}

func TestServiceCreate_TakenSlotIsConflict(t *testing.T) {
	svc := NewService(&fakeRepo{
		slotTakenFn: func(ctx context.Context, date time.Time, slot string) (bool, error) {
			return true, nil
		},
		createFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			t.Fatalf("Create must not be called when the slot is taken")
			return domain.Booking{}, nil
		},
	})

	_, err := svc.Create(context.Background(), CreateInput{
		Date:        "2025-11-20",
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want %v", err, store.ErrConflict)
	}
}

func TestServiceCreate_ConstraintConflictFromInsert(t *testing.T) {
	// Two callers can both pass the availability check; the insert then
	// surfaces the store-level conflict.
	svc := NewService(&fakeRepo{
		createFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			return domain.Booking{}, store.ErrConflict
		},
	})

	_, err := svc.Create(context.Background(), CreateInput{
		Date:        "2025-11-20",
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("error = %v, want %v", err, store.ErrConflict)
	}
}

func TestServiceDelete_PropagatesNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return store.ErrNotFound
		},
	})

	err := svc.Delete(context.Background(), uuid.MustParse("00000000-0000-0000-0000-000000000010"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, store.ErrNotFound)
	}
}

func TestServiceCreateBatch_PartialConflictKeepsOrder(t *testing.T) {
	booked := "2025-11-27"
	var inserted []domain.Booking

	svc := NewService(&fakeRepo{
		slotTakenFn: func(ctx context.Context, date time.Time, slot string) (bool, error) {
			return date.Format(domain.DateLayout) == booked, nil
		},
		createFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			out, err := echoCreate(ctx, b)
			inserted = append(inserted, out)
			return out, err
		},
	})

	res, err := svc.CreateBatch(context.Background(), BatchInput{
		Dates:       []string{"2025-11-20", "2025-11-27", "2025-12-04"},
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err != nil {
		t.Fatalf("CreateBatch error: %v", err)
	}

	if len(res.Successes) != 2 {
		t.Fatalf("successes = %d, want 2", len(res.Successes))
	}
	if len(res.Conflicts) != 1 || res.Conflicts[0] != booked {
		t.Fatalf("conflicts = %v, want [%s]", res.Conflicts, booked)
	}
	if got := res.Successes[0].DateString(); got != "2025-11-20" {
		t.Fatalf("first success date = %s, want 2025-11-20", got)
	}
	if got := res.Successes[1].DateString(); got != "2025-12-04" {
		t.Fatalf("second success date = %s, want 2025-12-04", got)
	}
	for _, b := range inserted {
		if !b.IsRecurring {
			t.Fatalf("batch insert for %s not marked recurring", b.DateString())
		}
	}
}

func TestServiceCreateBatch_AllConflictsIsNotAnError(t *testing.T) {
	dates := []string{"2025-11-20", "2025-11-27", "2025-12-04"}

	svc := NewService(&fakeRepo{
		slotTakenFn: func(ctx context.Context, date time.Time, slot string) (bool, error) {
			return true, nil
		},
	})

	res, err := svc.CreateBatch(context.Background(), BatchInput{
		Dates:       dates,
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err != nil {
		t.Fatalf("CreateBatch error: %v", err)
	}
	if len(res.Successes) != 0 {
		t.Fatalf("successes = %d, want 0", len(res.Successes))
	}
	if len(res.Conflicts) != len(dates) {
		t.Fatalf("conflicts = %d, want %d", len(res.Conflicts), len(dates))
	}
	for i, d := range dates {
		if res.Conflicts[i] != d {
			t.Fatalf("conflicts[%d] = %q, want %q", i, res.Conflicts[i], d)
		}
	}
}

func TestServiceCreateBatch_StoreFaultDoesNotAbort(t *testing.T) {
	faulty := "2025-11-27"

	svc := NewService(&fakeRepo{
		slotTakenFn: func(ctx context.Context, date time.Time, slot string) (bool, error) {
			if date.Format(domain.DateLayout) == faulty {
				return false, errors.New("connection reset")
			}
			return false, nil
		},
		createFn: echoCreate,
	})

	res, err := svc.CreateBatch(context.Background(), BatchInput{
		Dates:       []string{"2025-11-20", "2025-11-27", "2025-12-04"},
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err != nil {
		t.Fatalf("CreateBatch error: %v", err)
	}
	if len(res.Successes) != 2 {
		t.Fatalf("successes = %d, want 2", len(res.Successes))
	}
	if len(res.Failed) != 1 || res.Failed[0] != faulty {
		t.Fatalf("failed = %v, want [%s]", res.Failed, faulty)
	}
	if len(res.Conflicts) != 0 {
		t.Fatalf("conflicts = %v, want none", res.Conflicts)
	}
}

func TestServiceCreateBatch_ExpandsStartDateAndWeeks(t *testing.T) {
	var dates []string

	svc := NewService(&fakeRepo{
		createFn: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			dates = append(dates, b.DateString())
			return echoCreate(ctx, b)
		},
	})

	res, err := svc.CreateBatch(context.Background(), BatchInput{
		StartDate:   "2025-11-20",
		Weeks:       3,
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	if err != nil {
		t.Fatalf("CreateBatch error: %v", err)
	}
	if len(res.Successes) != 3 {
		t.Fatalf("successes = %d, want 3", len(res.Successes))
	}
	want := []string{"2025-11-20", "2025-11-27", "2025-12-04"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("dates[%d] = %q, want %q", i, dates[i], want[i])
		}
	}
}

func TestServiceCreateBatch_RequiresDates(t *testing.T) {
	svc := NewService(&fakeRepo{})

	_, err := svc.CreateBatch(context.Background(), BatchInput{
		Time:        "10:00-11:00",
		Name:        "A",
		Phone:       "0912345678",
		PeopleCount: "4",
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "at least one date is required" {
		t.Fatalf("error = %q", vErr.Error())
	}
}

func TestServiceDaySlots(t *testing.T) {
	svc := NewService(&fakeRepo{
		listByDateFn: func(ctx context.Context, date time.Time) ([]domain.Booking, error) {
			return []domain.Booking{
				{
					ID:   uuid.MustParse("00000000-0000-0000-0000-000000000020"),
					Date: date,
					Time: "10:00-11:00",
				},
			}, nil
		},
	})

	// 2025-11-20 is a Thursday: 15 slots.
	slots, err := svc.DaySlots(context.Background(), "2025-11-20")
	if err != nil {
		t.Fatalf("DaySlots error: %v", err)
	}
	if len(slots) != 15 {
		t.Fatalf("len(slots) = %d, want 15", len(slots))
	}

	var bookedCount int
	for _, s := range slots {
		if s.Booked {
			bookedCount++
			if s.Time != "10:00-11:00" {
				t.Fatalf("booked slot = %q, want %q", s.Time, "10:00-11:00")
			}
		}
	}
	if bookedCount != 1 {
		t.Fatalf("booked slots = %d, want 1", bookedCount)
	}
}
