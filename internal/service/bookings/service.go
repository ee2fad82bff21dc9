package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/domain"
	"courtbook/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Service struct {
	repo store.BookingRepository
}

func NewService(repo store.BookingRepository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Date        string
	Time        string
	Name        string
	Phone       string
	PeopleCount string
	IsRecurring bool
}

// Create books a single slot: check the slot, then insert. The unique
// constraint on (date, time) backstops the check, so a race between two
// callers still yields exactly one booking and one conflict.
func (s *Service) Create(ctx context.Context, in CreateInput) (domain.Booking, error) {
	fields, err := slotFields(in.Time, in.Name, in.Phone, in.PeopleCount)
	if err != nil {
		return domain.Booking{}, err
	}

	date, err := domain.ParseDate(strings.TrimSpace(in.Date))
	if err != nil {
		return domain.Booking{}, validationError("date must be YYYY-MM-DD")
	}

	return s.book(ctx, date, fields, in.IsRecurring)
}

func (s *Service) List(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("booking id is required")
	}
	return s.repo.Delete(ctx, id)
}

type BatchInput struct {
	Dates       []string
	StartDate   string
	Weeks       int
	Time        string
	Name        string
	Phone       string
	PeopleCount string
}

type BatchResult struct {
	Successes []domain.Booking
	Conflicts []string
	Failed    []string
}

// CreateBatch books the same slot across a list of dates, best-effort per
// date: a conflict or store fault on one date never aborts the rest. Dates
// are processed in the order given and each result list preserves that
// relative order. Zero successes is a valid outcome, not an error.
func (s *Service) CreateBatch(ctx context.Context, in BatchInput) (BatchResult, error) {
	fields, err := slotFields(in.Time, in.Name, in.Phone, in.PeopleCount)
	if err != nil {
		return BatchResult{}, err
	}

	dates := in.Dates
	if len(dates) == 0 && strings.TrimSpace(in.StartDate) != "" {
		if in.Weeks < 1 {
			return BatchResult{}, validationError("weeks must be at least 1")
		}
		dates = domain.RecurringDates(strings.TrimSpace(in.StartDate), in.Weeks)
		if len(dates) == 0 {
			return BatchResult{}, validationError("startDate must be YYYY-MM-DD")
		}
	}
	if len(dates) == 0 {
		return BatchResult{}, validationError("at least one date is required")
	}

	res := BatchResult{Successes: make([]domain.Booking, 0, len(dates))}
	for _, ds := range dates {
		ds = strings.TrimSpace(ds)
		date, err := domain.ParseDate(ds)
		if err != nil {
			res.Failed = append(res.Failed, ds)
			continue
		}

		b, err := s.book(ctx, date, fields, true)
		switch {
		case err == nil:
			res.Successes = append(res.Successes, b)
		case errors.Is(err, store.ErrConflict):
			res.Conflicts = append(res.Conflicts, ds)
		default:
			res.Failed = append(res.Failed, ds)
		}
	}

	return res, nil
}

type SlotStatus struct {
	Time   string
	Booked bool
}

// DaySlots returns every bookable slot for a date together with its current
// availability, computed from a single fetch of that date's bookings.
func (s *Service) DaySlots(ctx context.Context, date string) ([]SlotStatus, error) {
	date = strings.TrimSpace(date)
	d, err := domain.ParseDate(date)
	if err != nil {
		return nil, validationError("date must be YYYY-MM-DD")
	}

	rows, err := s.repo.ListByDate(ctx, d)
	if err != nil {
		return nil, err
	}

	slots := domain.GenerateSlots(date)
	out := make([]SlotStatus, 0, len(slots))
	for _, slot := range slots {
		out = append(out, SlotStatus{
			Time:   slot,
			Booked: domain.IsSlotBooked(rows, date, slot),
		})
	}
	return out, nil
}

type slotRequest struct {
	time        string
	name        string
	phone       string
	peopleCount string
}

func slotFields(timeLabel, name, phone, peopleCount string) (slotRequest, error) {
	fields := slotRequest{
		time:        strings.TrimSpace(timeLabel),
		name:        strings.TrimSpace(name),
		phone:       strings.TrimSpace(phone),
		peopleCount: strings.TrimSpace(peopleCount),
	}
	switch {
	case fields.time == "":
		return slotRequest{}, validationError("time is required")
	case fields.name == "":
		return slotRequest{}, validationError("name is required")
	case fields.phone == "":
		return slotRequest{}, validationError("phone is required")
	case fields.peopleCount == "":
		return slotRequest{}, validationError("peopleCount is required")
	}
	return fields, nil
}

func (s *Service) book(ctx context.Context, date time.Time, fields slotRequest, isRecurring bool) (domain.Booking, error) {
	taken, err := s.repo.SlotTaken(ctx, date, fields.time)
	if err != nil {
		return domain.Booking{}, err
	}
	if taken {
		return domain.Booking{}, store.ErrConflict
	}

	return s.repo.Create(ctx, domain.Booking{
		Date:        date,
		Time:        fields.time,
		Name:        fields.name,
		Phone:       fields.phone,
		PeopleCount: fields.peopleCount,
		IsRecurring: isRecurring,
	})
}
