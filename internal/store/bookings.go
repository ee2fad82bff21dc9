package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/domain"
)

type BookingRepository interface {
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByDate(ctx context.Context, date time.Time) ([]domain.Booking, error)
	SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
