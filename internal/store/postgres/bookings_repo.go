package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"courtbook/internal/domain"
	"courtbook/internal/store"
)

type BookingRepo struct {
	db *bun.DB
}

func NewBookingRepo(db *bun.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	m := domain.Booking{
		ID:          b.ID,
		Date:        b.Date,
		Time:        b.Time,
		Name:        b.Name,
		Phone:       b.Phone,
		PeopleCount: b.PeopleCount,
		IsRecurring: b.IsRecurring,
		CreatedAt:   b.CreatedAt,
	}

	_, err := r.db.NewInsert().Model(&m).Exec(ctx)
	if err != nil {
		if isSlotTakenError(err) {
			return domain.Booking{}, store.ErrConflict
		}
		return domain.Booking{}, err
	}
	return m, nil
}

// isSlotTakenError matches a unique violation on the (date, time) constraint,
// the store-level guard that closes the check-then-insert race window.
func isSlotTakenError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" && pgErr.ConstraintName == "bookings_date_time_key"
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("date ASC, time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) ListByDate(ctx context.Context, date time.Time) ([]domain.Booking, error) {
	var rows []domain.Booking
	err := r.db.NewSelect().
		Model(&rows).
		Where("date = ?", date).
		OrderExpr("time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingRepo) SlotTaken(ctx context.Context, date time.Time, slot string) (bool, error) {
	return r.db.NewSelect().
		Model((*domain.Booking)(nil)).
		Where("date = ?", date).
		Where("time = ?", slot).
		Exists(ctx)
}

func (r *BookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*domain.Booking)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
