package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Date        time.Time `bun:"date,notnull,type:date"`
	Time        string    `bun:"time,notnull"`
	Name        string    `bun:"name,notnull"`
	Phone       string    `bun:"phone,notnull"`
	PeopleCount string    `bun:"people_count,notnull"`
	IsRecurring bool      `bun:"is_recurring,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (b *Booking) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if b.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			b.ID = id
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now().UTC()
		}
	}
	return nil
}

// DateString renders the booking date as YYYY-MM-DD. The date column is a
// plain DATE but drivers may scan it back as a midnight timestamp, so the
// time component is dropped here.
func (b *Booking) DateString() string {
	return b.Date.UTC().Format(DateLayout)
}
