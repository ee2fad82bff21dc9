package postgres

import (
	"context"

	"github.com/uptrace/bun"
)

// The unique constraint on (date, time) enforces the single-booking-per-slot
// invariant; application code treats a violation as a conflict, not a fault.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS bookings (
	id UUID PRIMARY KEY,
	date DATE NOT NULL,
	time TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	people_count TEXT NOT NULL,
	is_recurring BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT bookings_date_time_key UNIQUE (date, time)
);

CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
`

func Migrate(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, schemaSQL)
	return err
}
