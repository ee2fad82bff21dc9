package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsSlotTakenError(t *testing.T) {
	t.Run("unique violation on the slot constraint", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_date_time_key"}
		if !isSlotTakenError(err) {
			t.Fatalf("expected slot-taken error")
		}
	})

	t.Run("wrapped unique violation still matches", func(t *testing.T) {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "bookings_date_time_key"})
		if !isSlotTakenError(err) {
			t.Fatalf("expected slot-taken error")
		}
	})

	t.Run("unique violation on another constraint is not a conflict", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23505", ConstraintName: "bookings_pkey"}
		if isSlotTakenError(err) {
			t.Fatalf("did not expect slot-taken error")
		}
	})

	t.Run("other pg errors are not conflicts", func(t *testing.T) {
		err := &pgconn.PgError{Code: "42P01"}
		if isSlotTakenError(err) {
			t.Fatalf("did not expect slot-taken error")
		}
	})

	t.Run("non-pg errors are not conflicts", func(t *testing.T) {
		if isSlotTakenError(errors.New("connection refused")) {
			t.Fatalf("did not expect slot-taken error")
		}
	})
}
