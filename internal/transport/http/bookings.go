package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"courtbook/internal/domain"
	"courtbook/internal/service/bookings"
	"courtbook/internal/store"
)

const (
	msgSlotTaken    = "此時段已被預約"
	msgFetchFailed  = "Failed to fetch bookings"
	msgCreateFailed = "Failed to create booking"
	msgBatchFailed  = "Failed to create recurring bookings"
	msgDeleteFailed = "Failed to delete booking"
	msgNotFound     = "Booking not found"
	msgDeleted      = "Booking deleted successfully"
)

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type bookingResponse struct {
	ID          uuid.UUID `json:"id"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	PeopleCount string    `json:"peopleCount"`
	IsRecurring bool      `json:"isRecurring"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:          b.ID,
		Date:        b.DateString(),
		Time:        b.Time,
		Name:        b.Name,
		Phone:       b.Phone,
		PeopleCount: b.PeopleCount,
		IsRecurring: b.IsRecurring,
		CreatedAt:   b.CreatedAt,
	}
}

// flexString accepts a JSON string or number. The booking form posts
// peopleCount as a string; some clients send a bare number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type createBookingRequest struct {
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	PeopleCount flexString `json:"peopleCount"`
	IsRecurring bool       `json:"isRecurring"`
}

func (s *Server) ListBookingsHandler(c echo.Context) error {
	log := s.log.With(slog.String("handler", "ListBookings"))

	rows, err := s.svc.List(c.Request().Context())
	if err != nil {
		log.Error("bookings list failed", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgFetchFailed})
	}

	out := make([]bookingResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, toBookingResponse(b))
	}

	log.Debug("bookings listed", slog.Int("count", len(out)))
	return c.JSON(http.StatusOK, out)
}

func (s *Server) CreateBookingHandler(c echo.Context) error {
	log := s.log.With(slog.String("handler", "CreateBooking"))

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		log.Warn("malformed request body", slog.Any("err", err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgCreateFailed})
	}

	b, err := s.svc.Create(c.Request().Context(), bookings.CreateInput{
		Date:        req.Date,
		Time:        req.Time,
		Name:        req.Name,
		Phone:       req.Phone,
		PeopleCount: string(req.PeopleCount),
		IsRecurring: req.IsRecurring,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			log.Info("booking conflict", slog.String("date", req.Date), slog.String("time", req.Time))
			return c.JSON(http.StatusConflict, errorResponse{Error: msgSlotTaken})
		}
		var vErr *bookings.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			return c.JSON(http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		}
		log.Error("booking create failed", slog.Any("err", err), slog.String("date", req.Date), slog.String("time", req.Time))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgCreateFailed})
	}

	log.Info(
		"booking created",
		slog.String("booking_id", b.ID.String()),
		slog.String("date", b.DateString()),
		slog.String("time", b.Time),
	)
	return c.JSON(http.StatusCreated, toBookingResponse(b))
}

func (s *Server) DeleteBookingHandler(c echo.Context) error {
	log := s.log.With(slog.String("handler", "DeleteBooking"))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_uuid"))
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "booking id must be a UUID"})
	}

	if err := s.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("booking not found", slog.String("booking_id", id.String()))
			return c.JSON(http.StatusNotFound, errorResponse{Error: msgNotFound})
		}
		var vErr *bookings.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err))
			return c.JSON(http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		}
		log.Error("booking delete failed", slog.Any("err", err), slog.String("booking_id", id.String()))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgDeleteFailed})
	}

	log.Info("booking deleted", slog.String("booking_id", id.String()))
	return c.JSON(http.StatusOK, messageResponse{Message: msgDeleted})
}
