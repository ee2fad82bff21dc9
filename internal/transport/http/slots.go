package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"courtbook/internal/service/bookings"
)

type slotResponse struct {
	Time   string `json:"time"`
	Booked bool   `json:"booked"`
}

type daySlotsResponse struct {
	Date  string         `json:"date"`
	Slots []slotResponse `json:"slots"`
}

func (s *Server) ListSlotsHandler(c echo.Context) error {
	log := s.log.With(slog.String("handler", "ListSlots"))

	date := c.QueryParam("date")
	if date == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "date is required"})
	}

	slots, err := s.svc.DaySlots(c.Request().Context(), date)
	if err != nil {
		var vErr *bookings.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("date", date))
			return c.JSON(http.StatusBadRequest, errorResponse{Error: vErr.Error()})
		}
		log.Error("slots list failed", slog.Any("err", err), slog.String("date", date))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: msgFetchFailed})
	}

	out := make([]slotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotResponse{Time: slot.Time, Booked: slot.Booked})
	}

	log.Debug("slots listed", slog.String("date", date), slog.Int("count", len(out)))
	return c.JSON(http.StatusOK, daySlotsResponse{Date: date, Slots: out})
}
